package llm

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/dcunha/narravox/internal/imaging"
)

// Thinking traces ride along in the returned text between these markers so
// downstream consumers can strip them deterministically.
const (
	ThinkingOpen  = "\n\n--- EXTENDED THINKING ---\n"
	ThinkingClose = "\n--- END EXTENDED THINKING ---\n\n"
)

const (
	visionMaxTokens         = 1024
	visionThinkingMaxTokens = 4000
)

// ProgressFunc receives synchronous status notifications between steps.
type ProgressFunc func(current, total int, message string)

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

// DescribeImages sends every image plus the prompt in a single vision
// request and returns the narrative description. Each image is resized to
// the model's maximum edge, PNG-encoded and labeled "Image N:"; the prompt
// rides last. Because the whole batch goes in one call, total payload is
// bounded by the model's input limit and exceeding it surfaces as an
// UpstreamError from the provider. If the response carries an extended
// thinking block it is appended between ThinkingOpen/ThinkingClose, never
// silently dropped. Failures propagate; containment is the caller's call.
func (c *Client) DescribeImages(ctx context.Context, target Target, prompt string, images []image.Image, progress ProgressFunc) (string, error) {
	if len(images) == 0 {
		return "", nil
	}

	content := make([]anthropicBlock, 0, len(images)*2+1)
	for i, img := range images {
		resized := imaging.FitMaxEdge(img, imaging.MaxEdge)
		data, err := imaging.EncodePNGBase64(resized)
		if err != nil {
			return "", fmt.Errorf("image %d: %w", i+1, err)
		}
		content = append(content, anthropicBlock{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: "image/png",
				Data:      data,
			},
		})
		content = append(content, anthropicBlock{
			Type: "text",
			Text: fmt.Sprintf("Image %d:", i+1),
		})
	}
	content = append(content, anthropicBlock{Type: "text", Text: prompt})

	req := anthropicRequest{
		Model:     target.Model,
		MaxTokens: visionMaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: content},
		},
	}
	if target.ExtendedThinking {
		req.MaxTokens = visionThinkingMaxTokens
		req.Temperature = invokeTemperature
		req.Thinking = &anthropicThinking{
			Type:         "enabled",
			BudgetTokens: target.ThinkingBudget,
		}
	}

	if progress != nil {
		msg := fmt.Sprintf("describing %d images in one vision call", len(images))
		if target.ExtendedThinking {
			msg += " with extended thinking"
		}
		progress(1, 1, msg)
	}

	start := time.Now()
	resp, err := c.doAnthropic(ctx, req)
	if err != nil {
		return "", err
	}
	c.stats.Record(time.Since(start).Milliseconds())

	var text, thinking strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "thinking":
			thinking.WriteString(block.Thinking)
		}
	}

	out := text.String()
	if thinking.Len() > 0 {
		if progress != nil {
			progress(1, 1, "extended thinking trace included in the description")
		}
		out += ThinkingOpen + thinking.String() + ThinkingClose
	}
	return out, nil
}
