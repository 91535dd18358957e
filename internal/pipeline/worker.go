package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dcunha/narravox/internal/config"
	"github.com/dcunha/narravox/internal/errdefs"
	"github.com/dcunha/narravox/internal/extract"
	"github.com/dcunha/narravox/internal/llm"
	"github.com/dcunha/narravox/internal/narrate"
	"github.com/dcunha/narravox/internal/prompts"
	"github.com/dcunha/narravox/internal/store"
	"github.com/dcunha/narravox/internal/tts"
)

// Worker processes a single narration job.
type Worker struct {
	client *llm.Client
	store  *store.Store
	log    *slog.Logger
	cfg    config.Config
}

func NewWorker(client *llm.Client, st *store.Store, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		client: client,
		store:  st,
		log:    log,
		cfg:    cfg,
	}
}

// Process runs the full narration pipeline for a job. Chunk failures are
// contained as inline markers; an image description failure degrades the
// job to partial; a speech failure after the text artifact is stored also
// degrades to partial rather than failing the whole job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	hadErrors := false

	// Phase 1: extract document text and images.
	job.SetStatus(StatusExtracting, "extracting")
	ex, err := extract.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	doc, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.ReleaseFileData()

	title := job.Title
	if title == "" {
		title = doc.Title
	}
	job.SetMeta(title, ContentHashHex([]byte(doc.Text)))
	job.SetImagesTotal(len(doc.Images))
	log.Info("document extracted", "chars", len(doc.Text), "images", len(doc.Images))

	profile := prompts.Get(job.PromptProfile)

	// Phase 2: rewrite text chunk by chunk.
	job.SetStatus(StatusNarrating, "narrating")
	var narrative string
	res, err := narrate.ProcessAll(ctx, w.client, job.Target, profile.TextPrompt, doc.Text, job.ChunkWords, func(current, total int, message string) {
		job.SetProgress(current, total, message)
	})
	switch {
	case err == nil:
		narrative = res.Text
		if len(res.ChunkErrors) > 0 {
			hadErrors = true
			job.AddChunkFailures(len(res.ChunkErrors))
			for _, ce := range res.ChunkErrors {
				job.AddError(fmt.Sprintf("chunk %d: %s", ce.Index, ce.Message))
			}
		}
	case errdefs.IsValidation(err) && len(doc.Images) > 0:
		// No narratable text but the document still has images to
		// describe. Keep going with an empty narrative.
		log.Info("no text to narrate, continuing with images only")
	default:
		log.Error("narration failed", "error", err)
		job.AddError(fmt.Sprintf("narrate: %s", err))
		job.SetStatus(StatusFailed, "narrating")
		return
	}

	// Phase 3: describe images, appended after the narrative.
	if len(doc.Images) > 0 {
		job.SetStatus(StatusDescribingImages, "describing_images")
		visionTarget := llm.Target{
			Provider:         llm.ProviderNative,
			Model:            w.cfg.VisionModel,
			ExtendedThinking: job.Target.ExtendedThinking,
			ThinkingBudget:   w.cfg.ThinkingBudgetTokens,
		}
		desc, err := w.client.DescribeImages(ctx, visionTarget, profile.VisionPrompt, doc.Images, func(_, _ int, message string) {
			job.SetImageProgress(0, len(doc.Images), message)
		})
		if err != nil {
			// The narrative is still worth keeping; mark the gap inline.
			log.Error("image description failed", "error", err, "images", len(doc.Images))
			job.AddError(fmt.Sprintf("images: %s", err))
			hadErrors = true
			desc = fmt.Sprintf("[image description failed: %s]", err)
		} else {
			job.SetImageProgress(len(doc.Images), len(doc.Images), "image description complete")
		}
		if narrative != "" {
			narrative += "\n\n" + desc
		} else {
			narrative = desc
		}
	}

	// Phase 4: store the narrative text artifact.
	textName := job.ID + ".txt"
	if err := w.store.Save(textName, []byte(narrative)); err != nil {
		log.Error("text artifact save failed", "error", err)
		job.AddError(fmt.Sprintf("save text: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	job.SetArtifacts(textName, "")

	// Phase 5: synthesize speech when requested.
	if job.WantAudio {
		job.SetStatus(StatusSynthesizing, "synthesizing")
		audio, err := w.synthesize(ctx, job, narrative)
		if err != nil {
			log.Error("speech synthesis failed", "error", err)
			job.AddError(fmt.Sprintf("speech: %s", err))
			job.SetStatus(StatusPartial, "done")
			return
		}

		audioName := job.ID + ".mp3"
		if err := w.store.Save(audioName, audio); err != nil {
			log.Error("audio artifact save failed", "error", err)
			job.AddError(fmt.Sprintf("save audio: %s", err))
			job.SetStatus(StatusPartial, "done")
			return
		}
		job.SetAudioBytes(len(audio))
		job.SetArtifacts("", audioName)
		log.Info("audio synthesized", "bytes", len(audio))
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("job finished", "status", job.Status)
}

func (w *Worker) synthesize(ctx context.Context, job *Job, narrative string) ([]byte, error) {
	speaker, err := w.speakerFor(job)
	if err != nil {
		return nil, err
	}
	syn := tts.NewSynthesizer(speaker, w.cfg.TTSChunkChars)
	return syn.Synthesize(ctx, narrative, func(current, total int, message string) {
		job.SetProgress(current, total, message)
	})
}

func (w *Worker) speakerFor(job *Job) (tts.Speaker, error) {
	switch job.SpeechProvider {
	case "elevenlabs":
		voice := job.SpeechVoice
		if voice == "" {
			voice = w.cfg.ElevenLabsVoiceID
		}
		return tts.NewElevenLabsSpeaker(w.cfg.ElevenLabsAPIKey, voice, job.SpeechModel, nil)
	case "", "openai":
		return tts.NewOpenAISpeaker(w.cfg.OpenAIAPIKey, job.SpeechModel, job.SpeechVoice)
	default:
		return nil, errdefs.Validationf("unknown speech provider: %s", job.SpeechProvider)
	}
}
