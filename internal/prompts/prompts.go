// Package prompts holds the rewriting instructions sent with every model
// call. Prompt bodies are opaque configuration: the pipeline never
// inspects them.
package prompts

import "sort"

// Profile pairs the text-rewriting prompt with the vision prompt used for
// the same kind of document.
type Profile struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TextPrompt   string `json:"-"`
	VisionPrompt string `json:"-"`
}

// DefaultProfile is used when a job does not name one.
const DefaultProfile = "clinical"

const clinicalTextPrompt = `Convert the text in full, with no omissions, into a flowing, detailed narrative suitable for an audiobook. Incorporate every technical and conceptual detail, including definitions, numeric values and specific findings, into a clear and formal story. Use short sentences of at most twenty words. Keep the result close to ninety percent of the original length while preserving complete fidelity to the content. Give priority to quantitative and technical precision.

For classifications and definitions, group and rank concepts using only what the text provides. For mechanisms, proceed step by step from basic to advanced in narrative form. For diagnostic content, state symptoms and signs plainly and focus on what is typical or pathognomonic. For treatments, narrate doses, titration and side-effect management exactly as specified, without adding information. For tables, say 'table' followed by its number and narrate its contents as a prose section.

Avoid childish comparisons, generic filler, meta commentary, references, bullets, numbering, hyphenated lists, hashtags, bold and italics. The output must be continuous, well connected prose divided into paragraphs, as if someone were speaking.`

const clinicalVisionPrompt = `Turn each image into a detailed technical narrative for a formal audiobook. Use specialist language, short sentences and flowing paragraphs without markers. Focus on the biological or pathological processes shown, explaining them sequentially with precise nomenclature while staying faithful to the content.

Avoid visual metadata, personal interpretation and phrases such as 'the image shows'. Maintain scientific precision, detail molecular and cellular mechanisms, pathological changes and their clinical implications. Explain all of the content thoroughly, as a lecture of at least five lines per image.`

const scriptureTextPrompt = `Identify whether the text is scripture, a psalm or catechism material, then transform it into a flowing narrative faithful to the original, removing numbering, verse markers and citations that would interrupt an audiobook. Before and after each chapter or section, add a reflection of at most ten lines that gives historical context, introduces the people and places involved, explains symbols and actions, and relates the passage to daily life.

Keep the full text intact between the reflections, with nothing skipped or truncated. The reflections must quote short passages, explain their meaning and close with thoughtful questions. Never use bullets, numbering, hyphens for items or any other list formatting; the result is continuous prose.`

const scriptureVisionPrompt = `Turn the image into a detailed narrative for a formal audiobook. Identify whether it contains biblical, liturgical or catechetical elements and describe it in respectful, contemplative language that preserves its theological and symbolic meaning.

Avoid purely visual details, metadata and phrases such as 'the image shows'. For biblical illustrations, set the scene and identify each figure and their spiritual significance. For tables or inscriptions, narrate the content faithfully and connect it to the wider tradition.`

var profiles = map[string]Profile{
	"clinical": {
		Name:         "clinical",
		Description:  "Technical long-form texts: medicine, science, dense reference material",
		TextPrompt:   clinicalTextPrompt,
		VisionPrompt: clinicalVisionPrompt,
	},
	"scripture": {
		Name:         "scripture",
		Description:  "Religious texts: scripture, psalms, catechism",
		TextPrompt:   scriptureTextPrompt,
		VisionPrompt: scriptureVisionPrompt,
	},
}

// Get returns the named profile, falling back to the default for unknown
// names.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[DefaultProfile]
}

// Exists reports whether name is a known profile.
func Exists(name string) bool {
	_, ok := profiles[name]
	return ok
}

// List returns all profiles sorted by name.
func List() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
