// Package prompt renders the fixed instruction document sent to the model.
// The builder is pure: identical inputs produce a byte-identical document,
// with no clocks, maps-in-order issues, or other hidden state.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"voicespec/internal/evidence"
)

// Input is everything the template interpolates.
type Input struct {
	Blocks      []evidence.EvidenceBlock
	Report      string // assembled status report, already ordered
	Notes       string
	Constraints string
	Language    Language
}

const (
	rolePreamble = `You are a voice, style, and values analyzer. Your task: from the sample texts (and, where necessary, your reading of attached images) distill the author's Persona and an executable writing specification (Voice Spec), and emit a VOICE CONTEXT block that can be pasted directly into another project.`

	noEvidencePlaceholder = `(No extractable text is currently available. State this gap first, then produce a clearly-labeled low-confidence spec within what can be inferred, and ask for more samples or key passages.)`

	noConstraintsPlaceholder = "(none)"
	noNotesPlaceholder       = "(not provided)"

	outputSchema = `A) Persona Brief (readable)
- Author worldview in one sentence:
- Stance toward the reader (above / alongside / challenging / conversational):
- Core beliefs and values (3-7 items, phrased as sentences):
- Motivation boundaries (why they write, what they refuse to do):
- Permitted ambiguity (what may stay unsettled):
- Forbidden phrases and moves (with reasons):

B) Voice Spec (executable)
- tone_mix (%): detached __ / sharp __ / humorous __ / warm __
- sentence_rhythm: short-sentence ratio __%; __-__ lines per paragraph; pivot frequency __
- stance_rules: how conclusions land / what stays open / how questions are turned back
- lexical_rules: favored words / avoided words / banned words
- structure_rules: habitual reasoning order (e.g. phenomenon -> contrast -> inference -> options)
- do_not: absolute prohibitions
- sample_lines (<=5 lines, each <=25 characters, for imitation, never quoted from the source):

C) VOICE CONTEXT ready to paste (wrap it in one Markdown code block)
It must look like this, with every slot filled:
=== [VOICE CONTEXT | EDITABLE] ===
[PERSONA LOG]
...
[VOICE SPEC]
...
=== [/VOICE CONTEXT] ===

D) Quick acceptance checklist (so an editor can judge the likeness fast)
- 3 signals that it sounds like the author
- 3 warnings that it does not`
)

// Build renders the instruction document. Section order is fixed: role,
// numbered rules, attachment status, output schema, constraints, evidence
// blocks in assembly order, notes.
func Build(in Input) string {
	var buf bytes.Buffer

	buf.WriteString(rolePreamble)
	buf.WriteString("\n\n")

	writeSection(&buf, "RULES", formatRules([]string{
		"Extractable-text files are the evidence layer: infer voice traits, syntax, stance, and cadence only from them; never invent author background.",
		"Image files are also evidence: you may infer from text, layout, and register visible in the image, never from what you cannot see.",
		"The user's notes are the context-calibration layer: they may supplement the author's positioning and values; when they conflict with the evidence layer, say so and give two versions (V-A: evidence wins; V-B: notes win).",
		"Spreadsheet digests are weaker stylistic evidence: naming and phrasing habits only, not prose rhythm.",
		"Never quote more than 25 consecutive characters from any sample; no bulk copying.",
		"Your output must be executable: another model following the spec should imitate the voice stably.",
		in.Language.Directive(),
	}))

	writeSection(&buf, "ATTACHMENT STATUS (use it to weigh evidence strength)", in.Report)
	writeSection(&buf, "OUTPUT FORMAT (strict)", outputSchema)
	writeSection(&buf, "EXTRA CONSTRAINTS / PREFERENCES (binding if present)", orPlaceholder(in.Constraints, noConstraintsPlaceholder))
	writeSection(&buf, "SAMPLE TEXTS (evidence layer)", samplesSection(in.Blocks))
	writeSection(&buf, "MY NOTES (context-calibration layer)", orPlaceholder(in.Notes, noNotesPlaceholder))

	return strings.TrimSpace(buf.String()) + "\n"
}

func writeSection(buf *bytes.Buffer, title, body string) {
	buf.WriteString("[" + title + "]\n")
	buf.WriteString(strings.TrimSpace(body))
	buf.WriteString("\n\n")
}

func formatRules(rules []string) string {
	var b strings.Builder
	for i, r := range rules {
		fmt.Fprintf(&b, "%d) %s\n", i+1, r)
	}
	return b.String()
}

func samplesSection(blocks []evidence.EvidenceBlock) string {
	if len(blocks) == 0 {
		return noEvidencePlaceholder
	}
	fenced := make([]string, len(blocks))
	for i, b := range blocks {
		fenced[i] = b.Fence()
	}
	return strings.Join(fenced, "\n\n")
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return strings.TrimSpace(s)
}
