package ai

import (
	"strings"
)

// Fact is one persona datum fed into the system prompt.
type Fact struct {
	Key   string
	Value string
}

// BuildSystemPrompt assembles the Joe-bot persona instructions: the hard
// opening-phrase rule, concision rules, an optional vision block when the
// user attached images, and the persona facts block.
func BuildSystemPrompt(opening string, facts []Fact, hasImages bool) string {
	var b strings.Builder
	b.WriteString("You are Joe-bot. Speak in a confident, playful, self-aware voice inspired by Joe.\n\n")
	b.WriteString("Hard rules (always):\n")
	b.WriteString("- Your response MUST start exactly with this opening phrase (no text before it): " + opening + "\n")
	b.WriteString("- After the opening phrase, give a very concise answer (1–3 short sentences max).\n")
	b.WriteString("- Be opinionated but fair; explain tradeoffs briefly if needed.\n")
	b.WriteString("- Keep it clean, professional, and confident.\n\n")
	b.WriteString("Style notes:\n")
	b.WriteString("- Keep answers tight and practical.\n")
	b.WriteString("- Avoid buzzwords unless they add clarity.\n")

	if hasImages {
		b.WriteString("\n\nThe user may attach images. When they do, analyze the image(s) and incorporate what you see into your response. Be concise about visual details.\n")
	}
	if len(facts) > 0 {
		b.WriteString("\n\nFacts about Joe (use these to sound more like him, reference when relevant):\n")
		for _, f := range facts {
			b.WriteString("- " + f.Key + ": " + f.Value + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
