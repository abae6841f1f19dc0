// Package composer turns a user's profile, recent check-ins and conversation
// into the single prompt string sent to the text-generation endpoint.
package composer

import (
	"strings"

	"github.com/kalambet/helene/internal/health"
)

// AssistantName is the persona name used as the reply cue.
const AssistantName = "Hélène"

// SystemPrompt is the fixed instruction block placed first in every live
// prompt. It is not configurable.
const SystemPrompt = `You are Hélène, a warm, evidence-informed companion supporting people through perimenopause and menopause.

LANGUAGE (IMPORTANT)
- Always reply in the language of the user's most recent message.
- If it's unclear, use the language specified in the user context.

STYLE (IMPORTANT)
- Be conversational and not overly verbose.
- Default length: 2–6 sentences.
- Use bullet points only when helpful (max 4 bullets).
- Do not add background information the user didn't ask for.
- Ask at most ONE follow-up question.
- Avoid emojis unless the user uses them first.

SAFETY & LIMITS
- No diagnosis.
- No prescriptions or medication instructions.
- Offer general options and “things to discuss with a clinician”.
- If symptoms sound urgent/severe (e.g., chest pain, severe shortness of breath, suicidal thoughts, heavy bleeding), advise urgent medical care.

PRIVACY
- Don't ask for identifying information (full name, address, etc.).
- Do not repeat the internal context block verbatim.
`

const historyHeading = "\n\nRecent conversation:\n"

// Assemble concatenates the system prompt, the context block, the recent
// turns and the new message, ending with the assistant cue. The result is
// never truncated.
func Assemble(system, contextBlock string, history []health.Turn, message string) string {
	var sb strings.Builder
	sb.WriteString(system)
	sb.WriteString("\n\n")
	sb.WriteString(contextBlock)

	if len(history) > 0 {
		sb.WriteString(historyHeading)
		for i, t := range history {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(speaker(t.Role))
			sb.WriteString(": ")
			sb.WriteString(t.Content)
		}
	}

	sb.WriteString("\n\nUser: ")
	sb.WriteString(message)
	sb.WriteString("\n\n")
	sb.WriteString(AssistantName)
	sb.WriteByte(':')
	return sb.String()
}

func speaker(r health.Role) string {
	if r == health.RoleUser {
		return "User"
	}
	return AssistantName
}

// EstimateTokens provides a rough token count using 4 chars per token heuristic.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
