package council

import (
	"fmt"
	"strings"

	"council-chamber/internal/model/council"
	"council-chamber/internal/model/persona"
)

// Prompt composition for each turn kind. The persona fragment travels as
// the system prompt; the framing instruction as the user prompt.

func openingPrompt(p persona.Persona, topic string) (system, user string) {
	return p.Fragment, fmt.Sprintf(
		"The Council convenes to discuss: %s\n\nProvide a brief opening statement framing the discussion for the Council.",
		topic,
	)
}

func contributionPrompt(p persona.Persona, topic, opening string) (system, user string) {
	return p.Fragment, fmt.Sprintf(
		"The Council is discussing: %s\n\nSpeaker's opening: %s\n\nProvide your perspective on this matter. Keep your response concise (2-3 sentences).",
		topic, opening,
	)
}

func synthesisPrompt(p persona.Persona, topic, opening string, contributions []council.Message) (system, user string) {
	blocks := make([]string, 0, len(contributions))
	for _, msg := range contributions {
		blocks = append(blocks, fmt.Sprintf("%s: %s", msg.Councilor, msg.Content))
	}
	return p.Fragment, fmt.Sprintf(
		"The Council has discussed: %s\n\nOpening statement: %s\n\nCouncil contributions:\n%s\n\nProvide a synthesis of the Council's deliberation and a recommendation.",
		topic, opening, strings.Join(blocks, "\n\n"),
	)
}

func inquiryPrompt(p persona.Persona, question string) (system, user string) {
	return p.Fragment, fmt.Sprintf(
		"You are addressing the Council with the following inquiry:\n\n%s\n\nProvide a thoughtful response based on your perspective.",
		question,
	)
}
