// Package detect implements the utterance-level classification engine:
// speaker attribution, pattern detection and per-conversation trend windows.
package detect

import (
	"strings"

	"github.com/tetraminz/sales_coach/internal/lexicon"
	"github.com/tetraminz/sales_coach/internal/model"
)

const (
	// Utterances shorter than this carry too little signal to classify.
	minClassifiableLen = 10

	// Below this share of the total cue score the classifier keeps the
	// previous speaker instead of flapping on an ambiguous utterance.
	speakerHysteresis = 0.6
)

// ClassifySpeaker attributes an utterance to rep or prospect from lexical
// cues. previous is the prior turn's speaker, or "" when unknown. The
// function is total: it always returns a valid role.
func ClassifySpeaker(text string, previous model.Role) model.Role {
	clean := strings.ToLower(strings.TrimSpace(text))

	if len(clean) < minClassifiableLen {
		return fallbackRole(previous)
	}

	repScore := 0
	prospectScore := 0
	for _, cue := range lexicon.RepCues() {
		repScore += len(cue.FindAllString(clean, -1))
	}
	for _, cue := range lexicon.ProspectCues() {
		prospectScore += len(cue.FindAllString(clean, -1))
	}

	if strings.Contains(clean, "?") {
		repScore += 2
	}
	if strings.HasPrefix(clean, "we ") || strings.HasPrefix(clean, "our ") {
		prospectScore += 2
	}
	if strings.Contains(clean, "thanks for") || strings.Contains(clean, "appreciate") {
		repScore++
	}
	if strings.Contains(clean, "struggling") || strings.Contains(clean, "problem") {
		prospectScore += 2
	}

	total := repScore + prospectScore
	if total == 0 {
		return fallbackRole(previous)
	}

	confidence := float64(max(repScore, prospectScore)) / float64(total)
	if confidence < speakerHysteresis && previous != "" {
		return previous
	}

	if repScore >= prospectScore {
		return model.RoleRep
	}
	return model.RoleProspect
}

func fallbackRole(previous model.Role) model.Role {
	if previous != "" {
		return previous
	}
	return model.RoleRep
}
