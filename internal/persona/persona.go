// Package persona produces the honeypot's human-sounding replies. The
// persona is Rahul: polite, curious, not tech savvy, and slow to
// understand, which keeps a scammer talking.
package persona

import (
	"math/rand"

	"github.com/sujalkumar04/agentic-honeypot/internal/session"
)

// Stage is a coarse conversation-progress bucket derived from message
// count. It drives which reply pool is used.
type Stage string

const (
	StageInitial  Stage = "initial"
	StageConfused Stage = "confused"
	StageCurious  Stage = "curious"
	StageStalling Stage = "stalling"
	StageDetails  Stage = "details"
)

// StageFor derives the stage from how many messages the conversation holds.
// Kept as a pure function of the count so it cannot drift from the stored
// history.
func StageFor(messageCount int) Stage {
	switch {
	case messageCount <= 2:
		return StageInitial
	case messageCount <= 4:
		return StageConfused
	case messageCount <= 6:
		return StageCurious
	case messageCount <= 8:
		return StageStalling
	default:
		return StageDetails
	}
}

var genericReplies = []string{
	"Hello! How can I help you?",
	"Thank you for reaching out.",
	"I understand, please go ahead.",
	"Okay, tell me more.",
	"Sure, I'm listening.",
}

var engagementReplies = map[Stage][]string{
	StageInitial: {
		"Oh hello ji, who is this speaking?",
		"Yes yes, I am Rahul. What happened?",
		"Haan ji, I am here. What is the matter?",
	},
	StageConfused: {
		"Sorry, I didn't understand properly. Can you explain again?",
		"Arey, my phone network is weak. What did you say?",
		"Wait wait, I am not getting. What is this about?",
		"Haan? What is this OTP thing you are saying?",
		"I am not understanding technical things. Please explain simply.",
	},
	StageCurious: {
		"But why do you need this information?",
		"Who gave you my number?",
		"Which bank are you calling from exactly?",
		"What is your name and employee ID?",
		"Can you tell me your office address?",
	},
	StageStalling: {
		"One minute, let me find my glasses first.",
		"Wait, someone is at the door. Give me 2 minutes.",
		"Hold on, I need to check my phone properly.",
		"My son knows these things better. Should I call him?",
		"Let me write this down. Please speak slowly.",
	},
	StageDetails: {
		"What is the exact amount you are saying?",
		"From which branch are you calling?",
		"What is the reference number for this?",
		"Can you send me this in writing on WhatsApp?",
		"What is your supervisor's name?",
	},
}

// Generator selects persona replies. Randomness is injectable so tests can
// make selection deterministic.
type Generator struct {
	randInt func(n int) int
}

// NewGenerator returns a Generator using the default randomness source.
func NewGenerator() *Generator {
	return &Generator{randInt: rand.Intn}
}

// NewGeneratorWithRand returns a Generator using randInt, which must return
// a value in [0, n).
func NewGeneratorWithRand(randInt func(n int) int) *Generator {
	return &Generator{randInt: randInt}
}

// Reply picks the next persona reply for the conversation. When no scam is
// detected it draws from the generic polite pool; otherwise it draws from
// the stage pool, skipping templates the persona already used in this
// history, and falls back to the full stage pool once exhausted.
func (g *Generator) Reply(history []session.Message, scamDetected bool) string {
	if !scamDetected {
		return g.pick(genericReplies, history)
	}
	stage := StageFor(len(history))
	pool, ok := engagementReplies[stage]
	if !ok {
		pool = engagementReplies[StageConfused]
	}
	return g.pick(pool, history)
}

// pick selects uniformly among pool entries not yet used as assistant
// messages; if every entry was used, it selects from the whole pool.
func (g *Generator) pick(pool []string, history []session.Message) string {
	used := make(map[string]bool)
	for _, m := range history {
		if m.Role == "assistant" {
			used[m.Content] = true
		}
	}
	available := make([]string, 0, len(pool))
	for _, r := range pool {
		if !used[r] {
			available = append(available, r)
		}
	}
	if len(available) == 0 {
		available = pool
	}
	return available[g.randInt(len(available))]
}
