package persona

import (
	"testing"

	"github.com/sujalkumar04/agentic-honeypot/internal/session"
)

func history(n int) []session.Message {
	msgs := make([]session.Message, n)
	for i := range msgs {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs[i] = session.Message{Role: role, Content: ""}
	}
	return msgs
}

func TestStageFor(t *testing.T) {
	cases := map[int]Stage{
		0:  StageInitial,
		2:  StageInitial,
		3:  StageConfused,
		4:  StageConfused,
		6:  StageCurious,
		8:  StageStalling,
		9:  StageDetails,
		10: StageDetails,
		25: StageDetails,
	}
	for count, want := range cases {
		if got := StageFor(count); got != want {
			t.Errorf("StageFor(%d) = %q, want %q", count, got, want)
		}
	}
}

func TestGenericReplyWhenNoScam(t *testing.T) {
	g := NewGeneratorWithRand(func(n int) int { return 0 })
	reply := g.Reply(history(12), false)
	found := false
	for _, r := range genericReplies {
		if r == reply {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a generic reply, got %q", reply)
	}
}

func TestStageReplyWhenScam(t *testing.T) {
	g := NewGeneratorWithRand(func(n int) int { return 0 })
	reply := g.Reply(history(6), true)
	found := false
	for _, r := range engagementReplies[StageCurious] {
		if r == reply {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a curious-stage reply, got %q", reply)
	}
}

func TestUsedRepliesExcluded(t *testing.T) {
	pool := engagementReplies[StageInitial]
	hist := []session.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: pool[0]},
	}
	g := NewGeneratorWithRand(func(n int) int { return 0 })
	reply := g.Reply(hist, true)
	if reply == pool[0] {
		t.Errorf("reply %q was already used and should be excluded", reply)
	}
}

func TestExhaustedPoolFallsBackToFull(t *testing.T) {
	pool := engagementReplies[StageInitial]
	var hist []session.Message
	for _, r := range pool {
		hist = append(hist, session.Message{Role: "assistant", Content: r})
	}

	g := NewGeneratorWithRand(func(n int) int { return 0 })
	reply := g.pick(pool, hist)
	if reply != pool[0] {
		t.Errorf("exhausted pool should fall back to the full pool, got %q", reply)
	}
}

func TestScammerRepeatOfTemplateDoesNotExclude(t *testing.T) {
	// Only assistant usage excludes a template; a scammer echoing the
	// persona's words does not.
	pool := engagementReplies[StageInitial]
	hist := []session.Message{{Role: "user", Content: pool[0]}}
	g := NewGeneratorWithRand(func(n int) int { return 0 })
	reply := g.Reply(hist, true)
	if reply != pool[0] {
		t.Errorf("user-role content should not count as used, got %q", reply)
	}
}

func TestRandomnessIsInjectable(t *testing.T) {
	g0 := NewGeneratorWithRand(func(n int) int { return 0 })
	g1 := NewGeneratorWithRand(func(n int) int { return n - 1 })
	h := history(2)
	if g0.Reply(h, true) == g1.Reply(h, true) {
		t.Error("expected different picks from different randomness")
	}
}
