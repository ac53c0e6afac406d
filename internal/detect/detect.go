// Package detect scores a conversation for scam likelihood using fixed
// keyword and regex indicators. It is deterministic and makes no external
// calls; the whole history is re-scored on every inbound message.
package detect

import (
	"regexp"
	"strings"
)

// scamKeywords each count once per message text that contains them.
var scamKeywords = []string{
	"urgent", "blocked", "verify", "otp", "upi", "kyc", "payment", "link",
	"suspend", "expire", "immediately", "click", "account", "bank", "transfer",
	"prize", "winner", "lottery", "refund", "update", "confirm", "credentials",
}

var scamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`click\s+(here|this|the\s+link)`),
	regexp.MustCompile(`(verify|confirm)\s+(your\s+)?(account|identity|details)`),
	regexp.MustCompile(`(send|share)\s+(your\s+)?(otp|pin|password)`),
	regexp.MustCompile(`(urgent|immediate)\s+(action|attention)`),
	regexp.MustCompile(`account\s+(blocked|suspended|locked)`),
	regexp.MustCompile(`(upi|bank)\s+(id|pin|transfer)`),
	regexp.MustCompile(`(kyc|verification)\s+(pending|required|expired)`),
	regexp.MustCompile(`(won|winner|prize|lottery)`),
}

// Thresholds for the decision rule.
const (
	keywordThreshold = 3
	patternThreshold = 1
)

// Detect reports whether the message contents, taken together, look like a
// scam conversation: at least 3 keyword hits or 1 pattern match across all
// messages. An empty set is never a scam.
func Detect(contents []string) bool {
	if len(contents) == 0 {
		return false
	}

	keywordHits := 0
	patternHits := 0
	for _, content := range contents {
		normalized := normalize(content)
		keywordHits += countKeywords(normalized)
		patternHits += countPatterns(normalized)
	}
	return keywordHits >= keywordThreshold || patternHits >= patternThreshold
}

func normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

// countKeywords counts how many distinct keywords appear in text.
func countKeywords(text string) int {
	n := 0
	for _, kw := range scamKeywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// countPatterns counts how many patterns match text (each at most once).
func countPatterns(text string) int {
	n := 0
	for _, p := range scamPatterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}
