// Package detect holds the output heuristics the automation driver uses to
// classify external tool runs: rate-limit detection and stuck detection.
//
// Both are substring checks over free text. The external tool offers no
// structured status channel, so false positives and negatives are possible;
// the driver bounds the damage with its retry ceiling.
package detect

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// rateLimitPhrases halt the entire run when seen in tool output.
var rateLimitPhrases = []string{
	"rate limit",
	"rate-limit",
	"usage limit",
	"quota exceeded",
	"capacity constraints",
	"overloaded_error",
	"too many requests",
}

// loopingPhrases suggest the tool is apologizing or circling without
// doing work.
var loopingPhrases = []string{
	"i apologize",
	"i'm sorry",
	"as i mentioned",
	"as mentioned before",
	"let me try again",
	"i'm unable to",
	"i cannot proceed",
}

// progressPhrases indicate concrete file changes or test activity. Any one
// of them overrides the looping phrases.
var progressPhrases = []string{
	"created",
	"updated",
	"modified",
	"wrote",
	"deleted",
	"tests pass",
	"test passed",
	"all tests",
	"committed",
}

// HashOutput returns the hex sha256 digest of the tool's full output,
// used to compare consecutive attempts.
func HashOutput(output string) string {
	sum := sha256.Sum256([]byte(output))
	return hex.EncodeToString(sum[:])
}

// IsRateLimited reports whether the output matches a rate-limit or
// capacity error phrase.
func IsRateLimited(output string) bool {
	lower := strings.ToLower(output)
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// LooksStuck classifies an attempt as stuck when its output digest matches
// the previous attempt's digest, or when it contains looping phrases with
// no sign of progress. lastHash is empty on the first attempt.
func LooksStuck(output, lastHash string) bool {
	if lastHash != "" && HashOutput(output) == lastHash {
		return true
	}
	return hasLoopingPhrase(output) && !hasProgressPhrase(output)
}

// hasLoopingPhrase reports whether any looping phrase appears.
func hasLoopingPhrase(output string) bool {
	lower := strings.ToLower(output)
	for _, phrase := range loopingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// hasProgressPhrase reports whether any progress phrase appears.
func hasProgressPhrase(output string) bool {
	lower := strings.ToLower(output)
	for _, phrase := range progressPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
