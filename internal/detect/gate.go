package detect

import (
	"regexp"
	"strings"

	"github.com/nkurella/honeyguard/internal/domain"
)

// gateKeywords are the scam indicators used by the cheap pre-filter. Matched
// case-insensitively as substrings.
var gateKeywords = []string{
	"kyc", "otp", "verify", "blocked", "suspended", "urgent", "immediately",
	"prize", "won", "lottery", "refund", "bank account", "upi", "pin",
	"password", "cvv", "credit card", "debit card", "link expire",
	"click here", "update now", "verify now", "account blocked",
}

// fallbackKeywords is the slightly larger list used when classifying without
// the remote service. It is a strict superset of gateKeywords.
var fallbackKeywords = append(append([]string{}, gateKeywords...), "expire today")

// FallbackReply is the generic caution line attached to positive local
// verdicts. The remote classifier produces context-aware replies instead.
const FallbackReply = "This message appears suspicious. Do not share personal information."

// minGateLength is the shortest message QuickCheck will ever flag.
const minGateLength = 10

var (
	mobileRe = regexp.MustCompile(`\b[6-9]\d{9}\b`)
	urlRe    = regexp.MustCompile(`https?://\S+`)
)

func countMatches(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// isScamRule applies the two-branch threshold: two distinct keywords, or one
// keyword combined with a URL or mobile-number indicator. Single generic
// words must not trigger on their own.
func isScamRule(text string, matched int) bool {
	if matched >= 2 {
		return true
	}
	return matched >= 1 && (urlRe.MatchString(text) || mobileRe.MatchString(text))
}

// QuickCheck is the cheap pre-filter run before any network call. Messages
// shorter than 10 characters are never flagged.
func QuickCheck(text string) bool {
	if len(text) < minGateLength {
		return false
	}
	return isScamRule(text, len(countMatches(text, gateKeywords)))
}

// ClassifyLocally is the deterministic fallback classifier used when the
// remote service is unreachable. Confidence is matched/5, uncapped.
func ClassifyLocally(text string) domain.LocalVerdict {
	found := countMatches(text, fallbackKeywords)
	verdict := domain.LocalVerdict{
		Scam:       isScamRule(text, len(found)),
		Confidence: float64(len(found)) / 5,
		Keywords:   found,
	}
	if verdict.Scam {
		verdict.ReplyText = FallbackReply
	}
	return verdict
}
