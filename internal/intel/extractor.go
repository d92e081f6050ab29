// Package intel extracts reusable threat intelligence from scam traffic and
// accumulates it across sessions.
package intel

import (
	"regexp"
	"strings"

	"github.com/nkurella/honeyguard/internal/domain"
)

var (
	// Indian mobile numbers: 10 digits starting 6-9, optional +91 prefix
	// with an optional separator.
	phoneRe = regexp.MustCompile(`\+91[-\s]?[6-9]\d{9}|\b[6-9]\d{9}\b`)
	urlRe   = regexp.MustCompile(`https?://\S+`)
	upiRe   = regexp.MustCompile(`(?i)[\w.-]+@(paytm|phonepe|googlepay|ybl|okaxis|oksbi|okhdfcbank|okicici|upi)`)
)

// extractKeywords is the presence-based keyword set for intelligence
// gathering. Smaller than the detection gate's list: overlapping, not
// identical.
var extractKeywords = []string{
	"kyc", "otp", "verify", "blocked", "urgent", "prize", "won", "bank", "account",
}

var separatorReplacer = strings.NewReplacer("-", "", " ", "")

// Extract pulls phone numbers, URLs, UPI handles, and keywords from a single
// message. Phone numbers are normalized by stripping separators; URLs and
// UPI handles are kept verbatim. Entities repeated within the text are
// reported once.
func Extract(text string) domain.Intelligence {
	var out domain.Intelligence

	for _, p := range phoneRe.FindAllString(text, -1) {
		out.PhoneNumbers = appendUnique(out.PhoneNumbers, separatorReplacer.Replace(p))
	}
	for _, u := range urlRe.FindAllString(text, -1) {
		out.PhishingLinks = appendUnique(out.PhishingLinks, u)
	}
	for _, id := range upiRe.FindAllString(text, -1) {
		out.UpiIDs = appendUnique(out.UpiIDs, id)
	}

	lower := strings.ToLower(text)
	for _, kw := range extractKeywords {
		if strings.Contains(lower, kw) {
			out.Keywords = append(out.Keywords, kw)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
