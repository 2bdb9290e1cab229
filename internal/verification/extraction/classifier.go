package extraction

import "strings"

// verificationKeywords is the fixed set a message must mention, in subject
// or body, to be treated as a verification message. Substring match, no
// stemming, no negation handling: a message using a keyword in an unrelated
// sense is an acceptable false positive, because extraction still has to
// find a plausible digit pattern afterwards.
var verificationKeywords = []string{
	"verification", "verify", "confirm", "confirmation",
	"code", "otp", "pin", "activate", "activation", "security code",
}

// IsVerificationMessage reports whether a message looks like it carries a
// verification code. Pure and total; safe to call concurrently.
func IsVerificationMessage(subject, body string) bool {
	s := strings.ToLower(subject)
	b := strings.ToLower(body)
	for _, kw := range verificationKeywords {
		if strings.Contains(s, kw) || strings.Contains(b, kw) {
			return true
		}
	}
	return false
}
