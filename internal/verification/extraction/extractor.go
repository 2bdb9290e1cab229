package extraction

import "regexp"

// Limits bound the accepted digit-run length for one source context.
// Email codes observed in the wild go as short as two digits, while SMS
// bodies are short and ambiguous, so SMS only accepts standard OTP lengths.
type Limits struct {
	Min int
	Max int
}

var (
	// MailLimits applies to messages pulled from an inbox-listing API.
	MailLimits = Limits{Min: 2, Max: 10}
	// SMSLimits applies to messages pushed through the SMS webhook.
	SMSLimits = Limits{Min: 4, Max: 10}
)

// rule couples a stable name (used as a metrics label) to its pattern.
// Every pattern captures exactly one digit run in group 1.
type rule struct {
	name string
	re   *regexp.Regexp
}

// rules is ordered most-specific first; the first rule whose candidate
// passes validation wins. The bare digit-run fallback stays last so that
// incidental digits (years, order numbers) never shadow a labeled code.
var rules = []rule{
	{"launch_code_before", regexp.MustCompile(`(?i)launch code[:\s]*(\d+)`)},
	{"launch_code_after", regexp.MustCompile(`(?i)(\d+)[^0-9]*launch`)},
	{"verification_code_label", regexp.MustCompile(`(?i)verification code[:\s]*(\d+)`)},
	{"code_label", regexp.MustCompile(`(?i)code[:\s]*(\d+)`)},
	{"is_your", regexp.MustCompile(`(?i)(\d+)[^0-9]*is your`)},
	{"enter", regexp.MustCompile(`(?i)enter[^0-9]*(\d+)`)},
	{"to_verify", regexp.MustCompile(`(?i)(\d+)[^0-9]*to verify`)},
	{"verification_suffix", regexp.MustCompile(`(?i)(\d+)[^0-9]*verification`)},
	{"digit_run", regexp.MustCompile(`(\d+)`)},
}

// Extract returns the first valid verification code in text together with
// the name of the rule that produced it. A candidate outside limits is
// discarded and the next rule is tried; ok is false when no rule yields a
// valid candidate.
func Extract(text string, limits Limits) (code string, ruleName string, ok bool) {
	if text == "" {
		return "", "", false
	}
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if !limits.valid(m[1]) {
			continue
		}
		return m[1], r.name, true
	}
	return "", "", false
}

func (l Limits) valid(candidate string) bool {
	if len(candidate) < l.Min || len(candidate) > l.Max {
		return false
	}
	for _, c := range candidate {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
