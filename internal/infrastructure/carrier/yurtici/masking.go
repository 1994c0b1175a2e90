package yurtici

import (
	"regexp"
	"strings"
)

// Credentials are fully redacted; personal data is partially masked so a
// support engineer can still correlate a logged request with an order.
var (
	credentialElems = []string{"wsUserName", "wsPassword"}
	piiElems        = []string{"receiverCustName", "receiverAddress", "receiverPhone1", "emailAddress"}

	credentialPattern = elementPattern(credentialElems)
	piiPattern        = elementPattern(piiElems)
)

func elementPattern(names []string) *regexp.Regexp {
	return regexp.MustCompile(`<(` + strings.Join(names, "|") + `)>([^<]*)</[^>]+>`)
}

// MaskWire redacts credentials and PII in an outbound wire capture before
// it reaches any log sink.
func MaskWire(wire string) string {
	masked := credentialPattern.ReplaceAllString(wire, "<$1>***</$1>")
	return piiPattern.ReplaceAllStringFunc(masked, func(m string) string {
		sub := piiPattern.FindStringSubmatch(m)
		return "<" + sub[1] + ">" + maskValue(sub[2]) + "</" + sub[1] + ">"
	})
}

// maskValue keeps just enough of a value to recognize it: first rune for
// free text, last two digits for phone-like values, the domain for emails.
func maskValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if at := strings.IndexByte(v, '@'); at > 0 {
		return "***" + v[at:]
	}
	if isPhoneLike(v) {
		if len(v) <= 2 {
			return "***"
		}
		return "***" + v[len(v)-2:]
	}
	runes := []rune(v)
	return string(runes[0]) + "***"
}

func isPhoneLike(v string) bool {
	digits := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7
}
