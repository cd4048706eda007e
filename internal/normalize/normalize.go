// Package normalize turns raw contact text into canonical email, phone, and
// name strings. Every function returns "" when nothing usable survives; all
// are idempotent over their own output.
package normalize

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// Email extracts the first syntactically valid address from text, lowercased
// and trimmed. When no address matches but the text contains '@', the whole
// lowercased text is returned as a best-effort fallback; callers must
// tolerate the result being invalid.
func Email(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if m := emailRe.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	if strings.Contains(text, "@") {
		return strings.ToLower(text)
	}
	return ""
}

// Phone canonicalizes a phone number to digits only: 12 digits when the
// string starts with country code 91 and carries a full subscriber number,
// otherwise the trailing 10 digits. Fewer than 10 digits is treated as
// garbage. Distinct international numbers sharing the same trailing 10
// digits collapse together; accepted limitation.
func Phone(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 {
		return ""
	}
	if strings.HasPrefix(digits, "91") && len(digits) >= 12 {
		return digits[:12]
	}
	return digits[len(digits)-10:]
}

// Name reduces a display name to its lowercase alphabetic form: every
// non-letter becomes a space, whitespace collapses to single spaces.
func Name(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
