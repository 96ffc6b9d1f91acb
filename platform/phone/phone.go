// Package phone provides phone number and chat JID utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "ID"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// BareNumber strips the JID server suffix ("@s.whatsapp.net", "@g.us") and any
// device part, leaving the raw number.
func BareNumber(jid string) string {
	bare := jid
	if at := strings.IndexByte(bare, '@'); at >= 0 {
		bare = bare[:at]
	}
	if colon := strings.IndexByte(bare, ':'); colon >= 0 {
		bare = bare[:colon]
	}
	return bare
}

// SameNumber reports whether two identifiers refer to the same phone number.
// Both sides are reduced to their bare number and normalized to E.164 before
// an exact equality check.
func SameNumber(a, b string) bool {
	na := NormalizeE164(BareNumber(a))
	nb := NormalizeE164(BareNumber(b))
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

// UserJID builds a user JID from a bare phone number.
func UserJID(number string) string {
	bare := strings.TrimPrefix(NormalizeE164(BareNumber(number)), "+")
	return bare + "@s.whatsapp.net"
}

// IsGroupJID reports whether the chat identifier refers to a group chat.
func IsGroupJID(jid string) bool {
	return strings.HasSuffix(jid, "@g.us")
}
