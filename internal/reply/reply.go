// Package reply holds the outbound message value and shared text formatting
// helpers used by the command handlers.
package reply

import (
	"strconv"
	"strings"

	"storebot_backend/platform/phone"
)

// Reply is one outbound message: the text plus the JIDs to mention in it.
type Reply struct {
	Text     string
	Mentions []string
}

// Plain builds a reply without mentions.
func Plain(text string) Reply {
	return Reply{Text: text}
}

// Rupiah formats a non-negative amount in the smallest currency unit with the
// Indonesian thousands separator, e.g. 50000 -> "Rp50.000".
func Rupiah(amount int) string {
	digits := strconv.Itoa(amount)

	var b strings.Builder
	b.WriteString("Rp")
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 2 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// MentionTag renders the @-handle for a JID, e.g. "628123...@s.whatsapp.net"
// -> "@628123...".
func MentionTag(jid string) string {
	return "@" + phone.BareNumber(jid)
}
