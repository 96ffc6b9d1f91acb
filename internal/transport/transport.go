// Package transport defines the contract between the message router and the
// chat gateway. The bot depends on these types only; the concrete gateway
// client lives in transport/gowa.
package transport

import "context"

// Inbound is one received chat message, already flattened from the gateway's
// webhook payload.
type Inbound struct {
	MessageID string
	ChatID    string
	SenderID  string
	Text      string

	// FromMe marks messages the bot account itself sent; the router skips
	// them.
	FromMe bool

	// HasQuote is set when the message replies to an earlier message.
	HasQuote     bool
	QuotedText   string
	QuotedSender string
}

// Sender delivers outbound messages to a chat.
type Sender interface {
	// SendText sends a text message. Mentions lists the JIDs tagged in the
	// text, in @-handle form.
	SendText(ctx context.Context, chatID, text string, mentions []string) error

	// GroupParticipants returns the member JIDs of a group chat.
	GroupParticipants(ctx context.Context, chatID string) ([]string, error)
}
