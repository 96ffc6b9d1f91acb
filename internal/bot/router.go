// Package bot is the message router: it serializes inbound group messages,
// classifies them, enforces the permission gate, dispatches to the command
// handlers, and sends the resulting replies.
package bot

import (
	"context"
	"fmt"
	"sync"

	catsvc "storebot_backend/internal/catalog/service"
	"storebot_backend/internal/command"
	"storebot_backend/internal/events"
	"storebot_backend/internal/gate"
	"storebot_backend/internal/order"
	"storebot_backend/internal/reply"
	"storebot_backend/internal/transport"
	"storebot_backend/platform/apperr"
	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/phone"
)

type handlerFunc func(ctx context.Context, in transport.Inbound, cmd command.Command) ([]reply.Reply, error)

// Router drives one inbound message end to end. Handling is serialized with a
// mutex: the webhook delivers concurrently, but commands mutate shared state
// and replies must land in command order.
type Router struct {
	mu sync.Mutex

	parser      *command.Parser
	catalog     *catsvc.Service
	orders      *order.Service
	sender      transport.Sender
	bus         events.Bus
	log         *logger.Logger
	adminNumber string
	adminJID    string
	botName     string

	handlers map[command.Kind]handlerFunc
}

// NewRouter creates the message router.
func NewRouter(parser *command.Parser, catalog *catsvc.Service, orders *order.Service, sender transport.Sender, bus events.Bus, cfg config.BotConfig, log *logger.Logger) *Router {
	r := &Router{
		parser:      parser,
		catalog:     catalog,
		orders:      orders,
		sender:      sender,
		bus:         bus,
		log:         log,
		adminNumber: cfg.GetAdminNumber(),
		adminJID:    phone.UserJID(cfg.GetAdminNumber()),
		botName:     cfg.GetBotName(),
	}

	r.handlers = map[command.Kind]handlerFunc{
		command.KindShowMenu:          r.handleShowMenu,
		command.KindShowProductDetail: r.handleShowProductDetail,
		command.KindShowHelp:          r.handleShowHelp,
		command.KindShowAdminHelp:     r.handleShowAdminHelp,
		command.KindTagAll:            r.handleTagAll,
		command.KindAddProduct:        r.handleAddProduct,
		command.KindRemoveProduct:     r.handleRemoveProduct,
		command.KindUpdateVariant:     r.handleUpdateVariant,
		command.KindOrderByVariant:    r.handleOrderByVariant,
		command.KindConfirmOrder:      r.handleConfirmOrder,
		command.KindMentionAdminCall:  r.handleMentionAdminCall,
	}

	return r
}

// HandleMessage processes one inbound message. It never returns an error:
// every outcome is either a reply, a silent drop, or a published failure
// event.
func (r *Router) HandleMessage(ctx context.Context, in transport.Inbound) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in.FromMe || in.Text == "" {
		return
	}
	if !phone.IsGroupJID(in.ChatID) {
		return
	}

	cmd, parseErr := r.parser.Parse(command.Input{
		Text:         in.Text,
		HasQuote:     in.HasQuote,
		QuotedText:   in.QuotedText,
		QuotedSender: in.QuotedSender,
	})
	if cmd.Kind == command.KindUnrecognized {
		return
	}

	r.log.InboundMessage(in.ChatID, in.SenderID, cmd.Kind.String())

	defer func() {
		if rec := recover(); rec != nil {
			r.reportFailure(ctx, in, cmd.Kind, fmt.Sprintf("panic: %v", rec))
			r.send(ctx, in.ChatID, operationFailed())
		}
	}()

	isAdmin := phone.SameNumber(in.SenderID, r.adminNumber)
	if err := gate.Authorize(cmd.Kind, isAdmin); err != nil {
		r.send(ctx, in.ChatID, accessDenied(r.botName, in.SenderID))
		return
	}

	if parseErr != nil {
		r.send(ctx, in.ChatID, reply.Plain(errorText(parseErr)))
		return
	}

	handler, ok := r.handlers[cmd.Kind]
	if !ok {
		return
	}

	replies, err := handler(ctx, in, cmd)
	if err != nil {
		r.handleCommandError(ctx, in, cmd.Kind, err)
		return
	}

	for _, out := range replies {
		r.send(ctx, in.ChatID, out)
	}
}

// handleCommandError maps a handler error to the user-facing reply. Internal
// errors additionally raise a failure event for the alert side channel.
func (r *Router) handleCommandError(ctx context.Context, in transport.Inbound, kind command.Kind, err error) {
	switch apperr.GetKind(err) {
	case apperr.KindNotFound, apperr.KindValidation, apperr.KindConflict:
		r.send(ctx, in.ChatID, reply.Plain(errorText(err)))
	case apperr.KindInternal:
		r.reportFailure(ctx, in, kind, err.Error())
		r.send(ctx, in.ChatID, operationFailed())
	default:
		r.reportFailure(ctx, in, kind, err.Error())
		r.send(ctx, in.ChatID, operationFailed())
	}
}

func (r *Router) reportFailure(ctx context.Context, in transport.Inbound, kind command.Kind, reason string) {
	r.bus.Publish(ctx, events.MessageFailed{
		BaseEvent: events.NewBaseEvent(),
		ChatID:    in.ChatID,
		SenderID:  in.SenderID,
		Command:   kind.String(),
		Reason:    reason,
	})
}

// send delivers one reply. Delivery failures are logged, never surfaced to
// the chat.
func (r *Router) send(ctx context.Context, chatID string, out reply.Reply) {
	if r.sender == nil {
		return
	}
	if err := r.sender.SendText(ctx, chatID, out.Text, out.Mentions); err != nil {
		r.log.SendError(chatID, err)
	}
}

func (r *Router) handleShowMenu(_ context.Context, _ transport.Inbound, _ command.Command) ([]reply.Reply, error) {
	return []reply.Reply{r.catalog.Menu()}, nil
}

func (r *Router) handleShowProductDetail(_ context.Context, _ transport.Inbound, cmd command.Command) ([]reply.Reply, error) {
	out, err := r.catalog.ProductDetail(cmd.ProductRef)
	if err != nil {
		return nil, err
	}
	return []reply.Reply{out}, nil
}

func (r *Router) handleShowHelp(_ context.Context, _ transport.Inbound, _ command.Command) ([]reply.Reply, error) {
	return []reply.Reply{helpText(r.botName)}, nil
}

func (r *Router) handleShowAdminHelp(_ context.Context, _ transport.Inbound, _ command.Command) ([]reply.Reply, error) {
	return []reply.Reply{adminHelpText()}, nil
}

// handleTagAll mentions every group member except the admin who called it.
func (r *Router) handleTagAll(ctx context.Context, in transport.Inbound, _ command.Command) ([]reply.Reply, error) {
	if r.sender == nil {
		return nil, nil
	}

	participants, err := r.sender.GroupParticipants(ctx, in.ChatID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "gagal mengambil daftar member", err)
	}

	tagged := make([]string, 0, len(participants))
	for _, jid := range participants {
		if phone.SameNumber(jid, r.adminNumber) {
			continue
		}
		tagged = append(tagged, jid)
	}
	if len(tagged) == 0 {
		return nil, nil
	}
	return []reply.Reply{tagAll(tagged)}, nil
}

func (r *Router) handleAddProduct(ctx context.Context, _ transport.Inbound, cmd command.Command) ([]reply.Reply, error) {
	out, err := r.catalog.AddProduct(ctx, cmd.Add)
	if err != nil {
		return nil, err
	}
	return []reply.Reply{out}, nil
}

func (r *Router) handleRemoveProduct(ctx context.Context, _ transport.Inbound, cmd command.Command) ([]reply.Reply, error) {
	out, err := r.catalog.RemoveProduct(ctx, cmd.ProductRef)
	if err != nil {
		return nil, err
	}
	return []reply.Reply{out}, nil
}

func (r *Router) handleUpdateVariant(ctx context.Context, _ transport.Inbound, cmd command.Command) ([]reply.Reply, error) {
	out, err := r.catalog.UpdateVariant(ctx, cmd.Update)
	if err != nil {
		return nil, err
	}
	return []reply.Reply{out}, nil
}

func (r *Router) handleOrderByVariant(ctx context.Context, in transport.Inbound, cmd command.Command) ([]reply.Reply, error) {
	return r.orders.OrderByVariant(ctx, in.ChatID, cmd.VariantRef, in.SenderID)
}

func (r *Router) handleConfirmOrder(ctx context.Context, in transport.Inbound, cmd command.Command) ([]reply.Reply, error) {
	out, err := r.orders.ConfirmOrder(ctx, in.ChatID, cmd.QuotedText, cmd.QuotedSender)
	if err != nil {
		return nil, err
	}
	return []reply.Reply{out}, nil
}

// handleMentionAdminCall pings the admin unless the admin called themselves.
func (r *Router) handleMentionAdminCall(_ context.Context, in transport.Inbound, _ command.Command) ([]reply.Reply, error) {
	if phone.SameNumber(in.SenderID, r.adminNumber) {
		return nil, nil
	}
	return []reply.Reply{adminCall(r.adminJID, in.SenderID)}, nil
}

// errorText extracts the user-facing message from a domain error.
func errorText(err error) string {
	if domainErr, ok := err.(*apperr.Error); ok {
		return domainErr.Message
	}
	return err.Error()
}
