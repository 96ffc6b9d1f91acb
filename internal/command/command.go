// Package command turns raw inbound chat text into structured commands.
package command

// Kind identifies the command variant.
type Kind int

const (
	// KindUnrecognized is returned for any text that matches no rule. The
	// router drops it silently so group chats are not flooded with replies.
	KindUnrecognized Kind = iota
	KindShowMenu
	KindShowProductDetail
	KindShowHelp
	KindShowAdminHelp
	KindTagAll
	KindAddProduct
	KindRemoveProduct
	KindUpdateVariant
	KindOrderByVariant
	KindConfirmOrder
	KindMentionAdminCall
)

// String returns the command name for logging.
func (k Kind) String() string {
	switch k {
	case KindShowMenu:
		return "show_menu"
	case KindShowProductDetail:
		return "show_product_detail"
	case KindShowHelp:
		return "show_help"
	case KindShowAdminHelp:
		return "show_admin_help"
	case KindTagAll:
		return "tag_all"
	case KindAddProduct:
		return "add_product"
	case KindRemoveProduct:
		return "remove_product"
	case KindUpdateVariant:
		return "update_variant"
	case KindOrderByVariant:
		return "order_by_variant"
	case KindConfirmOrder:
		return "confirm_order"
	case KindMentionAdminCall:
		return "mention_admin_call"
	default:
		return "unrecognized"
	}
}

// VariantLine is one parsed `code price info` line.
type VariantLine struct {
	Code  string `validate:"required"`
	Price int    `validate:"gte=0"`
	Info  string `validate:"required"`
}

// AddProductArgs carries the body of a `tambah produk` command.
type AddProductArgs struct {
	Name        string        `validate:"required"`
	Description string        `validate:"required"`
	Variants    []VariantLine `validate:"min=1,dive"`
}

// UpdateVariantArgs carries the body of an `update varian` command.
type UpdateVariantArgs struct {
	ProductRef string `validate:"required"`
	OldCode    string `validate:"required"`
	New        VariantLine
}

// Command is the parsed value dispatched by the router. Kind selects which of
// the payload fields are meaningful.
type Command struct {
	Kind Kind

	// ProductRef is set for KindShowProductDetail and KindRemoveProduct.
	ProductRef string
	// VariantRef is set for KindOrderByVariant.
	VariantRef string

	Add    AddProductArgs
	Update UpdateVariantArgs

	// QuotedText and QuotedSender are set for KindConfirmOrder.
	QuotedText   string
	QuotedSender string
}
