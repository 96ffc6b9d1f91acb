// Package gate decides, per command, whether the invoking sender may execute
// it.
package gate

import (
	"storebot_backend/internal/command"
	"storebot_backend/platform/apperr"
)

// adminOnly lists the command kinds that require the admin role. Everything
// else is open to any sender. Confirming an order is admin-only: only the
// admin may mark an order complete.
var adminOnly = map[command.Kind]struct{}{
	command.KindShowAdminHelp: {},
	command.KindTagAll:        {},
	command.KindAddProduct:    {},
	command.KindRemoveProduct: {},
	command.KindUpdateVariant: {},
	command.KindConfirmOrder:  {},
}

// Authorize returns nil when the sender may execute the command, or a
// forbidden error naming the required role. A denied admin-only command is
// never dropped silently; the sender is told why nothing happened.
func Authorize(kind command.Kind, isSenderAdmin bool) error {
	if _, restricted := adminOnly[kind]; !restricted {
		return nil
	}
	if isSenderAdmin {
		return nil
	}
	return apperr.Forbidden("perintah ini hanya untuk admin")
}

// RequiresAdmin reports whether the command kind is admin-only.
func RequiresAdmin(kind command.Kind) bool {
	_, restricted := adminOnly[kind]
	return restricted
}
