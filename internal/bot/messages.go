package bot

import (
	"fmt"
	"strings"

	"storebot_backend/internal/reply"
)

// helpText is the customer help reply.
func helpText(botName string) reply.Reply {
	return reply.Plain(fmt.Sprintf(
		"🤖 *Bantuan %s*\n\n"+
			"- Ketik *menu* untuk lihat daftar produk\n"+
			"- Ketik nama produk untuk lihat detail dan harga\n"+
			"- Ketik kode varian untuk memesan\n"+
			"- Ketik *admin* untuk memanggil admin",
		botName))
}

// adminHelpText lists the admin-only commands.
func adminHelpText() reply.Reply {
	return reply.Plain(
		"🛠️ *Perintah Admin*\n\n" +
			"- *tambah produk* (nama, deskripsi, varian per baris)\n" +
			"- *hapus produk [nama produk]*\n" +
			"- *update varian* (produk, kode lama, varian baru)\n" +
			"- Reply pesan kode varian dengan *done* untuk menyelesaikan pesanan\n" +
			"- *tagall* untuk mention semua member")
}

// accessDenied is the reply for an admin-only command from a non-admin.
func accessDenied(botName, senderJID string) reply.Reply {
	return reply.Reply{
		Text: fmt.Sprintf("⛔ *Akses Ditolak!*\n\n%s, perintah ini hanya untuk admin %s.",
			reply.MentionTag(senderJID), botName),
		Mentions: []string{senderJID},
	}
}

// adminCall pings the admin on behalf of a customer.
func adminCall(adminJID, senderJID string) reply.Reply {
	return reply.Reply{
		Text: fmt.Sprintf("📢 %s dipanggil si %s nih, coba simak dulu barangkali penting!",
			reply.MentionTag(adminJID), reply.MentionTag(senderJID)),
		Mentions: []string{adminJID, senderJID},
	}
}

// tagAll mentions every given participant.
func tagAll(participants []string) reply.Reply {
	var b strings.Builder
	b.WriteString("📢 *PENGUMUMAN!*\n\n")
	for _, jid := range participants {
		b.WriteString(reply.MentionTag(jid))
		b.WriteByte(' ')
	}
	return reply.Reply{
		Text:     strings.TrimSpace(b.String()),
		Mentions: participants,
	}
}

// operationFailed is the generic failure reply when an internal error aborts
// a command.
func operationFailed() reply.Reply {
	return reply.Plain("⚠️ Terjadi kesalahan, coba lagi nanti yaa.")
}
