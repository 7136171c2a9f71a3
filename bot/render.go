package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dananet/mutasi-bot/account"
)

// listNameWidth is the Nama column width; longer names are truncated so the
// box table stays aligned.
const listNameWidth = 6

const startText = "🤖 *DANA MUTASI BOT*\n\n" +
	"Bot untuk otomatisasi pencatatan transaksi DANA ke spreadsheet.\n\n" +
	"*Perintah:*\n" +
	"`/list` - Tampilkan semua akun\n" +
	"`/tambah 081234567890 123456` - Tambah akun baru\n" +
	"`/stop 081234567890` - Hentikan akun\n" +
	"`/clear` - Bersihkan cache\n" +
	"`/help` - Bantuan"

const emptyListText = "📭 *Belum ada akun DANA yang terdaftar.*\n\n" +
	"Gunakan `/tambah 081234567890 123456` untuk menambah akun pertama."

const addUsageText = "❌ *Format salah!*\n\n" +
	"Gunakan: `/tambah 081234567890 123456`\n" +
	"Contoh: `/tambah 081212345678 77888`"

const badPhoneText = "❌ Nomor HP harus dimulai 08 dan minimal 10 digit"

const badPINText = "❌ PIN harus 4-6 digit angka"

const capacityText = "❌ *Sudah mencapai 8 akun aktif!*\n\n" +
	"Hapus salah satu akun terlebih dahulu dengan:\n" +
	"`/stop 081234567890`"

const stopUsageText = "❌ *Format: `/stop 081234567890`*"

const clearDoneText = "🧹 *Cache berhasil dibersihkan!*"

const addPromptText = "📝 *TAMBAH AKUN BARU*\n\n" +
	"Ketik: `/tambah 081234567890 123456`\n\n" +
	"Format: Nomor dan PIN dipisah spasi\n" +
	"Contoh: `/tambah 081212345678 77888`"

const cancelText = "❌ *Dibatalkan.*"

const helpText = `🆘 *BANTUAN DANA MUTASI BOT*

📋 *PERINTAH:*
• ` + "`/start`" + ` - Mulai bot
• ` + "`/list`" + ` - Tampilkan semua akun
• ` + "`/tambah 081234567890 123456`" + ` - Tambah akun baru
• ` + "`/stop 081234567890`" + ` - Hentikan akun
• ` + "`/clear`" + ` - Bersihkan cache
• ` + "`/help`" + ` - Tampilkan bantuan

🗑️ *CARA HAPUS AKUN:*
1. Klik tombol "Hapus" di tabel
2. Konfirmasi penghapusan
3. Akun langsung nonaktif

⚙️ *SYSTEM:*
• Maksimal 8 akun aktif
• Data tersimpan di Google Sheets
• Akses multi-user via Telegram Web`

func addSuccessText(phone, pin string) string {
	return fmt.Sprintf("✅ *AKUN BERHASIL DITAMBAHKAN!*\n\n"+
		"📱 Nomor: `%s`\n"+
		"🔐 PIN: `%s`\n"+
		"📊 Status: Aktif\n\n"+
		"Sekarang gunakan `/list` untuk melihat tabel.", phone, pin)
}

func stopSuccessText(phone string) string {
	return fmt.Sprintf("✅ *AKUN DIHENTIKAN!*\n\n"+
		"📱 Nomor: `%s`\n"+
		"📊 Status: Nonaktif\n\n"+
		"Slot sekarang tersedia untuk akun baru.", phone)
}

func confirmDeleteText(phone string) string {
	return fmt.Sprintf("⚠️ *KONFIRMASI HAPUS*\n\nYakin hapus akun `%s`?", phone)
}

func deletedText(phone string) string {
	return fmt.Sprintf("✅ *AKUN DIHAPUS!*\n\n"+
		"Nomor: `%s`\n"+
		"Status: Nonaktif\n\n"+
		"Slot tersedia untuk akun baru.", phone)
}

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📋 LIHAT DAFTAR AKUN", payloadShowList)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ TAMBAH AKUN BARU", payloadAddAccount)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❓ BANTUAN", payloadHelp)),
	)
}

func confirmDeleteKeyboard(phone string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ YA, HAPUS", payloadConfirmDelete+phone),
			tgbotapi.NewInlineKeyboardButtonData("❌ BATAL", payloadCancel),
		),
	)
}

func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) > width {
		return string(runes[:width])
	}
	return name
}

// renderList draws the account table, capped at MaxActive rows, with a
// delete button per row and a refresh/add row at the bottom.
func renderList(accounts []account.Account) (string, tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString("┌─────────────────────────────────────┐\n")
	b.WriteString("│        📊 DAFTAR AKUN DANA         │\n")
	b.WriteString("├────┬──────────────┬──────┬─────────┤\n")
	b.WriteString("│ No │ Nomor        │ Nama │ Status  │\n")
	b.WriteString("├────┼──────────────┼──────┼─────────┤\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	shown := accounts
	if len(shown) > account.MaxActive {
		shown = shown[:account.MaxActive]
	}
	for i, a := range shown {
		glyph := "🔴"
		if a.Active() {
			glyph = "🟢"
		}
		name := truncateName(a.Name, listNameWidth)
		fmt.Fprintf(&b, "│ %2d │ %-12s │ %-4s │ %-7s │\n", i+1, a.Phone, name, glyph)

		label := fmt.Sprintf("❌ Hapus %s", tail(a.Phone, 4))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, payloadDelete+a.Phone),
		))
	}

	b.WriteString("└────┴──────────────┴──────┴─────────┘\n")
	fmt.Fprintf(&b, "\nTotal: %d/%d akun aktif\n", len(accounts), account.MaxActive)
	b.WriteString("```")

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", payloadRefresh),
		tgbotapi.NewInlineKeyboardButtonData("➕ Tambah Baru", payloadAddAccount),
	))
	return b.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
