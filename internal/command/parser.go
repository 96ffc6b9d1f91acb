package command

import (
	"fmt"
	"strconv"
	"strings"

	"storebot_backend/platform/apperr"
)

const (
	prefixAddProduct    = "tambah produk"
	prefixRemoveProduct = "hapus produk"
	prefixUpdateVariant = "update varian"
)

// Vocabulary answers whether a bare token names a known product or variant.
// The parser needs it for the two catch-all rules at the bottom of the
// priority list.
type Vocabulary interface {
	HasProduct(name string) bool
	HasVariant(code string) bool
}

// Input is one inbound message as seen by the parser.
type Input struct {
	Text string

	// HasQuote is true when the message replies to an earlier message.
	HasQuote     bool
	QuotedText   string
	QuotedSender string
}

// Parser classifies inbound text. Parsing is total: every input yields
// exactly one Command; a malformed body for a recognized command yields that
// command's Kind together with a validation error naming the offending line.
type Parser struct {
	adminKeywords map[string]struct{}
	vocab         Vocabulary
}

// NewParser creates a parser with the given admin-attention keyword list.
func NewParser(adminKeywords []string, vocab Vocabulary) *Parser {
	keywords := make(map[string]struct{}, len(adminKeywords))
	for _, kw := range adminKeywords {
		keywords[strings.ToLower(kw)] = struct{}{}
	}
	return &Parser{adminKeywords: keywords, vocab: vocab}
}

// Parse applies the matching rules in priority order; the first match wins.
func (p *Parser) Parse(in Input) (Command, error) {
	text := strings.TrimSpace(in.Text)
	lower := strings.ToLower(text)

	if _, ok := p.adminKeywords[lower]; ok {
		return Command{Kind: KindMentionAdminCall}, nil
	}

	switch lower {
	case "adminonly":
		return Command{Kind: KindShowAdminHelp}, nil
	case "tagall":
		return Command{Kind: KindTagAll}, nil
	}

	if strings.HasPrefix(lower, prefixAddProduct) {
		return p.parseAddProduct(text)
	}
	if strings.HasPrefix(lower, prefixRemoveProduct) {
		name := strings.TrimSpace(text[len(prefixRemoveProduct):])
		if name == "" {
			return Command{Kind: KindRemoveProduct}, apperr.Validation(
				"Format salah. Coba : hapus produk [nama produk]")
		}
		return Command{Kind: KindRemoveProduct, ProductRef: name}, nil
	}
	if strings.HasPrefix(lower, prefixUpdateVariant) {
		return p.parseUpdateVariant(text)
	}

	if lower == "done" && in.HasQuote {
		return Command{
			Kind:         KindConfirmOrder,
			QuotedText:   strings.TrimSpace(in.QuotedText),
			QuotedSender: in.QuotedSender,
		}, nil
	}

	switch lower {
	case "menu":
		return Command{Kind: KindShowMenu}, nil
	case "help":
		return Command{Kind: KindShowHelp}, nil
	}

	if p.vocab.HasProduct(text) {
		return Command{Kind: KindShowProductDetail, ProductRef: text}, nil
	}
	if p.vocab.HasVariant(text) {
		return Command{Kind: KindOrderByVariant, VariantRef: text}, nil
	}

	return Command{Kind: KindUnrecognized}, nil
}

// parseAddProduct reads the newline-delimited body: line 1 after the command
// is the product name, line 2 the description, every further line a
// `code price info` triple.
func (p *Parser) parseAddProduct(text string) (Command, error) {
	lines := splitLines(text)
	if len(lines) < 4 {
		return Command{Kind: KindAddProduct}, apperr.Validation(
			"Format salah. Coba :\n" +
				"tambah produk\n" +
				"[nama produk]\n" +
				"[deskripsi]\n" +
				"[varian] [harga] [info]\n" +
				"[varian] [harga] [info]\n" +
				"...\n\n" +
				"Contoh:\n" +
				"tambah produk\n" +
				"Netflix\n" +
				"Akun Netflix Premium\n" +
				"NET1B 30000 1 Bulan Sharing\n" +
				"NET3B 80000 3 Bulan Sharing")
	}

	args := AddProductArgs{
		Name:        lines[1],
		Description: lines[2],
	}
	for _, line := range lines[3:] {
		variant, err := parseVariantLine(line)
		if err != nil {
			return Command{Kind: KindAddProduct}, err
		}
		args.Variants = append(args.Variants, variant)
	}

	return Command{Kind: KindAddProduct, Add: args}, nil
}

// parseUpdateVariant reads the 4-line body: label, product name, old code,
// and the replacement `code price info` line.
func (p *Parser) parseUpdateVariant(text string) (Command, error) {
	lines := splitLines(text)
	if len(lines) < 4 {
		return Command{Kind: KindUpdateVariant}, apperr.Validation(
			"Format salah. Coba :\n" +
				"update varian\n" +
				"[nama produk]\n" +
				"[kode varian lama]\n" +
				"[kode varian baru] [harga baru] [info baru]\n\n" +
				"Contoh:\n" +
				"update varian\n" +
				"Netflix\n" +
				"NET1B\n" +
				"NET1B 25000 1 Bulan Premium")
	}

	variant, err := parseVariantLine(lines[3])
	if err != nil {
		return Command{Kind: KindUpdateVariant}, err
	}

	return Command{Kind: KindUpdateVariant, Update: UpdateVariantArgs{
		ProductRef: lines[1],
		OldCode:    lines[2],
		New:        variant,
	}}, nil
}

// parseVariantLine splits `code price info...` at the first two spaces. The
// info label keeps any further spaces. A line with fewer than two fields, a
// non-numeric price, or a negative price names the offending line in the
// error so the sender can fix exactly that line.
func parseVariantLine(line string) (VariantLine, error) {
	firstSpace := strings.IndexByte(line, ' ')
	if firstSpace < 0 {
		return VariantLine{}, malformedVariantLine(line)
	}

	rest := line[firstSpace+1:]
	secondSpace := strings.IndexByte(rest, ' ')
	if secondSpace < 0 {
		return VariantLine{}, malformedVariantLine(line)
	}

	code := line[:firstSpace]
	info := strings.TrimSpace(rest[secondSpace+1:])
	if code == "" || info == "" {
		return VariantLine{}, malformedVariantLine(line)
	}

	price, err := strconv.Atoi(rest[:secondSpace])
	if err != nil {
		return VariantLine{}, apperr.Validation(
			fmt.Sprintf("Harga harus angka. Format salah di: %s", line)).WithDetails(line)
	}
	if price < 0 {
		return VariantLine{}, apperr.Validation(
			fmt.Sprintf("Harga tidak boleh negatif. Format salah di: %s", line)).WithDetails(line)
	}

	return VariantLine{Code: code, Price: price, Info: info}, nil
}

func malformedVariantLine(line string) *apperr.Error {
	return apperr.Validation(
		fmt.Sprintf("Format varian salah di: %s\nGunakan: [varian] [harga] [info]", line)).WithDetails(line)
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
