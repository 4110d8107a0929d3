package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

const DefaultInvoiceNumberTemplate = "{PREFIX}{SEQ3}"

// FormatInvoiceNumber formats a human-readable invoice number from a
// template, the account's prefix, the issue date and a per-account sequence.
//
// Supported tokens: {PREFIX}, {YYYY}, {YY}, {MM}, {DD}, {SEQ} and {SEQn}
// for a sequence zero-padded to n digits.
func FormatInvoiceNumber(
	template string,
	prefix string,
	issuedAt time.Time,
	seq int64,
) (string, error) {

	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}

	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template

	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	// The prefix is user text, so it is substituted after the unresolved
	// token check.
	const prefixToken = "{PREFIX}"
	parts := strings.Split(out, prefixToken)
	for _, part := range parts {
		if strings.Contains(part, "{") || strings.Contains(part, "}") {
			return "", fmt.Errorf("unresolved token in invoice format: %s", out)
		}
	}

	return strings.Join(parts, prefix), nil
}

// Filename returns the download name for an invoice document.
func Filename(invoiceNumber string) string {
	return "Invoice_" + invoiceNumber + ".pdf"
}
