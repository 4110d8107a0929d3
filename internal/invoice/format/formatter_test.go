package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber(t *testing.T) {
	issued := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		template string
		prefix   string
		seq      int64
		want     string
	}{
		{"default", DefaultInvoiceNumberTemplate, "INV-", 1, "INV-001"},
		{"overflow padding", DefaultInvoiceNumberTemplate, "INV-", 1234, "INV-1234"},
		{"dated", "{PREFIX}{YYYY}{MM}{DD}-{SEQ4}", "GB", 7, "GB20240309-0007"},
		{"plain seq", "{YY}/{SEQ}", "", 42, "24/42"},
		{"prefix with braces", "{PREFIX}{SEQ3}", "{A}", 5, "{A}005"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatInvoiceNumber(tc.template, tc.prefix, issued, tc.seq)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatInvoiceNumberErrors(t *testing.T) {
	issued := time.Now()

	_, err := FormatInvoiceNumber("", "INV-", issued, 1)
	assert.Error(t, err)

	_, err = FormatInvoiceNumber(DefaultInvoiceNumberTemplate, "INV-", issued, 0)
	assert.Error(t, err)

	_, err = FormatInvoiceNumber("{PREFIX}{NOPE}", "INV-", issued, 1)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Invoice_INV-001.pdf", Filename("INV-001"))
}
