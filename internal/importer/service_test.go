package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	t.Run("Windows1252", func(t *testing.T) {
		// "Café" with é as 0xE9.
		var buf bytes.Buffer
		buf.WriteString("occurred_at,kind,category,amount,note\n2026-03-20,expense,food,4.50,Caf")
		buf.WriteByte(0xE9)
		buf.WriteString("\n")

		got, err := svc.Import(importer.FormatLedgerCSV, "EUR", time.UTC, &buf)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Café", got[0].Note)
		assert.Equal(t, int64(450), got[0].Amount)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := svc.Import("ofx", "EUR", time.UTC, strings.NewReader(""))
		require.Error(t, err)
		assert.True(t, transaction.IsValidation(err))
	})

	t.Run("ParseErrorIsValidation", func(t *testing.T) {
		_, err := svc.Import(importer.FormatLedgerCSV, "EUR", time.UTC, strings.NewReader("occurred_at\n"))
		require.Error(t, err)
		assert.True(t, transaction.IsValidation(err))
	})
}
