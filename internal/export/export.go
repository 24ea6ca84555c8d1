// Package export writes the ledger as CSV, the full state as JSON and a
// plain text summary.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer/csvledger"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatCSV, nil
	}

	return "", &transaction.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", s)}
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}

	return "text/csv"
}

// Filename names an export taken at t, e.g. budgetbuddy_20260320.csv.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("budgetbuddy_%s.%s", t.Format("20060102"), f)
}

// WriteCSV writes txs in the layout csvledger reads back, amounts in major
// units of currencyCode.
func WriteCSV(w io.Writer, txs []transaction.Transaction, currencyCode string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvledger.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		amount, err := currency.FormatMajor(tx.Amount, currencyCode)
		if err != nil {
			return err
		}

		row := []string{
			tx.OccurredAt.Format(time.RFC3339),
			string(tx.Kind),
			string(tx.Category),
			amount,
			tx.Note,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteJSON writes the complete state, suitable for ReadJSON.
func WriteJSON(w io.Writer, st tracker.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	return nil
}

func ReadJSON(r io.Reader) (tracker.State, error) {
	var st tracker.State

	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return tracker.State{}, &transaction.ValidationError{Field: "file", Message: err.Error()}
	}

	return st, nil
}

// Summary renders one line per transaction, e.g.
// "* 2026-03-20 | Lunch | food | -$12.50".
func Summary(txs []transaction.Transaction, currencyCode string) string {
	var sb strings.Builder

	for _, tx := range txs {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			tx.OccurredAt.Format(time.DateOnly), tx.Note, tx.Category, currency.Signed(tx.Signed(), currencyCode))
	}

	return sb.String()
}
