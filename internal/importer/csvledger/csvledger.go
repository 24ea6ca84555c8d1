// Package csvledger reads transactions from the CSV layout the exporter
// writes: occurred_at,kind,category,amount,note with amounts in major units.
package csvledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

const (
	ColOccurredAt = "occurred_at"
	ColKind       = "kind"
	ColCategory   = "category"
	ColAmount     = "amount"
	ColNote       = "note"
)

// Header is the column order written by the exporter.
var Header = []string{ColOccurredAt, ColKind, ColCategory, ColAmount, ColNote}

var required = []string{ColOccurredAt, ColAmount}

// Accepted timestamp layouts, tried in order. Layouts without a zone are
// read in the importer's location.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"02/01/2006",
}

type Importer struct {
	currency string
	loc      *time.Location
}

func New(currencyCode string, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.Local
	}

	return &Importer{currency: currencyCode, loc: loc}
}

// Parse reads every row. The header may list the columns in any order and
// kind, category and note are optional. Comma and semicolon separators are accepted.
func (i *Importer) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	if _, err := currency.Lookup(i.currency); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = separator(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}

	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := indexColumns(header)
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var out []transaction.CreateParams

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if blank(row) {
			continue
		}

		p, err := i.parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		out = append(out, p)
	}

	return out, nil
}

func (i *Importer) parseRow(row []string, idx map[string]int) (transaction.CreateParams, error) {
	field := func(col string) string {
		j, ok := idx[col]
		if !ok || j >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[j])
	}

	at, err := i.parseTime(field(ColOccurredAt))
	if err != nil {
		return transaction.CreateParams{}, err
	}

	amount, err := currency.ParseMajor(field(ColAmount), i.currency)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	kind := transaction.Kind(strings.ToLower(field(ColKind)))

	// A signed amount with no explicit kind is read as income or expense.
	switch {
	case kind == "" && amount < 0:
		kind = transaction.KindExpense
		amount = -amount
	case kind == "":
		kind = transaction.KindIncome
	case amount < 0:
		return transaction.CreateParams{}, &transaction.ValidationError{Field: "amount", Message: "must not be negative when kind is set"}
	}

	p := transaction.CreateParams{
		Kind:       kind,
		Amount:     amount,
		Category:   transaction.Category(strings.ToLower(field(ColCategory))),
		Note:       field(ColNote),
		OccurredAt: at,
	}

	if p.Category == "" {
		p.Category = transaction.CategoryOther
	}

	if err := p.Validate(); err != nil {
		return transaction.CreateParams{}, err
	}

	return p, nil
}

func (i *Importer) parseTime(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, i.loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for j, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = j
	}

	return idx
}

func separator(data []byte) rune {
	first, _, _ := strings.Cut(string(data), "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}

	return ','
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
