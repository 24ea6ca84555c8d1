package importer

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/encoding"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer/csvledger"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Import decodes r to UTF-8 and parses it with the importer for format.
// Amounts are read in currencyCode and zone-less dates in loc.
func (s *Service) Import(format Format, currencyCode string, loc *time.Location, r io.Reader) ([]transaction.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatLedgerCSV, "":
		importer = csvledger.New(currencyCode, loc)
	default:
		return nil, &transaction.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", format)}
	}

	utf8Reader, charset, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	slog.Debug("importing file", "format", format, "charset", charset)

	params, err := importer.Parse(utf8Reader)
	if err != nil {
		return nil, &transaction.ValidationError{Field: "file", Message: err.Error()}
	}

	return params, nil
}
