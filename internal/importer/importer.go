package importer

import (
	"io"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Format names a supported file layout.
type Format string

const (
	FormatLedgerCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
