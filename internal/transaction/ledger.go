package transaction

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Ledger is the append/remove-only collection of transactions.
// Every successful mutation advances Revision by one; failed mutations leave it untouched.
type Ledger struct {
	revision uint64
	txs      []Transaction
	index    map[string]int
}

// NewLedger returns an empty ledger at revision zero.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Restore rebuilds a ledger from persisted transactions, keeping their order.
func Restore(revision uint64, txs []Transaction) (*Ledger, error) {
	l := &Ledger{
		revision: revision,
		txs:      make([]Transaction, 0, len(txs)),
		index:    make(map[string]int, len(txs)),
	}

	for i, tx := range txs {
		if tx.ID == "" {
			return nil, fmt.Errorf("restoring transaction %d: %w", i, invalid("id", "is required"))
		}

		if _, dup := l.index[tx.ID]; dup {
			return nil, fmt.Errorf("restoring transaction %d: %w", i, invalid("id", "duplicate id "+tx.ID))
		}

		params := CreateParams{
			ID:         tx.ID,
			Kind:       tx.Kind,
			Amount:     tx.Amount,
			Category:   tx.Category,
			Note:       tx.Note,
			OccurredAt: tx.OccurredAt,
		}
		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("restoring transaction %s: %w", tx.ID, err)
		}

		l.index[tx.ID] = len(l.txs)
		l.txs = append(l.txs, tx)
	}

	return l, nil
}

// Revision returns the number of mutations applied to the ledger.
func (l *Ledger) Revision() uint64 { return l.revision }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.txs) }

// List returns a copy of the transactions in insertion order.
func (l *Ledger) List() []Transaction {
	out := make([]Transaction, len(l.txs))
	copy(out, l.txs)

	return out
}

// Get looks up a transaction by id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	i, ok := l.index[id]
	if !ok {
		return Transaction{}, false
	}

	return l.txs[i], true
}

// Append validates p, assigns an id when absent and adds the transaction.
func (l *Ledger) Append(p CreateParams) (Transaction, error) {
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return Transaction{}, err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if _, dup := l.index[p.ID]; dup {
		return Transaction{}, invalid("id", "duplicate id "+p.ID)
	}

	tx := Transaction{
		ID:         p.ID,
		Kind:       p.Kind,
		Amount:     p.Amount,
		Category:   p.Category,
		Note:       p.Note,
		OccurredAt: p.OccurredAt,
	}

	l.index[tx.ID] = len(l.txs)
	l.txs = append(l.txs, tx)
	l.revision++

	return tx, nil
}

// Remove deletes the transaction with the given id.
// Unknown ids return ErrNotFound and leave the ledger unchanged.
func (l *Ledger) Remove(id string) (Transaction, error) {
	i, ok := l.index[id]
	if !ok {
		return Transaction{}, fmt.Errorf("removing %s: %w", id, ErrNotFound)
	}

	removed := l.txs[i]
	l.txs = append(l.txs[:i], l.txs[i+1:]...)

	delete(l.index, id)

	for j := i; j < len(l.txs); j++ {
		l.index[l.txs[j].ID] = j
	}

	l.revision++

	return removed, nil
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		revision: l.revision,
		txs:      l.List(),
		index:    make(map[string]int, len(l.index)),
	}

	for id, i := range l.index {
		c.index[id] = i
	}

	return c
}

// Validate checks the params without applying defaults.
func (p CreateParams) Validate() error {
	if p.Kind == "" {
		return invalid("kind", "is required")
	}

	if !p.Kind.Valid() {
		return invalid("kind", fmt.Sprintf("unknown kind %q", p.Kind))
	}

	if p.Amount <= 0 {
		return invalid("amount", "must be greater than zero")
	}

	if p.Amount > MaxAmount {
		return invalid("amount", fmt.Sprintf("must not exceed %d", MaxAmount))
	}

	if !p.Category.Valid() {
		return invalid("category", fmt.Sprintf("unknown category %q", p.Category))
	}

	if p.OccurredAt.IsZero() {
		return invalid("occurred_at", "is required")
	}

	return nil
}

func (p CreateParams) normalized() CreateParams {
	p.Note = strings.TrimSpace(p.Note)
	if p.Note == "" {
		p.Note = DefaultNote
	}

	if p.Category == "" {
		p.Category = CategoryOther
	}

	return p
}
