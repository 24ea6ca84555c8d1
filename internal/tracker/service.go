package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/events"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/metrics"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/snapshot"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

const (
	opLoad    = "load"
	opAdd     = "add"
	opRemove  = "remove"
	opImport  = "import"
	opProfile = "profile"
	opReset   = "reset"
	opRestore = "restore"
	opRefresh = "refresh"
)

type Option func(*Service)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func WithPolicy(p progression.Policy) Option {
	return func(s *Service) { s.policy = p }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service serialises mutations. Readers never see a ledger without the
// snapshot computed from it: both are swapped together under the lock, and
// only after the new state has been saved.
type Service struct {
	repo      Repository
	clock     func() time.Time
	policy    progression.Policy
	publisher events.Publisher
	metrics   *metrics.Metrics

	mu      sync.RWMutex
	profile profile.Profile
	ledger  *transaction.Ledger
	snap    snapshot.Snapshot
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		clock:     time.Now,
		policy:    progression.PolicyInstantaneous,
		publisher: events.Nop{},
	}

	for _, opt := range opts {
		opt(s)
	}

	init := Initial(s.clock())
	s.profile = init.Profile
	s.ledger = transaction.NewLedger()
	s.snap = s.assemble(s.profile, s.ledger, init.Progression, init.Achievements, nil, s.clock())

	return s
}

// Load replaces the in-memory state with the saved one, or with the initial
// state on first run. The result is saved back when it differs from what was
// stored.
func (s *Service) Load(ctx context.Context) (snapshot.Snapshot, error) {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		s.metrics.Mutation(opLoad, err)
		return snapshot.Snapshot{}, fmt.Errorf("loading state: %w", err)
	}

	firstRun := stored == nil
	if firstRun {
		init := Initial(s.clock())
		stored = &init

		slog.Info("no saved state found, starting fresh")
	}

	ledger, err := transaction.Restore(stored.Revision, stored.Transactions)
	if err != nil {
		s.metrics.Mutation(opLoad, err)
		return snapshot.Snapshot{}, fmt.Errorf("restoring ledger: %w", err)
	}

	s.mu.Lock()
	next, err := s.commit(ctx, change{
		profile:      stored.Profile,
		ledger:       ledger,
		previous:     stored.Progression,
		achievements: stored.Achievements,
	}, firstRun)
	s.mu.Unlock()

	s.metrics.Mutation(opLoad, err)

	if err != nil {
		return snapshot.Snapshot{}, err
	}

	s.publishUnlocks(ctx, next)

	return next, nil
}

// Snapshot returns the current derived view.
func (s *Service) Snapshot() snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap
}

func (s *Service) Profile() profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.profile
}

// State returns the persisted form of the current state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return stateOf(s.profile, s.ledger, s.snap)
}

// AddTransaction appends one transaction. A zero OccurredAt means now.
func (s *Service) AddTransaction(ctx context.Context, p transaction.CreateParams) (transaction.Transaction, snapshot.Snapshot, error) {
	var added transaction.Transaction

	snap, err := s.mutate(ctx, opAdd, func(c *change) error {
		if p.OccurredAt.IsZero() {
			p.OccurredAt = s.clock()
		}

		tx, err := c.ledger.Append(p)
		if err != nil {
			return err
		}

		added = tx
		c.lastTransactionAt = &tx.OccurredAt
		c.events = append(c.events, events.Event{Type: events.TransactionAdded, TransactionID: tx.ID})

		return nil
	})
	if err != nil {
		return transaction.Transaction{}, snapshot.Snapshot{}, err
	}

	slog.Info("transaction added", "id", added.ID, "kind", added.Kind, "amount", added.Amount, "revision", snap.Revision)

	return added, snap, nil
}

// RemoveTransaction deletes a transaction. Unknown ids return transaction.ErrNotFound.
func (s *Service) RemoveTransaction(ctx context.Context, id string) (snapshot.Snapshot, error) {
	snap, err := s.mutate(ctx, opRemove, func(c *change) error {
		if _, err := c.ledger.Remove(id); err != nil {
			return err
		}

		c.events = append(c.events, events.Event{Type: events.TransactionRemoved, TransactionID: id})

		return nil
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	slog.Info("transaction removed", "id", id, "revision", snap.Revision)

	return snap, nil
}

// ImportTransactions appends a batch. Either every entry is added or none is.
func (s *Service) ImportTransactions(ctx context.Context, params []transaction.CreateParams) ([]transaction.Transaction, snapshot.Snapshot, error) {
	if len(params) == 0 {
		return nil, s.Snapshot(), nil
	}

	var imported []transaction.Transaction

	snap, err := s.mutate(ctx, opImport, func(c *change) error {
		imported = make([]transaction.Transaction, 0, len(params))

		for i, p := range params {
			if p.OccurredAt.IsZero() {
				p.OccurredAt = s.clock()
			}

			tx, err := c.ledger.Append(p)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}

			imported = append(imported, tx)

			if c.lastTransactionAt == nil || tx.OccurredAt.After(*c.lastTransactionAt) {
				c.lastTransactionAt = &tx.OccurredAt
			}
		}

		c.events = append(c.events, events.Event{Type: events.TransactionsImported, Count: len(imported)})

		return nil
	})
	if err != nil {
		return nil, snapshot.Snapshot{}, err
	}

	slog.Info("transactions imported", "count", len(imported), "revision", snap.Revision)

	return imported, snap, nil
}

// UpdateProfile replaces the profile. The original creation time is kept.
func (s *Service) UpdateProfile(ctx context.Context, p profile.Profile) (snapshot.Snapshot, error) {
	if err := p.Validate(); err != nil {
		s.metrics.Mutation(opProfile, err)
		return snapshot.Snapshot{}, err
	}

	return s.mutate(ctx, opProfile, func(c *change) error {
		p.CreatedAt = c.profile.CreatedAt
		c.profile = p
		c.events = append(c.events, events.Event{Type: events.ProfileUpdated})

		return nil
	})
}

// Reset clears every transaction, the profile, the progression and all
// achievements. The ledger revision keeps counting up.
func (s *Service) Reset(ctx context.Context) (snapshot.Snapshot, error) {
	snap, err := s.mutate(ctx, opReset, func(c *change) error {
		init := Initial(s.clock())

		ledger, err := transaction.Restore(c.ledger.Revision()+1, nil)
		if err != nil {
			return err
		}

		c.profile = init.Profile
		c.ledger = ledger
		c.previous = init.Progression
		c.achievements = init.Achievements
		c.events = append(c.events, events.Event{Type: events.StateReset})

		return nil
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	slog.Info("state reset", "revision", snap.Revision)

	return snap, nil
}

// Restore replaces the whole state with a backup. The ledger revision is
// the larger of the backup's and the next one, so it never goes back.
func (s *Service) Restore(ctx context.Context, st State) (snapshot.Snapshot, error) {
	if err := st.Profile.Validate(); err != nil {
		s.metrics.Mutation(opRestore, err)
		return snapshot.Snapshot{}, err
	}

	snap, err := s.mutate(ctx, opRestore, func(c *change) error {
		revision := max(st.Revision, c.ledger.Revision()+1)

		ledger, err := transaction.Restore(revision, st.Transactions)
		if err != nil {
			return err
		}

		if st.Profile.CreatedAt.IsZero() {
			st.Profile.CreatedAt = c.profile.CreatedAt
		}

		c.profile = st.Profile
		c.ledger = ledger
		c.previous = st.Progression
		c.achievements = achievement.Normalize(st.Achievements)
		c.events = append(c.events, events.Event{Type: events.StateRestored, Count: ledger.Len()})

		return nil
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	slog.Info("state restored", "transactions", snap.TransactionCount, "revision", snap.Revision)

	return snap, nil
}

// Refresh recomputes the snapshot at the current time without touching the
// ledger. Nothing is saved unless the derived state changed.
func (s *Service) Refresh(ctx context.Context) (snapshot.Snapshot, error) {
	s.mu.Lock()
	next, err := s.commit(ctx, s.current(), false)
	s.mu.Unlock()

	s.metrics.Mutation(opRefresh, err)

	if err != nil {
		return snapshot.Snapshot{}, err
	}

	s.publishUnlocks(ctx, next)

	return next, nil
}

// change is a mutation being prepared against copies of the current state.
type change struct {
	profile           profile.Profile
	ledger            *transaction.Ledger
	previous          progression.State
	achievements      achievement.Set
	lastTransactionAt *time.Time
	events            []events.Event
}

// current must be called with s.mu held.
func (s *Service) current() change {
	return change{
		profile:      s.profile,
		ledger:       s.ledger.Clone(),
		previous:     s.snap.Progression,
		achievements: s.snap.Set,
	}
}

func (s *Service) mutate(ctx context.Context, op string, apply func(c *change) error) (snapshot.Snapshot, error) {
	s.mu.Lock()

	c := s.current()

	err := apply(&c)
	if err != nil {
		s.mu.Unlock()
		s.metrics.Mutation(op, err)

		return snapshot.Snapshot{}, err
	}

	next, err := s.commit(ctx, c, true)
	s.mu.Unlock()

	s.metrics.Mutation(op, err)

	if err != nil {
		return snapshot.Snapshot{}, err
	}

	for _, e := range c.events {
		e.Revision = next.Revision
		e.OccurredAt = s.clock()
		s.publish(ctx, e)
	}

	s.publishUnlocks(ctx, next)

	return next, nil
}

// commit recomputes the snapshot for c, saves it and swaps it in.
// Unless force is set the save is skipped when nothing derived changed.
// It must be called with s.mu held.
func (s *Service) commit(ctx context.Context, c change, force bool) (snapshot.Snapshot, error) {
	next := s.assemble(c.profile, c.ledger, c.previous, c.achievements, c.lastTransactionAt, s.clock())

	if force || changed(c.previous, next) {
		if err := s.repo.Save(ctx, stateOf(c.profile, c.ledger, next)); err != nil {
			slog.Error("failed to save state", "error", err, "revision", next.Revision)
			return snapshot.Snapshot{}, fmt.Errorf("saving state: %w", err)
		}
	}

	s.profile, s.ledger, s.snap = c.profile, c.ledger, next

	for _, id := range next.UnlockedThisUpdate {
		s.metrics.Unlocked(string(id))
	}

	s.metrics.Observe(next.Balance, next.Progression.Level, next.Progression.Health, next.TransactionCount)

	return next, nil
}

func (s *Service) assemble(
	p profile.Profile,
	ledger *transaction.Ledger,
	previous progression.State,
	achievements achievement.Set,
	lastTransactionAt *time.Time,
	now time.Time,
) snapshot.Snapshot {
	start := time.Now()
	defer func() { s.metrics.Recomputed(time.Since(start)) }()

	streak := progression.Streak(ledger.List(), now.In(p.Location()))

	return snapshot.Assemble(snapshot.Input{
		Ledger:            ledger,
		Profile:           p,
		Previous:          previous,
		Achievements:      achievements,
		Now:               now,
		StreakDays:        &streak,
		LastTransactionAt: lastTransactionAt,
		Policy:            s.policy,
	})
}

func (s *Service) publishUnlocks(ctx context.Context, snap snapshot.Snapshot) {
	for _, id := range snap.UnlockedThisUpdate {
		slog.Info("achievement unlocked", "achievement", id, "revision", snap.Revision)

		s.publish(ctx, events.Event{
			Type:        events.AchievementUnlocked,
			Revision:    snap.Revision,
			Achievement: string(id),
			OccurredAt:  s.clock(),
		})
	}
}

// publish is best effort: the mutation is already durable.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Error("failed to publish event", "error", err, "type", e.Type)
	}
}

func stateOf(p profile.Profile, ledger *transaction.Ledger, snap snapshot.Snapshot) State {
	return State{
		Revision:     ledger.Revision(),
		Profile:      p,
		Transactions: ledger.List(),
		Progression:  snap.Progression,
		Achievements: snap.Set,
	}
}

func changed(prev progression.State, next snapshot.Snapshot) bool {
	if len(next.UnlockedThisUpdate) > 0 {
		return true
	}

	a, b := prev, next.Progression
	if a.Stage != b.Stage || a.Level != b.Level || a.Health != b.Health ||
		a.TotalSavings != b.TotalSavings || a.StreakDays != b.StreakDays {
		return true
	}

	if (a.LastTransactionAt == nil) != (b.LastTransactionAt == nil) {
		return true
	}

	return a.LastTransactionAt != nil && !a.LastTransactionAt.Equal(*b.LastTransactionAt)
}
