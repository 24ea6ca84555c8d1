// Package progression derives the pet's lifecycle stage, level and health
// from the ledger's aggregate savings and balance.
package progression

import (
	"fmt"
	"time"
)

// Stage is the pet's lifecycle phase.
type Stage string

const (
	StageEgg   Stage = "egg"
	StageBaby  Stage = "baby"
	StageAdult Stage = "adult"
)

// Savings thresholds in minor currency units.
const (
	BabyThreshold  int64 = 500_000
	AdultThreshold int64 = 2_000_000
)

const (
	HealthThriving   = 100
	HealthSteady     = 70
	HealthStruggling = 40
)

// Mood is how the pet feels about the current balance.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
)

// Policy decides whether a drop in savings can lower the stage.
type Policy string

const (
	// PolicyInstantaneous recomputes the stage from current savings on every pass.
	PolicyInstantaneous Policy = "instantaneous"
	// PolicyHighWaterMark never lowers the stage below the previous state's.
	PolicyHighWaterMark Policy = "high_water_mark"
)

// ParsePolicy accepts the names used in configuration. Empty means instantaneous.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyInstantaneous:
		return PolicyInstantaneous, nil
	case PolicyHighWaterMark:
		return PolicyHighWaterMark, nil
	}

	return "", fmt.Errorf("unknown stage policy %q", s)
}

// State is the derived progression of the pet.
type State struct {
	Stage             Stage      `json:"stage"`
	Level             int        `json:"level"`
	Health            int        `json:"health"`
	TotalSavings      int64      `json:"totalSavings"`
	StreakDays        int        `json:"streakDays"`
	LastTransactionAt *time.Time `json:"lastTransactionAt,omitempty"`
}

// Default is the progression of a brand new pet. It equals what an empty
// ledger derives to.
func Default() State {
	return State{
		Stage:  StageEgg,
		Level:  1,
		Health: HealthSteady,
	}
}

// Mood maps the state's health onto a mood.
func (s State) Mood() Mood {
	switch {
	case s.Health >= HealthThriving:
		return MoodHappy
	case s.Health <= HealthStruggling:
		return MoodSad
	}

	return MoodNeutral
}

// StageFor returns the stage and level reached with the given savings.
func StageFor(totalSavings int64) (Stage, int) {
	switch {
	case totalSavings >= AdultThreshold:
		return StageAdult, 3
	case totalSavings >= BabyThreshold:
		return StageBaby, 2
	}

	return StageEgg, 1
}

// ToNextStage returns the savings still needed to reach the next stage and
// its name. At the last stage it returns 0 and "".
func ToNextStage(totalSavings int64) (int64, Stage) {
	switch {
	case totalSavings < BabyThreshold:
		return BabyThreshold - totalSavings, StageBaby
	case totalSavings < AdultThreshold:
		return AdultThreshold - totalSavings, StageAdult
	}

	return 0, ""
}

// HealthFor is a step function of the balance sign.
func HealthFor(balance int64) int {
	switch {
	case balance > 0:
		return HealthThriving
	case balance == 0:
		return HealthSteady
	}

	return HealthStruggling
}

// Input carries what Derive needs. Nil StreakDays and LastTransactionAt
// carry the previous values over.
type Input struct {
	TotalSavings      int64
	Balance           int64
	Previous          State
	StreakDays        *int
	LastTransactionAt *time.Time
	Policy            Policy
}

// Derive computes the next progression state.
func Derive(in Input) State {
	stage, level := StageFor(in.TotalSavings)

	if in.Policy == PolicyHighWaterMark && validLevel(in.Previous.Level) && in.Previous.Level > level {
		stage, level = stageOf(in.Previous.Level), in.Previous.Level
	}

	next := State{
		Stage:             stage,
		Level:             level,
		Health:            HealthFor(in.Balance),
		TotalSavings:      max(0, in.TotalSavings),
		StreakDays:        in.Previous.StreakDays,
		LastTransactionAt: in.Previous.LastTransactionAt,
	}

	if in.StreakDays != nil {
		next.StreakDays = max(0, *in.StreakDays)
	}

	if in.LastTransactionAt != nil {
		at := *in.LastTransactionAt
		next.LastTransactionAt = &at
	}

	return next
}

func validLevel(level int) bool { return level >= 1 && level <= 3 }

func stageOf(level int) Stage {
	switch level {
	case 3:
		return StageAdult
	case 2:
		return StageBaby
	}

	return StageEgg
}
