package achievement

const (
	weeklyStreak     = 7
	budgetStreak     = 30
	consistentStreak = 60

	monthSavingsGoal    int64 = 100_000
	richBalance         int64 = 1_000_000
	millionaireSavings  int64 = 2_000_000
	spendingRateCeiling       = 0.7
	spendingRampSlope         = 500
)

type rule struct {
	met      func(m Metrics) bool
	progress func(m Metrics) float64
}

var rules = map[ID]rule{
	FirstStep: {
		met:      func(m Metrics) bool { return m.TransactionCount >= 1 },
		progress: func(m Metrics) float64 { return ratio(int64(m.TransactionCount), 1) },
	},
	WeeklyWarrior: streakRule(weeklyStreak),
	BudgetMaster:  streakRule(budgetStreak),
	Consistent:    streakRule(consistentStreak),
	SaveHero: {
		met:      func(m Metrics) bool { return m.MonthSavings >= monthSavingsGoal },
		progress: func(m Metrics) float64 { return ratio(m.MonthSavings, monthSavingsGoal) },
	},
	SpendingControl: {
		met: func(m Metrics) bool {
			rate, ok := m.Totals.SpendingRate()
			return ok && rate < spendingRateCeiling
		},
		progress: func(m Metrics) float64 {
			rate, ok := m.Totals.SpendingRate()
			if !ok {
				return 0
			}

			if rate <= spendingRateCeiling {
				return 100
			}

			return clamp(100 - (rate-spendingRateCeiling)*spendingRampSlope)
		},
	},
	RichKid: {
		met:      func(m Metrics) bool { return m.Totals.Balance() >= richBalance },
		progress: func(m Metrics) float64 { return ratio(m.Totals.Balance(), richBalance) },
	},
	Millionaire: {
		met:      func(m Metrics) bool { return m.TotalSavings >= millionaireSavings },
		progress: func(m Metrics) float64 { return ratio(m.TotalSavings, millionaireSavings) },
	},
}

func streakRule(days int) rule {
	return rule{
		met:      func(m Metrics) bool { return m.StreakDays >= days },
		progress: func(m Metrics) float64 { return ratio(int64(m.StreakDays), int64(days)) },
	}
}

// ratio maps value onto a linear 0-100 scale reaching 100 at target.
func ratio(value, target int64) float64 {
	return clamp(float64(value) * 100 / float64(target))
}

func clamp(pct float64) float64 {
	return min(100, max(0, pct))
}
