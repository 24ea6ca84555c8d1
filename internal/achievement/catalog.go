package achievement

// ID names one achievement of the fixed catalog.
type ID string

const (
	FirstStep       ID = "first_step"
	WeeklyWarrior   ID = "weekly_warrior"
	BudgetMaster    ID = "budget_master"
	SaveHero        ID = "save_hero"
	SpendingControl ID = "spending_control"
	RichKid         ID = "rich_kid"
	Millionaire     ID = "millionaire"
	Consistent      ID = "consistent"
)

// Definition is the presentation metadata of an achievement.
type Definition struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var catalog = []Definition{
	{ID: FirstStep, Title: "First Step", Description: "Add your first transaction", Icon: "🎯"},
	{ID: WeeklyWarrior, Title: "Weekly Warrior", Description: "Track expenses for 7 days in a row", Icon: "⚡"},
	{ID: BudgetMaster, Title: "Budget Master", Description: "Track expenses for 30 days in a row", Icon: "👑"},
	{ID: SaveHero, Title: "Save Hero", Description: "Save 100,000 in a month", Icon: "💎"},
	{ID: SpendingControl, Title: "Spending Control", Description: "Spend less than 70% of your income", Icon: "🎮"},
	{ID: RichKid, Title: "Rich Kid", Description: "Reach a balance of 1,000,000", Icon: "💰"},
	{ID: Millionaire, Title: "Millionaire", Description: "Save 2,000,000 in total", Icon: "🏆"},
	{ID: Consistent, Title: "Consistent", Description: "Track expenses for 60 days in a row", Icon: "🔥"},
}

// Catalog returns the eight achievements in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)

	return out
}

// Lookup returns the definition of id.
func Lookup(id ID) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}

	return Definition{}, false
}
