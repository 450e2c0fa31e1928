package domain

// CategoryTotal is the summed expense amount of one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Amount `json:"total"`
}

// Totals holds income, expense and their difference for a scope.
type Totals struct {
	Income  Amount `json:"income"`
	Expense Amount `json:"expense"`
	Balance Amount `json:"balance"`
}

// UserSummary is the per-user analytics view.
type UserSummary struct {
	Totals
	TopCategory   *CategoryTotal  `json:"topCategory"`
	TopCategories []CategoryTotal `json:"topCategories"`
}

// OwnerRef is the owner annotation on an admin feed entry.
type OwnerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FeedEntry is a transaction in the admin recent-activity feed. User is nil
// when the owner can no longer be resolved.
type FeedEntry struct {
	Transaction
	User *OwnerRef `json:"user"`
}

// OverviewTotals are the global counters and sums of the admin overview.
type OverviewTotals struct {
	Users        int64  `json:"users"`
	Transactions int64  `json:"transactions"`
	Income       Amount `json:"income"`
	Expense      Amount `json:"expense"`
	Balance      Amount `json:"balance"`
}

// AdminOverview is the composite admin response.
type AdminOverview struct {
	Totals             OverviewTotals  `json:"totals"`
	Categories         []CategoryTotal `json:"categories"`
	LatestTransactions []FeedEntry     `json:"latestTransactions"`
}
