package api

// Expense is a recorded payment.
type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PayerID     string  `json:"payer_id"`
	PayerName   string  `json:"payer_name"`
	OccurredAt  int64   `json:"occurred_at"`
	CreatedAt   int64   `json:"created_at"`
}

type CreateExpenseRequest struct {
	GroupID     string  `json:"group_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`

	// PayerID defaults to the caller.
	PayerID string `json:"payer_id,omitempty"`

	// OccurredAt is Unix seconds and defaults to now.
	OccurredAt int64 `json:"occurred_at,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// DayTotal is the amount spent on one calendar day.
type DayTotal struct {
	Date  string  `json:"date"`  // 2006-01-02
	Label string  `json:"label"` // M/D
	Total float64 `json:"total"`
}

type GetSpendingTrendRequest struct {
	// GroupID limits the trend to one group; empty means all of the caller's groups.
	GroupID string `json:"group_id,omitempty"`

	// Days defaults to 7.
	Days int32 `json:"days,omitempty"`
}

type GetSpendingTrendResponse struct {
	Days      []*DayTotal `json:"days"`
	PeakIndex int32       `json:"peak_index"`
}
