package models

import (
	"math"
	"strings"
)

// Expense is a single payment made by one member on behalf of a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is free text (e.g., "Groceries"). Must not be blank.
	Description string

	// Amount is the payment in currency units. Must be strictly positive.
	Amount float64

	// PayerID is the user ID of the member who fronted the payment.
	PayerID string

	// PayerName is the payer's display name, resolved by the store on read.
	PayerName string

	// OccurredAt is the Unix timestamp of the expense. Only used for
	// spending trends, never for balance math.
	OccurredAt int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Validate checks the fields required to record an expense.
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return &ValidationError{Field: "description", Reason: "description is required"}
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return &ValidationError{Field: "amount", Reason: "amount must be a finite number"}
	}
	if e.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "amount must be greater than zero"}
	}
	if e.GroupID == "" {
		return &ValidationError{Field: "group_id", Reason: "group is required"}
	}
	if e.PayerID == "" {
		return &ValidationError{Field: "payer_id", Reason: "payer is required"}
	}
	return nil
}
