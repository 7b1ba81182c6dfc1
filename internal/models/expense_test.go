package models

import (
	"errors"
	"math"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	valid := func() Expense {
		return Expense{GroupID: "g1", Description: "Groceries", Amount: 75.5, PayerID: "u1"}
	}

	tests := []struct {
		name      string
		mutate    func(e *Expense)
		wantField string
	}{
		{name: "valid expense", mutate: func(e *Expense) {}},
		{name: "blank description", mutate: func(e *Expense) { e.Description = "   " }, wantField: "description"},
		{name: "zero amount", mutate: func(e *Expense) { e.Amount = 0 }, wantField: "amount"},
		{name: "negative amount", mutate: func(e *Expense) { e.Amount = -3 }, wantField: "amount"},
		{name: "NaN amount", mutate: func(e *Expense) { e.Amount = math.NaN() }, wantField: "amount"},
		{name: "infinite amount", mutate: func(e *Expense) { e.Amount = math.Inf(1) }, wantField: "amount"},
		{name: "missing group", mutate: func(e *Expense) { e.GroupID = "" }, wantField: "group_id"},
		{name: "missing payer", mutate: func(e *Expense) { e.PayerID = "" }, wantField: "payer_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(&e)
			err := e.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestGroupValidateAndHasMember(t *testing.T) {
	g := Group{Name: "  ", CreatedBy: "u1"}
	if err := g.Validate(); err == nil {
		t.Error("expected error for blank group name")
	}

	g = Group{
		Name:      "Roommates",
		CreatedBy: "u1",
		Members:   []Member{{ID: "u1", DisplayName: "Alex"}, {ID: "u2", DisplayName: "Taylor"}},
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !g.HasMember("u2") {
		t.Error("expected u2 to be a member")
	}
	if g.HasMember("u3") {
		t.Error("did not expect u3 to be a member")
	}
}
