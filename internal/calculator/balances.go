package calculator

import "math"

// SettledEpsilon is the smallest balance magnitude, in currency units, that
// is still reported. Anything below it counts as settled.
const SettledEpsilon = 0.01

// Member is a roster entry with the minimal information needed for balance calculations.
type Member struct {
	ID   string
	Name string
}

// Expense is an expense with the minimal information needed for balance calculations.
type Expense struct {
	Amount     float64
	PayerID    string
	OccurredAt int64 // Unix seconds; only used by DailySpending
}

// SignedBalance is the net relationship between the viewer and one other member.
type SignedBalance struct {
	CounterpartID   string
	CounterpartName string
	Amount          float64 // Positive = counterpart owes viewer, Negative = viewer owes counterpart
}

// Position is one member's cumulative standing across a group's expenses.
type Position struct {
	MemberID   string
	MemberName string
	Paid       float64 // Total amount fronted by this member
	Share      float64 // Total of this member's equal shares
	Net        float64 // Paid - Share
}

// Ledger holds every member's position, in roster order.
type Ledger struct {
	Positions []Position

	// Unattributed is the payment credit of expenses whose payer is not
	// on the roster. Those expenses still debit every member's share, so
	// the nets sum to -Unattributed instead of zero.
	Unattributed float64
}

// IsSettled reports whether a balance is too small to report.
func IsSettled(amount float64) bool {
	return math.Abs(amount) < SettledEpsilon
}

// Positions computes each member's paid/share/net under an equal split
// across the whole roster.
//
// Algorithm:
// - share = amount / len(members) for every expense
// - the payer (if on the roster) is credited the full amount
// - every member, payer included, is debited one share
func Positions(members []Member, expenses []Expense) Ledger {
	if len(members) == 0 {
		return Ledger{}
	}

	index := make(map[string]int, len(members))
	positions := make([]Position, len(members))
	for i, m := range members {
		index[m.ID] = i
		positions[i] = Position{MemberID: m.ID, MemberName: m.Name}
	}

	var unattributed float64
	n := float64(len(members))
	for _, e := range expenses {
		share := e.Amount / n

		if i, ok := index[e.PayerID]; ok {
			positions[i].Paid += e.Amount
		} else {
			unattributed += e.Amount
		}

		for i := range positions {
			positions[i].Share += share
		}
	}

	for i := range positions {
		positions[i].Net = positions[i].Paid - positions[i].Share
	}

	return Ledger{Positions: positions, Unattributed: unattributed}
}

// ComputeBalances returns the net signed balance between the viewer and
// every other member, in roster order, omitting settled pairs.
//
// An empty roster or a viewer missing from the roster yields no balances.
// Amounts keep full precision; round only when formatting.
func ComputeBalances(members []Member, expenses []Expense, viewerID string) []SignedBalance {
	return Positions(members, expenses).Balances(viewerID)
}

// ViewerPosition returns the viewer's own standing in the group.
// The second result is false when the viewer is not on the roster.
func ViewerPosition(members []Member, expenses []Expense, viewerID string) (Position, bool) {
	return Positions(members, expenses).Position(viewerID)
}

// Balances returns what each other member owes the viewer (positive) or is
// owed by them (negative), in roster order, omitting settled pairs.
//
// Every member carries the same total share, so the difference of two nets
// is the difference of what they paid. Each payment is split n ways, which
// makes the pair's debt that difference divided by n.
func (l Ledger) Balances(viewerID string) []SignedBalance {
	viewer, ok := l.Position(viewerID)
	if !ok {
		return nil
	}
	n := float64(len(l.Positions))

	var balances []SignedBalance
	for _, p := range l.Positions {
		if p.MemberID == viewerID {
			continue
		}

		amount := (viewer.Net - p.Net) / n
		if IsSettled(amount) {
			continue
		}

		balances = append(balances, SignedBalance{
			CounterpartID:   p.MemberID,
			CounterpartName: p.MemberName,
			Amount:          amount,
		})
	}

	return balances
}

// Position returns one member's standing. The second result is false when
// the member is not on the roster.
func (l Ledger) Position(memberID string) (Position, bool) {
	for _, p := range l.Positions {
		if p.MemberID == memberID {
			return p, true
		}
	}
	return Position{}, false
}
