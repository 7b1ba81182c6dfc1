package calculator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"
)

// randomGroup builds a roster of n members and count expenses paid by them,
// amounts in whole cents.
func randomGroup(r *rand.Rand, n, count int) ([]Member, []Expense) {
	members := make([]Member, n)
	for i := range members {
		members[i] = Member{ID: fmt.Sprintf("m%d", i), Name: fmt.Sprintf("Member %d", i)}
	}
	expenses := make([]Expense, count)
	for i := range expenses {
		expenses[i] = Expense{
			Amount:  float64(r.IntN(50000)+1) / 100,
			PayerID: members[r.IntN(n)].ID,
		}
	}
	return members, expenses
}

func TestBalanceProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 50; round++ {
		members, expenses := randomGroup(r, r.IntN(6)+1, r.IntN(40))

		t.Run(fmt.Sprintf("round %d", round), func(t *testing.T) {
			ledger := Positions(members, expenses)
			if len(ledger.Positions) != len(members) {
				t.Fatalf("got %d positions, want %d", len(ledger.Positions), len(members))
			}
			if ledger.Unattributed != 0 {
				t.Errorf("Unattributed = %v, want 0", ledger.Unattributed)
			}

			var sum float64
			paid := map[string]float64{}
			for _, p := range ledger.Positions {
				sum += p.Net
				paid[p.MemberID] = p.Paid
			}
			if math.Abs(sum) > 1e-6 {
				t.Errorf("nets sum to %v, want 0", sum)
			}

			n := float64(len(members))
			for _, viewer := range members {
				first := ComputeBalances(members, expenses, viewer.ID)
				second := ComputeBalances(members, expenses, viewer.ID)
				if !reflect.DeepEqual(first, second) {
					t.Errorf("repeat calls disagree: %+v vs %+v", first, second)
				}

				for _, b := range first {
					if b.CounterpartID == viewer.ID {
						t.Errorf("viewer %s appears in own balances", viewer.ID)
					}
					if IsSettled(b.Amount) {
						t.Errorf("settled amount %v reported", b.Amount)
					}
					want := (paid[viewer.ID] - paid[b.CounterpartID]) / n
					if math.Abs(b.Amount-want) > 1e-6 {
						t.Errorf("%s vs %s = %v, want paid difference over roster %v", viewer.ID, b.CounterpartID, b.Amount, want)
					}

					found := false
					for _, m := range ComputeBalances(members, expenses, b.CounterpartID) {
						if m.CounterpartID == viewer.ID {
							found = true
							if math.Abs(m.Amount+b.Amount) > 1e-9 {
								t.Errorf("%s sees %v, %s sees %v; want opposite", viewer.ID, b.Amount, b.CounterpartID, m.Amount)
							}
						}
					}
					if !found {
						t.Errorf("counterpart %s must see viewer %s", b.CounterpartID, viewer.ID)
					}
				}
			}
		})
	}
}

func TestComputeBalances_DoesNotMutateInputs(t *testing.T) {
	members := []Member{{ID: "u1", Name: "A"}, {ID: "u2", Name: "B"}}
	expenses := []Expense{{Amount: 10, PayerID: "u1"}, {Amount: 4, PayerID: "ghost"}}

	membersCopy := append([]Member(nil), members...)
	expensesCopy := append([]Expense(nil), expenses...)

	ComputeBalances(members, expenses, "u1")

	if !reflect.DeepEqual(membersCopy, members) {
		t.Errorf("members mutated: %+v", members)
	}
	if !reflect.DeepEqual(expensesCopy, expenses) {
		t.Errorf("expenses mutated: %+v", expenses)
	}
}

func TestComputeBalances_Concurrent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	members, expenses := randomGroup(r, 5, 200)
	want := ComputeBalances(members, expenses, "m0")

	var wg sync.WaitGroup
	results := make([][]SignedBalance, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ComputeBalances(members, expenses, "m0")
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(want, got) {
			t.Errorf("goroutine %d got %+v, want %+v", i, got, want)
		}
	}
}

func TestComputeBalances_UnknownPayerScenario(t *testing.T) {
	members := []Member{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}
	expenses := []Expense{
		{Amount: 60, PayerID: "u1"},
		{Amount: 45, PayerID: "removed-member"},
	}

	ledger := Positions(members, expenses)
	var sum float64
	for _, p := range ledger.Positions {
		sum += p.Net
	}
	if math.Abs(sum+45) > 1e-9 {
		t.Errorf("nets sum to %v, want -45", sum)
	}
	if math.Abs(ledger.Unattributed-45) > 1e-9 {
		t.Errorf("Unattributed = %v, want 45", ledger.Unattributed)
	}

	// The unknown payer's expense shifts everyone equally, so the
	// pairwise view only reflects the 60 paid by u1.
	got := ComputeBalances(members, expenses, "u1")
	if len(got) != 2 {
		t.Fatalf("got %d balances, want 2: %+v", len(got), got)
	}
	for _, b := range got {
		if math.Abs(b.Amount-20) > 1e-9 {
			t.Errorf("%s owes %v, want 20", b.CounterpartID, b.Amount)
		}
	}
}
