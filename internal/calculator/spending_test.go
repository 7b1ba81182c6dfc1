package calculator

import (
	"math"
	"testing"
	"time"
)

func TestDailySpending(t *testing.T) {
	melbourne := time.FixedZone("AEDT", 11*60*60)
	now := time.Date(2025, time.March, 30, 15, 0, 0, 0, melbourne)
	at := func(daysAgo, hour int) int64 {
		d := now.AddDate(0, 0, -daysAgo)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, melbourne).Unix()
	}

	expenses := []Expense{
		{Amount: 350.00, OccurredAt: at(6, 9)},
		{Amount: 120.50, OccurredAt: at(5, 20)},
		{Amount: 45.00, OccurredAt: at(4, 12)},
		{Amount: 85.75, OccurredAt: at(3, 18)},
		{Amount: 60.00, OccurredAt: at(2, 8)},
		{Amount: 32.00, OccurredAt: at(1, 21)},
		{Amount: 25.00, OccurredAt: at(0, 0)},
		{Amount: 5.00, OccurredAt: at(8, 10)}, // outside the window
		{Amount: 10.00, OccurredAt: at(0, 23)},
	}

	trend := DailySpending(expenses, now, 7)

	if len(trend.Days) != 7 {
		t.Fatalf("got %d days, want 7", len(trend.Days))
	}

	wantLabels := []string{"3/24", "3/25", "3/26", "3/27", "3/28", "3/29", "3/30"}
	wantTotals := []float64{350.00, 120.50, 45.00, 85.75, 60.00, 32.00, 35.00}
	for i, d := range trend.Days {
		if d.Label != wantLabels[i] {
			t.Errorf("day[%d] label = %s, want %s", i, d.Label, wantLabels[i])
		}
		if math.Abs(d.Total-wantTotals[i]) > 1e-9 {
			t.Errorf("day[%d] total = %v, want %v", i, d.Total, wantTotals[i])
		}
	}

	if trend.PeakIndex != 0 {
		t.Errorf("PeakIndex = %d, want 0", trend.PeakIndex)
	}
}

func TestDailySpending_UsesViewerLocation(t *testing.T) {
	// 23:30 UTC on 3/29 is already 3/30 in UTC+11
	plus11 := time.FixedZone("UTC+11", 11*60*60)
	now := time.Date(2025, time.March, 30, 12, 0, 0, 0, plus11)
	occurred := time.Date(2025, time.March, 29, 23, 30, 0, 0, time.UTC).Unix()

	trend := DailySpending([]Expense{{Amount: 12, OccurredAt: occurred}}, now, 2)

	if trend.Days[0].Total != 0 || trend.Days[1].Total != 12 {
		t.Errorf("totals = [%v %v], want [0 12]", trend.Days[0].Total, trend.Days[1].Total)
	}
	if trend.PeakIndex != 1 {
		t.Errorf("PeakIndex = %d, want 1", trend.PeakIndex)
	}
}

func TestDailySpending_EdgeCases(t *testing.T) {
	now := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)

	empty := DailySpending(nil, now, 3)
	if len(empty.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(empty.Days))
	}
	if empty.PeakIndex != 0 {
		t.Errorf("PeakIndex for all-zero trend = %d, want 0", empty.PeakIndex)
	}
	// Window crosses the year boundary
	if empty.Days[0].Label != "12/31" {
		t.Errorf("first label = %s, want 12/31", empty.Days[0].Label)
	}

	none := DailySpending(nil, now, 0)
	if len(none.Days) != 0 || none.PeakIndex != -1 {
		t.Errorf("zero-day trend = %+v, want no days and PeakIndex -1", none)
	}

	ties := DailySpending([]Expense{
		{Amount: 5, OccurredAt: now.AddDate(0, 0, -1).Unix()},
		{Amount: 5, OccurredAt: now.Unix()},
	}, now, 2)
	if ties.PeakIndex != 0 {
		t.Errorf("PeakIndex with ties = %d, want first maximum 0", ties.PeakIndex)
	}
}
