package calculator

import (
	"fmt"
	"time"
)

const dayKey = "2006-01-02"

// DayTotal is the amount spent on one calendar day.
type DayTotal struct {
	Date  time.Time // Midnight at the start of the day
	Label string    // M/D, e.g. "3/30"
	Total float64
}

// SpendingTrend is a run of consecutive days, oldest first.
type SpendingTrend struct {
	Days []DayTotal

	// PeakIndex is the first day with the highest total.
	// It is 0 when every day is zero and -1 when there are no days.
	PeakIndex int
}

// DailySpending sums expenses per calendar day over the days-long window
// ending on now's day. Days are taken in now's location; expenses outside
// the window are ignored.
func DailySpending(expenses []Expense, now time.Time, days int) SpendingTrend {
	if days <= 0 {
		return SpendingTrend{PeakIndex: -1}
	}

	loc := now.Location()
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	trend := SpendingTrend{Days: make([]DayTotal, days)}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		trend.Days[i] = DayTotal{
			Date:  day,
			Label: fmt.Sprintf("%d/%d", int(day.Month()), day.Day()),
		}
		index[day.Format(dayKey)] = i
	}

	for _, e := range expenses {
		day := time.Unix(e.OccurredAt, 0).In(loc)
		if i, ok := index[day.Format(dayKey)]; ok {
			trend.Days[i].Total += e.Amount
		}
	}

	for i, d := range trend.Days {
		if d.Total > trend.Days[trend.PeakIndex].Total {
			trend.PeakIndex = i
		}
	}

	return trend
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
