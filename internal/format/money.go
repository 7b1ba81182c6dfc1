// Package format turns engine amounts into display text.
//
// The balance engine keeps full float precision. Rounding to minor units
// happens here and only here.
package format

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitshare/internal/calculator"
)

// DefaultSymbol is used when no currency symbol is configured.
const DefaultSymbol = "$"

const minorUnits = 2

// Round rounds an amount to minor units, half away from zero.
func Round(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(minorUnits).Float64()
	return f
}

// Money renders the absolute value of amount with the currency symbol,
// e.g. "$12.50". The sign is left to the surrounding phrase.
func Money(amount float64, symbol string) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	d := decimal.NewFromFloat(amount).Abs().Round(minorUnits)
	return symbol + d.StringFixed(minorUnits)
}

// BalancePhrase describes a signed balance from the viewer's side:
// "owes you $X", "you owe $X" or "settled up".
func BalancePhrase(amount float64, symbol string) string {
	switch {
	case calculator.IsSettled(amount):
		return "settled up"
	case amount > 0:
		return "owes you " + Money(amount, symbol)
	default:
		return "you owe " + Money(amount, symbol)
	}
}

// SummaryPhrase describes the viewer's overall net in a group:
// "You are owed $X", "You owe $X" or "Settled up".
func SummaryPhrase(net float64, symbol string) string {
	switch {
	case calculator.IsSettled(net):
		return "Settled up"
	case net > 0:
		return "You are owed " + Money(net, symbol)
	default:
		return "You owe " + Money(net, symbol)
	}
}
