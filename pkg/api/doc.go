// Package api defines the request and response messages of the Splitshare
// RPC services. Messages travel as JSON; field names are snake_case.
//
// Amounts are float64 currency units at full precision. Fields named
// display_* carry the same value rounded to minor units.
package api
