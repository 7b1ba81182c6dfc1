package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/splitshare/internal/format"
	"github.com/mmynk/splitshare/pkg/api"
)

var (
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext0 = lipgloss.Color("#a6adc8")
	colorOverlay1 = lipgloss.Color("#7f849c")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorRed      = lipgloss.Color("#f38ba8")
	colorPeach    = lipgloss.Color("#fab387")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPeach)
	nameStyle  = lipgloss.NewStyle().Foreground(colorText)
	dimStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	metaStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOverlay1).
			Padding(0, 1)
)

// amountStyle colors money the caller is owed green and money they owe red.
func amountStyle(amount float64) lipgloss.Style {
	switch {
	case amount >= 0.01:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case amount <= -0.01:
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return dimStyle
	}
}

func renderGroups(groups []*api.Group) string {
	if len(groups) == 0 {
		return dimStyle.Render("No groups yet.")
	}

	width := 0
	for _, g := range groups {
		width = max(width, lipgloss.Width(g.Name))
	}

	lines := []string{titleStyle.Render("Groups")}
	for _, g := range groups {
		summary, net := "", 0.0
		if g.Summary != nil {
			summary, net = g.Summary.Text, g.Summary.Net
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			nameStyle.Width(width).Render(g.Name),
			metaStyle.Render(fmt.Sprintf("%d members", len(g.Members))),
			amountStyle(net).Render(summary),
		))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderBalances(group *api.Group, resp *api.GetGroupBalancesResponse) string {
	lines := []string{titleStyle.Render(group.Name)}
	if resp.Viewer != nil {
		lines = append(lines, amountStyle(resp.Viewer.Net).Render(resp.Viewer.Text), "")
	}

	if len(resp.Balances) == 0 {
		lines = append(lines, dimStyle.Render("Everyone is settled up."))
		return boxStyle.Render(strings.Join(lines, "\n"))
	}

	width := 0
	for _, b := range resp.Balances {
		width = max(width, lipgloss.Width(b.CounterpartName))
	}
	for _, b := range resp.Balances {
		lines = append(lines, nameStyle.Width(width).Render(b.CounterpartName)+"  "+amountStyle(b.Amount).Render(b.Phrase))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// barWidth is the length of the longest spending bar.
const barWidth = 24

func renderTrend(resp *api.GetSpendingTrendResponse, symbol string) string {
	peak := 0.0
	if resp.PeakIndex >= 0 && int(resp.PeakIndex) < len(resp.Days) {
		peak = resp.Days[resp.PeakIndex].Total
	}

	lines := []string{titleStyle.Render("Spending")}
	for i, d := range resp.Days {
		n := 0
		if peak > 0 {
			n = int(d.Total / peak * barWidth)
		}
		bar := strings.Repeat("█", n)
		style := metaStyle
		if int32(i) == resp.PeakIndex && peak > 0 {
			style = lipgloss.NewStyle().Foreground(colorPeach)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			dimStyle.Width(5).Render(d.Label),
			style.Width(barWidth).Render(bar),
			nameStyle.Render(format.Money(d.Total, symbol)),
		))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
