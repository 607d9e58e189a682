package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/solver-geode/internal/solver"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("14")).
	Foreground(lipgloss.Color("14")).
	Bold(true).
	Padding(0, 2)

// printer writes coloured console output; quiet keeps only the final answer
type printer struct {
	w     io.Writer
	quiet bool

	title   *color.Color
	success *color.Color
	note    *color.Color
	muted   *color.Color
}

func newPrinter(w io.Writer, quiet bool) *printer {
	return &printer{
		w:       w,
		quiet:   quiet,
		title:   color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgYellow),
		muted:   color.New(color.FgHiBlack),
	}
}

func (p *printer) banner() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.w, bannerStyle.Render("Geode Production Optimizer\nrobot factory blueprint search"))
	fmt.Fprintln(p.w)
}

func (p *printer) info(format string, args ...any) {
	if p.quiet {
		return
	}
	p.note.Fprintf(p.w, format, args...)
}

// progress prints one line per finished blueprint
func (p *printer) progress(r geode.Result) {
	if p.quiet {
		return
	}
	p.muted.Fprintf(p.w, "Blueprint: %d, max geodes: %d, level: %d\n", r.BlueprintID, r.Geodes, r.Quality())
}

func (p *printer) results(results []geode.Result) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.w)
	p.title.Fprintln(p.w, "📋 Results")

	table := tablewriter.NewTable(p.w,
		tablewriter.WithHeader([]string{"Blueprint", "Minutes", "Geodes", "Quality", "States", "Time"}),
	)
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.BlueprintID),
			strconv.Itoa(r.Horizon),
			strconv.Itoa(r.Geodes),
			strconv.Itoa(r.Quality()),
			strconv.Itoa(r.Stats.Popped),
			formatDuration(r.Duration),
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func (p *printer) score(score *solver.Score, elapsed time.Duration) {
	if p.quiet {
		fmt.Fprintln(p.w, score.Value)
		return
	}

	fmt.Fprintln(p.w)
	label := "Sum of quality levels"
	if score.Mode == solver.ModeProduct {
		label = fmt.Sprintf("Product of the first %d blueprints", len(score.Results))
	}
	p.success.Fprintf(p.w, "✅ %s over %d minutes: %d\n", label, score.Horizon, score.Value)
	p.note.Fprintf(p.w, "⏱  %s\n", formatDuration(elapsed))
}

func (p *printer) stats(results []geode.Result) {
	if p.quiet {
		for _, r := range results {
			fmt.Fprintf(p.w, "%d %d\n", r.BlueprintID, r.Geodes)
		}
		return
	}

	fmt.Fprintln(p.w)
	p.title.Fprintln(p.w, "🔎 Search statistics")

	table := tablewriter.NewTable(p.w,
		tablewriter.WithHeader([]string{"Blueprint", "Popped", "Expanded", "Admitted", "Bound cuts", "Dominance cuts", "Max frontier"}),
	)
	for _, r := range results {
		_ = table.Append([]string{
			strconv.Itoa(r.BlueprintID),
			strconv.Itoa(r.Stats.Popped),
			strconv.Itoa(r.Stats.Expanded),
			strconv.Itoa(r.Stats.Admitted),
			strconv.Itoa(r.Stats.PrunedByBound),
			strconv.Itoa(r.Stats.PrunedByDominance),
			strconv.Itoa(r.Stats.MaxFrontier),
		})
	}
	_ = table.Render()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
