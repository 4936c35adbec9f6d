// Package cli renders compliance results for the terminal and reads trip
// import files. It holds no state; the schengen command wires it to the
// services.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/schengen"
	"github.com/pkordes/schengen-tracker/internal/service"
)

// Palette (Flexoki Dark accents).
var (
	colorBorder = lipgloss.Color("#575653")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

// Renderer turns results into terminal text. The zero value renders plain
// text; NewRenderer(true) adds color.
type Renderer struct {
	title  lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	border lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
}

// NewRenderer returns a Renderer, styled when color is true.
func NewRenderer(color bool) Renderer {
	if !color {
		return Renderer{}
	}
	return Renderer{
		title:  lipgloss.NewStyle().Bold(true),
		header: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		muted:  lipgloss.NewStyle().Foreground(colorMuted),
		border: lipgloss.NewStyle().Foreground(colorBorder),
		ok:     lipgloss.NewStyle().Foreground(colorGreen),
		warn:   lipgloss.NewStyle().Foreground(colorOrange),
		bad:    lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	}
}

// Table is a bordered text table.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a title in a rounded box.
func (r Renderer) RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	return box.Render(r.title.Render(title))
}

// RenderTable renders t with box-drawing borders. The first column is
// left-aligned and the rest right-aligned.
func (r Renderer) RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], runewidth.StringWidth(h))
	}
	for _, row := range t.Rows {
		for i := 0; i < numCols && i < len(row); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(r.header.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(r.border.Render(left))
		for i, w := range widths {
			b.WriteString(r.border.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(r.border.Render(mid))
			}
		}
		b.WriteString(r.border.Render(right))
		b.WriteString("\n")
	}
	line := func(cells []string, style func(int) lipgloss.Style) {
		b.WriteString(r.border.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
			if i == 0 {
				cell = cell + pad
			} else {
				cell = pad + cell
			}
			b.WriteString(style(i).Render(" " + cell + " "))
			b.WriteString(r.border.Render("│"))
		}
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, func(int) lipgloss.Style { return r.header })
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		line(row, func(int) lipgloss.Style { return lipgloss.Style{} })
	}
	rule("╰", "┴", "╯")
	return b.String()
}

// RenderUsageBar draws used out of schengen.MaxStayDays as a bar of width
// cells, colored by how close the allowance is to running out.
func (r Renderer) RenderUsageBar(used, width int) string {
	filled := used * width / schengen.MaxStayDays
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %d/%d", r.remainingStyle(schengen.MaxStayDays-used).Render(bar), used, schengen.MaxStayDays)
}

// RenderStatus renders the traveller's status summary.
func (r Renderer) RenderStatus(st schengen.Status) string {
	var b strings.Builder
	b.WriteString(r.RenderTitle("Schengen 90/180 on " + domain.FormatDate(st.Date)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  Days used      %s\n", r.RenderUsageBar(st.DaysUsed, 30))
	fmt.Fprintf(&b, "  Remaining      %s\n", r.remainingStyle(st.Remaining).Render(strconv.Itoa(st.Remaining)))
	if st.Overstay() {
		fmt.Fprintf(&b, "  %s\n", r.bad.Render(fmt.Sprintf("Overstay by %d days", -st.Remaining)))
	}

	if st.CurrentTrip != nil {
		fmt.Fprintf(&b, "  Current trip   %s\n", TripLabel(*st.CurrentTrip))
		if st.RemainingAfterTrip != nil {
			fmt.Fprintf(&b, "  After trip     %s\n",
				r.remainingStyle(*st.RemainingAfterTrip).Render(strconv.Itoa(*st.RemainingAfterTrip)))
		}
	} else {
		fmt.Fprintf(&b, "  Current trip   %s\n", r.muted.Render("none"))
	}

	if st.Reset.Needed {
		if st.Reset.Found {
			fmt.Fprintf(&b, "  Reset date     %s\n", r.warn.Render(domain.FormatDate(st.Reset.Date)))
		} else {
			fmt.Fprintf(&b, "  Reset date     %s\n", r.bad.Render(
				fmt.Sprintf("none within %d days", schengen.ResetHorizonDays)))
		}
	}

	fmt.Fprintf(&b, "  %s\n", r.muted.Render(fmt.Sprintf("%d trips, %d days recorded", st.TotalTrips, st.TotalDays)))
	if st.DoubleCountedDays > 0 {
		fmt.Fprintf(&b, "  %s\n", r.warn.Render(fmt.Sprintf(
			"%d days are counted twice because trips overlap", st.DoubleCountedDays)))
	}
	return b.String()
}

// RenderWindow renders the usage of one trailing window.
func (r Renderer) RenderWindow(w service.WindowUsage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Window         %s to %s\n", domain.FormatDate(w.Window.Start), domain.FormatDate(w.Window.End))
	fmt.Fprintf(&b, "  Days used      %s\n", r.RenderUsageBar(w.DaysUsed, 30))
	if w.DistinctDays != w.DaysUsed {
		fmt.Fprintf(&b, "  Distinct days  %d\n", w.DistinctDays)
	}
	fmt.Fprintf(&b, "  Remaining      %s\n", r.remainingStyle(w.Remaining).Render(strconv.Itoa(w.Remaining)))
	return b.String()
}

// RenderTrips renders trips as a table.
func (r Renderer) RenderTrips(trips []domain.Trip) string {
	if len(trips) == 0 {
		return r.muted.Render("No trips recorded.") + "\n"
	}
	t := Table{Headers: []string{"Trip", "Start", "End", "Days", "ID"}}
	for _, trip := range trips {
		t.Rows = append(t.Rows, []string{
			TripLabel(trip),
			domain.FormatDate(trip.StartDate),
			domain.FormatDate(trip.EndDate),
			strconv.Itoa(domain.DaysBetween(trip.StartDate, trip.EndDate)),
			trip.ID.String(),
		})
	}
	return r.RenderTable(t)
}

// RenderTimeline renders one row per day.
func (r Renderer) RenderTimeline(days []schengen.DayStatus) string {
	t := Table{Headers: []string{"Date", "Used", "Remaining", "Trip"}}
	for _, d := range days {
		trip := ""
		if d.Trip != nil {
			trip = TripLabel(*d.Trip)
		}
		t.Rows = append(t.Rows, []string{
			domain.FormatDate(d.Date),
			strconv.Itoa(d.DaysUsed),
			strconv.Itoa(d.Remaining),
			trip,
		})
	}
	return r.RenderTable(t)
}

// RenderValidation renders the verdict for a prospective trip.
func (r Renderer) RenderValidation(start, end string, v service.Validation) string {
	var b strings.Builder
	span := start + " to " + end
	if v.Valid {
		fmt.Fprintf(&b, "%s %s stays within the 90/180 allowance\n", r.ok.Render("OK"), span)
	} else {
		fmt.Fprintf(&b, "%s %s exceeds the 90/180 allowance", r.bad.Render("NO"), span)
		if v.FirstViolation != nil {
			fmt.Fprintf(&b, " from %s", domain.FormatDate(*v.FirstViolation))
		}
		b.WriteString("\n")
	}
	if v.Conflict != nil {
		fmt.Fprintf(&b, "%s overlaps %s (%s to %s)\n", r.warn.Render("!!"), TripLabel(*v.Conflict),
			domain.FormatDate(v.Conflict.StartDate), domain.FormatDate(v.Conflict.EndDate))
	}
	return b.String()
}

// TripLabel is the display name of a trip: icon and name, or "Trip".
func TripLabel(t domain.Trip) string {
	label := t.Name
	if label == "" {
		label = "Trip"
	}
	if t.Icon != "" {
		label = t.Icon + " " + label
	}
	return label
}

func (r Renderer) remainingStyle(remaining int) lipgloss.Style {
	switch {
	case remaining < 0:
		return r.bad
	case remaining <= 10:
		return r.warn
	default:
		return r.ok
	}
}
