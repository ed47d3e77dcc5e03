package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/dshills/spellhook/internal/app"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

var (
	colorGreen  = lipgloss.Color("#22C55E")
	colorRed    = lipgloss.Color("#EF4444")
	colorYellow = lipgloss.Color("#EAB308")
	colorDim    = lipgloss.Color("#6B7280")
	colorCyan   = lipgloss.Color("#06B6D4")

	titleStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// formatDuration renders d with its two largest units.
func formatDuration(d time.Duration) string {
	if d < time.Microsecond {
		return "0us"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

func count(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}

// renderReport lists every binding with its verdict, then a summary line.
func renderReport(snap *app.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Script bindings") + "\n")

	reports := snap.Reports()
	if len(reports) == 0 {
		b.WriteString(dimStyle.Render("  no bindings") + "\n")
	}
	for _, r := range reports {
		line := fmt.Sprintf("%s → spell %d", r.Script, r.SpellID)
		if info := snap.Spells.Get(r.SpellID); info != nil && info.Name != "" {
			line += " (" + info.Name + ")"
		}
		if r.Valid {
			b.WriteString("  " + okStyle.Render("✓") + " " + line + "\n")
			continue
		}
		b.WriteString("  " + errorStyle.Render("✗") + " " + line + ": " + errorStyle.Render(r.Reason) + "\n")
	}
	for _, r := range reports {
		for _, u := range r.Unmatched {
			b.WriteString("  " + warnStyle.Render("!") + " " + fmt.Sprintf("%s: %s matches no effect of spell %d", r.Script, u, r.SpellID) + "\n")
		}
	}

	if res := snap.Scripts; res != nil && len(res.Failed) > 0 {
		b.WriteString(titleStyle.Render("Script files") + "\n")
		for _, f := range res.Failed {
			b.WriteString("  " + errorStyle.Render("✗") + " " + f + "\n")
		}
	}

	valid := snap.Valid()
	files, failed := 0, 0
	if snap.Scripts != nil {
		files, failed = len(snap.Scripts.Files), len(snap.Scripts.Failed)
	}
	summary := []string{
		count(snap.Spells.Len(), "spell", "spells"),
		count(len(reports), "binding", "bindings"),
		humanize.Comma(int64(valid)) + " active",
		humanize.Comma(int64(len(reports)-valid)) + " rejected",
		fmt.Sprintf("%s (%d failed)", count(files, "script file", "script files"), failed),
		"loaded in " + formatDuration(snap.Elapsed),
	}
	style := okStyle
	if valid != len(reports) || failed > 0 {
		style = warnStyle
	}
	b.WriteString(style.Render(strings.Join(summary, " · ")) + "\n")
	return b.String()
}

// renderCast prints the outcome of a simulated cast.
func renderCast(res *app.CastResult, withTrace bool) string {
	var b strings.Builder
	out := res.Outcome
	b.WriteString(titleStyle.Render(fmt.Sprintf("Cast %d", out.Spell)) + "\n")

	result := out.Result.String()
	if out.Custom != 0 {
		result += fmt.Sprintf(" (custom %d)", out.Custom)
	}
	fmt.Fprintf(&b, "  result   %s\n", result)
	fmt.Fprintf(&b, "  damage   %s\n", humanize.Comma(out.Damage))
	fmt.Fprintf(&b, "  healing  %s\n", humanize.Comma(out.Healing))
	fmt.Fprintf(&b, "  caster   %s/%s\n", humanize.Comma(res.Caster.Health), humanize.Comma(res.Caster.MaxHealth))
	fmt.Fprintf(&b, "  target   %s/%s, %s\n", humanize.Comma(res.Target.Health), humanize.Comma(res.Target.MaxHealth), count(res.Auras, "aura", "auras"))

	if withTrace {
		b.WriteString(titleStyle.Render("Hooks") + "\n")
		for _, e := range res.Trace.Entries() {
			line := "  " + e.String()
			switch {
			case e.Faults > 0:
				line = errorStyle.Render(line)
			case e.Invoked == 0:
				line = dimStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// renderReload is the header printed before a watch revalidation.
func renderReload(n int, changed []string, at time.Time) string {
	names := make([]string, len(changed))
	for i, p := range changed {
		names[i] = filepath.Base(p)
	}
	return titleStyle.Render(fmt.Sprintf("%s reload", humanize.Ordinal(n))) +
		dimStyle.Render(fmt.Sprintf(" at %s: %s", at.Format(time.TimeOnly), strings.Join(names, ", "))) + "\n"
}
