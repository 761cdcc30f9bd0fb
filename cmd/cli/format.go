package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amirasaad/ratesync/pkg/controller"
	"github.com/amirasaad/ratesync/pkg/notice"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"})
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"})
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"})
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

func severityStyle(s notice.Severity) lipgloss.Style {
	switch s {
	case notice.SeveritySuccess:
		return successStyle
	case notice.SeverityError:
		return errorStyle
	default:
		return infoStyle
	}
}

func printNotices(w io.Writer, notices []notice.Notice) {
	for _, n := range notices {
		style := severityStyle(n.Severity)
		head := strings.ToUpper(string(n.Severity))
		if n.Title != "" {
			head += " " + n.Title
		}
		_, _ = fmt.Fprintln(w, style.Render(head))
		for _, line := range strings.Split(n.Message, "\n") {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// printView lists the visible fields of the record. Read-only fields are
// marked and required fields starred.
func printView(w io.Writer, view controller.View) {
	rec := view.Record
	values := map[controller.Field]string{
		controller.FieldEnabled:             fmt.Sprint(rec.Enabled),
		controller.FieldAPIProvider:         rec.APIProvider,
		controller.FieldAPIKey:              maskKey(rec.APIKey),
		controller.FieldAPIStatus:           rec.APIStatus,
		controller.FieldPlan:                rec.Plan,
		controller.FieldQuota:               rec.Quota,
		controller.FieldFromCurrencyMode:    string(rec.FromCurrencyMode),
		controller.FieldFromCurrencies:      strings.Join(rec.BaseCurrencies, ", "),
		controller.FieldToCurrencies:        strings.Join(rec.TargetCurrencies, ", "),
		controller.FieldCrossRateConversion: fmt.Sprint(rec.CrossRateConversion),
	}
	for _, f := range controller.Fields {
		value, ok := values[f]
		if !ok {
			continue
		}
		c := view.Constraints[f]
		if c.Hidden {
			continue
		}
		label := string(f)
		if c.Required {
			label += "*"
		}
		line := fmt.Sprintf("%s %s", labelStyle.Render(label+":"), value)
		if c.ReadOnly {
			line += " (read-only)"
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintf(w, "%s %t\n", labelStyle.Render("verified:"), view.Verified)
	_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render("sync:"), view.SyncState)
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
