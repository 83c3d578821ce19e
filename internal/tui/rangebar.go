package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type rangeField int

const (
	fieldStart rangeField = iota
	fieldEnd
)

// rangeBar holds the two date inputs and the search input.
type rangeBar struct {
	start  textinput.Model
	end    textinput.Model
	search textinput.Model
	focus  rangeField
}

func newDateInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 32
	ti.Width = 12
	return ti
}

func newRangeBar() rangeBar {
	search := textinput.New()
	search.Placeholder = "Search titles and explanations..."
	search.Prompt = searchPromptStyle.Render("/ ")
	search.CharLimit = 100

	return rangeBar{
		start:  newDateInput("YYYY-MM-DD"),
		end:    newDateInput("YYYY-MM-DD"),
		search: search,
	}
}

func (r *rangeBar) setRange(start, end string) {
	r.start.SetValue(start)
	r.end.SetValue(end)
}

func (r *rangeBar) empty() bool {
	return r.start.Value() == "" && r.end.Value() == ""
}

func (r *rangeBar) focusField(f rangeField) {
	r.focus = f
	if f == fieldStart {
		r.start.Focus()
		r.end.Blur()
	} else {
		r.end.Focus()
		r.start.Blur()
	}
}

func (r *rangeBar) toggleField() {
	if r.focus == fieldStart {
		r.focusField(fieldEnd)
	} else {
		r.focusField(fieldStart)
	}
}

func (r *rangeBar) blur() {
	r.start.Blur()
	r.end.Blur()
	r.search.Blur()
}

func (r *rangeBar) render(width int, editing, searching bool) string {
	startLabel, endLabel := inputLabelStyle, inputLabelStyle
	if editing && r.focus == fieldStart {
		startLabel = inputActiveLabelStyle
	}
	if editing && r.focus == fieldEnd {
		endLabel = inputActiveLabelStyle
	}

	row := startLabel.Render("Start ") + r.start.View() + "  " + endLabel.Render("End ") + r.end.View()
	if searching || r.search.Value() != "" {
		row += "  " + r.search.View()
	}

	return lipgloss.NewStyle().Width(width).PaddingLeft(1).Render(row)
}
