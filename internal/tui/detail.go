package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/spacegallery/internal/gallery"
	"github.com/matheuskafuri/spacegallery/internal/lazyload"
)

func renderDetail(d gallery.Detail, ph *lazyload.Placeholder, width, height, scroll int) string {
	contentWidth := width - 12
	if contentWidth > 90 {
		contentWidth = 90
	}
	if contentWidth < 20 {
		contentWidth = 20
	}

	title := detailTitleStyle.Width(contentWidth).Render(d.Title)
	meta := d.Date + " · " + d.MediaType
	if d.Copyright != "" {
		meta += " · © " + strings.TrimSpace(d.Copyright)
	}
	metaLine := detailMetaStyle.Width(contentWidth).Render(meta)

	explanation := d.Explanation
	if explanation == "" {
		explanation = "(No explanation available)"
	}
	body := detailBodyStyle.Width(contentWidth).Render(wrapText(explanation, contentWidth))

	var extra []string
	if ph != nil {
		switch ph.State() {
		case lazyload.Loaded:
			if info := ph.Info(); info.Width > 0 {
				extra = append(extra, detailLinkStyle.Render(fmt.Sprintf("%d×%d %s", info.Width, info.Height, info.Format)))
			}
		case lazyload.Failed:
			extra = append(extra, mediaFailedStyle.Render("Media could not be loaded."))
		}
	}
	if d.Note != "" {
		extra = append(extra, noticeStyle.Render(d.Note))
	}
	if d.OpenURL != "" {
		extra = append(extra, detailLinkStyle.Width(contentWidth).Render("o open: "+d.OpenURL))
	} else if d.URL != "" {
		extra = append(extra, detailLinkStyle.Width(contentWidth).Render(d.URL))
	}

	parts := []string{title, metaLine, "", body, ""}
	parts = append(parts, extra...)
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}
	maxLines := height - 6
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	card := detailCardStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
