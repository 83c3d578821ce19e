package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/lazyload"
)

const (
	cardWidth  = 32 // outer width, border included
	cardHeight = 6  // outer height, border included
	cardGap    = 1
)

// card is one rendered entry. ph is nil when there is nothing to load.
type card struct {
	entry cache.Entry
	ph    *lazyload.Placeholder
}

func newCard(e cache.Entry) card {
	switch e.MediaType {
	case cache.MediaImage:
		return card{entry: e, ph: lazyload.NewPlaceholder(e.URL, e.ThumbnailURL)}
	case cache.MediaVideo:
		if e.ThumbnailURL != "" {
			return card{entry: e, ph: lazyload.NewPlaceholder(e.ThumbnailURL, "")}
		}
	}
	return card{entry: e}
}

// gridLayout maps card indexes to terminal rows.
type gridLayout struct {
	cols   int
	rows   int // card rows that fit on screen
	height int // terminal rows available to the grid
}

func newGridLayout(width, height int) gridLayout {
	cols := (width + cardGap) / (cardWidth + cardGap)
	if cols < 1 {
		cols = 1
	}
	rows := height / cardHeight
	if rows < 1 {
		rows = 1
	}
	return gridLayout{cols: cols, rows: rows, height: height}
}

func (g gridLayout) rowOf(i int) int {
	return i / g.cols
}

// span returns the first and last terminal row card i occupies.
func (g gridLayout) span(i int) (top, bottom int) {
	top = g.rowOf(i) * cardHeight
	return top, top + cardHeight - 1
}

// viewport returns the terminal rows visible when scrolled to card row scroll.
func (g gridLayout) viewport(scroll int) (top, bottom int) {
	top = scroll * cardHeight
	return top, top + g.height - 1
}

// extent is the number of terminal rows n cards occupy.
func (g gridLayout) extent(n int) int {
	if n == 0 {
		return 0
	}
	return (g.rowOf(n-1) + 1) * cardHeight
}

func cardDate(e cache.Entry) string {
	if d, ok := e.Day(); ok {
		return d.Human()
	}
	if e.Date == "" {
		return "undated"
	}
	return e.Date
}

func mediaLine(c card) string {
	if c.ph == nil {
		if c.entry.MediaType == cache.MediaVideo {
			return mediaPendingStyle.Render("▶ video")
		}
		return mediaPendingStyle.Render("◇ no preview")
	}

	prefix := ""
	if c.entry.MediaType == cache.MediaVideo {
		prefix = "▶ "
	}
	switch c.ph.State() {
	case lazyload.Loading:
		return mediaPendingStyle.Render(prefix + "… loading")
	case lazyload.Loaded:
		info := c.ph.Info()
		if info.Width == 0 {
			return mediaLoadedStyle.Render(prefix + "✓ ready")
		}
		return mediaLoadedStyle.Render(fmt.Sprintf("%s✓ %d×%d %s", prefix, info.Width, info.Height, info.Format))
	case lazyload.Failed:
		return mediaFailedStyle.Render(prefix + "✗ media unavailable")
	default:
		if c.ph.StandIn() != "" {
			return mediaPendingStyle.Render(prefix + "◌ thumbnail")
		}
		return mediaPendingStyle.Render(prefix + "◌ waiting")
	}
}

func renderCard(c card, selected bool) string {
	inner := cardWidth - 4 // border + padding

	title := c.entry.Title
	if title == "" {
		title = "Untitled"
	}
	titleStyle := cardTitleStyle
	style := cardStyle
	if selected {
		titleStyle = cardSelectedTitleStyle
		style = cardActiveStyle
	}

	credit := ""
	if c.entry.Copyright != "" {
		credit = cardDateStyle.Render("© " + truncateStr(strings.TrimSpace(c.entry.Copyright), inner-2))
	}

	body := strings.Join([]string{
		titleStyle.Render(truncateStr(title, inner)),
		cardDateStyle.Render(cardDate(c.entry)),
		mediaLine(c),
		credit,
	}, "\n")

	return style.Width(cardWidth - 2).Height(cardHeight - 2).Render(body)
}

func renderGrid(cards []card, cursor, scroll int, g gridLayout) string {
	var rows []string
	for r := scroll; r < scroll+g.rows; r++ {
		start := r * g.cols
		if start >= len(cards) {
			break
		}
		end := start + g.cols
		if end > len(cards) {
			end = len(cards)
		}

		var cells []string
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, strings.Repeat(" ", cardGap))
			}
			cells = append(cells, renderCard(cards[i], i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
