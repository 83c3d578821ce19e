package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/spacegallery/internal/browser"
	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/calendar"
	"github.com/matheuskafuri/spacegallery/internal/config"
	"github.com/matheuskafuri/spacegallery/internal/gallery"
	"github.com/matheuskafuri/spacegallery/internal/lazyload"
	"github.com/matheuskafuri/spacegallery/internal/logging"
)

type mode int

const (
	modeGrid mode = iota
	modeRange
	modeSearch
	modeDetail
	modeHelp
)

const (
	factInterval   = 4 * time.Second
	bannerDuration = 6 * time.Second

	// header, range bar, info line, status bar
	chromeHeight = 4
)

type App struct {
	cfg     *config.Config
	session *gallery.Session
	loader  *lazyload.Loader
	watcher *lazyload.ViewportWatcher
	obs     *programObserver
	ctx     context.Context
	rng     *rand.Rand

	cards      []card
	cursor     int
	scroll     int // first visible card row
	mode       mode
	marginRows int

	width  int
	height int

	// Sub-components
	inputs  rangeBar
	spinner spinner.Model

	// State
	loading      bool
	hasMore      bool
	pendingMore  bool
	initialized  bool
	autoQuery    bool
	bannerShown  bool
	factIdx      int
	factGen      int
	banner       string
	notice       string
	failure      *gallery.Failure
	detail       *gallery.Detail
	detailScroll int
	err          error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Ctx   context.Context
	Cfg   *config.Config
	Cache *cache.Cache
	Index *cache.Index // optional, enables search
	Media lazyload.MediaFetcher
	Start string
	End   string
}

func NewApp(opts RunOpts) *App {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	obs := &programObserver{}
	marginRows := lazyload.MarginRows(opts.Cfg.GetLazyMargin())
	watcher := lazyload.NewViewportWatcher(marginRows)
	loader := lazyload.NewLoader(watcher, opts.Media,
		lazyload.WithRate(opts.Cfg.GetMediaRate()),
		lazyload.WithOnChange(obs.MediaChanged),
	)

	var sessionOpts []gallery.Option
	if opts.Index != nil {
		sessionOpts = append(sessionOpts, gallery.WithIndex(opts.Index))
	}
	session := gallery.NewSession(opts.Cache, opts.Cfg.GetPageSize(), obs, sessionOpts...)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	inputs := newRangeBar()
	inputs.setRange(opts.Start, opts.End)

	return &App{
		cfg:        opts.Cfg,
		session:    session,
		loader:     loader,
		watcher:    watcher,
		obs:        obs,
		ctx:        ctx,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		marginRows: marginRows,
		inputs:     inputs,
		spinner:    sp,
		autoQuery:  opts.Start != "" || opts.End != "",
	}
}

func (a *App) Init() tea.Cmd {
	return a.initCmd()
}

// initCmd loads the catalog and shows it newest first.
func (a *App) initCmd() tea.Cmd {
	s := a.session
	parent := a.ctx
	timeout := a.cfg.FetchTimeoutDuration()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return initDoneMsg{err: s.Init(ctx)}
	}
}

// queryCmd captures current input state into the closure to avoid races.
func (a *App) queryCmd() tea.Cmd {
	q := gallery.Query{
		Start:  a.inputs.start.Value(),
		End:    a.inputs.end.Value(),
		Search: a.inputs.search.Value(),
	}
	s := a.session
	parent := a.ctx
	timeout := a.cfg.FetchTimeoutDuration()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		r, err := s.Run(ctx, q)
		return queryDoneMsg{rng: r, err: err}
	}
}

func (a *App) loadMoreCmd() tea.Cmd {
	s := a.session
	return func() tea.Msg {
		return loadMoreDoneMsg{n: s.LoadMore()}
	}
}

func (a *App) selectCmd(e cache.Entry) tea.Cmd {
	s := a.session
	return func() tea.Msg {
		s.Select(e)
		return nil
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		err := browser.Open(url)
		if err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func factTick(gen int) tea.Cmd {
	return tea.Tick(factInterval, func(time.Time) tea.Msg {
		return factTickMsg{gen: gen}
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ensureVisible(a.layout())
		return a, a.syncViewport()

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case loadingMsg:
		a.loading = msg.on
		if !msg.on {
			return a, nil
		}
		a.failure = nil
		a.notice = ""
		a.factGen++
		a.factIdx++
		return a, tea.Batch(a.spinner.Tick, factTick(a.factGen))

	case batchMsg:
		return a, a.applyBatch(msg.batch)

	case hasMoreMsg:
		a.hasMore = msg.more
		return a, a.maybeContinue()

	case selectedMsg:
		d := msg.detail
		a.detail = &d
		a.detailScroll = 0
		a.mode = modeDetail
		return a, nil

	case emptyMsg:
		a.notice = fmt.Sprintf("No entries between %s and %s.", msg.rng.Start.Human(), msg.rng.End.Human())
		return a, nil

	case failedMsg:
		f := msg.failure
		a.failure = &f
		return a, nil

	case initDoneMsg:
		return a, a.afterInit(msg.err)

	case queryDoneMsg:
		if msg.err != nil {
			logging.Warn("range query failed", "err", msg.err)
		}
		return a, nil

	case loadMoreDoneMsg:
		// Signals from this page arrived while pending; check again now.
		a.pendingMore = false
		return a, a.maybeContinue()

	case mediaMsg:
		// Placeholder state is read during View.
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case factTickMsg:
		if !a.loading || msg.gen != a.factGen {
			return a, nil
		}
		a.factIdx++
		return a, factTick(a.factGen)

	case bannerDoneMsg:
		a.banner = ""
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) afterInit(err error) tea.Cmd {
	a.initialized = true
	if err != nil {
		logging.Error("initial load failed", "err", err)
		return nil
	}

	if a.autoQuery {
		a.autoQuery = false
		return a.queryCmd()
	}

	if a.inputs.empty() {
		if ds, ok := a.session.Dataset(); ok {
			if r, ok := gallery.DefaultWindow(ds, a.cfg.WindowDays()); ok {
				a.inputs.setRange(calendar.Format(r.Start), calendar.Format(r.End))
			}
		}
	}

	if a.bannerShown {
		return nil
	}
	a.bannerShown = true
	a.banner = randomFact(a.rng)
	return tea.Tick(bannerDuration, func(time.Time) tea.Msg { return bannerDoneMsg{} })
}

func (a *App) applyBatch(b gallery.Batch) tea.Cmd {
	if !b.Append {
		for _, c := range a.cards {
			if c.ph != nil {
				a.loader.Forget(c.ph)
			}
		}
		a.cards = nil
		a.cursor = 0
		a.scroll = 0
		a.notice = ""
	}
	for _, e := range b.Entries {
		c := newCard(e)
		if c.ph != nil {
			a.loader.Register(a.ctx, c.ph)
		}
		a.cards = append(a.cards, c)
	}
	return a.syncViewport()
}

// syncViewport tells the watcher where every pending card sits and what is
// on screen, then continues pagination if the end of the list is near.
func (a *App) syncViewport() tea.Cmd {
	if a.width == 0 {
		return nil
	}
	g := a.layout()
	for i, c := range a.cards {
		if c.ph != nil && !c.ph.Activated() {
			top, bottom := g.span(i)
			a.watcher.Place(c.ph.ID, top, bottom)
		}
	}
	a.watcher.Scroll(g.viewport(a.scroll))
	return a.maybeContinue()
}

func (a *App) maybeContinue() tea.Cmd {
	if a.width == 0 || !a.hasMore || a.pendingMore || len(a.cards) == 0 {
		return nil
	}
	g := a.layout()
	_, viewBottom := g.viewport(a.scroll)
	if viewBottom+a.marginRows < g.extent(len(a.cards)) {
		return nil
	}
	a.pendingMore = true
	return a.loadMoreCmd()
}

func (a *App) layout() gridLayout {
	h := a.height - chromeHeight
	if h < cardHeight {
		h = cardHeight
	}
	return newGridLayout(a.width, h)
}

func (a *App) moveCursor(delta int, g gridLayout) {
	if len(a.cards) == 0 {
		return
	}
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor > len(a.cards)-1 {
		a.cursor = len(a.cards) - 1
	}
	a.ensureVisible(g)
}

func (a *App) ensureVisible(g gridLayout) {
	row := g.rowOf(a.cursor)
	if row < a.scroll {
		a.scroll = row
	}
	if row >= a.scroll+g.rows {
		a.scroll = row - g.rows + 1
	}
	if a.scroll < 0 {
		a.scroll = 0
	}
}

func (a *App) selected() (card, bool) {
	if a.cursor < 0 || a.cursor >= len(a.cards) {
		return card{}, false
	}
	return a.cards[a.cursor], true
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Mode-specific handling
	switch a.mode {
	case modeRange:
		return a.handleRangeKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeDetail:
		return a.handleDetailKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeGrid
		}
		return a, nil
	}

	g := a.layout()
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "right", "l":
		a.moveCursor(1, g)
	case "left", "h":
		a.moveCursor(-1, g)
	case "down", "j":
		a.moveCursor(g.cols, g)
	case "up", "k":
		a.moveCursor(-g.cols, g)
	case "pgdown", "ctrl+d":
		a.moveCursor(g.cols*g.rows, g)
	case "pgup", "ctrl+u":
		a.moveCursor(-g.cols*g.rows, g)
	case "home", "g":
		a.moveCursor(-len(a.cards), g)
	case "end", "G":
		a.moveCursor(len(a.cards), g)
	case "enter":
		if c, ok := a.selected(); ok {
			return a, a.selectCmd(c.entry)
		}
		return a, nil
	case "o":
		if c, ok := a.selected(); ok {
			if u := gallery.DetailFor(c.entry).OpenURL; u != "" {
				return a, openBrowserCmd(u)
			}
		}
		return a, nil
	case "m":
		// Manual continuation; races with scroll continuation collapse
		// inside the session.
		if a.hasMore {
			a.pendingMore = true
			return a, a.loadMoreCmd()
		}
		return a, nil
	case "r":
		if a.loading {
			return a, nil
		}
		a.mode = modeRange
		a.inputs.focusField(fieldStart)
		return a, textinput.Blink
	case "/":
		if a.loading || !a.session.SearchEnabled() {
			return a, nil
		}
		a.mode = modeSearch
		a.inputs.search.Focus()
		return a, textinput.Blink
	case "a":
		if a.loading {
			return a, nil
		}
		a.inputs.search.SetValue("")
		return a, a.initCmd()
	case "?":
		a.mode = modeHelp
		return a, nil
	default:
		return a, nil
	}

	return a, a.syncViewport()
}

func (a *App) handleRangeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeGrid
		a.inputs.blur()
		return a, nil
	case "tab", "shift+tab":
		a.inputs.toggleField()
		return a, nil
	case "enter":
		if a.loading {
			return a, nil
		}
		a.mode = modeGrid
		a.inputs.blur()
		return a, a.queryCmd()
	}

	var cmd tea.Cmd
	if a.inputs.focus == fieldStart {
		a.inputs.start, cmd = a.inputs.start.Update(msg)
	} else {
		a.inputs.end, cmd = a.inputs.end.Update(msg)
	}
	return a, cmd
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeGrid
		a.inputs.search.SetValue("")
		a.inputs.blur()
		return a, nil
	case "enter":
		if a.loading {
			return a, nil
		}
		a.mode = modeGrid
		a.inputs.blur()
		return a, a.queryCmd()
	}

	var cmd tea.Cmd
	a.inputs.search, cmd = a.inputs.search.Update(msg)
	return a, cmd
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter", "backspace":
		a.mode = modeGrid
		a.detail = nil
		return a, nil
	case "o":
		if a.detail != nil && a.detail.OpenURL != "" {
			return a, openBrowserCmd(a.detail.OpenURL)
		}
		return a, nil
	case "j", "down":
		a.detailScroll++
		return a, nil
	case "k", "up":
		if a.detailScroll > 0 {
			a.detailScroll--
		}
		return a, nil
	}
	return a, nil
}

func (a *App) hints() string {
	switch a.mode {
	case modeRange:
		return "tab switch  enter apply  esc cancel"
	case modeSearch:
		return "enter search  esc cancel"
	}
	hints := "enter view  o open  r range"
	if a.session.SearchEnabled() {
		hints += "  / search"
	}
	return hints + "  ? help  q quit"
}

func (a *App) infoLine() string {
	switch {
	case a.err != nil:
		return errorStyle.Render(" " + a.err.Error())
	case a.failure != nil:
		return errorStyle.Render(" " + a.failure.Message())
	case a.loading:
		return " " + a.spinner.View() + " " + factStyle.Render(truncateStr(factAt(a.factIdx), a.width-4))
	case a.notice != "":
		return noticeStyle.Render(" " + a.notice)
	case a.banner != "":
		return factStyle.Render(" " + truncateStr(a.banner, a.width-2))
	}
	return ""
}

func (a *App) renderHeader() string {
	left := headerStyle.Render("✦ spacegallery")
	label := "latest first"
	if r, ok := a.session.Range(); ok {
		label = r.String()
		if q := a.inputs.search.Value(); q != "" {
			label += " · " + fmt.Sprintf("%q", q)
		}
	}
	right := headerRangeStyle.Render(label + " ")
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + fmt.Sprintf("%*s", gap, "") + right
}

func fitHeight(content string, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return headerStyle.Render("spacegallery")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	if a.mode == modeDetail && a.detail != nil {
		var ph *lazyload.Placeholder
		if c, ok := a.selected(); ok {
			ph = c.ph
		}
		return renderDetail(*a.detail, ph, a.width, a.height, a.detailScroll)
	}

	g := a.layout()
	var body string
	switch {
	case len(a.cards) > 0:
		body = renderGrid(a.cards, a.cursor, a.scroll, g)
	case a.loading || (!a.initialized && a.failure == nil):
		body = renderSplash(a.width, g.height, a.spinner.View()+" Loading images…", factAt(a.factIdx))
	case a.failure != nil:
		body = lipglossCenter(errorStyle.Render(a.failure.Message()), a.width, g.height)
	default:
		notice := a.notice
		if notice == "" {
			notice = "No entries to show."
		}
		body = lipglossCenter(noticeStyle.Render(notice), a.width, g.height)
	}

	status := renderStatusBar(len(a.cards), a.session.Total(), a.hasMore, "", a.hints(), a.width)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		a.inputs.render(a.width, a.mode == modeRange, a.mode == modeSearch),
		fitHeight(body, g.height),
		a.infoLine(),
		status,
	)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("spacegallery")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  ←/→/↑/↓, hjkl  Move between cards\n" +
		"  pgup/pgdown    Page through the grid\n" +
		"  g/G            First / last card\n\n" +
		dim.Render("Actions") + "\n" +
		"  enter          Show details\n" +
		"  o              Open media in browser\n" +
		"  m              Load more\n" +
		"  r              Edit date range (tab switches, enter applies)\n" +
		"  /              Search within the range\n" +
		"  a              Show everything, newest first\n\n" +
		dim.Render("General") + "\n" +
		"  ?              Toggle this help\n" +
		"  q, ctrl+c      Quit"

	card := detailCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	parent := opts.Ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	opts.Ctx = ctx

	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.obs.attach(p.Send)
	_, err := p.Run()

	// Late callbacks from media loads are dropped once the program is gone.
	app.obs.attach(nil)
	cancel()
	app.loader.Wait()
	return err
}
