package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"fastexplorer/internal/config"
	"fastexplorer/internal/domain"
	"fastexplorer/internal/eventbus"
	"fastexplorer/internal/explorer"
	"fastexplorer/internal/logging"
	"fastexplorer/internal/logic"
	"fastexplorer/internal/search"
	"fastexplorer/internal/ui/input"
	inputtypes "fastexplorer/internal/ui/input/types"
	"fastexplorer/internal/ui/services/navigation"
	"fastexplorer/internal/ui/views"
)

var uiLog = logging.ForComponent(logging.CompUI)

var statusTimeout = 3 * time.Second

// Browser is the browsing session driven by the UI
type Browser interface {
	Current() string
	LiveRefresh() bool
	NavigateTo(path string) error
	NavigateUp() error
	Back() error
	Forward() error
	Refresh() error
	Items() []domain.FileItem
	Filter(query string) []domain.FileItem
	Sort(by domain.SortCriteria, desc bool) []domain.FileItem
	SortOrder() (domain.SortCriteria, bool)
	SetShowHidden(show bool) []domain.FileItem
	ShowHidden() bool
	SuspendWatching()
	ResumeWatching()
	QuickAccess() []string
	AddQuickAccess(path string) (bool, error)
}

// Searcher runs one search at a time. Start returns the ID carried by
// every event of the new run.
type Searcher interface {
	Start(ctx context.Context, root, term string) (domain.RunID, error)
	Stop()
}

// Model represents the UI state
type Model struct {
	bus      eventbus.EventBus
	config   *config.Config
	cfgSvc   config.ConfigService
	browser  Browser
	searcher Searcher

	width       int
	height      int
	inPagerMode bool

	// Rows on screen: the listing or the search results
	store     logic.ItemStore
	navigator *navigation.Service

	// Listing
	currentPath string
	live        bool
	listing     []domain.FileItem
	filterQuery string
	revealName  string // select this entry once its directory is loaded

	// Search
	showingResults bool
	searching      bool // a run was requested and has not completed
	runActive      bool // the run runID reported it started
	runID          domain.RunID
	held           []eventbus.DomainEvent // search events received before runID was known
	launchSeq      atomic.Uint64          // bumped per submitted search; stale launches are skipped
	launchMu       sync.Mutex             // orders Start against Stop
	searchReq      domain.SearchRequest
	results        []string
	counters       domain.ProgressCounters
	elapsed        time.Duration
	reason         domain.CompletionReason
	spinner        spinner.Model

	// Timeout question
	pendingReply  chan<- bool
	promptElapsed time.Duration

	helpScroll    int
	statusMessage string
	statusIsError bool
	statusSeq     int

	renderer     *views.Renderer
	helpRender   *HelpRenderer
	inputHandler *input.Handler
	pager        *PagerOps
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, cfgSvc config.ConfigService, browser Browser, searcher Searcher) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		bus:          bus,
		config:       cfg,
		cfgSvc:       cfgSvc,
		browser:      browser,
		searcher:     searcher,
		store:        logic.NewMemoryItemStore(),
		navigator:    navigation.NewService(),
		spinner:      s,
		renderer:     views.NewRenderer(),
		helpRender:   NewHelpRenderer(),
		inputHandler: input.New(),
		pager:        NewPagerOps(),
	}
	m.navigator.SetQueryFunction(m.store.Len)

	if cur := browser.Current(); cur != "" {
		m.applyListing(cur, browser.Items(), browser.LiveRefresh())
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// CurrentIndex implements inputtypes.Context
func (m *Model) CurrentIndex() int {
	return m.navigator.GetCursor()
}

// TotalItems implements inputtypes.Context
func (m *Model) TotalItems() int {
	return m.store.Len()
}

// Searching implements inputtypes.Context
func (m *Model) Searching() bool {
	return m.searching
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.navigator.SetViewportHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		actions, cmd := m.inputHandler.HandleKey(msg, m)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}
	return m.renderer.Render(m.buildViewState(), m.helpRender.RenderHelpContent())
}

func (m *Model) buildViewState() views.ViewState {
	sortBy, desc := m.browser.SortOrder()
	state := views.ViewState{
		Width:            m.width,
		Height:           m.height,
		CurrentPath:      m.currentPath,
		LiveRefresh:      m.live,
		Items:            m.store.All(),
		SortBy:           sortBy,
		SortDesc:         desc,
		ShowHidden:       m.browser.ShowHidden(),
		FilterQuery:      m.filterQuery,
		QuickAccess:      m.browser.QuickAccess(),
		ShowingResults:   m.showingResults,
		SearchRoot:       m.searchReq.Root,
		SearchTerm:       m.searchReq.Term,
		Searching:        m.searching,
		Spinner:          m.spinner.View(),
		Counters:         m.counters,
		Elapsed:          m.elapsed,
		Reason:           m.reason,
		SelectedIndex:    m.navigator.GetCursor(),
		ViewportOffset:   m.navigator.GetViewportOffset(),
		ViewportHeight:   m.navigator.GetViewportHeight(),
		StatusMessage:    m.statusMessage,
		StatusIsError:    m.statusIsError,
		ShowHelp:         m.inputHandler.CurrentMode() == inputtypes.ModeHelp,
		HelpScrollOffset: m.helpScroll,
		ShowPrompt:       m.inputHandler.CurrentMode() == inputtypes.ModePrompt,
		PromptElapsed:    m.promptElapsed,
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.InputPrompt = m.inputHandler.Prompt()
		state.TextInput = ti.View()
	}
	return state
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigator.Navigate(navigation.Direction(a.Direction))

	case inputtypes.OpenAction:
		return m.openSelected()

	case inputtypes.ParentAction:
		return m.browse(m.browser.NavigateUp)

	case inputtypes.BackAction:
		return m.browse(m.browser.Back)

	case inputtypes.ForwardAction:
		return m.browse(m.browser.Forward)

	case inputtypes.RefreshAction:
		return m.browse(m.browser.Refresh)

	case inputtypes.CycleSortAction:
		by, desc := m.browser.SortOrder()
		m.setListing(m.browser.Sort(by.Next(), desc))
		m.setStatus("Sorted by "+string(by.Next()), false)
		return m.clearStatusLater()

	case inputtypes.ReverseSortAction:
		by, desc := m.browser.SortOrder()
		m.setListing(m.browser.Sort(by, !desc))

	case inputtypes.ToggleHiddenAction:
		m.setListing(m.browser.SetShowHidden(!m.browser.ShowHidden()))

	case inputtypes.AddQuickAccessAction:
		return m.addQuickAccess()

	case inputtypes.QuickAccessAction:
		quick := m.browser.QuickAccess()
		if a.Index < 0 || a.Index >= len(quick) {
			return nil
		}
		target := quick[a.Index]
		return m.browse(func() error { return m.browser.NavigateTo(target) })

	case inputtypes.UpdateTextAction:
		if m.inputHandler.CurrentMode() == inputtypes.ModeFilter {
			m.filterQuery = a.Text
			m.setListing(m.browser.Filter(a.Text))
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeFilter:
			m.filterQuery = a.Text
			m.setListing(m.browser.Filter(a.Text))
		case inputtypes.ModeSearch:
			return m.startSearch(a.Text)
		}

	case inputtypes.CancelTextAction:
		if a.Mode == inputtypes.ModeFilter && m.filterQuery != "" {
			m.filterQuery = ""
			m.setListing(m.browser.Filter(""))
		}

	case inputtypes.StopSearchAction:
		return m.stopSearch()

	case inputtypes.CloseResultsAction:
		m.closeResults()

	case inputtypes.AnswerTimeoutAction:
		m.answerTimeout(a.Continue)

	case inputtypes.OpenPagerAction:
		return m.openPager()

	case inputtypes.ScrollHelpAction:
		if a.Reset {
			m.helpScroll = 0
		} else {
			m.helpScroll = max(m.helpScroll+a.Delta, 0)
		}

	case inputtypes.QuitAction:
		m.answerTimeout(false)
		m.dropHeld()
		m.savePreferences()
		return tea.Quit
	}
	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case listingMsg:
		if msg.err != nil {
			m.revealName = ""
			return m, m.reportError(msg.err)
		}
		m.applyListing(msg.path, msg.items, msg.live)
		return m, nil

	case searchLaunchedMsg:
		if msg.seq != m.launchSeq.Load() || !m.searching || m.runID != 0 {
			return m, nil
		}
		m.runID = msg.id
		held := m.held
		m.held = nil
		var cmds []tea.Cmd
		for _, event := range held {
			cmds = append(cmds, m.handleEvent(event))
		}
		return m, tea.Batch(cmds...)

	case searchStartFailedMsg:
		if msg.seq == m.launchSeq.Load() && m.searching && m.runID == 0 {
			m.searching = false
			m.reason = domain.CompletedStopped
			m.dropHeld()
			m.browser.ResumeWatching()
		}
		return m, m.reportError(msg.err)

	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerMsg:
		if msg.err != nil {
			uiLog.Warn("pager_failed", slog.String("error", msg.err.Error()))
			m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
			return m, m.clearStatusLater()
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.DirectoryLoadedEvent:
		m.applyListing(e.Path, e.Items, e.LiveRefresh)

	case eventbus.SearchStartedEvent:
		if !m.ownsRun(e.RunID, e) {
			return nil
		}
		m.runActive = true
		return m.spinner.Tick

	case eventbus.SearchProgressEvent:
		if m.ownsRun(e.RunID, e) && m.runActive {
			m.counters = e.Counters
			m.elapsed = e.Elapsed
		}

	case eventbus.SearchResultsUpdatedEvent:
		if m.ownsRun(e.RunID, e) && m.runActive {
			m.setResults(e.Results)
		}

	case eventbus.SearchCompletedEvent:
		if !m.ownsRun(e.RunID, e) {
			return nil
		}
		m.searching = false
		m.runActive = false
		m.counters = e.Counters
		m.elapsed = e.Elapsed
		m.reason = e.Reason
		if m.showingResults {
			m.setResults(e.Results)
		}
		if m.inputHandler.CurrentMode() == inputtypes.ModePrompt {
			m.pendingReply = nil
			m.inputHandler.ChangeMode(m.listMode(), m)
		}
		m.browser.ResumeWatching()

	case eventbus.SearchTimeoutEvent:
		if m.searching && m.runID == 0 {
			m.held = append(m.held, e)
			return nil
		}
		if !m.ownsRun(e.RunID, e) || !m.runActive {
			e.Reply <- false
			return nil
		}
		m.pendingReply = e.Reply
		m.promptElapsed = e.Elapsed
		m.inputHandler.ChangeMode(inputtypes.ModePrompt, m)

	case eventbus.ErrorEvent:
		msg := e.Message
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		m.setStatus(msg, true)
		return m.clearStatusLater()
	}
	return nil
}

// ownsRun reports whether a search event belongs to the run on screen.
// While Start has not returned yet the event is held and replayed once the
// run's ID is known.
func (m *Model) ownsRun(id domain.RunID, event eventbus.DomainEvent) bool {
	if !m.searching {
		return false
	}
	if m.runID == 0 {
		m.held = append(m.held, event)
		return false
	}
	return id == m.runID
}

// dropHeld forgets held events, declining any timeout question among them
func (m *Model) dropHeld() {
	for _, event := range m.held {
		if e, ok := event.(eventbus.SearchTimeoutEvent); ok {
			select {
			case e.Reply <- false:
			default:
			}
		}
	}
	m.held = nil
}

// listMode is the list mode matching what is on screen
func (m *Model) listMode() inputtypes.Mode {
	if m.showingResults {
		return inputtypes.ModeResults
	}
	return inputtypes.ModeNormal
}

func (m *Model) applyListing(path string, items []domain.FileItem, live bool) {
	changed := path != m.currentPath
	m.currentPath = path
	m.live = live
	m.listing = items
	if changed {
		m.filterQuery = ""
	}
	if m.showingResults {
		return
	}
	m.store.Replace(items)
	if changed {
		m.navigator.Reset()
	} else {
		m.navigator.Clamp()
	}
	if m.revealName != "" {
		for i, it := range items {
			if it.Name == m.revealName {
				m.navigator.MoveToIndex(i)
				break
			}
		}
		m.revealName = ""
	}
}

// setListing shows a re-sorted or re-filtered listing of the same directory
func (m *Model) setListing(items []domain.FileItem) {
	m.applyListing(m.currentPath, items, m.live)
}

func (m *Model) setResults(results []string) {
	m.results = results
	if !m.showingResults {
		return
	}
	m.store.Replace(logic.ItemsFromPaths(results))
	m.navigator.Clamp()
}

// browse runs a browsing operation off the UI goroutine. A search in
// progress is stopped first.
func (m *Model) browse(op func() error) tea.Cmd {
	var searcher Searcher
	if m.searching {
		searcher = m.searcher
		m.answerTimeout(false)
	}
	if m.showingResults {
		m.closeResults()
		m.inputHandler.ChangeMode(inputtypes.ModeNormal, m)
	}

	b := m.browser
	launchMu := &m.launchMu
	return func() tea.Msg {
		if searcher != nil {
			launchMu.Lock()
			searcher.Stop()
			launchMu.Unlock()
		}
		if err := op(); err != nil {
			return listingMsg{err: err}
		}
		return listingMsg{path: b.Current(), items: b.Items(), live: b.LiveRefresh()}
	}
}

func (m *Model) openSelected() tea.Cmd {
	item, ok := m.store.At(m.navigator.GetCursor())
	if !ok {
		return nil
	}

	if m.showingResults {
		// reveal the match in its directory
		dir := filepath.Dir(item.Path)
		m.revealName = item.Name
		return m.browse(func() error { return m.browser.NavigateTo(dir) })
	}

	if !item.IsDir {
		m.setStatus(item.Path, false)
		return m.clearStatusLater()
	}
	path := item.Path
	return m.browse(func() error { return m.browser.NavigateTo(path) })
}

func (m *Model) startSearch(text string) tea.Cmd {
	req, err := search.Validate(m.currentPath, text)
	if err != nil {
		m.inputHandler.ChangeMode(m.listMode(), m)
		return m.reportError(err)
	}

	m.dropHeld()
	seq := m.launchSeq.Add(1)
	m.searchReq = req
	m.searching = true
	m.runActive = false
	m.runID = 0
	m.showingResults = true
	m.counters = domain.ProgressCounters{}
	m.elapsed = 0
	m.reason = ""
	m.results = nil
	m.store.Replace(nil)
	m.navigator.Reset()
	m.browser.SuspendWatching()

	searcher := m.searcher
	launchSeq, launchMu := &m.launchSeq, &m.launchMu
	return func() tea.Msg {
		launchMu.Lock()
		defer launchMu.Unlock()
		if launchSeq.Load() != seq {
			// a later submission supersedes this one
			return nil
		}
		id, err := searcher.Start(context.Background(), req.Root, req.Term)
		if err != nil {
			return searchStartFailedMsg{seq: seq, err: err}
		}
		return searchLaunchedMsg{seq: seq, id: id}
	}
}

func (m *Model) stopSearch() tea.Cmd {
	if !m.searching {
		return nil
	}
	m.answerTimeout(false)
	searcher := m.searcher
	launchMu := &m.launchMu
	return func() tea.Msg {
		launchMu.Lock()
		defer launchMu.Unlock()
		searcher.Stop()
		return nil
	}
}

func (m *Model) closeResults() {
	if !m.showingResults {
		return
	}
	m.showingResults = false
	m.results = nil
	m.store.Replace(m.listing)
	m.navigator.Reset()
}

// answerTimeout replies to a pending timeout question, if any
func (m *Model) answerTimeout(cont bool) {
	if m.pendingReply == nil {
		return
	}
	select {
	case m.pendingReply <- cont:
	default:
	}
	m.pendingReply = nil
}

func (m *Model) addQuickAccess() tea.Cmd {
	target := m.currentPath
	if item, ok := m.store.At(m.navigator.GetCursor()); ok && item.IsDir && !m.showingResults {
		target = item.Path
	}
	if target == "" {
		return nil
	}

	added, err := m.browser.AddQuickAccess(target)
	switch {
	case err != nil:
		return m.reportError(err)
	case added:
		m.setStatus("Added to quick access: "+target, false)
	default:
		m.setStatus("Already in quick access: "+target, false)
	}
	return m.clearStatusLater()
}

func (m *Model) openPager() tea.Cmd {
	var content string
	if m.showingResults {
		content = resultsPagerContent(m.searchReq, m.store.All())
	} else {
		content = listingPagerContent(m.currentPath, m.store.All())
	}

	pager := m.pager
	if pager.program == nil {
		return func() tea.Msg { return pagerMsg{err: errNoProgram} }
	}
	return func() tea.Msg {
		pager.program.Send(pauseRenderingMsg{})
		err := pager.Show(content)
		pager.program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

// savePreferences writes the listing preferences back to the configuration
func (m *Model) savePreferences() {
	if m.config == nil || m.cfgSvc == nil {
		return
	}
	by, desc := m.browser.SortOrder()
	m.config.UI.Sort = string(by)
	m.config.UI.SortDesc = desc
	m.config.UI.ShowHidden = m.browser.ShowHidden()
	if err := m.cfgSvc.Save(m.config); err != nil {
		uiLog.Warn("save_preferences_failed", slog.String("error", err.Error()))
	}
}

func (m *Model) reportError(err error) tea.Cmd {
	var verr *search.ValidationError
	switch {
	case errors.As(err, &verr):
		m.setStatus(verr.Error(), true)
	case errors.Is(err, explorer.ErrNoHistory):
		m.setStatus("No more history", false)
	default:
		uiLog.Warn("action_failed", slog.String("error", err.Error()))
		m.setStatus(err.Error(), true)
	}
	return m.clearStatusLater()
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusSeq++
	m.statusMessage = msg
	m.statusIsError = isErr
}

func (m *Model) clearStatusLater() tea.Cmd {
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}
