// Package explorer implements the browsing session: the current directory,
// its listing, history, quick-access locations and live refresh.
package explorer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"fastexplorer/internal/config"
	"fastexplorer/internal/domain"
	"fastexplorer/internal/eventbus"
	"fastexplorer/internal/logging"
	"fastexplorer/internal/logic"
	"fastexplorer/internal/watcher"
)

var (
	// ErrNotDirectory is returned when navigating to something that is not a directory
	ErrNotDirectory = errors.New("not a directory")
	// ErrNoHistory is returned by Back and Forward when there is nowhere to go
	ErrNoHistory = errors.New("no history")
)

const historyLimit = 100

// Options configures an Explorer
type Options struct {
	ShowHidden bool
	Sort       domain.SortCriteria
	SortDesc   bool
	Watch      bool
	Debounce   time.Duration

	// Config and ConfigService persist quick-access edits; both may be nil
	Config        *config.Config
	ConfigService config.ConfigService
}

// OptionsFromConfig maps the ui and watch settings onto explorer options
func OptionsFromConfig(cfg *config.Config, svc config.ConfigService) Options {
	return Options{
		ShowHidden:    cfg.UI.ShowHidden,
		Sort:          cfg.UI.SortCriteria(),
		SortDesc:      cfg.UI.SortDesc,
		Watch:         cfg.Watch.Enabled,
		Debounce:      cfg.Watch.Debounce(),
		Config:        cfg,
		ConfigService: svc,
	}
}

// Explorer is one browsing session
type Explorer struct {
	bus     eventbus.EventBus
	watcher *watcher.Watcher
	cfg     *config.Config
	cfgSvc  config.ConfigService
	unsub   func()
	log     *slog.Logger

	opMu sync.Mutex // serializes navigation, refresh and watcher switching

	mu         sync.Mutex
	current    string
	listing    []domain.FileItem
	history    *History
	query      string
	exts       []string
	showHidden bool
	sortBy     domain.SortCriteria
	sortDesc   bool
	suspended  bool
	live       bool
	quick      []string
}

// New creates a session with no current directory. Call NavigateTo to load one.
func New(bus eventbus.EventBus, opts Options) *Explorer {
	if opts.Sort == "" {
		opts.Sort = domain.SortByName
	}
	e := &Explorer{
		bus:        bus,
		cfg:        opts.Config,
		cfgSvc:     opts.ConfigService,
		log:        logging.ForComponent(logging.CompExplorer),
		history:    NewHistory(historyLimit),
		showHidden: opts.ShowHidden,
		sortBy:     opts.Sort,
		sortDesc:   opts.SortDesc,
	}

	if opts.Config != nil && len(opts.Config.UI.QuickAccess) > 0 {
		e.quick = slices.Clone(opts.Config.UI.QuickAccess)
	} else {
		e.quick = DefaultQuickAccess()
	}

	if opts.Watch {
		e.watcher = watcher.New(opts.Debounce)
		e.watcher.OnChange(func() {
			// runs on the watcher goroutine; the reload happens on the bus
			if p := e.watcher.Path(); p != "" {
				e.bus.Publish(eventbus.DirectoryChangedEvent{Path: p})
			}
		})
		e.unsub = bus.Subscribe(eventbus.EventDirectoryChanged, e.handleDirectoryChanged)
	}
	return e
}

// Close stops live refresh
func (e *Explorer) Close() {
	if e.unsub != nil {
		e.unsub()
	}
	if e.watcher != nil {
		e.watcher.Stop()
	}
}

// Current returns the current directory
func (e *Explorer) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// LiveRefresh reports whether changes of the current directory are being watched
func (e *Explorer) LiveRefresh() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

func (e *Explorer) CanGoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanGoBack()
}

func (e *Explorer) CanGoForward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanGoForward()
}

// NavigateTo makes path the current directory. The path must be an existing
// directory; on failure nothing changes. The previous directory is pushed onto
// the back history and the forward history is cleared.
func (e *Explorer) NavigateTo(path string) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	abs, listing, err := e.load(path)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.current != "" && e.current != abs {
		e.history.Visit(e.current)
	}
	e.current = abs
	e.listing = listing
	e.query = ""
	e.mu.Unlock()

	e.enter(abs)
	return nil
}

// NavigateUp goes to the parent directory. At the filesystem root it does nothing.
func (e *Explorer) NavigateUp() error {
	cur := e.Current()
	if cur == "" {
		return nil
	}
	parent := filepath.Dir(cur)
	if parent == cur {
		return nil
	}
	return e.NavigateTo(parent)
}

// Back returns to the previous directory without recording new history
func (e *Explorer) Back() error {
	return e.step(func(h *History, cur string) (string, bool) { return h.Back(cur) },
		func(h *History, cur string) { h.Forward(cur) })
}

// Forward undoes a Back without recording new history
func (e *Explorer) Forward() error {
	return e.step(func(h *History, cur string) (string, bool) { return h.Forward(cur) },
		func(h *History, cur string) { h.Back(cur) })
}

func (e *Explorer) step(move func(*History, string) (string, bool), undo func(*History, string)) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	cur := e.current
	target, ok := move(e.history, cur)
	e.mu.Unlock()
	if !ok {
		return ErrNoHistory
	}

	abs, listing, err := e.load(target)
	if err != nil {
		e.mu.Lock()
		undo(e.history, target)
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	e.current = abs
	e.listing = listing
	e.query = ""
	e.mu.Unlock()

	e.enter(abs)
	return nil
}

// Refresh reloads the listing of the current directory
func (e *Explorer) Refresh() error {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	return e.refresh()
}

func (e *Explorer) refresh() error {
	cur := e.Current()
	if cur == "" {
		return nil
	}
	listing, err := readListing(cur)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.listing = listing
	e.mu.Unlock()

	e.publishLoaded()
	return nil
}

func (e *Explorer) handleDirectoryChanged(ev eventbus.DomainEvent) {
	changed, ok := ev.(eventbus.DirectoryChangedEvent)
	if !ok {
		return
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	if changed.Path != e.Current() {
		// stale notification from a directory we already left
		return
	}
	if err := e.refresh(); err != nil {
		e.log.Warn("live_refresh_failed", slog.String("path", changed.Path), slog.String("error", err.Error()))
		e.bus.Publish(eventbus.ErrorEvent{Message: "refresh failed", Err: err})
	}
}

// Items returns the listing as presented: hidden entries dropped unless shown,
// quick filter and extension filter applied, sorted with directories first.
func (e *Explorer) Items() []domain.FileItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Explorer) viewLocked() []domain.FileItem {
	items := slices.Clone(e.listing)
	if !e.showHidden {
		items = logic.HideDotfiles(items)
	}
	items = logic.FilterByName(items, e.query)
	items = logic.FilterByExtension(items, e.exts...)
	logic.SortItems(items, e.sortBy, e.sortDesc)
	return items
}

// Filter narrows the presented listing to names containing query
func (e *Explorer) Filter(query string) []domain.FileItem {
	e.mu.Lock()
	e.query = query
	e.mu.Unlock()
	return e.publishLoaded()
}

// FilterByExtension narrows the presented listing to the given extensions.
// Calling it without extensions removes the filter.
func (e *Explorer) FilterByExtension(exts ...string) []domain.FileItem {
	e.mu.Lock()
	e.exts = slices.Clone(exts)
	e.mu.Unlock()
	return e.publishLoaded()
}

// Sort changes the order of the presented listing
func (e *Explorer) Sort(by domain.SortCriteria, desc bool) []domain.FileItem {
	e.mu.Lock()
	e.sortBy = by
	e.sortDesc = desc
	e.mu.Unlock()
	return e.publishLoaded()
}

// SortOrder returns the active sort column and direction
func (e *Explorer) SortOrder() (domain.SortCriteria, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortBy, e.sortDesc
}

// SetShowHidden toggles dotfiles in the presented listing
func (e *Explorer) SetShowHidden(show bool) []domain.FileItem {
	e.mu.Lock()
	e.showHidden = show
	e.mu.Unlock()
	return e.publishLoaded()
}

func (e *Explorer) ShowHidden() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.showHidden
}

// SuspendWatching stops live refresh until ResumeWatching is called
func (e *Explorer) SuspendWatching() {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	e.suspended = true
	e.live = false
	e.mu.Unlock()

	if e.watcher != nil {
		e.watcher.Stop()
	}
}

// ResumeWatching restarts live refresh and reloads the listing, since changes
// made while suspended were not observed.
func (e *Explorer) ResumeWatching() {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	e.suspended = false
	cur := e.current
	e.mu.Unlock()

	if cur == "" {
		return
	}
	e.switchWatch(cur)
	if err := e.refresh(); err != nil {
		e.log.Warn("resume_refresh_failed", slog.String("path", cur), slog.String("error", err.Error()))
	}
}

// load validates path and reads its listing without touching session state
func (e *Explorer) load(path string) (string, []domain.FileItem, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("navigate %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("navigate %s: %w", path, ErrNotDirectory)
	}

	listing, err := readListing(abs)
	if err != nil {
		return "", nil, err
	}
	return abs, listing, nil
}

// enter switches the watcher to dir and announces the new listing
func (e *Explorer) enter(dir string) {
	e.switchWatch(dir)
	e.log.Debug("navigated", slog.String("path", dir))
	e.publishLoaded()
}

// switchWatch replaces the subscription: full stop, then start on dir
func (e *Explorer) switchWatch(dir string) {
	if e.watcher == nil {
		return
	}

	e.mu.Lock()
	suspended := e.suspended
	e.mu.Unlock()

	e.watcher.Stop()
	live := false
	if !suspended {
		if err := e.watcher.Start(dir); err != nil {
			e.log.Warn("watch_unavailable", slog.String("path", dir), slog.String("error", err.Error()))
		} else {
			live = true
		}
	}

	e.mu.Lock()
	e.live = live
	e.mu.Unlock()
}

func (e *Explorer) publishLoaded() []domain.FileItem {
	e.mu.Lock()
	items := e.viewLocked()
	ev := eventbus.DirectoryLoadedEvent{Path: e.current, Items: items, LiveRefresh: e.live}
	e.mu.Unlock()

	if ev.Path != "" {
		e.bus.Publish(ev)
	}
	return items
}

func readListing(dir string) ([]domain.FileItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	items := make([]domain.FileItem, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		// follow links so a linked directory is browsable
		info, err := os.Stat(path)
		if err != nil {
			if info, err = entry.Info(); err != nil {
				continue
			}
		}
		item := domain.FileItem{
			Name:    entry.Name(),
			Path:    path,
			IsDir:   info.IsDir(),
			ModTime: info.ModTime(),
		}
		if !item.IsDir {
			item.Size = info.Size()
		}
		items = append(items, item)
	}
	return items, nil
}
