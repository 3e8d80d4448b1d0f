package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/readlater"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages rendered by one Chrome
// process before it is replaced.
const DefaultMaxPages = 75

// BrowserManager hands out the Chrome process behind a Fetcher. Each page
// is rendered under a lease. Once a process has served maxPages leases the
// next lease starts a fresh process, and the old one is shut down as soon
// as its last page is released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	retiring map[*instance]struct{}
	maxPages int64
	closed   bool
}

// instance is one launched Chrome process.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	leased   int64
	inFlight int
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages one browser process renders before it
// is replaced. Values below 1 disable replacement.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome browser. Close must be
// called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		retiring: make(map[*instance]struct{}),
	}
	for _, opt := range opts {
		opt(bm)
	}

	inst, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst
	return bm, nil
}

// Acquire leases the browser for rendering one page. The returned release
// function must be called once the page is closed.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, readlater.Errorf(readlater.EUNAVAILABLE, "browser is closed")
	}
	if bm.maxPages > 0 && bm.current.leased >= bm.maxPages {
		bm.restart()
	}

	inst := bm.current
	inst.leased++
	inst.inFlight++

	var once sync.Once
	release := func() {
		once.Do(func() { bm.release(inst) })
	}
	return inst.browser, release, nil
}

func (bm *BrowserManager) release(inst *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.inFlight--
	if _, ok := bm.retiring[inst]; ok && inst.inFlight == 0 {
		delete(bm.retiring, inst)
		_ = inst.close()
	}
}

// restart replaces the current process. A failed launch keeps the old
// process serving pages. Must be called with mu held.
func (bm *BrowserManager) restart() {
	next, err := launch()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = next
	if old.inFlight == 0 {
		_ = old.close()
		return
	}
	bm.retiring[old] = struct{}{}
}

// Close shuts down every browser process, including ones with pages still
// rendering. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	err := bm.current.close()
	for inst := range bm.retiring {
		_ = inst.close()
	}
	clear(bm.retiring)
	return err
}

// LauncherPID returns the process ID of the current browser launcher, or 0
// once the manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return 0
	}
	return bm.current.launcher.PID()
}

// launch starts Chrome headless with background throttling disabled so
// pages in hidden tabs keep running their scripts.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &instance{browser: browser, launcher: l}, nil
}

func (inst *instance) close() error {
	err := inst.browser.Close()
	inst.launcher.Kill()
	return err
}
