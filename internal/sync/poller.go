// Package sync keeps entity stores fresh in the background and reports
// refresh results to a Bubble Tea program.
package sync

import (
	"context"
	"sort"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/store"
)

// SyncState represents the current state of a refresher.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus holds the sync state for a single refresher.
type SyncStatus struct {
	Name     string
	State    SyncState
	LastSync time.Time
	Error    error
}

// SyncResultMsg is a tea.Msg sent when a refresh completes.
type SyncResultMsg struct {
	Name  string
	Error error
}

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// refresherEntry holds a registered refresher and its schedule.
type refresherEntry struct {
	name     string
	fetcher  store.Fetcher
	interval time.Duration
	trigger  chan struct{}
}

// Poller orchestrates background refreshing of registered stores.
type Poller struct {
	entries  []*refresherEntry
	statuses map[string]*SyncStatus
	resultCh chan SyncResultMsg
	stopCh   chan struct{}
	log      *zap.SugaredLogger
	mu       gosync.Mutex
	running  bool
}

// New creates an empty Poller.
func New(log *zap.SugaredLogger) *Poller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Poller{
		statuses: make(map[string]*SyncStatus),
		resultCh: make(chan SyncResultMsg, 16),
		stopCh:   make(chan struct{}),
		log:      log,
	}
}

// Register adds a named refresher polled every interval. Registering after
// Start has no effect on the running poller.
func (p *Poller) Register(name string, f store.Fetcher, interval time.Duration) {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = append(p.entries, &refresherEntry{
		name:     name,
		fetcher:  f,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	})
	p.statuses[name] = &SyncStatus{Name: name, State: SyncIdle}
}

// RegisterSet registers every store of set under its stable name.
func (p *Poller) RegisterSet(set *store.Set, interval time.Duration) {
	fetchers := set.Fetchers()
	names := make([]string, 0, len(fetchers))
	for name := range fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Register(name, fetchers[name], interval)
	}
}

// Start returns a tea.Cmd that starts all polling goroutines and
// waits for the first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	entries := make([]*refresherEntry, len(p.entries))
	copy(entries, p.entries)
	p.mu.Unlock()

	for _, entry := range entries {
		go p.poll(entry)
	}

	return p.WaitForNextResult()
}

// Stop halts all polling goroutines.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// RefreshAll triggers an immediate refresh of every registered store.
func (p *Poller) RefreshAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, entry := range p.entries {
		entry.kick()
	}
}

// Refresh triggers an immediate refresh of the named store. Unknown names
// are ignored.
func (p *Poller) Refresh(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, entry := range p.entries {
		if entry.name == name {
			entry.kick()
		}
	}
}

// Statuses returns the current status of every refresher, sorted by name.
func (p *Poller) Statuses() []SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]SyncStatus, 0, len(p.statuses))
	for _, s := range p.statuses {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// WaitForNextResult returns a tea.Cmd that waits for the next sync result.
// Call it again after handling each SyncResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}

// kick queues a refresh unless one is already pending.
func (e *refresherEntry) kick() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// poll runs the refresh loop for a single entry.
func (p *Poller) poll(entry *refresherEntry) {
	ticker := time.NewTicker(entry.interval)
	defer ticker.Stop()

	p.refresh(entry)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.refresh(entry)
		case <-entry.trigger:
			p.refresh(entry)
		}
	}
}

// refresh performs a single fetch and reports its outcome.
func (p *Poller) refresh(entry *refresherEntry) {
	p.setStatus(entry.name, SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	err := entry.fetcher.Fetch(ctx)
	if err != nil {
		p.log.Debugw("refresh failed", "store", entry.name, "error", err)
		p.setStatus(entry.name, SyncError, err)
	} else {
		p.setStatus(entry.name, SyncIdle, nil)
	}
	p.sendResult(SyncResultMsg{Name: entry.name, Error: err})
}

// setStatus updates the sync status of a refresher.
func (p *Poller) setStatus(name string, state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[name]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == SyncIdle && err == nil {
		status.LastSync = time.Now()
	}
}

// sendResult sends a SyncResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg SyncResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if the channel is full so polling never blocks.
	}
}
