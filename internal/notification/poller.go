package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CountFetcher pulls the current unread count from the backend.
type CountFetcher func(ctx context.Context) (int, error)

// Poller keeps one session's unread count warm. It is a cancellable task tied
// to an explicit subscribe/unsubscribe lifecycle, not a free-running
// interval: Stop always reaches the ticker, so repeated navigation cannot
// leak timers.
type Poller struct {
	interval time.Duration
	fetch    CountFetcher
	logger   *slog.Logger

	mu    sync.Mutex
	count int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(interval time.Duration, fetch CountFetcher, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		logger:   logger,
	}
}

// Start fetches once immediately, then on every interval tick until Stop or
// parent cancellation.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	p.refresh(ctx)

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the poll task and waits for it to wind down.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

func (p *Poller) refresh(ctx context.Context) {
	count, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("unread count refresh failed", "error", err)
		}
		return
	}
	p.SetCount(count)
}

// Refresh forces an immediate fetch, used to reconcile after a failed
// optimistic update.
func (p *Poller) Refresh(ctx context.Context) {
	p.refresh(ctx)
}

func (p *Poller) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func (p *Poller) SetCount(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 0 {
		n = 0
	}
	p.count = n
}

// Add applies an optimistic delta, clamped at zero so repeated mark-read
// calls can never drive the badge negative.
func (p *Poller) Add(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count += delta
	if p.count < 0 {
		p.count = 0
	}
}

// Manager owns one poller per subscribed session.
type Manager struct {
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pollers map[string]*Poller
}

func NewManager(interval time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		interval: interval,
		logger:   logger,
		pollers:  make(map[string]*Poller),
	}
}

// Subscribe starts a poller for the session if none is running yet and
// reports whether a new one was started.
func (m *Manager) Subscribe(ctx context.Context, sessionID string, fetch CountFetcher) bool {
	m.mu.Lock()
	if _, exists := m.pollers[sessionID]; exists {
		m.mu.Unlock()
		return false
	}
	p := NewPoller(m.interval, fetch, m.logger)
	m.pollers[sessionID] = p
	m.mu.Unlock()

	p.Start(ctx)
	return true
}

func (m *Manager) Unsubscribe(sessionID string) {
	m.mu.Lock()
	p, ok := m.pollers[sessionID]
	if ok {
		delete(m.pollers, sessionID)
	}
	m.mu.Unlock()

	if ok {
		p.Stop()
	}
}

func (m *Manager) Get(sessionID string) (*Poller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pollers[sessionID]
	return p, ok
}

// Shutdown stops every poller, called when the server winds down.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	pollers := make([]*Poller, 0, len(m.pollers))
	for id, p := range m.pollers {
		pollers = append(pollers, p)
		delete(m.pollers, id)
	}
	m.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
}
