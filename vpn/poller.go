package vpn

import (
	"context"
	"sync"
	"time"

	"github.com/yllada/adguardvpn-desktop/common"
)

// StatusUpdater refreshes the connection status. Store implements it.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context) error
}

// Poller refreshes the status on a fixed interval, so that changes made
// outside this process (another client, a dropped tunnel) show up.
type Poller struct {
	mu       sync.RWMutex
	updater  StatusUpdater
	interval time.Duration
	running  bool
	stopChan chan struct{}
	done     chan struct{}
	failures int
	onError  func(err error, consecutive int)
}

// NewPoller creates a poller. Intervals below common.MinStatusInterval are raised to it.
func NewPoller(updater StatusUpdater, interval time.Duration) *Poller {
	return &Poller{
		updater:  updater,
		interval: max(interval, common.MinStatusInterval),
	}
}

// SetOnError sets a callback for failed polls. consecutive counts failures
// since the last successful poll.
func (p *Poller) SetOnError(callback func(err error, consecutive int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = callback
}

// Start begins polling until ctx is done or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.done = make(chan struct{})
	interval, stop, done := p.interval, p.stopChan, p.done
	p.mu.Unlock()

	common.LogInfo("Status poller started (interval: %v)", interval)

	go p.runLoop(ctx, interval, stop, done)
}

// Stop stops polling and waits for an in-progress poll to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	done := p.done
	p.mu.Unlock()

	<-done
	common.LogInfo("Status poller stopped")
}

// IsRunning returns whether the poller is currently running.
func (p *Poller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// Interval returns the polling interval.
func (p *Poller) Interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

func (p *Poller) runLoop(ctx context.Context, interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	err := p.updater.UpdateStatus(ctx)

	p.mu.Lock()
	if err == nil {
		p.failures = 0
		p.mu.Unlock()
		return
	}
	p.failures++
	failures, callback := p.failures, p.onError
	p.mu.Unlock()

	common.LogWarn("Status poll failed (%d in a row): %v", failures, err)
	if callback != nil {
		callback(err, failures)
	}
}
