package services

import (
	"context"
	"sync"
	"time"

	redisclient "github.com/yungbote/palearn-backend/internal/clients/redis"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const (
	// Terminal statuses read back as idle after this long.
	statusTerminalTTL = 5 * time.Minute
	// Entries stuck in a non-terminal phase are dropped after this long.
	statusStaleTTL = time.Hour
)

// StatusTracker keeps the last generation status per user. When a bus is
// set, updates are also published so other instances can serve them.
// Entries expire, so the map holds only recently active users.
type StatusTracker struct {
	log *logger.Logger
	bus redisclient.StatusBus
	now func() time.Time

	mu        sync.Mutex
	last      map[string]statusEntry
	lastSweep time.Time
}

type statusEntry struct {
	status generator.Status
	at     time.Time
}

func (e statusEntry) expired(now time.Time) bool {
	ttl := statusStaleTTL
	if terminal(e.status.Phase) {
		ttl = statusTerminalTTL
	}
	return now.Sub(e.at) >= ttl
}

func terminal(p generator.Phase) bool {
	switch p {
	case generator.PhaseCompleted, generator.PhaseFailed, generator.PhaseUnavailable:
		return true
	}
	return false
}

func NewStatusTracker(log *logger.Logger, bus redisclient.StatusBus) *StatusTracker {
	return &StatusTracker{
		log:  log.With("service", "StatusTracker"),
		bus:  bus,
		now:  time.Now,
		last: map[string]statusEntry{},
	}
}

// Current returns the user's last status, idle when nothing was recorded or
// the entry has expired.
func (t *StatusTracker) Current(userID string) generator.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.last[userID]
	if !ok {
		return generator.Status{Phase: generator.PhaseIdle}
	}
	if e.expired(t.now()) {
		delete(t.last, userID)
		return generator.Status{Phase: generator.PhaseIdle}
	}
	return e.status
}

func (t *StatusTracker) set(userID string, s generator.Status) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[userID] = statusEntry{status: s, at: now}
	if now.Sub(t.lastSweep) < statusTerminalTTL {
		return
	}
	t.lastSweep = now
	for id, e := range t.last {
		if e.expired(now) {
			delete(t.last, id)
		}
	}
}

// ObserverFor records statuses for userID.
func (t *StatusTracker) ObserverFor(userID string) generator.Observer {
	return generator.ObserverFunc(func(s generator.Status) {
		t.set(userID, s)
		if t.bus == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := t.bus.Publish(ctx, toEvent(userID, s)); err != nil {
			t.log.Warn("status publish failed", "error", err)
		}
	})
}

// Apply records a status received from the bus.
func (t *StatusTracker) Apply(ev redisclient.StatusEvent) {
	s := generator.Status{Phase: generator.Phase(ev.Status)}
	if ev.Model != nil {
		s.Model = *ev.Model
	}
	t.set(ev.UserID, s)
}

func toEvent(userID string, s generator.Status) redisclient.StatusEvent {
	ev := redisclient.StatusEvent{UserID: userID, Status: string(s.Phase)}
	if s.Model != "" {
		m := s.Model
		ev.Model = &m
	}
	return ev
}
