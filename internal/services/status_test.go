package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	redisclient "github.com/yungbote/palearn-backend/internal/clients/redis"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type recordingBus struct {
	events []redisclient.StatusEvent
	err    error
}

func (b *recordingBus) Publish(_ context.Context, ev redisclient.StatusEvent) error {
	b.events = append(b.events, ev)
	return b.err
}

func (b *recordingBus) StartForwarder(context.Context, func(redisclient.StatusEvent)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

func (t *StatusTracker) tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}

func TestStatusTrackerPerUser(t *testing.T) {
	bus := &recordingBus{}
	tr := NewStatusTracker(logger.Nop(), bus)

	if s := tr.Current("u1"); s.Phase != generator.PhaseIdle {
		t.Fatalf("default phase = %s", s.Phase)
	}
	obs := tr.ObserverFor("u1")
	obs.Observe(generator.Status{Model: "gpt-4o", Phase: generator.PhaseSearching})
	tr.ObserverFor("u2").Observe(generator.Status{Phase: generator.PhaseUnavailable})

	raw, _ := json.Marshal(tr.Current("u1"))
	if string(raw) != `{"model":"gpt-4o","status":"searching"}` {
		t.Fatalf("u1 status json = %s", raw)
	}
	raw, _ = json.Marshal(tr.Current("u2"))
	if string(raw) != `{"model":null,"status":"unavailable"}` {
		t.Fatalf("u2 status json = %s", raw)
	}
	if len(bus.events) != 2 || bus.events[0].Model == nil || bus.events[1].Model != nil {
		t.Fatalf("published events = %+v", bus.events)
	}
}

func TestStatusTrackerToleratesBusErrors(t *testing.T) {
	tr := NewStatusTracker(logger.Nop(), &recordingBus{err: errors.New("down")})
	tr.ObserverFor("u1").Observe(generator.Status{Phase: generator.PhaseCompleted})
	if tr.Current("u1").Phase != generator.PhaseCompleted {
		t.Fatalf("local status should be kept when publish fails")
	}
}

func TestStatusTrackerApply(t *testing.T) {
	tr := NewStatusTracker(logger.Nop(), nil)
	m := "gpt-4o-search-preview (fallback)"
	tr.Apply(redisclient.StatusEvent{UserID: "u9", Model: &m, Status: "searching"})
	if s := tr.Current("u9"); s.Model != m || s.Phase != generator.PhaseSearching {
		t.Fatalf("applied status = %+v", s)
	}
}

func TestStatusTrackerExpiresEntries(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := NewStatusTracker(logger.Nop(), nil)
	tr.now = func() time.Time { return now }

	tr.ObserverFor("done").Observe(generator.Status{Model: "gpt-4o", Phase: generator.PhaseCompleted})
	tr.ObserverFor("busy").Observe(generator.Status{Model: "gpt-4o", Phase: generator.PhaseSearching})

	now = now.Add(statusTerminalTTL)
	if s := tr.Current("done"); s.Phase != generator.PhaseIdle {
		t.Fatalf("completed status should read idle after the grace period, got %s", s.Phase)
	}
	if s := tr.Current("busy"); s.Phase != generator.PhaseSearching {
		t.Fatalf("in-flight status should survive, got %s", s.Phase)
	}

	now = now.Add(statusStaleTTL)
	if s := tr.Current("busy"); s.Phase != generator.PhaseIdle {
		t.Fatalf("stale in-flight status should read idle, got %s", s.Phase)
	}
}

func TestStatusTrackerSweepBoundsMap(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := NewStatusTracker(logger.Nop(), nil)
	tr.now = func() time.Time { return now }

	for i := range 100 {
		tr.ObserverFor(fmt.Sprintf("u%d", i)).Observe(generator.Status{Phase: generator.PhaseCompleted})
	}
	now = now.Add(statusTerminalTTL + time.Second)
	tr.ObserverFor("fresh").Observe(generator.Status{Phase: generator.PhaseSearching})

	if n := tr.tracked(); n != 1 {
		t.Fatalf("expired users should be swept, %d left", n)
	}
}
