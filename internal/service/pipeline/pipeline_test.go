package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/internal/event"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c == name {
			n++
		}
	}
	return n
}

type stubHandler struct {
	log  *callLog
	name string
	err  error
}

func (s *stubHandler) Record(ctx context.Context, msg core.ChatMessage) error {
	s.log.add(s.name)
	return s.err
}

func (s *stubHandler) Suggest(ctx context.Context, msg core.ChatMessage) error {
	s.log.add(s.name)
	return s.err
}

func (s *stubHandler) Remind(ctx context.Context, msg core.ChatMessage) error {
	s.log.add(s.name)
	return s.err
}

func (s *stubHandler) Refine(ctx context.Context, before, after core.ChatMessage) error {
	s.log.add(s.name)
	return s.err
}

func startPipeline(t *testing.T, lg *callLog, errs map[string]error) (*event.Bus, func()) {
	t.Helper()
	bus := event.NewBus()
	p := New(bus,
		&stubHandler{log: lg, name: "record", err: errs["record"]},
		&stubHandler{log: lg, name: "suggest", err: errs["suggest"]},
		&stubHandler{log: lg, name: "remind", err: errs["remind"]},
		&stubHandler{log: lg, name: "refine", err: errs["refine"]},
	)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	go func() {
		close(started)
		p.Start(ctx)
	}()
	<-started

	return bus, func() {
		cancel()
		p.Shutdown(context.Background())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPipeline_CreatedEventRunsAllThreeHandlers(t *testing.T) {
	lg := &callLog{}
	bus, stop := startPipeline(t, lg, nil)
	defer stop()

	bus.Publish(context.Background(), event.MessageEvent{
		Type:    event.MessageCreated,
		Message: core.ChatMessage{ID: "m1", ChatID: "c1"},
	})

	waitFor(t, func() bool {
		return lg.count("record") == 1 && lg.count("suggest") == 1 && lg.count("remind") == 1
	})
	if lg.count("refine") != 0 {
		t.Error("refiner must not run on creation")
	}
}

func TestPipeline_UpdatedEventRunsOnlyRefiner(t *testing.T) {
	lg := &callLog{}
	bus, stop := startPipeline(t, lg, nil)
	defer stop()

	bus.Publish(context.Background(), event.MessageEvent{
		Type:    event.MessageUpdated,
		Before:  core.ChatMessage{ID: "m1", Text: "old"},
		Message: core.ChatMessage{ID: "m1", Text: "new"},
	})

	waitFor(t, func() bool { return lg.count("refine") == 1 })
	if lg.count("record")+lg.count("suggest")+lg.count("remind") != 0 {
		t.Error("creation handlers must not run on update")
	}
}

func TestPipeline_HandlerFailureDoesNotAffectSiblings(t *testing.T) {
	lg := &callLog{}
	bus, stop := startPipeline(t, lg, map[string]error{"record": errors.New("store down")})
	defer stop()

	bus.Publish(context.Background(), event.MessageEvent{
		Type:    event.MessageCreated,
		Message: core.ChatMessage{ID: "m1"},
	})

	waitFor(t, func() bool {
		return lg.count("suggest") == 1 && lg.count("remind") == 1
	})
}
