package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/internal/event"
	"github.com/sandevgo/chatminder/pkg/log"
)

const shutdownGrace = 10 * time.Second

type ContextRecorder interface {
	Record(ctx context.Context, msg core.ChatMessage) error
}

type ReplySuggester interface {
	Suggest(ctx context.Context, msg core.ChatMessage) error
}

type ReminderOrchestrator interface {
	Remind(ctx context.Context, msg core.ChatMessage) error
}

type MessageRefiner interface {
	Refine(ctx context.Context, before, after core.ChatMessage) error
}

// Pipeline subscribes to message-change events and fans each one out to
// its handlers. The three creation handlers run concurrently and
// independently: they share no state, take no locks, and each writes
// only the message field or entry flag it owns, so their writes cannot
// clobber each other regardless of interleaving. One handler failing
// never affects its siblings.
type Pipeline struct {
	bus       *event.Bus
	recorder  ContextRecorder
	suggester ReplySuggester
	reminders ReminderOrchestrator
	refiner   MessageRefiner

	wg sync.WaitGroup
}

func New(
	bus *event.Bus,
	recorder ContextRecorder,
	suggester ReplySuggester,
	reminders ReminderOrchestrator,
	refiner MessageRefiner,
) *Pipeline {
	return &Pipeline{
		bus:       bus,
		recorder:  recorder,
		suggester: suggester,
		reminders: reminders,
		refiner:   refiner,
	}
}

func (p *Pipeline) Start(ctx context.Context) error {
	events := p.bus.Subscribe(64)
	log.FromCtx(ctx).Info().Msg("starting message pipeline")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.dispatch(ctx, ev)
		}
	}
}

func (p *Pipeline) dispatch(ctx context.Context, ev event.MessageEvent) {
	switch ev.Type {
	case event.MessageCreated:
		p.spawn(ctx, "record context", func(ctx context.Context) error {
			return p.recorder.Record(ctx, ev.Message)
		})
		p.spawn(ctx, "suggest replies", func(ctx context.Context) error {
			return p.suggester.Suggest(ctx, ev.Message)
		})
		p.spawn(ctx, "surface reminder", func(ctx context.Context) error {
			return p.reminders.Remind(ctx, ev.Message)
		})
	case event.MessageUpdated:
		p.spawn(ctx, "refine message", func(ctx context.Context) error {
			return p.refiner.Refine(ctx, ev.Before, ev.Message)
		})
	}
}

func (p *Pipeline) spawn(ctx context.Context, name string, fn func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := fn(ctx); err != nil {
			// Store failures end up here; the event delivery layer is
			// free to redeliver, and handlers tolerate that.
			log.FromCtx(ctx).Error().Err(err).Str("handler", name).Msg("pipeline handler failed")
		}
	}()
}

// Shutdown waits for in-flight handlers to drain, up to a grace period.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(shutdownGrace):
		return fmt.Errorf("pipeline handlers still running after %s", shutdownGrace)
	}
}
