package ingest

import (
	"context"
	"errors"
	"log/slog"
	"shift-metrics/internal/blob"
	"strings"
)

type Runner interface {
	Run(ctx context.Context, name string) (Result, error)
}

// Trigger starts a pipeline run for every CSV object created under the import prefix.
type Trigger struct {
	prefix string
	runner Runner
	log    *slog.Logger
}

func NewTrigger(prefix string, runner Runner, log *slog.Logger) *Trigger {
	return &Trigger{prefix: prefix, runner: runner, log: log}
}

func (t *Trigger) Accepts(ev blob.Event) bool {
	return strings.HasPrefix(ev.Name, t.prefix) &&
		strings.Contains(strings.ToLower(ev.ContentType), "csv")
}

// Handle runs the pipeline for ev if it qualifies. ok is false for ignored events.
func (t *Trigger) Handle(ctx context.Context, ev blob.Event) (res Result, ok bool, err error) {
	if !t.Accepts(ev) {
		t.log.Debug("ignoring object",
			slog.String("blob", ev.Name),
			slog.String("content_type", ev.ContentType),
		)
		return Result{}, false, nil
	}

	res, err = t.runner.Run(ctx, ev.Name)
	return res, true, err
}

// Serve handles events one at a time until ctx ends or events is closed. Run
// errors are logged and the loop goes on; retrying is left to whoever re-drops
// the file. An object that is already gone was picked up by an earlier run
// (backlog replay and the watcher can both see it) and only gets a debug line.
func (t *Trigger) Serve(ctx context.Context, events <-chan blob.Event) error {
	const op = "ingest.Trigger.Serve"

	log := t.log.With(slog.String("op", op))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, open := <-events:
			if !open {
				return nil
			}
			_, _, err := t.Handle(ctx, ev)
			switch {
			case err == nil:
			case errors.Is(err, blob.ErrNotExist):
				log.Debug("object already gone", slog.String("blob", ev.Name))
			default:
				log.Error("import run failed", slog.String("blob", ev.Name), slog.String("error", err.Error()))
			}
		}
	}
}

// Replay handles objects that were already waiting before the watcher started.
// It returns how many runs finished in StateDone.
func (t *Trigger) Replay(ctx context.Context, objs []blob.Object) int {
	const op = "ingest.Trigger.Replay"

	done := 0
	for _, obj := range objs {
		if ctx.Err() != nil {
			break
		}
		res, ok, err := t.Handle(ctx, blob.Event{Name: obj.Name, ContentType: obj.ContentType})
		if errors.Is(err, blob.ErrNotExist) {
			t.log.Debug("object already gone", slog.String("op", op), slog.String("blob", obj.Name))
			continue
		}
		if err != nil {
			t.log.Error("backlog run failed",
				slog.String("op", op),
				slog.String("blob", obj.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ok && res.State == StateDone {
			done++
		}
	}
	return done
}
