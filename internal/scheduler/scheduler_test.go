package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodtruck_backend/internal/trucks/importer"
	"foodtruck_backend/internal/trucks/source"
	"foodtruck_backend/platform/logger"

	"github.com/hibiken/asynq"
)

func TestRefreshPayloadRoundTrip(t *testing.T) {
	task, err := NewRefreshRegistryTask(RefreshRegistryPayload{Source: "yaml", Path: "trucks.yaml", Reason: "manual"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskRefreshRegistry {
		t.Fatalf("expected task type %q, got %q", TaskRefreshRegistry, task.Type())
	}

	got, err := ParseRefreshRegistryPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != "yaml" || got.Path != "trucks.yaml" || got.Reason != "manual" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestParseEmptyPayload(t *testing.T) {
	got, err := ParseRefreshRegistryPayload(asynq.NewTask(TaskRefreshRegistry, nil))
	if err != nil {
		t.Fatalf("expected empty payload to be accepted, got %v", err)
	}
	if got != (RefreshRegistryPayload{}) {
		t.Fatalf("expected zero payload, got %+v", got)
	}
}

type namedSource string

func (n namedSource) Name() string                               { return string(n) }
func (n namedSource) Load(context.Context) (source.Batch, error) { return source.Batch{}, nil }

type fakeImporter struct {
	got source.Source
	err error
}

func (f *fakeImporter) Import(_ context.Context, src source.Source) (importer.Summary, error) {
	f.got = src
	if f.err != nil {
		return importer.Summary{}, f.err
	}
	return importer.Summary{Source: src.Name(), Records: 3}, nil
}

func newTestWorker(imp Importer) (*Worker, *[]string) {
	var built []string
	return &Worker{
		importer: imp,
		sources: func(kind, path string) (source.Source, error) {
			if kind == "bogus" {
				return nil, errors.New("unknown source")
			}
			built = append(built, kind+":"+path)
			return namedSource(kind + ":" + path), nil
		},
		defaultKind: "csv",
		defaultPath: "default.csv",
		log:         logger.Discard(),
	}, &built
}

func TestRefreshUsesDefaultSource(t *testing.T) {
	imp := &fakeImporter{}
	w, built := newTestWorker(imp)

	task, _ := NewRefreshRegistryTask(RefreshRegistryPayload{Reason: "cron"})
	if err := w.handleRefreshRegistry(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*built) != 1 || (*built)[0] != "csv:default.csv" {
		t.Fatalf("expected default source, got %v", *built)
	}
	if imp.got == nil || imp.got.Name() != "csv:default.csv" {
		t.Fatalf("expected importer to receive the built source")
	}
}

func TestRefreshOverridesSource(t *testing.T) {
	w, built := newTestWorker(&fakeImporter{})

	task, _ := NewRefreshRegistryTask(RefreshRegistryPayload{Source: "yaml", Path: "other.yaml"})
	if err := w.handleRefreshRegistry(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (*built)[0] != "yaml:other.yaml" {
		t.Fatalf("expected overridden source, got %v", *built)
	}
}

func TestRefreshBadSourceSkipsRetry(t *testing.T) {
	imp := &fakeImporter{}
	w, _ := newTestWorker(imp)

	task, _ := NewRefreshRegistryTask(RefreshRegistryPayload{Source: "bogus"})
	err := w.handleRefreshRegistry(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if imp.got != nil {
		t.Fatalf("expected no import for a bad source")
	}
}

func TestRefreshImportErrorIsRetried(t *testing.T) {
	boom := errors.New("db down")
	w, _ := newTestWorker(&fakeImporter{err: boom})

	task, _ := NewRefreshRegistryTask(RefreshRegistryPayload{})
	err := w.handleRefreshRegistry(context.Background(), task)
	if !errors.Is(err, boom) || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected retryable import error, got %v", err)
	}
}

func TestRefreshMalformedPayloadSkipsRetry(t *testing.T) {
	w, _ := newTestWorker(&fakeImporter{})

	err := w.handleRefreshRegistry(context.Background(), asynq.NewTask(TaskRefreshRegistry, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

type fakePruner struct {
	cutoff time.Time
	calls  int
}

func (f *fakePruner) DeleteImportsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	f.calls++
	return 2, nil
}

func TestImportHistoryCleanupUsesRetention(t *testing.T) {
	repo := &fakePruner{}
	c := NewImportHistoryCleanup(repo, logger.Discard(), 0, 48*time.Hour)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.cleanup(context.Background())

	if repo.calls != 1 {
		t.Fatalf("expected one delete, got %d", repo.calls)
	}
	if want := now.Add(-48 * time.Hour); !repo.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, repo.cutoff)
	}
	if c.interval != defaultImportHistoryCleanupInterval {
		t.Fatalf("expected default interval, got %v", c.interval)
	}
}
