// Package syncer reconciles the local entry store with the remote document
// collection. Push and pull are independent passes; the needs_sync flag and
// the persisted pull cursor are the only state they share, so an interrupted
// run resumes cleanly on the next trigger.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/goodnightlabs/goodnight/internal/client/client"
	"github.com/goodnightlabs/goodnight/internal/client/models"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/entries"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/settings"
	"github.com/goodnightlabs/goodnight/internal/common"
	"github.com/goodnightlabs/goodnight/internal/logging"
)

const (
	otelScope       = "goodnight/syncer"
	spanPush        = "sync.push"
	spanPull        = "sync.pull"
	metricPushed    = "goodnight.sync.entries.pushed"
	metricPulled    = "goodnight.sync.entries.pulled"
	metricSkipped   = "goodnight.sync.entries.skipped"
	metricConflicts = "goodnight.sync.conflicts"
	metricErrors    = "goodnight.sync.errors"
)

// Identity reports the signed-in user, if any. Implemented by the auth
// service.
type Identity interface {
	CurrentUserID() (string, bool)
}

// Engine runs the push and pull passes. At most one pass runs at a time; a
// trigger that arrives while one is in flight gets common.ErrSyncInProgress
// and relies on the next trigger instead.
type Engine struct {
	entries  entries.Repository
	remote   client.Remote
	settings settings.Repository
	identity Identity
	logger   logging.Logger
	now      func() time.Time

	mu sync.Mutex

	tracer       trace.Tracer
	cntPushed    metric.Int64Counter
	cntPulled    metric.Int64Counter
	cntSkipped   metric.Int64Counter
	cntConflicts metric.Int64Counter
	cntErrors    metric.Int64Counter
}

// NewEngine wires the engine. All instruments are non-nil; with telemetry
// disabled they are no-ops.
func NewEngine(entryRepo entries.Repository, remote client.Remote, settingsRepo settings.Repository, identity Identity, logger logging.Logger) *Engine {
	tracer := otel.Tracer(otelScope)
	meter := otel.Meter(otelScope)

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			logger.Error(context.Background(), "creating OTel counter", "name", name, "error", err)
			return noop.Int64Counter{}
		}
		return c
	}

	return &Engine{
		entries:  entryRepo,
		remote:   remote,
		settings: settingsRepo,
		identity: identity,
		logger:   logger,
		now:      time.Now,

		tracer:       tracer,
		cntPushed:    counter(metricPushed, "Entries pushed to the remote"),
		cntPulled:    counter(metricPulled, "Remote entries applied locally"),
		cntSkipped:   counter(metricSkipped, "Entries skipped during sync"),
		cntConflicts: counter(metricConflicts, "Conflicts resolved during pull"),
		cntErrors:    counter(metricErrors, "Per-entry sync failures"),
	}
}

// PushPending uploads every entry flagged needs_sync, oldest day first.
// The flag is cleared only after the remote confirmed the write and the
// cleared flag was durably stored; any failure leaves it set for the next
// trigger. A single failed entry does not stop the batch.
func (e *Engine) PushPending(ctx context.Context) (*Report, error) {
	if !e.mu.TryLock() {
		return nil, common.ErrSyncInProgress
	}
	defer e.mu.Unlock()
	return e.pushPending(ctx)
}

func (e *Engine) pushPending(ctx context.Context) (*Report, error) {
	ctx, span := e.tracer.Start(ctx, spanPush)
	defer span.End()

	userID, ok := e.identity.CurrentUserID()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}

	pending, err := e.entries.ListPendingSync(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	report := &Report{}
	for _, entry := range pending {
		if !entry.IsCompleted {
			// Drafts never carry the flag; tolerate bad rows anyway.
			e.logger.Warn(ctx, "draft entry flagged for sync, skipping", "day", entry.DayKey())
			report.Skipped++
			continue
		}

		if err := e.pushOne(ctx, entry); err != nil {
			e.logger.Error(ctx, "push failed", "day", entry.DayKey(), "error", err)
			report.record(entry.DayKey(), err)
			continue
		}
		report.Pushed++
		report.record(entry.DayKey(), nil)
	}

	e.recordPass(ctx, span, report)
	return report, nil
}

func (e *Engine) pushOne(ctx context.Context, entry *models.Entry) error {
	if err := e.remote.Upsert(ctx, entry); err != nil {
		return err
	}
	// Remote write confirmed; clear the flag and make that durable. If this
	// update fails the entry is re-pushed later, which the idempotent upsert
	// absorbs.
	entry.NeedsSync = false
	if err := e.entries.Update(ctx, entry); err != nil {
		entry.NeedsSync = true
		return err
	}
	return nil
}

// PullCompleted fetches completed remote entries modified after the persisted
// cursor and folds them into the local store. The cursor advances to the time
// the pull started, never to entry timestamps, and only after a fully clean
// batch.
func (e *Engine) PullCompleted(ctx context.Context) (*Report, error) {
	if !e.mu.TryLock() {
		return nil, common.ErrSyncInProgress
	}
	defer e.mu.Unlock()
	return e.pullCompleted(ctx)
}

func (e *Engine) pullCompleted(ctx context.Context) (*Report, error) {
	ctx, span := e.tracer.Start(ctx, spanPull)
	defer span.End()

	userID, ok := e.identity.CurrentUserID()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}

	since, err := e.cursor(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// The cursor candidate is read before the fetch. Remote writes committed
	// while the pull runs may land behind it and be skipped until their next
	// modification; a known limitation accepted for single-user documents.
	start := e.now()

	remotes, err := e.remote.FetchCompletedSince(ctx, since)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	report := &Report{}
	for _, remote := range remotes {
		if err := e.applyRemote(ctx, userID, remote, report); err != nil {
			e.logger.Error(ctx, "pull apply failed", "day", remote.DayKey(), "error", err)
			report.record(remote.DayKey(), err)
			continue
		}
		report.record(remote.DayKey(), nil)
	}

	// A failed local write means unobserved remote state; holding the cursor
	// re-fetches it on the next pull.
	if report.Failed == 0 {
		if err := e.setCursor(ctx, start); err != nil {
			span.RecordError(err)
			e.recordPass(ctx, span, report)
			return report, err
		}
	}

	e.recordPass(ctx, span, report)
	return report, nil
}

// applyRemote folds one remote entry into the local store:
//
//   - no local entry: insert a clean copy
//   - local draft: the completed remote copy wins unconditionally
//   - both completed: strictly newer remote lastModified wins, ties keep local
func (e *Engine) applyRemote(ctx context.Context, userID string, remote *models.Entry, report *Report) error {
	local, err := e.entries.GetByDay(ctx, userID, remote.DayKey())
	if err != nil {
		return err
	}

	if local == nil {
		err := e.entries.Insert(ctx, remote)
		if errors.Is(err, common.ErrEntryExists) {
			// Raced with a concurrent local insert; merge against it.
			local, err = e.entries.GetByDay(ctx, userID, remote.DayKey())
			if err != nil {
				return err
			}
			if local == nil {
				return common.ErrInternal
			}
		} else if err != nil {
			return err
		} else {
			report.Pulled++
			return nil
		}
	}

	if local.IsCompleted && !remote.LastModified.After(local.LastModified) {
		report.Skipped++
		return nil
	}

	if local.IsCompleted {
		report.Conflicts++
	}

	merged := *remote
	merged.ID = local.ID
	merged.NeedsSync = false
	if err := e.entries.Update(ctx, &merged); err != nil {
		return err
	}
	report.Pulled++
	return nil
}

// SubmitPush pushes one just-completed entry immediately, best effort. A
// failure is logged and left to the next sync trigger; the entry keeps its
// needs_sync flag either way until a push confirms.
func (e *Engine) SubmitPush(ctx context.Context, entry *models.Entry) {
	if !e.mu.TryLock() {
		// A full pass is running and will pick the entry up.
		return
	}
	defer e.mu.Unlock()

	if err := e.pushOne(ctx, entry); err != nil {
		e.logger.Warn(ctx, "immediate push failed, deferring to next sync", "day", entry.DayKey(), "error", err)
		e.cntErrors.Add(ctx, 1)
		return
	}
	e.cntPushed.Add(ctx, 1)
}

// Run drives the engine: one pull at startup, then a push-then-pull pass on
// every restored-connectivity event. Blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, events <-chan struct{}) {
	if _, err := e.PullCompleted(ctx); err != nil && !errors.Is(err, common.ErrSyncInProgress) {
		e.logger.Warn(ctx, "initial pull failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-events:
			e.syncOnce(ctx)
		}
	}
}

func (e *Engine) syncOnce(ctx context.Context) {
	if !e.mu.TryLock() {
		return
	}
	defer e.mu.Unlock()

	if report, err := e.pushPending(ctx); err != nil {
		e.logger.Warn(ctx, "push pass failed", "error", err)
	} else if report.Failed > 0 {
		e.logger.Warn(ctx, "push pass finished with failures", "failed", report.Failed)
	}

	if report, err := e.pullCompleted(ctx); err != nil {
		e.logger.Warn(ctx, "pull pass failed", "error", err)
	} else if report.Failed > 0 {
		e.logger.Warn(ctx, "pull pass finished with failures", "failed", report.Failed)
	}
}

func (e *Engine) cursor(ctx context.Context) (*time.Time, error) {
	raw, err := e.settings.Get(ctx, settings.KeyLastPullAt)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (e *Engine) setCursor(ctx context.Context, t time.Time) error {
	return e.settings.Set(ctx, settings.KeyLastPullAt, []byte(t.Format(time.RFC3339Nano)))
}

func (e *Engine) recordPass(ctx context.Context, span trace.Span, report *Report) {
	if report.Pushed > 0 {
		e.cntPushed.Add(ctx, int64(report.Pushed))
	}
	if report.Pulled > 0 {
		e.cntPulled.Add(ctx, int64(report.Pulled))
	}
	if report.Skipped > 0 {
		e.cntSkipped.Add(ctx, int64(report.Skipped))
	}
	if report.Conflicts > 0 {
		e.cntConflicts.Add(ctx, int64(report.Conflicts))
	}
	if report.Failed > 0 {
		e.cntErrors.Add(ctx, int64(report.Failed))
	}

	span.SetAttributes(
		attribute.Int("sync.pushed", report.Pushed),
		attribute.Int("sync.pulled", report.Pulled),
		attribute.Int("sync.skipped", report.Skipped),
		attribute.Int("sync.conflicts", report.Conflicts),
		attribute.Int("sync.failed", report.Failed),
	)
}
