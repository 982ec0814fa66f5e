package main

import (
	"context"
	"time"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/reporting"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/storage/minio"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/events"
)

// MessageHandler processes the messages of one topic.
type MessageHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *common.Message) error
}

// tableSource is the catalog loader as seen by the handlers.
type tableSource interface {
	Invalidate(ctx context.Context, tables ...string) error
	RefreshAll(ctx context.Context, tables ...string) error
}

// resultDropper clears derived explorer results. *explorer.Service satisfies it.
type resultDropper interface {
	DropResults(ctx context.Context)
}

// exporter writes one statistics snapshot.
type exporter interface {
	Export(ctx context.Context, reason string) error
}

// eventRecorder observes handled events. *prometheus.AppMetrics satisfies it.
type eventRecorder interface {
	RecordWorkerEvent(eventType string, d time.Duration, err error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Project changes
// ─────────────────────────────────────────────────────────────────────────────

// ProjectChangedHandler reloads the project snapshots and re-exports
// statistics. Plant and impact tables are left alone.
type ProjectChangedHandler struct {
	tables   tableSource
	exporter exporter
	logger   logging.Logger
}

func NewProjectChangedHandler(tables tableSource, exp exporter, logger logging.Logger) *ProjectChangedHandler {
	return &ProjectChangedHandler{tables: tables, exporter: exp, logger: logger}
}

func (h *ProjectChangedHandler) Topic() string { return events.TopicProjectChanged }

func (h *ProjectChangedHandler) Handle(ctx context.Context, msg *common.Message) error {
	env, err := kafka.MessageToEnvelope(msg)
	if err != nil {
		return err
	}
	var payload events.ProjectChanged
	if err := env.Decode(&payload); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "malformed project event")
	}

	// Stale first, so a failed reload is retried by the next read.
	if err := h.tables.Invalidate(ctx, catalog.TableProjects, catalog.TableProjectChangeLog); err != nil {
		return err
	}
	if err := h.tables.RefreshAll(ctx, catalog.TableProjects); err != nil {
		return err
	}
	h.logger.Info("project change applied",
		logging.String("event", env.EventType),
		logging.String("project_id", payload.ProjectID),
		logging.String("author", payload.Author))
	return h.exporter.Export(ctx, env.EventType)
}

// ─────────────────────────────────────────────────────────────────────────────
// Transaction activity
// ─────────────────────────────────────────────────────────────────────────────

// TransactionActivityHandler marks the transaction snapshots stale. Deals do
// not feed the statistics, so nothing is exported.
type TransactionActivityHandler struct {
	tables tableSource
	logger logging.Logger
}

func NewTransactionActivityHandler(tables tableSource, logger logging.Logger) *TransactionActivityHandler {
	return &TransactionActivityHandler{tables: tables, logger: logger}
}

func (h *TransactionActivityHandler) Topic() string { return events.TopicTransactionActivity }

func (h *TransactionActivityHandler) Handle(ctx context.Context, msg *common.Message) error {
	env, err := kafka.MessageToEnvelope(msg)
	if err != nil {
		return err
	}
	var payload events.TransactionActivity
	if err := env.Decode(&payload); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "malformed activity event")
	}
	if err := h.tables.Invalidate(ctx, catalog.TableTransactions, catalog.TableTransactionActivities); err != nil {
		return err
	}
	h.logger.Debug("transaction activity applied",
		logging.String("transaction_id", payload.TransactionID),
		logging.String("type", payload.ActivityType))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Catalog refresh
// ─────────────────────────────────────────────────────────────────────────────

// CatalogRefreshHandler reloads the requested tables, or every explorer
// table when none are named, then re-exports statistics.
type CatalogRefreshHandler struct {
	tables   tableSource
	explorer resultDropper
	exporter exporter
	logger   logging.Logger
}

func NewCatalogRefreshHandler(tables tableSource, explorer resultDropper, exp exporter, logger logging.Logger) *CatalogRefreshHandler {
	return &CatalogRefreshHandler{tables: tables, explorer: explorer, exporter: exp, logger: logger}
}

func (h *CatalogRefreshHandler) Topic() string { return events.TopicCatalogRefresh }

func (h *CatalogRefreshHandler) Handle(ctx context.Context, msg *common.Message) error {
	env, err := kafka.MessageToEnvelope(msg)
	if err != nil {
		return err
	}
	var payload events.CatalogRefresh
	if err := env.Decode(&payload); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "malformed refresh event")
	}

	tables := catalog.SnapshotTables
	if len(payload.Tables) > 0 {
		tables = make([]string, 0, len(payload.Tables))
		for _, t := range payload.Tables {
			if !catalog.KnownTable(t) {
				// Unknown tables cannot succeed on retry.
				h.logger.Warn("refresh names unknown table", logging.String("table", t))
				continue
			}
			tables = append(tables, t)
		}
	}
	if err := h.tables.RefreshAll(ctx, tables...); err != nil {
		return err
	}
	h.explorer.DropResults(ctx)
	h.logger.Info("catalog refreshed",
		logging.Strings("tables", tables),
		logging.String("reason", payload.Reason))
	return h.exporter.Export(ctx, env.EventType)
}

// ─────────────────────────────────────────────────────────────────────────────
// Instrumentation
// ─────────────────────────────────────────────────────────────────────────────

// instrument adapts h to the consumer and records every attempt.
func instrument(h MessageHandler, rec eventRecorder) common.MessageHandler {
	return func(ctx context.Context, msg *common.Message) error {
		start := time.Now()
		err := h.Handle(ctx, msg)
		if rec != nil {
			rec.RecordWorkerEvent(h.Topic(), time.Since(start), err)
		}
		return err
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshot export
// ─────────────────────────────────────────────────────────────────────────────

type reportBuilder interface {
	Build(ctx context.Context, reason string) (*reporting.StatisticsReport, error)
}

type snapshotWriter interface {
	PutSnapshot(ctx context.Context, body []byte) (*minio.SnapshotInfo, error)
}

// locker is satisfied by *redis.Mutex.
type locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

type exportRecorder interface {
	RecordSnapshotExport(err error)
}

// SnapshotExporter builds and uploads a statistics snapshot while holding the
// export lock. A replica that finds the lock taken skips the export; the
// holder's snapshot reflects the same catalog.
type SnapshotExporter struct {
	reports  reportBuilder
	writer   snapshotWriter
	lock     locker
	recorder exportRecorder
	logger   logging.Logger
}

func NewSnapshotExporter(reports reportBuilder, writer snapshotWriter, lock locker, recorder exportRecorder, logger logging.Logger) *SnapshotExporter {
	return &SnapshotExporter{reports: reports, writer: writer, lock: lock, recorder: recorder, logger: logger}
}

func (e *SnapshotExporter) Export(ctx context.Context, reason string) (err error) {
	ok, err := e.lock.TryLock(ctx)
	if err != nil {
		return err
	}
	if !ok {
		e.logger.Info("snapshot export skipped, lock held elsewhere", logging.String("reason", reason))
		return nil
	}
	defer func() {
		if uerr := e.lock.Unlock(context.WithoutCancel(ctx)); uerr != nil {
			e.logger.Warn("export lock release failed", logging.Err(uerr))
		}
		if e.recorder != nil {
			e.recorder.RecordSnapshotExport(err)
		}
	}()

	report, err := e.reports.Build(ctx, reason)
	if err != nil {
		return err
	}
	body, err := reporting.Render(report)
	if err != nil {
		return err
	}
	info, err := e.writer.PutSnapshot(ctx, body)
	if err != nil {
		return err
	}
	e.logger.Info("statistics snapshot written",
		logging.String("key", info.Key),
		logging.Int64("bytes", info.Size),
		logging.String("reason", reason))
	return nil
}

// disabledExporter stands in when object storage is off.
type disabledExporter struct{ logger logging.Logger }

func (d disabledExporter) Export(_ context.Context, reason string) error {
	d.logger.Debug("snapshot export disabled", logging.String("reason", reason))
	return nil
}

//Personal.AI order the ending
