package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type RefresherConfig struct {
	Interval time.Duration
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewRefresher(ledger *Ledger, cfg RefresherConfig) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Refresher{
		cfg:    cfg,
		ledger: ledger,
		tracer: otel.Tracer(tracerName),
	}
}

// Refresher periodically recomputes every member's inactivity streak.
type Refresher struct {
	cfg    RefresherConfig
	ledger *Ledger
	tracer trace.Tracer
}

// Run refreshes right away and then every interval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		r.doRefresh(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Refresher) doRefresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Interval)
	defer cancel()

	updated, err := r.Refresh(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to refresh inactivity", slog.Int("updated", updated), slog.Any("err", err))
		return
	}
	if updated > 0 {
		slog.DebugContext(ctx, "Refreshed inactivity", slog.Int("updated", updated))
	}
}

// Refresh rewrites the inactivity cell of every row with a previous check-in
// date whose value changed. A failing row is logged and skipped, its error is
// joined into the returned one. Failing to read the sheet aborts the sweep.
//
// The ledger lock is only held for one row at a time so check-ins can run
// between two writes. Rows written by a check-in in between are re-read before
// they are refreshed.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	ctx, span := r.tracer.Start(ctx, "attendance.RefreshInactivity")
	defer span.End()

	snap, err := r.snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	today := r.cfg.Now().In(r.cfg.Location)

	var (
		updated int
		errs    []error
	)
	for i := range snap.records {
		ok, err := r.refreshRow(ctx, snap, i, today)
		if errors.Is(err, ErrStoreRead) {
			span.RecordError(err)
			errs = append(errs, err)
			break
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to refresh inactivity of row", slog.Int("row", i+2), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("row %d: %w", i+2, err))
			continue
		}
		if ok {
			updated++
		}
	}

	span.SetAttributes(
		attribute.Int("inactivity.rows", len(snap.records)),
		attribute.Int("inactivity.updated", updated),
	)
	return updated, errors.Join(errs...)
}

// snapshot is the state of the sheet at a ledger generation.
type snapshot struct {
	records    []Record
	generation uint64
}

func (r *Refresher) snapshot(ctx context.Context) (*snapshot, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	records, err := r.ledger.Records(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot{
		records:    records,
		generation: r.ledger.generation,
	}, nil
}

// refreshRow updates the inactivity of snap.records[i] and reports whether it
// wrote a new value.
func (r *Refresher) refreshRow(ctx context.Context, snap *snapshot, i int, today time.Time) (bool, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	if snap.generation != r.ledger.generation {
		records, err := r.ledger.Records(ctx)
		if err != nil {
			return false, err
		}
		// rows are only ever appended, the rows of the first snapshot keep their index
		copy(snap.records, records)
		snap.generation = r.ledger.generation
	}

	rec := snap.records[i]
	if rec.PreviousCheckIn == "" {
		return false, nil
	}

	days, err := inactivityDays(rec.PreviousCheckIn, today)
	if err != nil {
		return false, err
	}

	value := strconv.Itoa(days)
	if value == rec.inactivityCell {
		return false, nil
	}

	err = r.ledger.Update(ctx, rec.Row, ColumnInactivity, value)
	snap.generation = r.ledger.generation
	if err != nil {
		return false, err
	}
	snap.records[i].inactivityCell = value
	snap.records[i].InactivityDays = days
	return true, nil
}
