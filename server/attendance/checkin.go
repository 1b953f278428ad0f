package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/topi314/checkin-tracker/internal/xtime"
	"github.com/topi314/checkin-tracker/server/sheet"
)

const tracerName = "github.com/topi314/checkin-tracker/server/attendance"

// Event is an inbound chat message.
type Event struct {
	SenderID   string
	SenderName string
	ChannelID  string
	Text       string
	Automated  bool
	InGuild    bool
}

type Outcome int

const (
	OutcomeRecorded Outcome = iota + 1
	OutcomeDuplicate
	OutcomeBlocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Result describes how a check-in ended. Record is the member's state after it.
type Result struct {
	Outcome Outcome
	Record  Record
	Created bool
	Reason  string
}

type Messages struct {
	Recorded  string `toml:"recorded"`
	Duplicate string `toml:"duplicate"`
	// Failure is prefixed to the error that made the check-in fail.
	Failure string `toml:"failure"`
}

func (m Messages) String() string {
	return fmt.Sprintf("\n  Recorded: %s\n  Duplicate: %s\n  Failure: %s",
		m.Recorded,
		m.Duplicate,
		m.Failure,
	)
}

type ProcessorConfig struct {
	ChannelID string
	Command   string
	Location  *time.Location
	Neutral   sheet.Color
	Messages  Messages
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewProcessor(ledger *Ledger, resolver *RankResolver, cfg ProcessorConfig) *Processor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Processor{
		cfg:      cfg,
		command:  strings.ToLower(strings.TrimSpace(cfg.Command)),
		ledger:   ledger,
		resolver: resolver,
		table:    resolver.Table(),
		tracer:   otel.Tracer(tracerName),
	}
}

// Processor handles check-in events one transaction at a time. Nothing is cached
// between events, every check-in re-reads the whole sheet.
type Processor struct {
	cfg      ProcessorConfig
	command  string
	ledger   *Ledger
	resolver *RankResolver
	table    PromotionTable
	tracer   trace.Tracer
}

// Accepts reports whether ev is a check-in command posted by a person in the
// check-in channel of a guild.
func (p *Processor) Accepts(ev Event) bool {
	if ev.Automated || !ev.InGuild {
		return false
	}
	if ev.ChannelID != p.cfg.ChannelID {
		return false
	}
	return strings.ToLower(strings.TrimSpace(ev.Text)) == p.command
}

// Handle runs the check-in for ev and returns the reply to send back.
// ok is false when ev is not a check-in and should be ignored.
func (p *Processor) Handle(ctx context.Context, ev Event) (reply string, ok bool) {
	if !p.Accepts(ev) {
		return "", false
	}

	result, err := p.CheckIn(ctx, ev)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to register check-in", slog.String("member_id", ev.SenderID), slog.Any("err", err))
		return p.cfg.Messages.Failure + err.Error(), true
	}

	slog.InfoContext(ctx, "Processed check-in",
		slog.String("member_id", ev.SenderID),
		slog.String("member_name", ev.SenderName),
		slog.String("outcome", result.Outcome.String()),
		slog.Int("count", result.Record.Count),
		slog.Int("row", result.Record.Row),
	)

	switch result.Outcome {
	case OutcomeDuplicate:
		return p.cfg.Messages.Duplicate, true
	case OutcomeBlocked:
		return result.Reason, true
	default:
		return p.cfg.Messages.Recorded, true
	}
}

// CheckIn registers today's attendance of ev's sender.
//
// Writes are issued one after another and are not atomic: when one fails the
// earlier ones stay applied and the error is returned.
func (p *Processor) CheckIn(ctx context.Context, ev Event) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "attendance.CheckIn", trace.WithAttributes(
		attribute.String("member.id", ev.SenderID),
	))
	defer span.End()

	result, err := p.checkIn(ctx, ev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(
		attribute.String("checkin.outcome", result.Outcome.String()),
		attribute.Int("checkin.count", result.Record.Count),
	)
	return result, nil
}

func (p *Processor) checkIn(ctx context.Context, ev Event) (Result, error) {
	p.ledger.mu.Lock()
	defer p.ledger.mu.Unlock()

	now := p.cfg.Now().In(p.cfg.Location)
	today := xtime.FormatDate(now)

	rec, ok, err := p.ledger.Find(ctx, ev.SenderID)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return p.create(ctx, ev, rec.Row, today)
	}
	if rec.LastCheckIn == today {
		return Result{Outcome: OutcomeDuplicate, Record: rec}, nil
	}
	return p.advance(ctx, ev, rec, now)
}

func (p *Processor) create(ctx context.Context, ev Event, row int, today string) (Result, error) {
	rec := Record{
		Row:         row,
		DisplayName: ev.SenderName,
		Identity:    ev.SenderID,
		LastCheckIn: today,
		Count:       1,
		Courses:     Courses{},
	}
	if err := p.ledger.Append(ctx, rec); err != nil {
		return Result{}, err
	}

	if rank, ok := p.table.At(rec.Count); ok {
		if err := p.ledger.Update(ctx, rec.Row, ColumnHighlight, rank.Name); err != nil {
			return Result{}, err
		}
		if err := p.ledger.Highlight(ctx, rec.Row, rank.Color, ColumnHighlight, ColumnCount); err != nil {
			return Result{}, err
		}
		rec.HighlightLabel = rank.Name
	}

	return Result{Outcome: OutcomeRecorded, Record: rec, Created: true}, nil
}

func (p *Processor) advance(ctx context.Context, ev Event, rec Record, now time.Time) (Result, error) {
	if ev.SenderName != "" && ev.SenderName != rec.DisplayName {
		if err := p.ledger.Update(ctx, rec.Row, ColumnDisplayName, ev.SenderName); err != nil {
			return Result{}, err
		}
		rec.DisplayName = ev.SenderName
	}

	rec.PreviousCheckIn = rec.LastCheckIn
	rec.LastCheckIn = xtime.FormatDate(now)
	if err := p.ledger.Update(ctx, rec.Row, ColumnPreviousCheckIn, rec.PreviousCheckIn); err != nil {
		return Result{}, err
	}
	if err := p.ledger.Update(ctx, rec.Row, ColumnLastCheckIn, rec.LastCheckIn); err != nil {
		return Result{}, err
	}

	days, err := inactivityDays(rec.PreviousCheckIn, now)
	if err != nil {
		slog.WarnContext(ctx, "Skipping inactivity update", slog.Int("row", rec.Row), slog.Any("err", err))
	} else {
		if err = p.ledger.Update(ctx, rec.Row, ColumnInactivity, strconv.Itoa(days)); err != nil {
			return Result{}, err
		}
		rec.InactivityDays = days
	}

	resolution := p.resolver.Resolve(rec.Count, rec.Courses)
	if resolution.Blocked {
		return Result{Outcome: OutcomeBlocked, Record: rec, Reason: resolution.Reason}, nil
	}

	rec.Count++
	if err = p.ledger.Update(ctx, rec.Row, ColumnCount, strconv.Itoa(rec.Count)); err != nil {
		return Result{}, err
	}

	if err = p.updateHighlight(ctx, &rec); err != nil {
		return Result{}, err
	}

	// The current rank trails the count by two check-ins, it shows the rank held
	// before the highlighted promotion window.
	rec.CurrentRankLabel = p.table.Lookup(rec.Count - 2).Name
	if err = p.ledger.Update(ctx, rec.Row, ColumnCurrentRank, rec.CurrentRankLabel); err != nil {
		return Result{}, err
	}

	return Result{Outcome: OutcomeRecorded, Record: rec}, nil
}

// updateHighlight colours the count and highlight cells when rec.Count hits a
// threshold and resets them two check-ins later.
func (p *Processor) updateHighlight(ctx context.Context, rec *Record) error {
	if rank, ok := p.table.At(rec.Count); ok {
		if err := p.ledger.Update(ctx, rec.Row, ColumnHighlight, rank.Name); err != nil {
			return err
		}
		rec.HighlightLabel = rank.Name
		return p.ledger.Highlight(ctx, rec.Row, rank.Color, ColumnHighlight, ColumnCount)
	}

	if _, ok := p.table.At(rec.Count - 2); ok {
		if err := p.ledger.Update(ctx, rec.Row, ColumnHighlight, ""); err != nil {
			return err
		}
		rec.HighlightLabel = ""
		return p.ledger.Highlight(ctx, rec.Row, p.cfg.Neutral, ColumnHighlight, ColumnCount)
	}
	return nil
}

// inactivityDays counts the days between previous and today, excluding both.
func inactivityDays(previous string, today time.Time) (int, error) {
	if previous == "" {
		return 0, nil
	}
	prev, err := xtime.ParseDate(previous, today.Location())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDateParse, err)
	}
	return max(0, xtime.DaysBetween(prev, today)-1), nil
}
