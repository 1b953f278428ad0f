package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"

	"github.com/topi314/checkin-tracker/internal/tsync"
	"github.com/topi314/checkin-tracker/internal/xslog"
	"github.com/topi314/checkin-tracker/server/attendance"
	"github.com/topi314/checkin-tracker/server/database"
	"github.com/topi314/checkin-tracker/server/sheet"
	"github.com/topi314/checkin-tracker/server/sheets"
)

// header is written when the bot creates a fresh table itself.
var header = []string{"Nick", "Discord ID", "Última presença", "Presenças", "Penúltima presença", "Dias inativo", "", "ESA", "CFO", "Promoção", "Patente"}

func New(ctx context.Context, cfg Config) (*Server, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone: %w", err)
	}

	resolver, err := cfg.CheckIn.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to build promotion table: %w", err)
	}

	shutdownTracing, err := setupTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}

	store, closer, err := newStore(ctx, cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}

	ledger := attendance.NewLedger(store, cfg.CheckIn.Gates)

	s := &Server{
		cfg: cfg,
		processor: attendance.NewProcessor(ledger, resolver, attendance.ProcessorConfig{
			ChannelID: cfg.Discord.CheckInChannelID,
			Command:   cfg.CheckIn.Command,
			Location:  location,
			Neutral:   cfg.CheckIn.NeutralColor,
			Messages:  cfg.CheckIn.Messages,
		}),
		refresher: attendance.NewRefresher(ledger, attendance.RefresherConfig{
			Interval: time.Duration(cfg.CheckIn.RefreshInterval),
			Location: location,
		}),
		rest:            rest.New(rest.NewClient(cfg.Discord.Token)),
		storeCloser:     closer,
		shutdownTracing: shutdownTracing,
	}

	discordLogger := slog.New(xslog.NewFilterHandler(slog.Default().Handler(), xslog.MinLevel(cfg.Discord.LogLevel))).
		With(slog.String("component", "discord"))

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithLogger(discordLogger),
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages, gateway.IntentMessageContent),
		),
		bot.WithEventManagerConfigOpts(bot.WithAsyncEventsEnabled()),
		bot.WithEventListenerFunc(s.onMessageCreate),
	)
	if err != nil {
		_ = closer.Close()
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	s.openGateway = client.OpenGateway
	s.closeDiscord = client.Close

	return s, nil
}

func newStore(ctx context.Context, cfg Config) (sheet.Store, io.Closer, error) {
	switch cfg.Store.Driver {
	case StoreDriverSheets:
		client, err := sheets.New(ctx, cfg.Sheets, header)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize google sheets: %w", err)
		}
		return client, nopCloser{}, nil
	case StoreDriverDatabase:
		db, err := database.New(ctx, cfg.Database, header)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, db, nil
	case StoreDriverMemory:
		slog.WarnContext(ctx, "Using in-memory store, check-ins are lost on restart")
		return sheet.NewMemory(header...), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type Server struct {
	cfg             Config
	processor       *attendance.Processor
	refresher       *attendance.Refresher
	rest            messageSender
	openGateway     func(ctx context.Context) error
	closeDiscord    func(ctx context.Context)
	storeCloser     io.Closer
	shutdownTracing func(ctx context.Context) error
}

// Run connects to the discord gateway and refreshes inactivity until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.openGateway(ctx); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	slog.InfoContext(ctx, "Connected to discord", slog.String("channel_id", s.cfg.Discord.CheckInChannelID))

	g, ctx := tsync.ErrorGroupWithContext(ctx)
	g.Go(func() error {
		return s.refresher.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		s.closeDiscord(closeCtx)
		return nil
	})
	return g.Wait()
}

func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.storeCloser.Close(); err != nil {
		slog.Error("Failed to close store", slog.Any("err", err))
	}
	if err := s.shutdownTracing(ctx); err != nil {
		slog.Error("Failed to shutdown tracing", slog.Any("err", err))
	}
}
