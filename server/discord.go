package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/topi314/checkin-tracker/server/attendance"
)

const checkInTimeout = 30 * time.Second

type messageSender interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

func (s *Server) onMessageCreate(e *events.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), checkInTimeout)
	defer cancel()

	s.handleMessage(ctx, e.Message)
}

// handleMessage runs a check-in for msg and replies to it. Messages that are not
// check-ins are ignored.
func (s *Server) handleMessage(ctx context.Context, msg discord.Message) {
	reply, ok := s.processor.Handle(ctx, checkInEvent(msg))
	if !ok {
		return
	}

	if _, err := s.rest.CreateMessage(msg.ChannelID, discord.MessageCreate{
		Content: reply,
		MessageReference: &discord.MessageReference{
			MessageID: &msg.ID,
		},
	}, rest.WithCtx(ctx)); err != nil {
		slog.ErrorContext(ctx, "Failed to send check-in reply",
			slog.String("channel_id", msg.ChannelID.String()),
			slog.String("message_id", msg.ID.String()),
			slog.Any("err", err),
		)
	}
}

func checkInEvent(msg discord.Message) attendance.Event {
	return attendance.Event{
		SenderID:   msg.Author.ID.String(),
		SenderName: displayName(msg),
		ChannelID:  msg.ChannelID.String(),
		Text:       msg.Content,
		Automated:  msg.Author.Bot || msg.Author.System,
		InGuild:    msg.GuildID != nil,
	}
}

// displayName prefers the member's server nickname over their global name.
func displayName(msg discord.Message) string {
	if msg.Member != nil && msg.Member.Nick != nil && *msg.Member.Nick != "" {
		return *msg.Member.Nick
	}
	return msg.Author.EffectiveName()
}
