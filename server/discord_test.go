package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topi314/checkin-tracker/server/attendance"
	"github.com/topi314/checkin-tracker/server/sheet"
)

const (
	testChannelID snowflake.ID = 1000
	testGuildID   snowflake.ID = 2000
)

type sentMessage struct {
	channelID snowflake.ID
	message   discord.MessageCreate
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	f.sent = append(f.sent, sentMessage{channelID: channelID, message: messageCreate})
	if f.err != nil {
		return nil, f.err
	}
	return &discord.Message{ChannelID: channelID, Content: messageCreate.Content}, nil
}

func newTestServer(t *testing.T, store sheet.Store, sender messageSender) *Server {
	t.Helper()
	cfg := attendance.DefaultConfig()
	resolver, err := cfg.Resolver()
	require.NoError(t, err)

	return &Server{
		processor: attendance.NewProcessor(attendance.NewLedger(store, cfg.Gates), resolver, attendance.ProcessorConfig{
			ChannelID: testChannelID.String(),
			Command:   cfg.Command,
			Location:  time.UTC,
			Neutral:   cfg.NeutralColor,
			Messages:  cfg.Messages,
		}),
		rest: sender,
	}
}

func checkInMessage(content string) discord.Message {
	guildID := testGuildID
	globalName := "Soldado Silva"
	return discord.Message{
		ID:        42,
		ChannelID: testChannelID,
		GuildID:   &guildID,
		Content:   content,
		Author: discord.User{
			ID:         7,
			Username:   "silva",
			GlobalName: &globalName,
		},
	}
}

func TestCheckInEvent(t *testing.T) {
	msg := checkInMessage("!presença")

	ev := checkInEvent(msg)
	assert.Equal(t, attendance.Event{
		SenderID:   "7",
		SenderName: "Soldado Silva",
		ChannelID:  "1000",
		Text:       "!presença",
		InGuild:    true,
	}, ev)

	msg.GuildID = nil
	msg.Author.Bot = true
	ev = checkInEvent(msg)
	assert.False(t, ev.InGuild)
	assert.True(t, ev.Automated)
}

func TestDisplayName(t *testing.T) {
	msg := checkInMessage("!presença")
	assert.Equal(t, "Soldado Silva", displayName(msg))

	nick := "Cabo Silva"
	msg.Member = &discord.Member{Nick: &nick}
	assert.Equal(t, "Cabo Silva", displayName(msg))

	empty := ""
	msg.Member.Nick = &empty
	msg.Author.GlobalName = nil
	assert.Equal(t, "silva", displayName(msg))
}

func TestHandleMessageReplies(t *testing.T) {
	store := sheet.NewMemory(header...)
	sender := &fakeSender{}
	s := newTestServer(t, store, sender)

	s.handleMessage(context.Background(), checkInMessage("!presença"))

	require.Len(t, sender.sent, 1)
	sent := sender.sent[0]
	assert.Equal(t, testChannelID, sent.channelID)
	assert.Equal(t, "✅ Presença registrada com sucesso!", sent.message.Content)
	require.NotNil(t, sent.message.MessageReference)
	require.NotNil(t, sent.message.MessageReference.MessageID)
	assert.Equal(t, snowflake.ID(42), *sent.message.MessageReference.MessageID)

	rows, err := store.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Soldado Silva", rows[1][0])
	assert.Equal(t, "7", rows[1][1])

	s.handleMessage(context.Background(), checkInMessage("!presença"))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "⚠️ Você já registrou sua presença hoje combatente.", sender.sent[1].message.Content)
}

func TestHandleMessageIgnored(t *testing.T) {
	store := sheet.NewMemory(header...)
	sender := &fakeSender{}
	s := newTestServer(t, store, sender)

	s.handleMessage(context.Background(), checkInMessage("bom dia"))

	msg := checkInMessage("!presença")
	msg.ChannelID = 1001
	s.handleMessage(context.Background(), msg)

	msg = checkInMessage("!presença")
	msg.Author.Bot = true
	s.handleMessage(context.Background(), msg)

	assert.Empty(t, sender.sent)
	assert.Zero(t, store.Writes())
}

func TestHandleMessageSendFailure(t *testing.T) {
	store := sheet.NewMemory(header...)
	sender := &fakeSender{err: errors.New("discord unavailable")}
	s := newTestServer(t, store, sender)

	s.handleMessage(context.Background(), checkInMessage("!presença"))

	require.Len(t, sender.sent, 1)
	rows, err := store.Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
