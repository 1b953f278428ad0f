package attendance

import (
	"fmt"
	"time"

	"github.com/topi314/checkin-tracker/internal/xtime"
	"github.com/topi314/checkin-tracker/server/sheet"
)

func DefaultConfig() Config {
	return Config{
		Command:         "!presença",
		RefreshInterval: xtime.Duration(60 * time.Second),
		NeutralColor:    sheet.Color{},
		Ranks:           DefaultRanks(),
		Gates: []Gate{
			{
				Ceiling: 55,
				Course:  "ESA",
				Column:  8,
				Message: "🛑 Você atingiu 55 presenças, continue marcando presença, mas para subir de cargo conclua o ESA.",
			},
			{
				Ceiling: 120,
				Course:  "CFO",
				Column:  9,
				Message: "🛑 Você atingiu 120 presenças, continue marcando presença, mas para subir de cargo conclua o CFO.",
			},
		},
		Messages: Messages{
			Recorded:  "✅ Presença registrada com sucesso!",
			Duplicate: "⚠️ Você já registrou sua presença hoje combatente.",
			Failure:   "❌ Erro ao registrar presença: ",
		},
	}
}

type Config struct {
	Command         string         `toml:"command" env:"CHECKIN_COMMAND"`
	RefreshInterval xtime.Duration `toml:"refresh_interval" env:"INACTIVITY_REFRESH_INTERVAL"`
	NeutralColor    sheet.Color    `toml:"neutral_color"`
	Ranks           []Rank         `toml:"ranks"`
	Gates           []Gate         `toml:"gates"`
	Messages        Messages       `toml:"messages"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Command: %s\n RefreshInterval: %s\n NeutralColor: %s\n Ranks: %v\n Gates: %v\n Messages: %s",
		c.Command,
		c.RefreshInterval,
		c.NeutralColor,
		c.Ranks,
		c.Gates,
		c.Messages,
	)
}

// Resolver builds the promotion table and rank resolver described by c.
func (c Config) Resolver() (*RankResolver, error) {
	table, err := NewPromotionTable(c.Ranks)
	if err != nil {
		return nil, err
	}
	return NewRankResolver(table, c.Gates)
}
