package sheets

import (
	"fmt"
	"strings"

	"github.com/topi314/checkin-tracker/internal/xtime"
)

type Config struct {
	SpreadsheetID   string `toml:"spreadsheet_id" env:"SPREADSHEET_ID"`
	SheetName       string `toml:"sheet_name" env:"SHEET_NAME"`
	CredentialsFile string `toml:"credentials_file" env:"GOOGLE_CREDENTIALS_FILE"`
	// ValueInput is how written cells are interpreted, RAW or USER_ENTERED.
	ValueInput string         `toml:"value_input" env:"SHEETS_VALUE_INPUT"`
	Every      xtime.Duration `toml:"every"`
	Burst      int            `toml:"burst"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n  SpreadsheetID: %s\n  SheetName: %s\n  CredentialsFile: %s\n  ValueInput: %s\n  Every: %s\n  Burst: %d",
		c.SpreadsheetID,
		c.SheetName,
		c.CredentialsFile,
		c.ValueInput,
		c.Every,
		c.Burst,
	)
}

// quoteSheet quotes a sheet title for use in A1 ranges.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
