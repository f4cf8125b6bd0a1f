package fonted

import (
	"log/slog"
	"os"
)

func init() {
	// set logging level to debugging if required.
	if os.Getenv("DEBUG") == "1" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
}
