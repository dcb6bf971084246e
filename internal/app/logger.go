package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. LEDGER_LOG_FORMAT selects
// the handler: "json" emits machine-readable records, anything else falls
// back to the text handler. Both carry source locations.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
