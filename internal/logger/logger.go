package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is a no-op until Init is called.
var Log = zerolog.Nop()

func Init(logFilePath string) error {
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}

	Log = New(file)
	Log.Info().Msg("Logger initialized.")
	return nil
}

func New(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).With().Timestamp().Str("app", "netra").Logger()
}
