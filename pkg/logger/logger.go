package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the process-wide structured logger. Safe to call more
// than once; only the first call takes effect.
func Init() {
	once.Do(func() {
		log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(log)
	})
}

func attrs(fields map[string]interface{}) []any {
	out := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		out = append(out, key, value)
	}
	return out
}

func Info(event string, fields map[string]interface{}) {
	ensure()
	log.Info(event, attrs(fields)...)
}

func InfoWithUser(userID, event string, fields map[string]interface{}) {
	ensure()
	log.With("user_id", userID).Info(event, attrs(fields)...)
}

func Warn(event string, fields map[string]interface{}) {
	ensure()
	log.Warn(event, attrs(fields)...)
}

func Error(event string, err error, fields map[string]interface{}) {
	ensure()
	args := attrs(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	log.Error(event, args...)
}

func ensure() {
	if log == nil {
		Init()
	}
}
