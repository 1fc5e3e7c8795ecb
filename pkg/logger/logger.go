package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger for the given environment. Development gets a
// console writer with debug output, everything else gets JSON at info level.
func Init(env string) {
	switch env {
	case "production":
		log = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	case "test":
		log = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	default:
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log = zerolog.New(output).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
}

// Get returns the underlying zerolog logger.
func Get() *zerolog.Logger {
	return &log
}

func Debug(msg string, keyvals ...any) {
	write(log.Debug(), msg, keyvals)
}

func Info(msg string, keyvals ...any) {
	write(log.Info(), msg, keyvals)
}

func Warn(msg string, keyvals ...any) {
	write(log.Warn(), msg, keyvals)
}

func Error(msg string, keyvals ...any) {
	write(log.Error(), msg, keyvals)
}

func Fatal(msg string, keyvals ...any) {
	write(log.Fatal(), msg, keyvals)
}

// write attaches key/value pairs to the event. A trailing value without a key
// (usually an error) is logged under "error".
func write(ev *zerolog.Event, msg string, keyvals []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 >= len(keyvals) {
			if err, ok := keyvals[i].(error); ok {
				ev = ev.Err(err)
			} else {
				ev = ev.Interface("error", keyvals[i])
			}
			break
		}
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		if err, ok := keyvals[i+1].(error); ok {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	ev.Msg(msg)
}
