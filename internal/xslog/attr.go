package xslog

import (
	"log/slog"
	"time"
)

const keyError = "error"

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func ActivityID(id string) slog.Attr {
	const activityIDKey = "activity_id"
	return slog.String(activityIDKey, id)
}

func Database(id string) slog.Attr {
	const databaseKey = "database"
	// Database IDs are opaque but long; a prefix is enough to tell targets apart.
	if len(id) > 8 {
		id = id[:8]
	}
	return slog.String(databaseKey, id)
}

func Date(date string) slog.Attr {
	const dateKey = "date"
	return slog.String(dateKey, date)
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func Attempt(attempt, max int) slog.Attr {
	const attemptKey = "attempt"
	return slog.Group(attemptKey, slog.Int("n", attempt), slog.Int("max", max))
}

func Dropped(fields []string) slog.Attr {
	const droppedKey = "dropped_fields"
	return slog.Any(droppedKey, fields)
}

func Sport(sport string) slog.Attr {
	const sportKey = "sport"
	return slog.String(sportKey, sport)
}

func Operation(op string) slog.Attr {
	const operationKey = "operation"
	return slog.String(operationKey, op)
}
