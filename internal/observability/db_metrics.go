package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ObserveDB times one logical store operation. A nil receiver just runs fn.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		status = "error"
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}
	p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyDBErr(err error) string {
	switch {
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case mongo.IsNetworkError(err):
		return "network"
	case mongo.IsDuplicateKeyError(err):
		return "duplicate_key"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return "command_" + strings.ToLower(cmdErr.Name)
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		return "write"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "auth"):
		return "auth"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
