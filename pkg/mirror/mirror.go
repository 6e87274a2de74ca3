// Package mirror pushes the ledger to a remote copy that replaces its whole
// content on every push.
package mirror

import (
	"context"
	"log/slog"

	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/harrisonrobin/aledger/pkg/model"
)

// Outcome is what a push can observe. Dispatched does not mean the remote
// side accepted the data, only that the request left without a local error.
type Outcome int

const (
	Skipped Outcome = iota
	Dispatched
	FailedLocally
)

func (o Outcome) String() string {
	switch o {
	case Dispatched:
		return "dispatched"
	case FailedLocally:
		return "failed"
	default:
		return "skipped"
	}
}

// Status maps the outcome onto the indicator. Skipped maps to IDLE.
func (o Outcome) Status() model.SyncStatus {
	switch o {
	case Dispatched:
		return model.SUCCESS
	case FailedLocally:
		return model.ERROR
	default:
		return model.IDLE
	}
}

// Pusher sends rows to one destination.
type Pusher interface {
	Push(ctx context.Context, dest string, rows []model.Row) error
}

// Rows projects entries onto the mirror fields, keeping order.
func Rows(entries []model.LedgerEntry) []model.Row {
	rows := make([]model.Row, len(entries))
	for i, e := range entries {
		rows[i] = e.ToRow()
	}
	return rows
}

// Client applies the no-op guard around a Pusher and reduces its result to
// an Outcome.
type Client struct {
	pusher Pusher
	log    *slog.Logger
}

func NewClient(p Pusher, l *slog.Logger) *Client {
	if l == nil {
		l = logger.Discard()
	}
	return &Client{pusher: p, log: l}
}

// Push mirrors entries to dest. Nothing is sent when dest is empty or there
// are no entries.
func (c *Client) Push(ctx context.Context, dest string, entries []model.LedgerEntry) Outcome {
	if dest == "" || len(entries) == 0 || c.pusher == nil {
		return Skipped
	}
	if err := c.pusher.Push(ctx, dest, Rows(entries)); err != nil {
		c.log.Warn("mirror push failed", "error", err)
		return FailedLocally
	}
	c.log.Debug("mirror push dispatched", "rows", len(entries))
	return Dispatched
}
