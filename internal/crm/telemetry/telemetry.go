// Package telemetry forwards permission denials and service failures
// to an external error collector. The rest of the application depends
// on the Reporter interface only, so the collector can be swapped out
// or disabled.
package telemetry

import (
	"fmt"
	"strconv"
	"time"

	"github.com/epicevents/crm/internal/crm/models"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Reporter receives the notable events of a session: authorization
// denials and data-layer failures caught at the service boundary.
type Reporter interface {
	PermissionDenied(actor *models.Collaborator, permission string, detail string)
	CaptureError(err error, operation string)
	Close()
}

// SentryReporter ships events to Sentry. A dedicated hub keeps the
// client out of package-global state.
type SentryReporter struct {
	hub    *sentry.Hub
	logger *zap.Logger
}

// NewReporter builds a Reporter from the configured DSN. An empty DSN
// disables collection and returns a no-op implementation, so the CLI
// keeps working offline.
func NewReporter(dsn, environment string, logger *zap.Logger) (Reporter, error) {
	if dsn == "" {
		return NopReporter{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry client: %w", err)
	}
	return &SentryReporter{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		logger: logger.Named("telemetry"),
	}, nil
}

// PermissionDenied records a denied operation together with the actor
// identity and the permission that was missing.
func (r *SentryReporter) PermissionDenied(actor *models.Collaborator, permission, detail string) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		scope.SetTag("permission", permission)
		if actor != nil {
			scope.SetUser(sentry.User{
				ID:       strconv.FormatUint(uint64(actor.ID), 10),
				Username: actor.Username,
			})
			scope.SetTag("role", string(actor.Role))
		}
		if detail != "" {
			scope.SetExtra("detail", detail)
		}
		r.hub.CaptureMessage("permission denied: " + permission)
	})
}

// CaptureError records a failure caught at the service boundary.
func (r *SentryReporter) CaptureError(err error, operation string) {
	if err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", operation)
		r.hub.CaptureException(err)
	})
}

// Close flushes buffered events before the process exits.
func (r *SentryReporter) Close() {
	if !r.hub.Flush(2 * time.Second) {
		r.logger.Warn("telemetry flush timed out, events may be lost")
	}
}

// NopReporter discards everything. Used when no DSN is configured.
type NopReporter struct{}

func (NopReporter) PermissionDenied(*models.Collaborator, string, string) {}
func (NopReporter) CaptureError(error, string)                           {}
func (NopReporter) Close()                                               {}
