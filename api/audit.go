package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of security-relevant action being logged.
type AuditEvent string

const (
	AuditLoginSuccess        AuditEvent = "login_success"
	AuditLoginFailure        AuditEvent = "login_failure"
	AuditLoginRateLimited    AuditEvent = "login_rate_limited"
	AuditRegister            AuditEvent = "register"
	AuditRegisterFailure     AuditEvent = "register_failure"
	AuditRegisterCompensated AuditEvent = "register_compensated"
	AuditRegisterOrphaned    AuditEvent = "register_orphaned"
	AuditLogout              AuditEvent = "logout"
	AuditSessionMinted       AuditEvent = "session_minted"
	AuditSessionRejected     AuditEvent = "session_rejected"
	AuditSessionOrphaned     AuditEvent = "session_orphaned"
	AuditProfileUpdated      AuditEvent = "profile_updated"
	AuditCampaignCreated     AuditEvent = "campaign_created"
	AuditCampaignDeleted     AuditEvent = "campaign_deleted"
	AuditGuildCreated        AuditEvent = "guild_created"
	AuditGuildJoined         AuditEvent = "guild_joined"
	AuditWorkshopSubmitted   AuditEvent = "workshop_submitted"
)

// auditLogger wraps slog.Logger for structured security audit logging.
type auditLogger struct {
	logger  *slog.Logger
	metrics *metricsCollector
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
	}
}

// log writes a structured audit log entry. Only user IDs go to the
// log, never emails, tokens, or cookie material.
func (al *auditLogger) log(event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	baseAttrs = append(baseAttrs, attrs...)

	al.logger.LogAttrs(r.Context(), slog.LevelInfo, "audit", baseAttrs...)
	if al.metrics != nil {
		al.metrics.recordEvent(event)
	}
}

// logEvent is a convenience for events with a user ID.
func (al *auditLogger) logEvent(event AuditEvent, r *http.Request, userID string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("user_id", userID),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}

// logFailure logs a failed or rejected attempt.
func (al *auditLogger) logFailure(event AuditEvent, r *http.Request, reason string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("reason", reason),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}
