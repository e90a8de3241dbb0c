package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rahulwaghole14/mandap/domain"
)

// Redirect target and the reasons shown on the login screen
const (
	LoginPath            = "/login"
	ReasonLoginRequired  = "Please login to continue"
	ReasonSessionExpired = "Session expired. Please login again."
)

// GateDecision is either Authorized with a session, or a Redirect to the
// login screen carrying the reason to display.
type GateDecision struct {
	Session  *domain.Session
	Redirect string
	Reason   string
}

// Authorized reports whether the request may proceed
func (d GateDecision) Authorized() bool { return d.Session != nil }

func authorized(s *domain.Session) GateDecision { return GateDecision{Session: s} }

func redirect(reason string) GateDecision {
	return GateDecision{Redirect: LoginPath, Reason: reason}
}

// SessionGate decides, before any guarded call, whether a bearer token maps
// to a live session.
type SessionGate struct {
	tokens   domain.TokenService
	sessions domain.SessionRepository
	audit    domain.AuditLogger
	log      *slog.Logger
	now      func() time.Time
}

// NewSessionGate creates a session gate
func NewSessionGate(tokens domain.TokenService, sessions domain.SessionRepository, audit domain.AuditLogger, logger *slog.Logger) *SessionGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionGate{tokens: tokens, sessions: sessions, audit: audit, log: logger, now: time.Now}
}

// Require checks the bearer token. The token may be given raw or with a
// "Bearer " prefix.
func (g *SessionGate) Require(ctx context.Context, bearer string) GateDecision {
	token := strings.TrimSpace(bearer)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return redirect(ReasonLoginRequired)
	}

	claims, err := g.tokens.ValidateAccessToken(token)
	if err != nil {
		return redirect(ReasonSessionExpired)
	}

	session, err := g.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrSessionExpired) {
			g.log.ErrorContext(ctx, "session lookup failed", slog.String("session_id", claims.SessionID), slog.Any("error", err))
		}
		return redirect(ReasonSessionExpired)
	}
	if session.AdminID != claims.AdminID || session.Expired(g.now()) {
		return redirect(ReasonSessionExpired)
	}
	return authorized(session)
}

// Revoke ends a session after the directory rejected its token
func (g *SessionGate) Revoke(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	if err := g.sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if g.audit != nil {
		_ = g.audit.LogEvent(ctx, domain.NewAuditEvent(domain.SessionExpiredEvent, session.AdminID).WithSession(session))
	}
	return nil
}

// sessionRevoker is the part of SessionGate the directory-backed services need
type sessionRevoker interface {
	Revoke(ctx context.Context, session *domain.Session) error
}

// upstreamErr revokes the session when the directory rejected its token and
// returns an error matching both domain.ErrSessionExpired and the cause.
func upstreamErr(ctx context.Context, gate sessionRevoker, session *domain.Session, err error) error {
	if err == nil || !errors.Is(err, domain.ErrUpstreamUnauthorized) {
		return err
	}
	if gate != nil {
		_ = gate.Revoke(ctx, session)
	}
	return fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
}
