package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/mandap/domain"
)

// DispatchConfig tunes the bulk send runner
type DispatchConfig struct {
	// Concurrency is the number of sends in flight. 1 sends strictly in order.
	Concurrency int
	// Producer names this service in published events
	Producer string
}

// DispatchService sends one content to many recipients and reports each
// outcome in recipient order.
type DispatchService struct {
	gateway   domain.MessagingGateway
	lock      domain.DispatchLock
	publisher domain.EventPublisher
	audit     domain.AuditLogger
	cfg       DispatchConfig
	log       *slog.Logger
	now       func() time.Time
}

// NewDispatchService creates a dispatch service. lock, publisher and audit
// may be nil.
func NewDispatchService(gateway domain.MessagingGateway, lock domain.DispatchLock, publisher domain.EventPublisher, audit domain.AuditLogger, cfg DispatchConfig, logger *slog.Logger) *DispatchService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchService{
		gateway:   gateway,
		lock:      lock,
		publisher: publisher,
		audit:     audit,
		cfg:       cfg,
		log:       logger,
		now:       time.Now,
	}
}

// Dispatch sends content to every recipient. A failed recipient never stops
// the others and every recipient gets one send attempt; only the gateway's
// own transport timeout bounds a send. Only one dispatch per session may run
// at a time.
func (s *DispatchService) Dispatch(ctx context.Context, session *domain.Session, recipients []string, content domain.OutboundContent) (*domain.DispatchReport, error) {
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}
	if content.Kind() == domain.ContentKind(0) {
		return nil, domain.ErrEmptyContent
	}

	// the loop outlives a cancelled or timed out request
	sendCtx := context.WithoutCancel(ctx)

	keepAlive := func() {}
	if s.lock != nil && session != nil {
		token, ok, err := s.lock.Acquire(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("acquire dispatch lock: %w", err)
		}
		if !ok {
			return nil, domain.ErrDispatchInProgress
		}
		defer func() {
			if err := s.lock.Release(sendCtx, session.ID, token); err != nil {
				s.log.WarnContext(ctx, "release dispatch lock", slog.String("session_id", session.ID), slog.Any("error", err))
			}
		}()
		keepAlive = func() {
			held, err := s.lock.Extend(sendCtx, session.ID, token)
			if err != nil || !held {
				s.log.WarnContext(ctx, "extend dispatch lock", slog.String("session_id", session.ID), slog.Bool("held", held), slog.Any("error", err))
			}
		}
	}

	report := &domain.DispatchReport{
		ID:        uuid.NewString(),
		Kind:      content.Kind().String(),
		StartedAt: s.now().UTC(),
	}
	report.Results = s.run(sendCtx, recipients, content, keepAlive)
	report.FinishedAt = s.now().UTC()

	succeeded, failed := report.Counts()
	s.log.InfoContext(ctx, "dispatch finished",
		slog.String("dispatch_id", report.ID),
		slog.String("kind", report.Kind),
		slog.Int("succeeded", succeeded),
		slog.Int("failed", failed))

	s.record(sendCtx, session, report)
	return report, nil
}

// run sends with at most cfg.Concurrency sends in flight. Each result is
// stored at its recipient's index. keepAlive runs after every send.
func (s *DispatchService) run(ctx context.Context, recipients []string, content domain.OutboundContent, keepAlive func()) []domain.DispatchResult {
	results := make([]domain.DispatchResult, len(recipients))
	if s.cfg.Concurrency == 1 {
		for i, raw := range recipients {
			results[i] = s.sendOne(ctx, raw, content)
			keepAlive()
		}
		return results
	}

	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup
	for i, raw := range recipients {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, raw string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.sendOne(ctx, raw, content)
			keepAlive()
		}(i, raw)
	}
	wg.Wait()
	return results
}

func (s *DispatchService) sendOne(ctx context.Context, raw string, content domain.OutboundContent) domain.DispatchResult {
	phone := domain.NormalizePhone(raw)
	msg, err := s.gateway.Send(ctx, phone, content)
	if err != nil {
		return domain.DispatchResult{Phone: phone, Detail: err.Error()}
	}
	if msg == "" {
		msg = domain.DefaultSuccessDetail
	}
	return domain.DispatchResult{Phone: phone, Success: true, Detail: msg}
}

func (s *DispatchService) record(ctx context.Context, session *domain.Session, report *domain.DispatchReport) {
	succeeded, failed := report.Counts()
	payload := domain.DispatchCompleted{
		DispatchID: report.ID,
		Kind:       report.Kind,
		Succeeded:  succeeded,
		Failed:     failed,
		Results:    report.Results,
	}
	if session != nil {
		payload.SessionID = session.ID
		payload.AdminID = session.AdminID
	}

	if s.audit != nil {
		_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.DispatchCompletedEvent, 0).
			WithSession(session).
			WithMetadata("dispatch_id", report.ID).
			WithMetadata("succeeded", succeeded).
			WithMetadata("failed", failed))
	}

	if s.publisher == nil {
		return
	}
	msg := domain.EventEnvelope{
		Meta: domain.EventMeta{
			ID:            uuid.NewString(),
			CorrelationID: report.ID,
			Producer:      s.cfg.Producer,
			Time:          report.FinishedAt,
			Type:          domain.DispatchCompletedType,
		},
		Data: payload,
	}
	if err := s.publisher.Publish(ctx, domain.DispatchCompletedType, msg); err != nil && !errors.Is(err, context.Canceled) {
		s.log.WarnContext(ctx, "publish dispatch event", slog.String("dispatch_id", report.ID), slog.Any("error", err))
	}
}
