package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/notifications"
	"github.com/rahulwaghole14/mandap/internal/mocks"
)

func textContent(t *testing.T, body string) domain.OutboundContent {
	t.Helper()
	c, err := domain.TextContent(body)
	require.NoError(t, err)
	return c
}

func TestDispatchService_TwoRecipientsInOrder(t *testing.T) {
	gw := mocks.NewMockMessagingGateway()
	svc := NewDispatchService(gw, nil, nil, nil, DispatchConfig{}, nil)

	report, err := svc.Dispatch(context.Background(), createValidSession(t), []string{"9876543210", "+919123456789"}, textContent(t, "hello"))
	require.NoError(t, err)

	sent := gw.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "919876543210", sent[0].Phone)
	assert.Equal(t, "919123456789", sent[1].Phone)
	assert.Equal(t, "hello", sent[0].Content.Text())
	assert.Equal(t, []string{
		"919876543210: ✅ Success - Message sent successfully",
		"919123456789: ✅ Success - Message sent successfully",
	}, report.Lines())
	assert.Equal(t, "text", report.Kind)
	assert.NotEmpty(t, report.ID)
}

func TestDispatchService_FailureIsolation(t *testing.T) {
	gw := mocks.NewMockMessagingGateway()
	gw.SendFunc = func(ctx context.Context, phone string, c domain.OutboundContent) (string, error) {
		if phone == "912222222222" {
			return "", errors.New("gateway returned 500")
		}
		return "queued", nil
	}
	svc := NewDispatchService(gw, nil, nil, nil, DispatchConfig{}, nil)

	report, err := svc.Dispatch(context.Background(), nil, []string{"1111111111", "2222222222", "3333333333"}, textContent(t, "hi"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"911111111111: ✅ Success - queued",
		"912222222222: ❌ Failed - gateway returned 500",
		"913333333333: ✅ Success - queued",
	}, report.Lines())
	ok, failed := report.Counts()
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)
}

func TestDispatchService_ConcurrentKeepsOrder(t *testing.T) {
	var inFlight, peak int32
	gw := mocks.NewMockMessagingGateway()
	gw.SendFunc = func(ctx context.Context, phone string, c domain.OutboundContent) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		// later recipients finish first
		if phone == "911" {
			time.Sleep(30 * time.Millisecond)
		}
		atomic.AddInt32(&inFlight, -1)
		return phone, nil
	}
	svc := NewDispatchService(gw, nil, nil, nil, DispatchConfig{Concurrency: 2}, nil)

	recipients := []string{"1", "2", "3", "4", "5"}
	report, err := svc.Dispatch(context.Background(), nil, recipients, textContent(t, "x"))
	require.NoError(t, err)
	require.Len(t, report.Results, 5)
	for i, r := range report.Results {
		assert.Equal(t, "91"+recipients[i], r.Phone)
		assert.Equal(t, r.Phone, r.Detail)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestDispatchService_Validation(t *testing.T) {
	gw := mocks.NewMockMessagingGateway()
	svc := NewDispatchService(gw, nil, nil, nil, DispatchConfig{}, nil)

	_, err := svc.Dispatch(context.Background(), nil, nil, textContent(t, "x"))
	assert.ErrorIs(t, err, domain.ErrNoRecipients)

	_, err = svc.Dispatch(context.Background(), nil, []string{"1"}, domain.OutboundContent{})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
	assert.Empty(t, gw.Sent())
}

func TestDispatchService_InFlightLock(t *testing.T) {
	lock := mocks.NewMockDispatchLock()
	session := createValidSession(t)
	token, ok, err := lock.Acquire(context.Background(), session.ID)
	require.NoError(t, err)
	require.True(t, ok)

	gw := mocks.NewMockMessagingGateway()
	svc := NewDispatchService(gw, lock, nil, nil, DispatchConfig{}, nil)
	_, err = svc.Dispatch(context.Background(), session, []string{"1"}, textContent(t, "x"))
	assert.ErrorIs(t, err, domain.ErrDispatchInProgress)
	assert.Empty(t, gw.Sent())

	require.NoError(t, lock.Release(context.Background(), session.ID, token))
	_, err = svc.Dispatch(context.Background(), session, []string{"1", "2", "3"}, textContent(t, "x"))
	require.NoError(t, err)
	assert.False(t, lock.Held(session.ID))
	assert.Equal(t, 3, lock.Extends(session.ID))
}

func TestDispatchService_LostLockStillSendsEveryone(t *testing.T) {
	lock := mocks.NewMockDispatchLock()
	lock.ExtendFunc = func(ctx context.Context, sessionID, token string) (bool, error) {
		return false, nil
	}
	gw := mocks.NewMockMessagingGateway()
	svc := NewDispatchService(gw, lock, nil, nil, DispatchConfig{}, nil)

	report, err := svc.Dispatch(context.Background(), createValidSession(t), []string{"1", "2"}, textContent(t, "x"))
	require.NoError(t, err)
	assert.Len(t, gw.Sent(), 2)
	ok, _ := report.Counts()
	assert.Equal(t, 2, ok)
}

func TestDispatchService_SlowGatewayReachesEveryRecipient(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		time.Sleep(60 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Message queued"}`))
	}))
	defer srv.Close()

	gw := notifications.NewMessagesAPIGateway(notifications.MessagesAPIConfig{
		BaseURL: srv.URL,
		UserID:  "sender-1",
		Device:  "device-1",
		Timeout: 5 * time.Second,
	}, nil)
	svc := NewDispatchService(gw, mocks.NewMockDispatchLock(), nil, nil, DispatchConfig{}, nil)

	// the request gives up long before five slow sends finish
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	recipients := []string{"911", "912", "913", "914", "915"}
	report, err := svc.Dispatch(ctx, createValidSession(t), recipients, textContent(t, "hello"))
	require.NoError(t, err)

	assert.Equal(t, int32(5), atomic.LoadInt32(&attempts))
	for i, r := range report.Results {
		assert.Equal(t, recipients[i], r.Phone)
		assert.Truef(t, r.Success, "recipient %s: %s", r.Phone, r.Detail)
		assert.Equal(t, "Message queued", r.Detail)
	}
}

func TestDispatchService_CancelledRequestStillSends(t *testing.T) {
	gw := mocks.NewMockMessagingGateway()
	gw.SendFunc = func(ctx context.Context, phone string, c domain.OutboundContent) (string, error) {
		return "", ctx.Err()
	}
	svc := NewDispatchService(gw, nil, nil, nil, DispatchConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := svc.Dispatch(ctx, nil, []string{"1", "2"}, textContent(t, "x"))
	require.NoError(t, err)
	ok, failed := report.Counts()
	assert.Equal(t, 2, ok)
	assert.Equal(t, 0, failed)
}

func TestDispatchService_PublishesAndAudits(t *testing.T) {
	pub := mocks.NewMockEventPublisher()
	audit := mocks.NewMockAuditLogger()
	gw := mocks.NewMockMessagingGateway()
	gw.SendFunc = func(ctx context.Context, phone string, c domain.OutboundContent) (string, error) {
		if phone == "912" {
			return "", errors.New("bad number")
		}
		return "", nil
	}
	svc := NewDispatchService(gw, nil, pub, audit, DispatchConfig{Producer: "mandap-admin"}, nil)

	report, err := svc.Dispatch(context.Background(), createValidSession(t), []string{"1", "2"}, textContent(t, "x"))
	require.NoError(t, err)

	events := pub.Published()
	require.Len(t, events, 1)
	assert.Equal(t, domain.DispatchCompletedType, events[0].Key)
	assert.Equal(t, report.ID, events[0].Msg.Meta.CorrelationID)
	assert.Equal(t, "mandap-admin", events[0].Msg.Meta.Producer)
	data, ok := events[0].Msg.Data.(domain.DispatchCompleted)
	require.True(t, ok)
	assert.Equal(t, 1, data.Succeeded)
	assert.Equal(t, 1, data.Failed)
	assert.Equal(t, "session_123", data.SessionID)
	assert.Equal(t, []domain.AuditEventType{domain.DispatchCompletedEvent}, audit.Types())
}

func TestDispatchService_PublishFailureKeepsReport(t *testing.T) {
	pub := mocks.NewMockEventPublisher()
	pub.PublishFunc = func(ctx context.Context, key string, msg domain.EventEnvelope) error {
		return errors.New("broker down")
	}
	svc := NewDispatchService(mocks.NewMockMessagingGateway(), nil, pub, nil, DispatchConfig{}, nil)

	report, err := svc.Dispatch(context.Background(), nil, []string{"1"}, textContent(t, "x"))
	require.NoError(t, err)
	assert.Len(t, report.Results, 1)
}
