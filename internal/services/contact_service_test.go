package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/mocks"
)

func newContactServiceForTest(t *testing.T, companies []domain.Company) (*ContactService, *mocks.MockDirectoryClient) {
	t.Helper()
	client := mocks.NewMockDirectoryClient()
	client.ListCompaniesFunc = func(ctx context.Context, token string, f domain.CompanyFilter) ([]domain.Company, error) {
		return companies, nil
	}
	return NewContactService(client, mocks.NewMockSelectionRepository(), &recordingRevoker{}), client
}

func TestContactService_Contacts(t *testing.T) {
	svc, _ := newContactServiceForTest(t, []domain.Company{
		{ID: "1", POCName: "A", ContactNumber: "111"},
		{ID: "2", POCName: "", ContactNumber: "222"},
		{ID: "3", POCName: "C", ContactNumber: "111"},
		{ID: "4", POCName: "D", ContactNumber: "444"},
	})
	session := createValidSession(t)

	view, err := svc.Contacts(context.Background(), session, domain.CompanyFilter{})
	require.NoError(t, err)
	assert.Equal(t, []domain.Contact{
		{ID: "1", Name: "A", Phone: "111"},
		{ID: "4", Name: "D", Phone: "444"},
	}, view.Contacts)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 0, view.SelectedN)
	assert.False(t, view.AllSelected)
}

func TestContactService_SelectionSurvivesRefresh(t *testing.T) {
	svc, _ := newContactServiceForTest(t, []domain.Company{
		{ID: "1", POCName: "A", ContactNumber: "111"},
		{ID: "2", POCName: "B", ContactNumber: "222"},
	})
	ctx := context.Background()
	session := createValidSession(t)

	_, err := svc.Contacts(ctx, session, domain.CompanyFilter{})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, session, "222")
	require.NoError(t, err)

	view, err := svc.Contacts(ctx, session, domain.CompanyFilter{})
	require.NoError(t, err)
	assert.Equal(t, domain.Selection{"222"}, view.Selected)

	sel, err := svc.Selected(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, domain.Selection{"222"}, sel)
}

func TestContactService_ToggleAll(t *testing.T) {
	svc, _ := newContactServiceForTest(t, []domain.Company{
		{ID: "1", POCName: "A", ContactNumber: "111"},
		{ID: "2", POCName: "B", ContactNumber: "222"},
	})
	ctx := context.Background()
	session := createValidSession(t)
	_, err := svc.Contacts(ctx, session, domain.CompanyFilter{})
	require.NoError(t, err)

	view, err := svc.ToggleAll(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, domain.Selection{"111", "222"}, view.Selected)
	assert.True(t, view.AllSelected)

	view, err = svc.ToggleAll(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, view.Selected)
	assert.False(t, view.AllSelected)
}

func TestContactService_Toggle(t *testing.T) {
	svc, _ := newContactServiceForTest(t, nil)
	ctx := context.Background()
	session := createValidSession(t)

	_, err := svc.Toggle(ctx, session, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	view, err := svc.Toggle(ctx, session, "111")
	require.NoError(t, err)
	assert.Equal(t, domain.Selection{"111"}, view.Selected)

	view, err = svc.Toggle(ctx, session, "111")
	require.NoError(t, err)
	assert.Empty(t, view.Selected)

	require.NoError(t, svc.Clear(ctx, session.ID))
}

func TestContactService_UnauthorizedRevokes(t *testing.T) {
	client := mocks.NewMockDirectoryClient()
	client.ListCompaniesFunc = func(ctx context.Context, token string, f domain.CompanyFilter) ([]domain.Company, error) {
		return nil, domain.ErrUpstreamUnauthorized
	}
	rev := &recordingRevoker{}
	svc := NewContactService(client, mocks.NewMockSelectionRepository(), rev)

	_, err := svc.Contacts(context.Background(), createValidSession(t), domain.CompanyFilter{})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, []string{"session_123"}, rev.revoked)
}
