package mocks

import (
	"context"
	"sync"

	"github.com/rahulwaghole14/mandap/domain"
)

// MockDirectoryClient implements domain.DirectoryClient interface for testing.
// Calls counts every invocation so tests can assert no request was issued.
type MockDirectoryClient struct {
	ListCompaniesFunc   func(ctx context.Context, token string, filter domain.CompanyFilter) ([]domain.Company, error)
	ListTalukasFunc     func(ctx context.Context, token string) ([]domain.Taluka, error)
	ListServicesFunc    func(ctx context.Context, token string) ([]domain.Service, error)
	UpdateCompanyFunc   func(ctx context.Context, token string, id domain.ID, fields domain.CompanyFields, serviceIDs []int64) error
	DeleteCompanyFunc   func(ctx context.Context, token string, id domain.ID) error
	RegisterCompanyFunc func(ctx context.Context, token string, fields domain.CompanyFields, serviceIDs []int64) error

	mu    sync.Mutex
	calls int
}

// NewMockDirectoryClient creates a new MockDirectoryClient with default behaviors
func NewMockDirectoryClient() *MockDirectoryClient {
	return &MockDirectoryClient{}
}

func (m *MockDirectoryClient) record() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

// Calls returns how many directory calls were made
func (m *MockDirectoryClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockDirectoryClient) ListCompanies(ctx context.Context, token string, filter domain.CompanyFilter) ([]domain.Company, error) {
	m.record()
	if m.ListCompaniesFunc != nil {
		return m.ListCompaniesFunc(ctx, token, filter)
	}
	return []domain.Company{}, nil
}

func (m *MockDirectoryClient) ListTalukas(ctx context.Context, token string) ([]domain.Taluka, error) {
	m.record()
	if m.ListTalukasFunc != nil {
		return m.ListTalukasFunc(ctx, token)
	}
	return []domain.Taluka{}, nil
}

func (m *MockDirectoryClient) ListServices(ctx context.Context, token string) ([]domain.Service, error) {
	m.record()
	if m.ListServicesFunc != nil {
		return m.ListServicesFunc(ctx, token)
	}
	return []domain.Service{}, nil
}

func (m *MockDirectoryClient) UpdateCompany(ctx context.Context, token string, id domain.ID, fields domain.CompanyFields, serviceIDs []int64) error {
	m.record()
	if m.UpdateCompanyFunc != nil {
		return m.UpdateCompanyFunc(ctx, token, id, fields, serviceIDs)
	}
	return nil
}

func (m *MockDirectoryClient) DeleteCompany(ctx context.Context, token string, id domain.ID) error {
	m.record()
	if m.DeleteCompanyFunc != nil {
		return m.DeleteCompanyFunc(ctx, token, id)
	}
	return nil
}

func (m *MockDirectoryClient) RegisterCompany(ctx context.Context, token string, fields domain.CompanyFields, serviceIDs []int64) error {
	m.record()
	if m.RegisterCompanyFunc != nil {
		return m.RegisterCompanyFunc(ctx, token, fields, serviceIDs)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.DirectoryClient = (*MockDirectoryClient)(nil)
