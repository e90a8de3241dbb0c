package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rahulwaghole14/mandap/domain"
)

// DefaultPageSize is the number of companies per page on the home screen
const DefaultPageSize = 5

// CompanyQuery is one home screen request
type CompanyQuery struct {
	Filter domain.CompanyFilter
	Search string
	Page   int
}

// CompanyPage is one page of the filtered, searched company list
type CompanyPage struct {
	Companies  []domain.Company `json:"companies"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
}

// Filters are the taluka and service choices of the home screen
type Filters struct {
	Talukas  []domain.Taluka  `json:"talukas"`
	Services []domain.Service `json:"services"`
}

// CompanyForm is a company prepared for the edit screen
type CompanyForm struct {
	Company    domain.Company   `json:"company"`
	ServiceIDs []int64          `json:"service_ids"`
	Talukas    []domain.Taluka  `json:"talukas"`
	Services   []domain.Service `json:"services"`
}

// CompanyInput is the body of an edit or register request
type CompanyInput struct {
	CompanyName   string      `json:"company_name"`
	POCName       string      `json:"poc_name"`
	Address       string      `json:"address"`
	TalukaID      domain.ID   `json:"taluka_id"`
	Email         string      `json:"email"`
	ContactNumber string      `json:"contact_number"`
	Password      string      `json:"password,omitempty"`
	ServiceIDs    []domain.ID `json:"service_ids"`
}

// DirectoryService applies search, paging and form rules on top of the
// directory API.
type DirectoryService struct {
	client   domain.DirectoryClient
	gate     sessionRevoker
	audit    domain.AuditLogger
	pageSize int
	log      *slog.Logger
}

// NewDirectoryService creates a directory service
func NewDirectoryService(client domain.DirectoryClient, gate sessionRevoker, audit domain.AuditLogger, pageSize int, logger *slog.Logger) *DirectoryService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryService{client: client, gate: gate, audit: audit, pageSize: pageSize, log: logger}
}

// Filters fetches talukas and services in parallel
func (s *DirectoryService) Filters(ctx context.Context, session *domain.Session) (*Filters, error) {
	out, err := s.fetchFilters(ctx, session)
	if err != nil {
		return nil, upstreamErr(ctx, s.gate, session, err)
	}
	return out, nil
}

func (s *DirectoryService) fetchFilters(ctx context.Context, session *domain.Session) (*Filters, error) {
	var out Filters
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		talukas, err := s.client.ListTalukas(gctx, session.UpstreamToken)
		if err != nil {
			return fmt.Errorf("list talukas: %w", err)
		}
		out.Talukas = talukas
		return nil
	})
	g.Go(func() error {
		services, err := s.client.ListServices(gctx, session.UpstreamToken)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		out.Services = services
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.Talukas == nil {
		out.Talukas = []domain.Taluka{}
	}
	if out.Services == nil {
		out.Services = []domain.Service{}
	}
	return &out, nil
}

// Companies fetches the filtered list, then searches and pages it locally
func (s *DirectoryService) Companies(ctx context.Context, session *domain.Session, q CompanyQuery) (*CompanyPage, error) {
	companies, err := s.client.ListCompanies(ctx, session.UpstreamToken, q.Filter)
	if err != nil {
		return nil, upstreamErr(ctx, s.gate, session, fmt.Errorf("list companies: %w", err))
	}
	matched := SearchCompanies(companies, q.Search)
	return Paginate(matched, q.Page, s.pageSize), nil
}

// EditForm loads a company with its service names resolved to ids
func (s *DirectoryService) EditForm(ctx context.Context, session *domain.Session, id domain.ID) (*CompanyForm, error) {
	var (
		companies []domain.Company
		filters   *Filters
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companies, err = s.client.ListCompanies(gctx, session.UpstreamToken, domain.CompanyFilter{})
		if err != nil {
			return fmt.Errorf("list companies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		filters, err = s.fetchFilters(gctx, session)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, upstreamErr(ctx, s.gate, session, err)
	}

	for _, c := range companies {
		if c.ID == id {
			return &CompanyForm{
				Company:    c,
				ServiceIDs: ResolveServiceIDs(c, filters.Services),
				Talukas:    filters.Talukas,
				Services:   filters.Services,
			}, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

// UpdateCompany validates and saves an edit
func (s *DirectoryService) UpdateCompany(ctx context.Context, session *domain.Session, id domain.ID, in CompanyInput) error {
	fields, serviceIDs, err := ValidateEdit(in)
	if err != nil {
		return err
	}
	if err := s.client.UpdateCompany(ctx, session.UpstreamToken, id, fields, serviceIDs); err != nil {
		return upstreamErr(ctx, s.gate, session, fmt.Errorf("update company %s: %w", id, err))
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.CompanyUpdatedEvent, 0).WithSession(session).WithMetadata("company_id", id.String()))
	return nil
}

// DeleteCompany removes a company
func (s *DirectoryService) DeleteCompany(ctx context.Context, session *domain.Session, id domain.ID) error {
	if id == "" {
		return domain.NewValidationError("company_id", "company id is required")
	}
	if err := s.client.DeleteCompany(ctx, session.UpstreamToken, id); err != nil {
		return upstreamErr(ctx, s.gate, session, fmt.Errorf("delete company %s: %w", id, err))
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.CompanyDeletedEvent, 0).WithSession(session).WithMetadata("company_id", id.String()))
	return nil
}

// RegisterCompany validates and submits a new company
func (s *DirectoryService) RegisterCompany(ctx context.Context, session *domain.Session, in CompanyInput) error {
	fields, serviceIDs, err := ValidateRegistration(in)
	if err != nil {
		return err
	}
	if err := s.client.RegisterCompany(ctx, session.UpstreamToken, fields, serviceIDs); err != nil {
		return upstreamErr(ctx, s.gate, session, fmt.Errorf("register company: %w", err))
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.CompanyRegisteredEvent, 0).WithSession(session).WithMetadata("company_name", fields.CompanyName))
	return nil
}

func (s *DirectoryService) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		_ = s.audit.LogEvent(ctx, event)
	}
}

// SearchCompanies keeps companies whose name or POC name contains term,
// ignoring case. An empty term keeps everything.
func SearchCompanies(companies []domain.Company, term string) []domain.Company {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return companies
	}
	out := make([]domain.Company, 0, len(companies))
	for _, c := range companies {
		if strings.Contains(strings.ToLower(c.CompanyName), term) ||
			strings.Contains(strings.ToLower(c.POCName), term) {
			out = append(out, c)
		}
	}
	return out
}

// Paginate returns page (1-based) of companies. Out of range pages clamp to
// the first or last page.
func Paginate(companies []domain.Company, page, size int) *CompanyPage {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(companies)
	totalPages := (total + size - 1) / size
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return &CompanyPage{
		Companies:  append([]domain.Company{}, companies[start:end]...),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      total,
	}
}

// ResolveServiceIDs maps the company's service names to ids by exact name.
// Names with no matching service are dropped.
func ResolveServiceIDs(c domain.Company, services []domain.Service) []int64 {
	byName := make(map[string]int64, len(services))
	for _, s := range services {
		if id, err := s.ID.Int(); err == nil {
			byName[s.Name] = id
		}
	}
	ids := []int64{}
	for _, name := range c.ServiceNames() {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// ValidateEdit checks the edit form: a taluka and at least one service
func ValidateEdit(in CompanyInput) (domain.CompanyFields, []int64, error) {
	talukaID, err := in.TalukaID.Int()
	if in.TalukaID == "" || err != nil || talukaID == 0 {
		return domain.CompanyFields{}, nil, domain.NewValidationError("taluka_id", "Please select a Taluka.")
	}
	serviceIDs, err := parseServiceIDs(in.ServiceIDs)
	if err != nil || len(serviceIDs) == 0 {
		return domain.CompanyFields{}, nil, domain.NewValidationError("service_ids", "Please select at least one service.")
	}
	return domain.CompanyFields{
		CompanyName:   in.CompanyName,
		POCName:       in.POCName,
		Address:       in.Address,
		TalukaID:      talukaID,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
	}, serviceIDs, nil
}

// ValidateRegistration requires every field, in form order, and at least one
// service.
func ValidateRegistration(in CompanyInput) (domain.CompanyFields, []int64, error) {
	required := []struct {
		key   string
		value string
	}{
		{"company_name", in.CompanyName},
		{"poc_name", in.POCName},
		{"address", in.Address},
		{"taluka_id", in.TalukaID.String()},
		{"email", in.Email},
		{"contact_number", in.ContactNumber},
		{"password", in.Password},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) != "" {
			continue
		}
		if f.key == "company_name" {
			return domain.CompanyFields{}, nil, domain.NewValidationError(f.key, "Firm name is required")
		}
		return domain.CompanyFields{}, nil, domain.NewValidationError(f.key, strings.ReplaceAll(f.key, "_", " ")+" is required")
	}

	talukaID, err := in.TalukaID.Int()
	if err != nil {
		return domain.CompanyFields{}, nil, domain.NewValidationError("taluka_id", "taluka id is required")
	}
	serviceIDs, err := parseServiceIDs(in.ServiceIDs)
	if err != nil || len(serviceIDs) == 0 {
		return domain.CompanyFields{}, nil, domain.NewValidationError("service_ids", "Please select at least one service")
	}
	return domain.CompanyFields{
		CompanyName:   in.CompanyName,
		POCName:       in.POCName,
		Address:       in.Address,
		TalukaID:      talukaID,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
		Password:      in.Password,
	}, serviceIDs, nil
}

func parseServiceIDs(ids []domain.ID) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, err := id.Int()
		if err != nil {
			return nil, fmt.Errorf("service id %q: %w", id, err)
		}
		out = append(out, n)
	}
	return out, nil
}
