package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rahulwaghole14/mandap/domain"
)

// maxBody bounds how much of a response is read
const maxBody = 8 << 20

// HTTPClient implements domain.DirectoryClient over the directory REST API
type HTTPClient struct {
	Base string
	HTTP *http.Client
	log  *slog.Logger
}

// NewHTTP creates a client for the API rooted at base
func NewHTTP(base string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		Base: base,
		HTTP: &http.Client{Timeout: timeout},
		log:  logger,
	}
}

var _ domain.DirectoryClient = (*HTTPClient)(nil)

type companyPayload struct {
	CompanyID   *domain.ID            `json:"company_id,omitempty"`
	CompanyData *domain.CompanyFields `json:"company_data,omitempty"`
	ServiceIDs  []int64               `json:"service_ids,omitempty"`
}

type writeResult struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ListCompanies returns the companies matching filter, never nil
func (c *HTTPClient) ListCompanies(ctx context.Context, token string, filter domain.CompanyFilter) ([]domain.Company, error) {
	q := url.Values{}
	if filter.TalukaID != "" {
		q.Set("taluka_id", filter.TalukaID)
	}
	for _, id := range filter.ServiceIDs {
		q.Add("service_ids[]", id)
	}
	out := []domain.Company{}
	if err := c.getList(ctx, token, "companies.php", q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Company{}
	}
	return out, nil
}

// ListTalukas returns the taluka filter options, never nil
func (c *HTTPClient) ListTalukas(ctx context.Context, token string) ([]domain.Taluka, error) {
	out := []domain.Taluka{}
	if err := c.getList(ctx, token, "new_tal.php", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Taluka{}
	}
	return out, nil
}

// ListServices returns the service filter options, never nil
func (c *HTTPClient) ListServices(ctx context.Context, token string) ([]domain.Service, error) {
	out := []domain.Service{}
	if err := c.getList(ctx, token, "new_serv.php", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Service{}
	}
	return out, nil
}

// UpdateCompany posts edit_company.php. The password is never sent.
func (c *HTTPClient) UpdateCompany(ctx context.Context, token string, id domain.ID, fields domain.CompanyFields, serviceIDs []int64) error {
	fields.Password = ""
	return c.post(ctx, token, "edit_company.php", companyPayload{
		CompanyID:   &id,
		CompanyData: &fields,
		ServiceIDs:  serviceIDs,
	}, nil)
}

// DeleteCompany posts delete_company.php
func (c *HTTPClient) DeleteCompany(ctx context.Context, token string, id domain.ID) error {
	return c.post(ctx, token, "delete_company.php", companyPayload{CompanyID: &id}, nil)
}

// RegisterCompany requires an explicit success flag in the response
func (c *HTTPClient) RegisterCompany(ctx context.Context, token string, fields domain.CompanyFields, serviceIDs []int64) error {
	var res writeResult
	if err := c.post(ctx, token, "register.php", companyPayload{
		CompanyData: &fields,
		ServiceIDs:  serviceIDs,
	}, &res); err != nil {
		return err
	}
	if res.Success == nil || !*res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Registration failed"
		}
		return &domain.APIError{Status: http.StatusOK, Message: msg}
	}
	return nil
}

// getList decodes either a bare JSON array or an object with a data array
func (c *HTTPClient) getList(ctx context.Context, token, path string, q url.Values, out any) error {
	u := c.Base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	body, err := c.do(req, token)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return fmt.Errorf("%s: %w", path, domain.ErrMalformedResponse)
		}
		if len(wrapped.Data) == 0 || string(wrapped.Data) == "null" {
			return nil
		}
		trimmed = wrapped.Data
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%s: %w", path, domain.ErrMalformedResponse)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, token, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req, token)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s: %w", path, domain.ErrMalformedResponse)
		}
	}
	return nil
}

func (c *HTTPClient) do(req *http.Request, token string) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("directory %s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	c.log.Debug("directory call",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)))

	if domain.StatusExpiresSession(resp.StatusCode) {
		return nil, domain.ErrUpstreamUnauthorized
	}
	if resp.StatusCode/100 != 2 {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

func apiError(status int, body []byte) error {
	var res writeResult
	if err := json.Unmarshal(body, &res); err == nil {
		if res.Error != "" {
			return &domain.APIError{Status: status, Message: res.Error}
		}
		if res.Message != "" {
			return &domain.APIError{Status: status, Message: res.Message}
		}
	}
	return &domain.APIError{Status: status, Message: http.StatusText(status)}
}
