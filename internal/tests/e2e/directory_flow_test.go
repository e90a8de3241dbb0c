package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companyNames(t *testing.T, resp Response) []string {
	t.Helper()
	list, ok := resp.Data(t)["companies"].([]any)
	require.True(t, ok, resp.Raw)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.(map[string]any)["company_name"].(string))
	}
	return names
}

func TestFilters(t *testing.T) {
	s := NewTestServer(t)
	token := s.Login(t, operatorEmail, operatorPassword)

	resp := s.JSON(t, http.MethodGet, "/api/filters", token, nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	assert.Len(t, resp.Data(t)["talukas"], 2)
	assert.Len(t, resp.Data(t)["services"], 3)
}

func TestCompanyListing(t *testing.T) {
	s := NewTestServer(t)
	token := s.Login(t, operatorEmail, operatorPassword)

	page1 := s.JSON(t, http.MethodGet, "/api/companies", token, nil)
	require.Equal(t, http.StatusOK, page1.Status, page1.Raw)
	assert.Len(t, companyNames(t, page1), 5)
	assert.Equal(t, float64(2), page1.Data(t)["total_pages"])

	page2 := s.JSON(t, http.MethodGet, "/api/companies?page=2", token, nil)
	assert.Equal(t, []string{"Sai Sound"}, companyNames(t, page2))

	clamped := s.JSON(t, http.MethodGet, "/api/companies?page=40", token, nil)
	assert.Equal(t, float64(2), clamped.Data(t)["page"])

	search := s.JSON(t, http.MethodGet, "/api/companies?q=ravi", token, nil)
	assert.Equal(t, []string{"Shree Mandap", "Ravi Tents"}, companyNames(t, search))

	filtered := s.JSON(t, http.MethodGet, "/api/companies?taluka_id=2&service_ids[]=3", token, nil)
	assert.Equal(t, []string{"Deep Lights", "Sai Sound"}, companyNames(t, filtered))
}

func TestEditCompany(t *testing.T) {
	s := NewTestServer(t)
	token := s.Login(t, operatorEmail, operatorPassword)

	form := s.JSON(t, http.MethodGet, "/api/companies/1/edit", token, nil)
	require.Equal(t, http.StatusOK, form.Status, form.Raw)
	assert.Equal(t, []any{float64(1), float64(3)}, form.Data(t)["service_ids"])

	bad := s.JSON(t, http.MethodPut, "/api/companies/1", token, map[string]any{
		"company_name": "Shree Mandap", "taluka_id": "", "service_ids": []int{1},
	})
	assert.Equal(t, http.StatusBadRequest, bad.Status)
	assert.Equal(t, "Please select a Taluka.", bad.Body["error"])

	ok := s.JSON(t, http.MethodPut, "/api/companies/1", token, map[string]any{
		"company_name":   "Shree Mandap & Co",
		"poc_name":       "Ravi Patil",
		"address":        "Main road",
		"taluka_id":      2,
		"email":          "shree@example.com",
		"contact_number": "9876543210",
		"service_ids":    []int{2},
	})
	require.Equal(t, http.StatusOK, ok.Status, ok.Raw)

	c, found := s.Directory.Company("1")
	require.True(t, found)
	assert.Equal(t, "Shree Mandap & Co", c.CompanyName)
	assert.Equal(t, "Catering", c.Services)
	data := s.Directory.LastEdit()["company_data"].(map[string]any)
	_, hasPassword := data["password"]
	assert.False(t, hasPassword)
}

func TestRegisterCompany(t *testing.T) {
	s := NewTestServer(t)
	token := s.Login(t, operatorEmail, operatorPassword)

	calls := s.Directory.Calls()
	missing := s.JSON(t, http.MethodPost, "/api/companies", token, map[string]any{
		"company_name": "New Firm", "poc_name": "Asha", "address": "Pune", "taluka_id": 1,
		"email": "", "contact_number": "9000000009", "password": "pw", "service_ids": []int{1},
	})
	assert.Equal(t, http.StatusBadRequest, missing.Status)
	assert.Equal(t, "email is required", missing.Body["error"])
	assert.Equal(t, calls, s.Directory.Calls())

	body := map[string]any{
		"company_name": "New Firm", "poc_name": "Asha", "address": "Pune", "taluka_id": 1,
		"email": "new@example.com", "contact_number": "9000000009", "password": "pw", "service_ids": []int{1, 2},
	}
	created := s.JSON(t, http.MethodPost, "/api/companies", token, body)
	require.Equal(t, http.StatusCreated, created.Status, created.Raw)

	dup := s.JSON(t, http.MethodPost, "/api/companies", token, body)
	assert.Equal(t, http.StatusBadGateway, dup.Status)
	assert.Equal(t, "Email already registered", dup.Body["error"])
}

func TestDeleteCompanyRequiresAdmin(t *testing.T) {
	s := NewTestServer(t)
	operator := s.Login(t, operatorEmail, operatorPassword)
	admin := s.Login(t, adminEmail, adminPassword)

	denied := s.JSON(t, http.MethodDelete, "/api/companies/6", operator, nil)
	assert.Equal(t, http.StatusForbidden, denied.Status)
	_, found := s.Directory.Company("6")
	assert.True(t, found)

	resp := s.JSON(t, http.MethodDelete, "/api/companies/6", admin, nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	_, found = s.Directory.Company("6")
	assert.False(t, found)

	gone := s.JSON(t, http.MethodDelete, "/api/companies/6", admin, nil)
	assert.Equal(t, http.StatusBadGateway, gone.Status)
}
