package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/rahulwaghole14/mandap/domain"
)

// FakeDirectory serves the company-directory API from memory
type FakeDirectory struct {
	Server *httptest.Server

	mu        sync.Mutex
	token     string
	nextID    int
	companies []domain.Company
	talukas   []domain.Taluka
	services  []domain.Service
	calls     int
	lastEdit  map[string]any
}

// NewFakeDirectory starts a directory API that accepts token
func NewFakeDirectory(token string) *FakeDirectory {
	d := &FakeDirectory{
		token:  token,
		nextID: 100,
		talukas: []domain.Taluka{
			{ID: "1", Name: "Haveli"},
			{ID: "2", Name: "Mulshi"},
		},
		services: []domain.Service{
			{ID: "1", Name: "Decoration"},
			{ID: "2", Name: "Catering"},
			{ID: "3", Name: "Lighting"},
		},
		companies: []domain.Company{
			{ID: "1", CompanyName: "Shree Mandap", POCName: "Ravi Patil", ContactNumber: "9876543210", TalukaID: "1", Services: "Decoration, Lighting"},
			{ID: "2", CompanyName: "Annapurna Caterers", POCName: "Sunita Joshi", ContactNumber: "+919123456789", TalukaID: "1", Services: "Catering"},
			{ID: "3", CompanyName: "Deep Lights", POCName: "", ContactNumber: "9000000003", TalukaID: "2", Services: "Lighting"},
			{ID: "4", CompanyName: "Mulshi Decor", POCName: "Amit Kale", ContactNumber: "919000000004", TalukaID: "2", Services: "Decoration"},
			{ID: "5", CompanyName: "Ravi Tents", POCName: "Ravi Patil", ContactNumber: "9876543210", TalukaID: "1", Services: "Decoration"},
			{ID: "6", CompanyName: "Sai Sound", POCName: "Kiran More", ContactNumber: "9000000006", TalukaID: "2", Services: "Lighting"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/companies.php", d.listCompanies)
	mux.HandleFunc("/api/admin/new_tal.php", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": d.talukas})
	})
	mux.HandleFunc("/api/admin/new_serv.php", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		writeJSON(w, http.StatusOK, d.services)
	})
	mux.HandleFunc("/api/admin/edit_company.php", d.editCompany)
	mux.HandleFunc("/api/admin/delete_company.php", d.deleteCompany)
	mux.HandleFunc("/api/admin/register.php", d.register)

	d.Server = httptest.NewServer(d.authorize(mux))
	return d
}

// SetToken changes the accepted token; sessions holding the old one get 401
func (d *FakeDirectory) SetToken(token string) {
	d.mu.Lock()
	d.token = token
	d.mu.Unlock()
}

// Calls returns the number of requests received
func (d *FakeDirectory) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Company returns a copy of the stored company with id
func (d *FakeDirectory) Company(id domain.ID) (domain.Company, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.companies {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Company{}, false
}

// LastEdit returns the last edit_company.php body
func (d *FakeDirectory) LastEdit() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastEdit
}

func (d *FakeDirectory) Close() { d.Server.Close() }

func (d *FakeDirectory) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.calls++
		ok := r.Header.Get("Authorization") == "Bearer "+d.token
		d.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (d *FakeDirectory) listCompanies(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	taluka := r.URL.Query().Get("taluka_id")
	services := r.URL.Query()["service_ids[]"]
	names := map[string]bool{}
	for _, s := range d.services {
		for _, id := range services {
			if string(s.ID) == id {
				names[s.Name] = true
			}
		}
	}

	out := []domain.Company{}
	for _, c := range d.companies {
		if taluka != "" && string(c.TalukaID) != taluka {
			continue
		}
		if len(names) > 0 {
			match := false
			for _, n := range c.ServiceNames() {
				if names[n] {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, out)
}

type companyBody struct {
	CompanyID   domain.ID            `json:"company_id"`
	CompanyData domain.CompanyFields `json:"company_data"`
	ServiceIDs  []int64              `json:"service_ids"`
}

func (d *FakeDirectory) decode(r *http.Request) (companyBody, map[string]any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return companyBody{}, nil, err
	}
	var body companyBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return companyBody{}, nil, err
	}
	var generic map[string]any
	_ = json.Unmarshal(raw, &generic)
	return body, generic, nil
}

func (d *FakeDirectory) serviceNames(ids []int64) string {
	var names []string
	for _, id := range ids {
		for _, s := range d.services {
			if string(s.ID) == fmt.Sprint(id) {
				names = append(names, s.Name)
			}
		}
	}
	return strings.Join(names, ", ")
}

func (d *FakeDirectory) editCompany(w http.ResponseWriter, r *http.Request) {
	body, generic, err := d.decode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastEdit = generic
	for i, c := range d.companies {
		if c.ID != body.CompanyID {
			continue
		}
		f := body.CompanyData
		c.CompanyName, c.POCName, c.Address = f.CompanyName, f.POCName, f.Address
		c.Email, c.ContactNumber = f.Email, f.ContactNumber
		c.TalukaID = domain.ID(fmt.Sprint(f.TalukaID))
		c.Services = d.serviceNames(body.ServiceIDs)
		d.companies[i] = c
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Company updated"})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Company not found"})
}

func (d *FakeDirectory) deleteCompany(w http.ResponseWriter, r *http.Request) {
	body, _, err := d.decode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, c := range d.companies {
		if c.ID == body.CompanyID {
			d.companies = append(d.companies[:i], d.companies[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Company not found"})
}

func (d *FakeDirectory) register(w http.ResponseWriter, r *http.Request) {
	body, _, err := d.decode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	f := body.CompanyData
	for _, c := range d.companies {
		if strings.EqualFold(c.Email, f.Email) && f.Email != "" {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Email already registered"})
			return
		}
	}
	d.nextID++
	d.companies = append(d.companies, domain.Company{
		ID:            domain.ID(fmt.Sprint(d.nextID)),
		CompanyName:   f.CompanyName,
		POCName:       f.POCName,
		Address:       f.Address,
		Email:         f.Email,
		ContactNumber: f.ContactNumber,
		TalukaID:      domain.ID(fmt.Sprint(f.TalukaID)),
		Services:      d.serviceNames(body.ServiceIDs),
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Registered"})
}

// GatewayRequest is one call received by FakeGateway
type GatewayRequest struct {
	Method   string
	Endpoint string
	Phone    string
	Message  string
	Name     string
	Filename string
	FileData []byte
}

// FakeGateway imitates the messagesapi WhatsApp endpoints
type FakeGateway struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []GatewayRequest
	failing  map[string]bool
}

// NewFakeGateway starts a gateway that fails for the listed phones
func NewFakeGateway(failing ...string) *FakeGateway {
	g := &FakeGateway{failing: map[string]bool{}}
	for _, p := range failing {
		g.failing[p] = true
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.handle))
	return g
}

// Requests returns the received calls in arrival order
func (g *FakeGateway) Requests() []GatewayRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GatewayRequest, len(g.requests))
	copy(out, g.requests)
	return out
}

func (g *FakeGateway) Close() { g.Server.Close() }

func (g *FakeGateway) handle(w http.ResponseWriter, r *http.Request) {
	// /chat/{endpoint}/{id}/{device}[/{phone}/{text}]
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/chat/"), "/")
	if len(parts) < 3 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	req := GatewayRequest{Method: r.Method, Endpoint: parts[0]}

	switch {
	case r.Method == http.MethodGet && parts[0] == "sendMessage" && len(parts) >= 5:
		req.Phone = parts[3]
		req.Message = strings.Join(parts[4:], "/")
	case r.Method == http.MethodPost:
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		req.Phone = r.FormValue("phone")
		req.Message = r.FormValue("message")
		req.Name = r.FormValue("name")
		if f, fh, err := r.FormFile("file"); err == nil {
			req.Filename = fh.Filename
			req.FileData, _ = io.ReadAll(f)
			f.Close()
		}
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	g.mu.Lock()
	g.requests = append(g.requests, req)
	fail := g.failing[req.Phone]
	g.mu.Unlock()

	if fail {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Number not on WhatsApp"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Message queued"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
