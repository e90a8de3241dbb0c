package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID is an identifier issued by the directory API. The PHP endpoints return
// it as a JSON number on some rows and as a string on others.
type ID string

// UnmarshalJSON accepts both numbers and strings
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := id.Int(); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// Int parses the id as a base-10 integer
func (id ID) Int() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(string(id)), 10, 64)
}

func (id ID) String() string { return string(id) }

// Company is a registered vendor as returned by companies.php
type Company struct {
	ID            ID     `json:"id"`
	CompanyName   string `json:"company_name"`
	POCName       string `json:"poc_name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	TalukaID      ID     `json:"taluka_id"`
	Taluka        string `json:"taluka,omitempty"`
	// Services is the comma-separated list of service names
	Services   string `json:"services,omitempty"`
	ServiceIDs []ID   `json:"service_ids,omitempty"`
}

// ServiceNames splits the services column into trimmed names
func (c Company) ServiceNames() []string {
	if strings.TrimSpace(c.Services) == "" {
		return nil
	}
	parts := strings.Split(c.Services, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// Taluka is an administrative sub-region
type Taluka struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Service is a business-service category offered by companies
type Service struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// CompanyFields carries the editable columns sent as company_data
type CompanyFields struct {
	CompanyName   string `json:"company_name"`
	POCName       string `json:"poc_name"`
	Address       string `json:"address"`
	TalukaID      int64  `json:"taluka_id"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	Password      string `json:"password,omitempty"`
}

// CompanyFilter narrows companies.php server-side
type CompanyFilter struct {
	TalukaID   string
	ServiceIDs []string
}

// Contact is a recipient projected from a company. Never persisted.
type Contact struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}

// Admin represents an operator account allowed to use the admin screens
type Admin struct {
	ID           uint
	Email        string
	PasswordHash string `gorm:"column:password"`
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credentials represents a login attempt
type Credentials struct {
	Email    string
	Password string
}

// AuthResult represents authentication outcome
type AuthResult struct {
	Admin       *Admin
	AccessToken string
	SessionID   string
	ExpiresIn   int64
}

// Session represents an authenticated admin session
type Session struct {
	ID            string    `json:"id"`
	AdminID       uint      `json:"admin_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	UpstreamToken string    `json:"upstream_token"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExpiresWith reports whether a directory response status ends the session
func (s *Session) ExpiresWith(status int) bool {
	return StatusExpiresSession(status)
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}

// StatusExpiresSession is true for the statuses the directory API uses for
// invalid or expired credentials.
func StatusExpiresSession(status int) bool {
	return status == 401 || status == 403
}
