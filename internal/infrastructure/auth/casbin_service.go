package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/rahulwaghole14/mandap/domain"
	"gorm.io/gorm"
)

// DefaultPolicies grant admin everything and keep operators away from
// deletes and policy inspection.
var DefaultPolicies = [][]string{
	{domain.RoleAdmin, "/api/*", "(GET|POST|PUT|DELETE)"},
	{domain.RoleOperator, "/api/auth/*", "(GET|POST)"},
	{domain.RoleOperator, "/api/filters", "GET"},
	{domain.RoleOperator, "/api/companies", "(GET|POST)"},
	{domain.RoleOperator, "/api/companies/:id", "PUT"},
	{domain.RoleOperator, "/api/companies/:id/edit", "GET"},
	{domain.RoleOperator, "/api/contacts", "GET"},
	{domain.RoleOperator, "/api/contacts/*", "POST"},
}

type CasbinService struct{ E *casbin.Enforcer }

func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}
	E, err := casbin.NewEnforcer(modelPath, adp)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("casbin load policy: %w", err)
	}
	return &CasbinService{E}, nil
}

// SeedDefaults stores DefaultPolicies when no policy exists yet. It reports
// whether anything was written.
func (s *CasbinService) SeedDefaults() (bool, error) {
	policies, err := s.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return false, nil
	}
	for _, p := range DefaultPolicies {
		if _, err := s.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return false, fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	return true, s.E.SavePolicy()
}
