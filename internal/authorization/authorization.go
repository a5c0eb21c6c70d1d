// Package authorization resolves API keys to roles and checks role
// permissions with casbin. Policies are persisted through the gorm adapter.
package authorization

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/linguahub/linguahub/internal/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnknownRole  = errors.New("unknown_role")
)

const (
	RoleOperator  = "operator"
	RoleRateAdmin = "rate_admin"

	ObjectQuotes = "quotes"
	ObjectRates  = "rates"

	ActionRead  = "read"
	ActionWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// defaultPolicies grant operators quoting and rate reads. Rate admins inherit
// operator and may also write rates.
var defaultPolicies = [][]string{
	{RoleOperator, ObjectQuotes, ActionRead},
	{RoleOperator, ObjectQuotes, ActionWrite},
	{RoleOperator, ObjectRates, ActionRead},
	{RoleRateAdmin, ObjectRates, ActionWrite},
}

// Principal is the identity behind an API key.
type Principal struct {
	Name string
	Role string
}

type Authorizer struct {
	enabled  bool
	keys     []config.APIKey
	enforcer *casbin.SyncedEnforcer
	log      *zap.Logger
}

func NewAuthorizer(db *gorm.DB, cfg config.Config, log *zap.Logger) (*Authorizer, error) {
	log = log.Named("authorization")

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("open policy adapter: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	a := &Authorizer{
		enabled:  cfg.Authorization.Enabled,
		keys:     cfg.Authorization.APIKeys,
		enforcer: enforcer,
		log:      log,
	}
	if err := a.ensurePolicies(); err != nil {
		return nil, err
	}
	return a, nil
}

// Enabled reports whether requests must carry an API key.
func (a *Authorizer) Enabled() bool {
	return a.enabled
}

func (a *Authorizer) ensurePolicies() error {
	for _, p := range defaultPolicies {
		if _, err := a.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	if _, err := a.enforcer.AddGroupingPolicy(RoleRateAdmin, RoleOperator); err != nil {
		return fmt.Errorf("add role inheritance: %w", err)
	}

	for _, key := range a.keys {
		if key.Role != RoleOperator && key.Role != RoleRateAdmin {
			return fmt.Errorf("%w: api key %q has role %q", ErrUnknownRole, key.Name, key.Role)
		}
		if _, err := a.enforcer.AddGroupingPolicy(key.Name, key.Role); err != nil {
			return fmt.Errorf("assign role to %q: %w", key.Name, err)
		}
	}
	a.log.Info("authorization policies loaded",
		zap.Bool("enabled", a.enabled),
		zap.Int("api_keys", len(a.keys)),
	)
	return nil
}

// Authenticate matches the presented key against the configured bcrypt hashes.
func (a *Authorizer) Authenticate(presented string) (Principal, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return Principal{}, ErrUnauthorized
	}
	for _, key := range a.keys {
		if bcrypt.CompareHashAndPassword([]byte(key.Hash), []byte(presented)) == nil {
			return Principal{Name: key.Name, Role: key.Role}, nil
		}
	}
	return Principal{}, ErrUnauthorized
}

// Authorize checks that the principal may perform act on obj.
func (a *Authorizer) Authorize(p Principal, obj, act string) error {
	ok, err := a.enforcer.Enforce(p.Name, obj, act)
	if err != nil {
		return fmt.Errorf("enforce %s %s: %w", obj, act, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s may not %s %s", ErrForbidden, p.Name, act, obj)
	}
	return nil
}
