// Package access implements the authorization gate: a static
// role-to-permission table checked before every guarded operation.
package access

import (
	"fmt"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/epicevents/crm/internal/crm/telemetry"
	"go.uber.org/zap"
)

// Permission names an operation a role may be granted.
type Permission string

const (
	ViewClient          Permission = "view_client"
	AddClient           Permission = "add_client"
	ManageCollaborators Permission = "manage_collaborators"
	ManageContracts     Permission = "manage_contracts_creation_modification"
	ViewContract        Permission = "view_contract"
	ViewEvent           Permission = "view_event"
)

// Operations decided by ownership rules in the services rather than by
// the table. They name the denial when such a rule fails; no role is
// granted them directly.
const (
	UpdateClient   Permission = "update_client"
	DeleteClient   Permission = "delete_client"
	UpdateContract Permission = "update_contract"
	DeleteContract Permission = "delete_contract"
	AddEvent       Permission = "add_event"
	UpdateEvent    Permission = "update_event"
	DeleteEvent    Permission = "delete_event"
	AssignSupport  Permission = "assign_support_contact"
)

// rolePermissions is the full grant table. Rules that depend on record
// ownership are enforced by the services, not listed here.
var rolePermissions = map[models.Role][]Permission{
	models.RoleManagement: {
		ViewClient,
		ManageCollaborators,
		ManageContracts,
		ViewContract,
		ViewEvent,
	},
	models.RoleSales: {
		AddClient,
		ViewClient,
		ViewContract,
		ViewEvent,
	},
	models.RoleSupport: {
		ViewClient,
		ViewContract,
		ViewEvent,
	},
}

// Allowed reports whether the role grants the permission.
func Allowed(role models.Role, perm Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == perm {
			return true
		}
	}
	return false
}

// Gate answers allow/deny for an actor and a permission. Every denial
// is logged and forwarded to the telemetry reporter.
type Gate struct {
	reporter telemetry.Reporter
	logger   *zap.Logger
}

// NewGate constructs a Gate with a telemetry reporter and a logger.
func NewGate(reporter telemetry.Reporter, logger *zap.Logger) *Gate {
	return &Gate{
		reporter: reporter,
		logger:   logger.Named("access_gate"),
	}
}

// Require returns nil when the actor's role grants the permission and
// a wrapped ErrPermissionDenied otherwise.
func (g *Gate) Require(actor *models.Collaborator, perm Permission) error {
	if actor == nil {
		return fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if Allowed(actor.Role, perm) {
		return nil
	}
	return g.Deny(actor, perm, "")
}

// Deny records a denial and returns the error handed back to the
// caller. Services use it directly for ownership rules the table
// cannot express, so scoped denials are reported the same way.
func (g *Gate) Deny(actor *models.Collaborator, perm Permission, detail string) error {
	g.logger.Warn("permission denied",
		zap.String("username", actor.Username),
		zap.String("role", string(actor.Role)),
		zap.String("permission", string(perm)),
		zap.String("detail", detail),
	)
	g.reporter.PermissionDenied(actor, string(perm), detail)
	if detail != "" {
		return fmt.Errorf("%w: %s", e.ErrPermissionDenied, detail)
	}
	return fmt.Errorf("%w: role %s lacks %s", e.ErrPermissionDenied, actor.Role, perm)
}
