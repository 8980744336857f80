package access

import (
	"errors"
	"strings"
	"testing"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"go.uber.org/zap/zaptest"
)

// recordingReporter captures telemetry calls for assertions.
type recordingReporter struct {
	denials  []string
	captured []error
}

func (r *recordingReporter) PermissionDenied(_ *models.Collaborator, permission, _ string) {
	r.denials = append(r.denials, permission)
}

func (r *recordingReporter) CaptureError(err error, _ string) {
	r.captured = append(r.captured, err)
}

func (r *recordingReporter) Close() {}

func TestAllowedMatrix(t *testing.T) {
	grants := map[models.Role]map[Permission]bool{
		models.RoleManagement: {
			ViewClient:          true,
			ManageCollaborators: true,
			ManageContracts:     true,
			ViewContract:        true,
			ViewEvent:           true,
		},
		models.RoleSales: {
			AddClient:    true,
			ViewClient:   true,
			ViewContract: true,
			ViewEvent:    true,
		},
		models.RoleSupport: {
			ViewClient:   true,
			ViewContract: true,
			ViewEvent:    true,
		},
	}
	all := []Permission{
		ViewClient,
		AddClient,
		ManageCollaborators,
		ManageContracts,
		ViewContract,
		ViewEvent,
	}

	for role, expected := range grants {
		for _, perm := range all {
			if got := Allowed(role, perm); got != expected[perm] {
				t.Errorf("Allowed(%s, %s) = %v, want %v", role, perm, got, expected[perm])
			}
		}
	}
}

func TestGateRequire(t *testing.T) {
	tests := []struct {
		name         string
		actor        *models.Collaborator
		perm         Permission
		expectError  bool
		expectReport bool
	}{
		{
			name:  "management may manage collaborators",
			actor: &models.Collaborator{Username: "thomasg", Role: models.RoleManagement},
			perm:  ManageCollaborators,
		},
		{
			name:         "sales may not manage collaborators",
			actor:        &models.Collaborator{Username: "alexj", Role: models.RoleSales},
			perm:         ManageCollaborators,
			expectError:  true,
			expectReport: true,
		},
		{
			name:         "support may not add clients",
			actor:        &models.Collaborator{Username: "emmas", Role: models.RoleSupport},
			perm:         AddClient,
			expectError:  true,
			expectReport: true,
		},
		{
			name:  "sales may add clients",
			actor: &models.Collaborator{Username: "alexj", Role: models.RoleSales},
			perm:  AddClient,
		},
		{
			name:        "nil actor denied",
			actor:       nil,
			perm:        ViewClient,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			gate := NewGate(reporter, zaptest.NewLogger(t))

			err := gate.Require(tt.actor, tt.perm)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, e.ErrPermissionDenied) {
					t.Errorf("expected ErrPermissionDenied, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.expectReport && len(reporter.denials) != 1 {
				t.Errorf("expected 1 reported denial, got %d", len(reporter.denials))
			}
			if !tt.expectReport && len(reporter.denials) != 0 {
				t.Errorf("expected no reported denial, got %d", len(reporter.denials))
			}
		})
	}
}

func TestGateDenyDetail(t *testing.T) {
	reporter := &recordingReporter{}
	gate := NewGate(reporter, zaptest.NewLogger(t))
	actor := &models.Collaborator{Username: "alexj", Role: models.RoleSales}

	err := gate.Deny(actor, ViewClient, "client 7 belongs to another sales contact")
	if !errors.Is(err, e.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if !strings.Contains(err.Error(), "client 7") {
		t.Errorf("expected detail in error, got %q", err.Error())
	}
	if len(reporter.denials) != 1 {
		t.Errorf("expected 1 reported denial, got %d", len(reporter.denials))
	}
}
