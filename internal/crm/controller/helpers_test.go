package controller

import (
	"testing"

	"github.com/epicevents/crm/internal/crm/access"
	"github.com/epicevents/crm/internal/crm/models"
	"go.uber.org/zap/zaptest"
)

// recordingReporter captures telemetry calls for assertions.
type recordingReporter struct {
	denials  []string
	captured []string
}

func (r *recordingReporter) PermissionDenied(_ *models.Collaborator, permission, _ string) {
	r.denials = append(r.denials, permission)
}

func (r *recordingReporter) CaptureError(_ error, operation string) {
	r.captured = append(r.captured, operation)
}

func (r *recordingReporter) Close() {}

func testGate(t *testing.T, reporter *recordingReporter) *access.Gate {
	t.Helper()
	return access.NewGate(reporter, zaptest.NewLogger(t))
}

func manager() *models.Collaborator {
	return &models.Collaborator{ID: 1, Username: "thomasg", Role: models.RoleManagement}
}

func salesRep() *models.Collaborator {
	return &models.Collaborator{ID: 2, Username: "alexj", Role: models.RoleSales}
}

func supportRep() *models.Collaborator {
	return &models.Collaborator{ID: 3, Username: "emmas", Role: models.RoleSupport}
}

// checkDenial verifies the reporter saw exactly the expected denied
// permission, or none.
func checkDenial(t *testing.T, reporter *recordingReporter, want string) {
	t.Helper()
	if want == "" {
		if len(reporter.denials) != 0 {
			t.Errorf("expected no reported denial, got %v", reporter.denials)
		}
		return
	}
	if len(reporter.denials) != 1 || reporter.denials[0] != want {
		t.Errorf("expected reported denial %q, got %v", want, reporter.denials)
	}
}
