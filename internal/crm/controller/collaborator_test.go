package controller

import (
	"context"
	"errors"
	"testing"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/epicevents/crm/internal/pkg/utils"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// MockCollaboratorRepository implements CollaboratorRepository for
// testing.
type MockCollaboratorRepository struct {
	createCollaborator      func(context.Context, *models.Collaborator) error
	getCollaborator         func(context.Context, uint) (*models.Collaborator, error)
	listCollaborators       func(context.Context) ([]models.Collaborator, error)
	listCollaboratorsByRole func(context.Context, models.Role) ([]models.Collaborator, error)
	updateCollaborator      func(context.Context, *models.CollaboratorUpdate) error
	deleteCollaborator      func(context.Context, uint) error
	usernameTaken           func(context.Context, string, uint) (bool, error)
	emailTaken              func(context.Context, string, uint) (bool, error)
	employeeNumberTaken     func(context.Context, string, uint) (bool, error)
}

func (m *MockCollaboratorRepository) CreateCollaborator(ctx context.Context, c *models.Collaborator) error {
	return m.createCollaborator(ctx, c)
}

func (m *MockCollaboratorRepository) GetCollaborator(ctx context.Context, id uint) (*models.Collaborator, error) {
	return m.getCollaborator(ctx, id)
}

func (m *MockCollaboratorRepository) ListCollaborators(ctx context.Context) ([]models.Collaborator, error) {
	return m.listCollaborators(ctx)
}

func (m *MockCollaboratorRepository) ListCollaboratorsByRole(ctx context.Context, role models.Role) ([]models.Collaborator, error) {
	return m.listCollaboratorsByRole(ctx, role)
}

func (m *MockCollaboratorRepository) UpdateCollaborator(ctx context.Context, u *models.CollaboratorUpdate) error {
	return m.updateCollaborator(ctx, u)
}

func (m *MockCollaboratorRepository) DeleteCollaborator(ctx context.Context, id uint) error {
	return m.deleteCollaborator(ctx, id)
}

func (m *MockCollaboratorRepository) CollaboratorUsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return m.usernameTaken(ctx, username, excludeID)
}

func (m *MockCollaboratorRepository) CollaboratorEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return m.emailTaken(ctx, email, excludeID)
}

func (m *MockCollaboratorRepository) CollaboratorEmployeeNumberTaken(ctx context.Context, number string, excludeID uint) (bool, error) {
	return m.employeeNumberTaken(ctx, number, excludeID)
}

// noneTaken wires all three uniqueness checks to report free values.
func noneTaken(m *MockCollaboratorRepository) {
	m.usernameTaken = func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil }
	m.emailTaken = func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil }
	m.employeeNumberTaken = func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil }
}

func validRegistration() RegisterCollaborator {
	return RegisterCollaborator{
		FirstName:      "Sophie",
		LastName:       "Martin",
		Username:       "sophiem",
		Email:          "sophie.martin@epicevents.example",
		EmployeeNumber: "EE-0042",
		Password:       "Str0ngPass",
		Role:           models.RoleSales,
	}
}

func TestCollaboratorService_Register(t *testing.T) {
	tests := []struct {
		name           string
		actor          *models.Collaborator
		mutate         func(*RegisterCollaborator)
		mockSetup      func(*MockCollaboratorRepository)
		expectError    bool
		expectedError  error
		expectedDenial string
	}{
		{
			name:   "successful registration",
			actor:  manager(),
			mutate: func(_ *RegisterCollaborator) {},
			mockSetup: func(mr *MockCollaboratorRepository) {
				noneTaken(mr)
				mr.createCollaborator = func(_ context.Context, c *models.Collaborator) error {
					c.ID = 7
					return nil
				}
			},
			expectError: false,
		},
		{
			name:           "denied for sales",
			actor:          salesRep(),
			mutate:         func(_ *RegisterCollaborator) {},
			mockSetup:      func(_ *MockCollaboratorRepository) {},
			expectError:    true,
			expectedError:  e.ErrPermissionDenied,
			expectedDenial: "manage_collaborators",
		},
		{
			name:   "duplicate username",
			actor:  manager(),
			mutate: func(_ *RegisterCollaborator) {},
			mockSetup: func(mr *MockCollaboratorRepository) {
				noneTaken(mr)
				mr.usernameTaken = func(_ context.Context, _ string, _ uint) (bool, error) { return true, nil }
			},
			expectError:   true,
			expectedError: e.ErrDuplicateUsername,
		},
		{
			name:  "weak password",
			actor: manager(),
			mutate: func(r *RegisterCollaborator) {
				r.Password = "alllowercase"
			},
			mockSetup:     func(_ *MockCollaboratorRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "malformed email",
			actor: manager(),
			mutate: func(r *RegisterCollaborator) {
				r.Email = "not-an-email"
			},
			mockSetup:     func(_ *MockCollaboratorRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "unknown role",
			actor: manager(),
			mutate: func(r *RegisterCollaborator) {
				r.Role = "director"
			},
			mockSetup:     func(_ *MockCollaboratorRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			mockRepo := &MockCollaboratorRepository{}
			tt.mockSetup(mockRepo)
			service := NewCollaboratorService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

			input := validRegistration()
			tt.mutate(&input)
			result, err := service.Register(context.Background(), tt.actor, input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.expectedError != nil && !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				checkDenial(t, reporter, tt.expectedDenial)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ID != 7 {
				t.Errorf("expected collaborator ID 7, got %d", result.ID)
			}
			if result.PasswordHash == "" || result.PasswordHash == input.Password {
				t.Error("expected the password to be stored hashed")
			}
			if err := bcrypt.CompareHashAndPassword([]byte(result.PasswordHash), []byte(input.Password)); err != nil {
				t.Errorf("stored hash does not match the password: %v", err)
			}
		})
	}
}

func TestCollaboratorService_Delete(t *testing.T) {
	tests := []struct {
		name           string
		actor          *models.Collaborator
		id             uint
		mockSetup      func(*MockCollaboratorRepository)
		expectError    bool
		expectedError  error
		expectedDenial string
	}{
		{
			name:  "management deletes an account",
			actor: manager(),
			id:    7,
			mockSetup: func(mr *MockCollaboratorRepository) {
				mr.deleteCollaborator = func(_ context.Context, _ uint) error { return nil }
			},
			expectError: false,
		},
		{
			name:           "sales cannot delete accounts",
			actor:          salesRep(),
			id:             7,
			mockSetup:      func(_ *MockCollaboratorRepository) {},
			expectError:    true,
			expectedError:  e.ErrPermissionDenied,
			expectedDenial: "manage_collaborators",
		},
		{
			name:           "support cannot delete accounts",
			actor:          supportRep(),
			id:             7,
			mockSetup:      func(_ *MockCollaboratorRepository) {},
			expectError:    true,
			expectedError:  e.ErrPermissionDenied,
			expectedDenial: "manage_collaborators",
		},
		{
			name:          "own account is protected",
			actor:         manager(),
			id:            1,
			mockSetup:     func(_ *MockCollaboratorRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "missing account",
			actor: manager(),
			id:    99,
			mockSetup: func(mr *MockCollaboratorRepository) {
				mr.deleteCollaborator = func(_ context.Context, _ uint) error { return e.ErrNotFound }
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			mockRepo := &MockCollaboratorRepository{}
			tt.mockSetup(mockRepo)
			service := NewCollaboratorService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

			err := service.Delete(context.Background(), tt.actor, tt.id)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.expectedError != nil && !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				checkDenial(t, reporter, tt.expectedDenial)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCollaboratorService_Update(t *testing.T) {
	existing := &models.Collaborator{
		ID:       7,
		Username: "sophiem",
		Email:    "sophie.martin@epicevents.example",
		Role:     models.RoleSales,
	}

	tests := []struct {
		name          string
		update        *models.CollaboratorUpdate
		mockSetup     func(*MockCollaboratorRepository)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful update re-checks uniqueness around the record",
			update: &models.CollaboratorUpdate{
				ID:       7,
				Username: utils.Ptr("sophie.martin"),
				Role:     utils.Ptr(models.RoleSupport),
			},
			mockSetup: func(mr *MockCollaboratorRepository) {
				mr.usernameTaken = func(_ context.Context, username string, excludeID uint) (bool, error) {
					if username != "sophie.martin" || excludeID != 7 {
						return true, nil
					}
					return false, nil
				}
				mr.updateCollaborator = func(_ context.Context, _ *models.CollaboratorUpdate) error { return nil }
				mr.getCollaborator = func(_ context.Context, _ uint) (*models.Collaborator, error) {
					updated := *existing
					updated.Username = "sophie.martin"
					updated.Role = models.RoleSupport
					return &updated, nil
				}
			},
			expectError: false,
		},
		{
			name: "duplicate email",
			update: &models.CollaboratorUpdate{
				ID:    7,
				Email: utils.Ptr("taken@epicevents.example"),
			},
			mockSetup: func(mr *MockCollaboratorRepository) {
				mr.emailTaken = func(_ context.Context, _ string, _ uint) (bool, error) { return true, nil }
			},
			expectError:   true,
			expectedError: e.ErrDuplicateEmail,
		},
		{
			name: "password hash rejected",
			update: &models.CollaboratorUpdate{
				ID:           7,
				PasswordHash: utils.Ptr("sneaky"),
			},
			mockSetup:     func(_ *MockCollaboratorRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "empty update rejected",
			update:        &models.CollaboratorUpdate{ID: 7},
			mockSetup:     func(_ *MockCollaboratorRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			mockRepo := &MockCollaboratorRepository{}
			tt.mockSetup(mockRepo)
			service := NewCollaboratorService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

			result, err := service.Update(context.Background(), manager(), tt.update)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Username != "sophie.martin" {
				t.Errorf("expected reloaded username, got %q", result.Username)
			}
			if result.Role != models.RoleSupport {
				t.Errorf("expected reloaded role, got %q", result.Role)
			}
		})
	}
}

func TestCollaboratorService_ChangePassword(t *testing.T) {
	reporter := &recordingReporter{}
	var stored *models.CollaboratorUpdate
	mockRepo := &MockCollaboratorRepository{
		updateCollaborator: func(_ context.Context, u *models.CollaboratorUpdate) error {
			stored = u
			return nil
		},
	}
	service := NewCollaboratorService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

	if err := service.ChangePassword(context.Background(), manager(), 7, "short"); err == nil {
		t.Fatal("expected the password rule to reject a short password")
	}
	if stored != nil {
		t.Fatal("expected no update for a rejected password")
	}

	if err := service.ChangePassword(context.Background(), manager(), 7, "N3wSecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.PasswordHash == nil {
		t.Fatal("expected the update to carry a password hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("N3wSecret")); err != nil {
		t.Errorf("stored hash does not match the new password: %v", err)
	}
}

func TestCollaboratorService_ListByRole(t *testing.T) {
	reporter := &recordingReporter{}
	mockRepo := &MockCollaboratorRepository{
		listCollaboratorsByRole: func(_ context.Context, role models.Role) ([]models.Collaborator, error) {
			if role != models.RoleSupport {
				t.Errorf("expected role support, got %q", role)
			}
			return []models.Collaborator{{ID: 3, Role: models.RoleSupport}}, nil
		},
	}
	service := NewCollaboratorService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

	got, err := service.ListByRole(context.Background(), manager(), models.RoleSupport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one collaborator, got %d", len(got))
	}

	if _, err := service.ListByRole(context.Background(), manager(), "director"); !errors.Is(err, e.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for an unknown role, got %v", err)
	}
}
