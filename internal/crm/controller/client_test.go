package controller

import (
	"context"
	"errors"
	"testing"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/epicevents/crm/internal/pkg/utils"
	"go.uber.org/zap/zaptest"
)

// MockClientRepository implements ClientRepository for testing.
type MockClientRepository struct {
	createClient              func(context.Context, *models.Client) error
	getClient                 func(context.Context, uint) (*models.Client, error)
	listClients               func(context.Context) ([]models.Client, error)
	listClientsBySalesContact func(context.Context, uint) ([]models.Client, error)
	updateClient              func(context.Context, *models.ClientUpdate) error
	deleteClient              func(context.Context, uint) error
	clientEmailTaken          func(context.Context, string, uint) (bool, error)
}

func (m *MockClientRepository) CreateClient(ctx context.Context, c *models.Client) error {
	return m.createClient(ctx, c)
}

func (m *MockClientRepository) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	return m.getClient(ctx, id)
}

func (m *MockClientRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	return m.listClients(ctx)
}

func (m *MockClientRepository) ListClientsBySalesContact(ctx context.Context, id uint) ([]models.Client, error) {
	return m.listClientsBySalesContact(ctx, id)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, u *models.ClientUpdate) error {
	return m.updateClient(ctx, u)
}

func (m *MockClientRepository) DeleteClient(ctx context.Context, id uint) error {
	return m.deleteClient(ctx, id)
}

func (m *MockClientRepository) ClientEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return m.clientEmailTaken(ctx, email, excludeID)
}

func validClientInput() CreateClient {
	return CreateClient{
		FullName:    "Kevin Casey",
		Email:       "kevin@startup.example",
		Phone:       "+678 123 456 78",
		CompanyName: "Cool Startup LLC",
	}
}

func TestClientService_Create(t *testing.T) {
	tests := []struct {
		name           string
		actor          *models.Collaborator
		mutate         func(*CreateClient)
		mockSetup      func(*MockClientRepository)
		expectError    bool
		expectedError  error
		expectedDenial string
	}{
		{
			name:   "sales creates and owns the client",
			actor:  salesRep(),
			mutate: func(_ *CreateClient) {},
			mockSetup: func(mr *MockClientRepository) {
				mr.clientEmailTaken = func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil }
				mr.createClient = func(_ context.Context, c *models.Client) error {
					c.ID = 11
					return nil
				}
			},
			expectError: false,
		},
		{
			name:           "denied for support",
			actor:          supportRep(),
			mutate:         func(_ *CreateClient) {},
			mockSetup:      func(_ *MockClientRepository) {},
			expectError:    true,
			expectedError:  e.ErrPermissionDenied,
			expectedDenial: "add_client",
		},
		{
			name:           "denied for management",
			actor:          manager(),
			mutate:         func(_ *CreateClient) {},
			mockSetup:      func(_ *MockClientRepository) {},
			expectError:    true,
			expectedError:  e.ErrPermissionDenied,
			expectedDenial: "add_client",
		},
		{
			name:   "duplicate email",
			actor:  salesRep(),
			mutate: func(_ *CreateClient) {},
			mockSetup: func(mr *MockClientRepository) {
				mr.clientEmailTaken = func(_ context.Context, _ string, _ uint) (bool, error) { return true, nil }
			},
			expectError:   true,
			expectedError: e.ErrDuplicateEmail,
		},
		{
			name:  "malformed email",
			actor: salesRep(),
			mutate: func(c *CreateClient) {
				c.Email = "kevin-at-startup"
			},
			mockSetup:     func(_ *MockClientRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "empty full name",
			actor: salesRep(),
			mutate: func(c *CreateClient) {
				c.FullName = "   "
			},
			mockSetup:     func(_ *MockClientRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			mockRepo := &MockClientRepository{}
			tt.mockSetup(mockRepo)
			service := NewClientService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

			input := validClientInput()
			tt.mutate(&input)
			result, err := service.Create(context.Background(), tt.actor, input)

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
			if result.ID != 11 {
				t.Errorf("expected client ID 11, got %d", result.ID)
			}
			if result.SalesContactID == nil || *result.SalesContactID != tt.actor.ID {
				t.Error("expected the client to be attributed to the acting collaborator")
			}
		})
	}
}

func TestClientService_Update(t *testing.T) {
	ownedBySales := func() *models.Client {
		return &models.Client{
			ID:             11,
			FullName:       "Kevin Casey",
			Email:          "kevin@startup.example",
			SalesContactID: utils.Ptr(uint(2)),
		}
	}

	tests := []struct {
		name           string
		actor          *models.Collaborator
		update         *models.ClientUpdate
		mockSetup      func(*MockClientRepository)
		expectError    bool
		expectedError  error
		expectedDenial string
	}{
		{
			name:   "owning sales updates the client",
			actor:  salesRep(),
			update: &models.ClientUpdate{ID: 11, Phone: utils.Ptr("+678 987 654 32")},
			mockSetup: func(mr *MockClientRepository) {
				mr.getClient = func(_ context.Context, _ uint) (*models.Client, error) { return ownedBySales(), nil }
				mr.updateClient = func(_ context.Context, _ *models.ClientUpdate) error { return nil }
			},
			expectError: false,
		},
		{
			name:   "denied for another sales collaborator",
			actor:  &models.Collaborator{ID: 9, Username: "other", Role: models.RoleSales},
			update: &models.ClientUpdate{ID: 11, Phone: utils.Ptr("+1 555 0100")},
			mockSetup: func(mr *MockClientRepository) {
				mr.getClient = func(_ context.Context, _ uint) (*models.Client, error) { return ownedBySales(), nil }
			},
			expectError:    true,
			expectedError:  e.ErrPermissionDenied,
			expectedDenial: "update_client",
		},
		{
			name:   "denied for management",
			actor:  manager(),
			update: &models.ClientUpdate{ID: 11, Phone: utils.Ptr("+1 555 0100")},
			mockSetup: func(mr *MockClientRepository) {
				mr.getClient = func(_ context.Context, _ uint) (*models.Client, error) { return ownedBySales(), nil }
			},
			expectError:    true,
			expectedError:  e.ErrPermissionDenied,
			expectedDenial: "update_client",
		},
		{
			name:          "sales contact reassignment rejected",
			actor:         salesRep(),
			update:        &models.ClientUpdate{ID: 11, SalesContactID: utils.Ptr(uint(9))},
			mockSetup:     func(_ *MockClientRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:   "missing client",
			actor:  salesRep(),
			update: &models.ClientUpdate{ID: 99, Phone: utils.Ptr("+1 555 0100")},
			mockSetup: func(mr *MockClientRepository) {
				mr.getClient = func(_ context.Context, _ uint) (*models.Client, error) { return nil, e.ErrNotFound }
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			mockRepo := &MockClientRepository{}
			tt.mockSetup(mockRepo)
			service := NewClientService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

			_, err := service.Update(context.Background(), tt.actor, tt.update)

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

func TestClientService_Delete(t *testing.T) {
	reporter := &recordingReporter{}
	deleted := uint(0)
	mockRepo := &MockClientRepository{
		deleteClient: func(_ context.Context, id uint) error {
			deleted = id
			return nil
		},
	}
	service := NewClientService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

	if err := service.Delete(context.Background(), salesRep(), 11); !errors.Is(err, e.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for sales, got %v", err)
	}
	checkDenial(t, reporter, "delete_client")
	if deleted != 0 {
		t.Fatal("expected no deletion for a denied actor")
	}

	if err := service.Delete(context.Background(), manager(), 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 11 {
		t.Errorf("expected client 11 deleted, got %d", deleted)
	}
}

func TestClientService_ListMine(t *testing.T) {
	reporter := &recordingReporter{}
	mockRepo := &MockClientRepository{
		listClientsBySalesContact: func(_ context.Context, id uint) ([]models.Client, error) {
			if id != 2 {
				t.Errorf("expected the acting collaborator's ID, got %d", id)
			}
			return []models.Client{{ID: 11}}, nil
		},
	}
	service := NewClientService(mockRepo, testGate(t, reporter), reporter, zaptest.NewLogger(t))

	got, err := service.ListMine(context.Background(), salesRep())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one client, got %d", len(got))
	}
}
