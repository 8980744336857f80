package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/epicevents/crm/internal/crm/auth"
	"github.com/epicevents/crm/internal/crm/controller"
	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"go.uber.org/zap"
)

// Services bundles the controllers the menus dispatch to.
type Services struct {
	Auth          *auth.Service
	Collaborators *controller.CollaboratorService
	Clients       *controller.ClientService
	Contracts     *controller.ContractService
	Events        *controller.EventService
}

// App drives a session from login to exit: one menu loop per role,
// every operation going through the services.
type App struct {
	view   *View
	svc    Services
	logger *zap.Logger
}

// NewApp constructs the terminal application.
func NewApp(view *View, svc Services, logger *zap.Logger) *App {
	return &App{
		view:   view,
		svc:    svc,
		logger: logger.Named("cli"),
	}
}

// Run signs the collaborator in and hands over to their role's menu.
// fresh discards any saved session first.
func (a *App) Run(ctx context.Context, fresh bool) error {
	actor, err := a.signIn(ctx, fresh)
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Welcome %s!", actor.FullName()))

	switch actor.Role {
	case models.RoleManagement:
		err = a.managementLoop(ctx, actor)
	case models.RoleSales:
		err = a.salesLoop(ctx, actor)
	case models.RoleSupport:
		err = a.supportLoop(ctx, actor)
	default:
		return fmt.Errorf("account %s has unknown role %q", actor.Username, actor.Role)
	}
	if err != nil {
		return err
	}

	a.view.Info("Thank you for using CRM Events, until next time!")
	return nil
}

// signIn resumes a saved session when one is still valid, otherwise
// prompts for credentials until they check out.
func (a *App) signIn(ctx context.Context, fresh bool) (*models.Collaborator, error) {
	if fresh {
		if err := a.svc.Auth.Logout(); err != nil {
			a.logger.Warn("failed to clear the saved session", zap.Error(err))
		}
	} else {
		actor, err := a.svc.Auth.Resume(ctx)
		if err == nil {
			a.view.Info(fmt.Sprintf("Resumed session for %s.", actor.Username))
			return actor, nil
		}
		if !errors.Is(err, e.ErrNoSession) {
			a.logger.Debug("could not resume session", zap.Error(err))
		}
	}

	a.view.Title("Welcome to CRM Events")
	for {
		username, err := a.view.PromptText("Username", 50)
		if err != nil {
			return nil, err
		}
		password, err := a.view.PromptPassword("Password")
		if err != nil {
			return nil, err
		}
		actor, err := a.svc.Auth.Login(ctx, username, password)
		if err != nil {
			if errors.Is(err, e.ErrInvalidCredentials) {
				a.view.Error("Incorrect username or password.")
				continue
			}
			return nil, err
		}
		return actor, nil
	}
}

// report renders a failed operation and keeps the session alive.
// Input stream failures abort instead.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	a.view.Error(err.Error())
	return nil
}

// anotherOperation asks whether to stay in the menu loop.
func (a *App) anotherOperation() (bool, error) {
	return a.view.PromptYesNo("Perform another operation?")
}

func (a *App) showClients(ctx context.Context, actor *models.Collaborator) error {
	clients, err := a.svc.Clients.List(ctx, actor)
	if err != nil {
		return err
	}
	a.view.ClientsTable(clients)
	return nil
}

func (a *App) showContracts(ctx context.Context, actor *models.Collaborator) error {
	filter, err := a.promptContractFilter()
	if err != nil {
		return err
	}
	contracts, err := a.svc.Contracts.List(ctx, actor, filter)
	if err != nil {
		return err
	}
	a.view.ContractsTable(contracts)
	return nil
}

func (a *App) showEvents(ctx context.Context, actor *models.Collaborator) error {
	events, err := a.svc.Events.List(ctx, actor)
	if err != nil {
		return err
	}
	a.view.EventsTable(events)
	return nil
}

func (a *App) promptContractFilter() (models.ContractFilter, error) {
	filters := []models.ContractFilter{
		models.ContractFilterAll,
		models.ContractFilterSigned,
		models.ContractFilterNotSigned,
		models.ContractFilterUnpaid,
	}
	choice, err := a.view.PromptMenu("Which contracts?", []string{
		"All",
		"Signed",
		"Not signed",
		"Not fully paid",
	})
	if err != nil {
		return "", err
	}
	return filters[choice-1], nil
}
