package cli

import (
	"context"
	"fmt"

	"github.com/epicevents/crm/internal/crm/controller"
	"github.com/epicevents/crm/internal/crm/models"
)

func (a *App) managementLoop(ctx context.Context, actor *models.Collaborator) error {
	for {
		choice, err := a.view.PromptMenu(
			fmt.Sprintf("Main menu - %s (management)", actor.Username),
			[]string{
				"Manage collaborators",
				"Manage contracts",
				"Events without a support contact",
				"Assign support to an event",
				"View all clients",
				"View all contracts",
				"View all events",
				"Delete a client",
				"Delete an event",
				"Exit",
			})
		if err != nil {
			return err
		}

		var opErr error
		switch choice {
		case 1:
			opErr = a.manageCollaborators(ctx, actor)
		case 2:
			opErr = a.manageContracts(ctx, actor)
		case 3:
			opErr = a.showEventsWithoutSupport(ctx, actor)
		case 4:
			opErr = a.assignSupport(ctx, actor)
		case 5:
			opErr = a.showClients(ctx, actor)
		case 6:
			opErr = a.showContracts(ctx, actor)
		case 7:
			opErr = a.showEvents(ctx, actor)
		case 8:
			opErr = a.deleteClient(ctx, actor)
		case 9:
			opErr = a.deleteEvent(ctx, actor)
		case 10:
			return nil
		}
		if err := a.report(opErr); err != nil {
			return err
		}

		again, err := a.anotherOperation()
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (a *App) manageCollaborators(ctx context.Context, actor *models.Collaborator) error {
	choice, err := a.view.PromptMenu("Collaborators", []string{
		"Create a collaborator",
		"Update a collaborator",
		"Change a collaborator's password",
		"Delete a collaborator",
		"List collaborators",
		"Back",
	})
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.createCollaborator(ctx, actor)
	case 2:
		return a.updateCollaborator(ctx, actor)
	case 3:
		return a.changeCollaboratorPassword(ctx, actor)
	case 4:
		return a.deleteCollaborator(ctx, actor)
	case 5:
		return a.listCollaborators(ctx, actor)
	}
	return nil
}

func (a *App) createCollaborator(ctx context.Context, actor *models.Collaborator) error {
	firstName, err := a.view.PromptText("First name", 50)
	if err != nil {
		return err
	}
	lastName, err := a.view.PromptText("Last name", 50)
	if err != nil {
		return err
	}
	username, err := a.view.PromptText("Username", 50)
	if err != nil {
		return err
	}
	email, err := a.view.PromptEmail("Email")
	if err != nil {
		return err
	}
	employeeNumber, err := a.view.PromptText("Employee number", 50)
	if err != nil {
		return err
	}
	role, err := a.promptRole()
	if err != nil {
		return err
	}
	password, err := a.view.PromptNewPassword()
	if err != nil {
		return err
	}

	collaborator, err := a.svc.Collaborators.Register(ctx, actor, controller.RegisterCollaborator{
		FirstName:      firstName,
		LastName:       lastName,
		Username:       username,
		Email:          email,
		EmployeeNumber: employeeNumber,
		Password:       password,
		Role:           role,
	})
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Collaborator %s created with ID %d.", collaborator.Username, collaborator.ID))
	return nil
}

func (a *App) updateCollaborator(ctx context.Context, actor *models.Collaborator) error {
	if err := a.listCollaborators(ctx, actor); err != nil {
		return err
	}
	id, err := a.view.PromptID("Collaborator ID")
	if err != nil {
		return err
	}

	update := &models.CollaboratorUpdate{ID: id}
	if update.FirstName, err = a.view.PromptOptionalText("First name", 50); err != nil {
		return err
	}
	if update.LastName, err = a.view.PromptOptionalText("Last name", 50); err != nil {
		return err
	}
	if update.Username, err = a.view.PromptOptionalText("Username", 50); err != nil {
		return err
	}
	if update.Email, err = a.view.PromptOptionalEmail("Email"); err != nil {
		return err
	}
	if update.EmployeeNumber, err = a.view.PromptOptionalText("Employee number", 50); err != nil {
		return err
	}
	keepRole, err := a.view.PromptYesNo("Keep the current role?")
	if err != nil {
		return err
	}
	if !keepRole {
		role, err := a.promptRole()
		if err != nil {
			return err
		}
		update.Role = &role
	}
	if update.Empty() {
		a.view.Info("Nothing to change.")
		return nil
	}

	collaborator, err := a.svc.Collaborators.Update(ctx, actor, update)
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Collaborator %s updated.", collaborator.Username))
	return nil
}

func (a *App) changeCollaboratorPassword(ctx context.Context, actor *models.Collaborator) error {
	if err := a.listCollaborators(ctx, actor); err != nil {
		return err
	}
	id, err := a.view.PromptID("Collaborator ID")
	if err != nil {
		return err
	}
	password, err := a.view.PromptNewPassword()
	if err != nil {
		return err
	}
	if err := a.svc.Collaborators.ChangePassword(ctx, actor, id, password); err != nil {
		return err
	}
	a.view.Success("Password changed.")
	return nil
}

func (a *App) deleteCollaborator(ctx context.Context, actor *models.Collaborator) error {
	if err := a.listCollaborators(ctx, actor); err != nil {
		return err
	}
	id, err := a.view.PromptID("Collaborator ID")
	if err != nil {
		return err
	}
	confirmed, err := a.view.PromptYesNo(fmt.Sprintf("Delete collaborator %d?", id))
	if err != nil {
		return err
	}
	if !confirmed {
		a.view.Info("Nothing deleted.")
		return nil
	}
	if err := a.svc.Collaborators.Delete(ctx, actor, id); err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Collaborator %d deleted.", id))
	return nil
}

func (a *App) listCollaborators(ctx context.Context, actor *models.Collaborator) error {
	collaborators, err := a.svc.Collaborators.List(ctx, actor)
	if err != nil {
		return err
	}
	a.view.CollaboratorsTable(collaborators)
	return nil
}

func (a *App) promptRole() (models.Role, error) {
	roles := []models.Role{models.RoleManagement, models.RoleSales, models.RoleSupport}
	choice, err := a.view.PromptMenu("Role", []string{"Management", "Sales", "Support"})
	if err != nil {
		return "", err
	}
	return roles[choice-1], nil
}

func (a *App) manageContracts(ctx context.Context, actor *models.Collaborator) error {
	choice, err := a.view.PromptMenu("Contracts", []string{
		"Create a contract",
		"Update a contract",
		"Delete a contract",
		"List contracts",
		"Back",
	})
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.createContract(ctx, actor)
	case 2:
		return a.updateContract(ctx, actor, false)
	case 3:
		return a.deleteContract(ctx, actor)
	case 4:
		return a.showContracts(ctx, actor)
	}
	return nil
}

func (a *App) createContract(ctx context.Context, actor *models.Collaborator) error {
	if err := a.showClients(ctx, actor); err != nil {
		return err
	}
	clientID, err := a.view.PromptID("Client ID")
	if err != nil {
		return err
	}
	total, err := a.view.PromptDecimal("Total amount")
	if err != nil {
		return err
	}
	remaining, err := a.view.PromptDecimal("Amount remaining")
	if err != nil {
		return err
	}
	signed, err := a.view.PromptYesNo("Is the contract signed?")
	if err != nil {
		return err
	}
	status := models.ContractNotSigned
	if signed {
		status = models.ContractSigned
	}

	contract, err := a.svc.Contracts.Create(ctx, actor, controller.CreateContract{
		ClientID:        clientID,
		TotalAmount:     total,
		AmountRemaining: remaining,
		Status:          status,
	})
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Contract %d created for client %d.", contract.ID, contract.ClientID))
	return nil
}

// updateContract serves both management (any contract, may reassign
// the sales contact) and sales (their own contracts).
func (a *App) updateContract(ctx context.Context, actor *models.Collaborator, mineOnly bool) error {
	filter := models.ContractFilterAll
	var contracts []models.Contract
	var err error
	if mineOnly {
		contracts, err = a.svc.Contracts.ListMine(ctx, actor, filter)
	} else {
		contracts, err = a.svc.Contracts.List(ctx, actor, filter)
	}
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		a.view.Info("No contracts to update.")
		return nil
	}
	a.view.ContractsTable(contracts)

	id, err := a.view.PromptID("Contract ID")
	if err != nil {
		return err
	}
	update := &models.ContractUpdate{ID: id}
	if update.TotalAmount, err = a.view.PromptOptionalDecimal("Total amount"); err != nil {
		return err
	}
	if update.AmountRemaining, err = a.view.PromptOptionalDecimal("Amount remaining"); err != nil {
		return err
	}
	statusChoice, err := a.view.PromptMenu("Status", []string{"Keep current", "Signed", "Not signed"})
	if err != nil {
		return err
	}
	switch statusChoice {
	case 2:
		signed := models.ContractSigned
		update.Status = &signed
	case 3:
		notSigned := models.ContractNotSigned
		update.Status = &notSigned
	}
	if actor.Role == models.RoleManagement {
		reassign, err := a.view.PromptYesNo("Reassign the sales contact?")
		if err != nil {
			return err
		}
		if reassign {
			salesTeam, err := a.svc.Collaborators.ListByRole(ctx, actor, models.RoleSales)
			if err != nil {
				return err
			}
			a.view.CollaboratorsTable(salesTeam)
			salesID, err := a.view.PromptID("Sales contact ID")
			if err != nil {
				return err
			}
			update.SalesContactID = &salesID
		}
	}
	if update.Empty() {
		a.view.Info("Nothing to change.")
		return nil
	}

	contract, err := a.svc.Contracts.Update(ctx, actor, update)
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Contract %d updated, status %s.", contract.ID, contract.Status))
	return nil
}

func (a *App) deleteContract(ctx context.Context, actor *models.Collaborator) error {
	if err := a.showContracts(ctx, actor); err != nil {
		return err
	}
	id, err := a.view.PromptID("Contract ID")
	if err != nil {
		return err
	}
	confirmed, err := a.view.PromptYesNo(fmt.Sprintf("Delete contract %d and its events?", id))
	if err != nil {
		return err
	}
	if !confirmed {
		a.view.Info("Nothing deleted.")
		return nil
	}
	if err := a.svc.Contracts.Delete(ctx, actor, id); err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Contract %d deleted.", id))
	return nil
}

func (a *App) showEventsWithoutSupport(ctx context.Context, actor *models.Collaborator) error {
	events, err := a.svc.Events.ListWithoutSupport(ctx, actor)
	if err != nil {
		return err
	}
	a.view.EventsTable(events)
	return nil
}

func (a *App) assignSupport(ctx context.Context, actor *models.Collaborator) error {
	events, err := a.svc.Events.ListWithoutSupport(ctx, actor)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		a.view.Info("Every event already has a support contact.")
		return nil
	}
	a.view.EventsTable(events)
	eventID, err := a.view.PromptID("Event ID")
	if err != nil {
		return err
	}

	supportTeam, err := a.svc.Collaborators.ListByRole(ctx, actor, models.RoleSupport)
	if err != nil {
		return err
	}
	if len(supportTeam) == 0 {
		a.view.Info("No support collaborators to assign.")
		return nil
	}
	a.view.CollaboratorsTable(supportTeam)
	supportID, err := a.view.PromptID("Support contact ID")
	if err != nil {
		return err
	}

	event, err := a.svc.Events.AssignSupport(ctx, actor, eventID, supportID)
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Event %d assigned to %s.", event.ID, collaboratorName(event.SupportContact)))
	return nil
}

func (a *App) deleteClient(ctx context.Context, actor *models.Collaborator) error {
	if err := a.showClients(ctx, actor); err != nil {
		return err
	}
	id, err := a.view.PromptID("Client ID")
	if err != nil {
		return err
	}
	confirmed, err := a.view.PromptYesNo(fmt.Sprintf("Delete client %d with their contracts and events?", id))
	if err != nil {
		return err
	}
	if !confirmed {
		a.view.Info("Nothing deleted.")
		return nil
	}
	if err := a.svc.Clients.Delete(ctx, actor, id); err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Client %d deleted.", id))
	return nil
}

func (a *App) deleteEvent(ctx context.Context, actor *models.Collaborator) error {
	if err := a.showEvents(ctx, actor); err != nil {
		return err
	}
	id, err := a.view.PromptID("Event ID")
	if err != nil {
		return err
	}
	confirmed, err := a.view.PromptYesNo(fmt.Sprintf("Delete event %d?", id))
	if err != nil {
		return err
	}
	if !confirmed {
		a.view.Info("Nothing deleted.")
		return nil
	}
	if err := a.svc.Events.Delete(ctx, actor, id); err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Event %d deleted.", id))
	return nil
}
