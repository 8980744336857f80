package cli

import (
	"context"
	"fmt"

	"github.com/epicevents/crm/internal/crm/controller"
	"github.com/epicevents/crm/internal/crm/models"
)

func (a *App) salesLoop(ctx context.Context, actor *models.Collaborator) error {
	for {
		choice, err := a.view.PromptMenu(
			fmt.Sprintf("Main menu - %s (sales)", actor.Username),
			[]string{
				"Create a client",
				"Update one of my clients",
				"Update one of my contracts",
				"Create an event for a signed contract",
				"View my clients",
				"View my contracts",
				"View all clients",
				"View all contracts",
				"View all events",
				"Exit",
			})
		if err != nil {
			return err
		}

		var opErr error
		switch choice {
		case 1:
			opErr = a.createClient(ctx, actor)
		case 2:
			opErr = a.updateMyClient(ctx, actor)
		case 3:
			opErr = a.updateContract(ctx, actor, true)
		case 4:
			opErr = a.createEvent(ctx, actor)
		case 5:
			opErr = a.showMyClients(ctx, actor)
		case 6:
			opErr = a.showMyContracts(ctx, actor)
		case 7:
			opErr = a.showClients(ctx, actor)
		case 8:
			opErr = a.showContracts(ctx, actor)
		case 9:
			opErr = a.showEvents(ctx, actor)
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

func (a *App) createClient(ctx context.Context, actor *models.Collaborator) error {
	fullName, err := a.view.PromptText("Full name", 100)
	if err != nil {
		return err
	}
	email, err := a.view.PromptEmail("Email")
	if err != nil {
		return err
	}
	phone, err := a.view.PromptText("Phone", 20)
	if err != nil {
		return err
	}
	companyName, err := a.view.PromptText("Company name", 100)
	if err != nil {
		return err
	}

	client, err := a.svc.Clients.Create(ctx, actor, controller.CreateClient{
		FullName:    fullName,
		Email:       email,
		Phone:       phone,
		CompanyName: companyName,
	})
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Client %s created with ID %d.", client.FullName, client.ID))
	return nil
}

func (a *App) updateMyClient(ctx context.Context, actor *models.Collaborator) error {
	clients, err := a.svc.Clients.ListMine(ctx, actor)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		a.view.Info("No clients are attributed to you yet.")
		return nil
	}
	a.view.ClientsTable(clients)

	id, err := a.view.PromptID("Client ID")
	if err != nil {
		return err
	}
	update := &models.ClientUpdate{ID: id}
	if update.FullName, err = a.view.PromptOptionalText("Full name", 100); err != nil {
		return err
	}
	if update.Email, err = a.view.PromptOptionalEmail("Email"); err != nil {
		return err
	}
	if update.Phone, err = a.view.PromptOptionalText("Phone", 20); err != nil {
		return err
	}
	if update.CompanyName, err = a.view.PromptOptionalText("Company name", 100); err != nil {
		return err
	}
	if update.Empty() {
		a.view.Info("Nothing to change.")
		return nil
	}

	client, err := a.svc.Clients.Update(ctx, actor, update)
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Client %s updated.", client.FullName))
	return nil
}

func (a *App) createEvent(ctx context.Context, actor *models.Collaborator) error {
	contracts, err := a.svc.Contracts.ListMine(ctx, actor, models.ContractFilterSigned)
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		a.view.Info("None of your clients has a signed contract yet.")
		return nil
	}
	a.view.ContractsTable(contracts)

	contractID, err := a.view.PromptID("Contract ID")
	if err != nil {
		return err
	}
	name, err := a.view.PromptText("Event name", 100)
	if err != nil {
		return err
	}
	clientContact, err := a.view.PromptText("Client contact", 300)
	if err != nil {
		return err
	}
	startDate, err := a.view.PromptDateTime("Start")
	if err != nil {
		return err
	}
	endDate, err := a.view.PromptDateTime("End")
	if err != nil {
		return err
	}
	location, err := a.view.PromptText("Location", 300)
	if err != nil {
		return err
	}
	attendees, err := a.view.PromptInt("Attendees")
	if err != nil {
		return err
	}
	notes, err := a.view.PromptFreeText("Notes (optional)")
	if err != nil {
		return err
	}

	event, err := a.svc.Events.Create(ctx, actor, controller.CreateEvent{
		ContractID:    contractID,
		Name:          name,
		ClientContact: clientContact,
		StartDate:     startDate,
		EndDate:       endDate,
		Location:      location,
		Attendees:     attendees,
		Notes:         notes,
	})
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Event %s created with ID %d.", event.Name, event.ID))
	return nil
}

func (a *App) showMyClients(ctx context.Context, actor *models.Collaborator) error {
	clients, err := a.svc.Clients.ListMine(ctx, actor)
	if err != nil {
		return err
	}
	a.view.ClientsTable(clients)
	return nil
}

func (a *App) showMyContracts(ctx context.Context, actor *models.Collaborator) error {
	filter, err := a.promptContractFilter()
	if err != nil {
		return err
	}
	contracts, err := a.svc.Contracts.ListMine(ctx, actor, filter)
	if err != nil {
		return err
	}
	a.view.ContractsTable(contracts)
	return nil
}
