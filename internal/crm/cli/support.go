package cli

import (
	"context"
	"fmt"

	"github.com/epicevents/crm/internal/crm/models"
)

func (a *App) supportLoop(ctx context.Context, actor *models.Collaborator) error {
	for {
		choice, err := a.view.PromptMenu(
			fmt.Sprintf("Main menu - %s (support)", actor.Username),
			[]string{
				"View my events",
				"Update one of my events",
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
			opErr = a.showMyEvents(ctx, actor)
		case 2:
			opErr = a.updateMyEvent(ctx, actor)
		case 3:
			opErr = a.showClients(ctx, actor)
		case 4:
			opErr = a.showContracts(ctx, actor)
		case 5:
			opErr = a.showEvents(ctx, actor)
		case 6:
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

func (a *App) showMyEvents(ctx context.Context, actor *models.Collaborator) error {
	events, err := a.svc.Events.ListMine(ctx, actor)
	if err != nil {
		return err
	}
	a.view.EventsTable(events)
	return nil
}

func (a *App) updateMyEvent(ctx context.Context, actor *models.Collaborator) error {
	events, err := a.svc.Events.ListMine(ctx, actor)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		a.view.Info("No events are assigned to you yet.")
		return nil
	}
	a.view.EventsTable(events)

	id, err := a.view.PromptID("Event ID")
	if err != nil {
		return err
	}
	update := &models.EventUpdate{ID: id}
	if update.Name, err = a.view.PromptOptionalText("Event name", 100); err != nil {
		return err
	}
	if update.ClientName, err = a.view.PromptOptionalText("Client name", 100); err != nil {
		return err
	}
	if update.ClientContact, err = a.view.PromptOptionalText("Client contact", 300); err != nil {
		return err
	}
	if update.StartDate, err = a.view.PromptOptionalDateTime("Start"); err != nil {
		return err
	}
	if update.EndDate, err = a.view.PromptOptionalDateTime("End"); err != nil {
		return err
	}
	if update.Location, err = a.view.PromptOptionalText("Location", 300); err != nil {
		return err
	}
	if update.Attendees, err = a.view.PromptOptionalInt("Attendees"); err != nil {
		return err
	}
	if update.Notes, err = a.view.PromptOptionalText("Notes", 500); err != nil {
		return err
	}
	if update.Empty() {
		a.view.Info("Nothing to change.")
		return nil
	}

	event, err := a.svc.Events.Update(ctx, actor, update)
	if err != nil {
		return err
	}
	a.view.Success(fmt.Sprintf("Event %s updated.", event.Name))
	return nil
}
