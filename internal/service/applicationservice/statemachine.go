package applicationservice

import (
	"errors"
	"fmt"

	"github.com/GlebRadaev/taskmarket/internal/domain"
)

// The application lifecycle is decided here as a pure function of the current
// row, the attempted event and the acting party. Persistence and ledger
// effects live in the service; this table can be tested without a database.

type Event int

const (
	EventApply Event = iota
	EventHireOffer
	EventCounterOffer
	EventAccept
	EventDecline
	EventRemove
)

func (e Event) String() string {
	switch e {
	case EventApply:
		return "apply to"
	case EventHireOffer:
		return "offer"
	case EventCounterOffer:
		return "counter-offer"
	case EventAccept:
		return "accept"
	case EventDecline:
		return "decline"
	case EventRemove:
		return "remove"
	}
	return "unknown"
}

// Actor is the resolved role of the user attempting a transition.
type Actor struct {
	UserID      int
	IsCreator   bool
	IsApplicant bool
}

var (
	ErrInvalidState = errors.New("invalid application state")
	ErrUnauthorized = errors.New("actor not allowed")
)

// UnauthorizedError names the party that would be allowed to perform the
// attempted event. Matches ErrUnauthorized via errors.Is.
type UnauthorizedError struct {
	Event    Event
	Required string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("only the %s may %s this application", e.Required, e.Event)
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// InvalidStateError reports a transition attempted from a state that does not
// allow it. Matches ErrInvalidState via errors.Is.
type InvalidStateError struct {
	Status string
	Event  Event
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s an application in status %q", e.Event, e.Status)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// Transition validates event+actor against the current application and
// returns the status the application moves to. It never mutates anything.
func Transition(app *domain.Application, event Event, actor Actor) (string, error) {
	if app.IsTerminal() {
		return "", &InvalidStateError{Status: app.Status, Event: event}
	}

	switch event {
	case EventCounterOffer:
		if !actor.IsCreator && !actor.IsApplicant {
			return "", &UnauthorizedError{Event: event, Required: "task creator or applicant"}
		}
		if actor.IsApplicant {
			return domain.StatusCounterProposed, nil
		}
		return domain.StatusOffered, nil

	case EventAccept:
		return domain.StatusAccepted, authorizeAccept(app, actor)

	case EventDecline:
		if !actor.IsCreator {
			return "", &UnauthorizedError{Event: event, Required: "task creator"}
		}
		return domain.StatusDeclined, nil

	case EventRemove:
		if !actor.IsCreator {
			return "", &UnauthorizedError{Event: event, Required: "task creator"}
		}
		return domain.StatusRemoved, nil
	}

	return "", &InvalidStateError{Status: app.Status, Event: event}
}

// authorizeAccept enforces the consent rule: the party that set the current
// price can never be the one to accept it. A price set by the applicant needs
// the creator; a price set by the creator (direct-hire offers included) needs
// the applicant; an application at the task's own price needs the creator.
func authorizeAccept(app *domain.Application, actor Actor) error {
	if !actor.IsCreator && !actor.IsApplicant {
		return &UnauthorizedError{Event: EventAccept, Required: "task creator or applicant"}
	}

	if app.LastProposedBy == nil {
		if !actor.IsCreator {
			return &UnauthorizedError{Event: EventAccept, Required: "task creator"}
		}
		return nil
	}

	if *app.LastProposedBy == app.ApplicantID {
		if !actor.IsCreator {
			return &UnauthorizedError{Event: EventAccept, Required: "task creator"}
		}
		return nil
	}

	// price currently set by the creator side
	if !actor.IsApplicant {
		return &UnauthorizedError{Event: EventAccept, Required: "applicant"}
	}
	return nil
}
