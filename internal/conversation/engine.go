package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/suPer8Hu/helpdesk/internal/ai"
	"github.com/suPer8Hu/helpdesk/internal/kb"
	"github.com/suPer8Hu/helpdesk/internal/models"
	"github.com/suPer8Hu/helpdesk/internal/ticket"
)

// Reply is what one conversational turn produces. Status is an HTTP status
// hint for the handler; zero means 200.
type Reply struct {
	Response          string `json:"response"`
	RequiresComplaint bool   `json:"requiresComplaint"`
	Status            int    `json:"-"`
}

// ResolutionRecorder receives issues the user confirmed as resolved.
type ResolutionRecorder interface {
	RecordResolved(ctx context.Context, name, designation, department, problem, resolution string) error
}

// TicketCreator escalates an exhausted conversation into a support ticket.
type TicketCreator interface {
	CreateFromChat(ctx context.Context, intake ticket.Intake) (*ticket.Created, error)
}

// Engine drives the scripted helpdesk dialogue: greeting, three identity
// fields, problem description, then up to two rounds of troubleshooting
// before escalating to a ticket.
type Engine struct {
	store    Store
	provider ai.Provider
	disabled bool // oracle decided unusable at process start
	tickets  TicketCreator
	resolved ResolutionRecorder
}

func NewEngine(store Store, provider ai.Provider, disabled bool, tickets TicketCreator, resolved ResolutionRecorder) *Engine {
	return &Engine{
		store:    store,
		provider: provider,
		disabled: disabled,
		tickets:  tickets,
		resolved: resolved,
	}
}

const (
	apologyGeneric      = "I apologize, but I encountered an error. Please try again later."
	apologyTicket       = "I apologize, but I encountered an error while creating your support ticket. Please try again later."
	apologyNoTechnician = "I apologize, but no technicians are available at the moment. Please try again later."
	apologyNoProblem    = "I apologize, but I couldn't determine your issue. Please try again."
	promptYesNo         = "Please answer with 'Yes' or 'No'."
)

func stepsPrompt(steps string) string {
	return fmt.Sprintf("Here are some troubleshooting steps:\n\n%s\n\nDid this resolve your issue? (Yes/No)", steps)
}

func altStepsPrompt(steps string) string {
	return fmt.Sprintf("Let's try these alternative steps instead:\n\n%s\n\nDid this resolve your issue? (Yes/No)", steps)
}

// Turn processes one user message for the given account. Any unexpected
// error clears the session so the next turn starts clean.
func (e *Engine) Turn(ctx context.Context, user *models.User, message string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))

	sess, err := e.store.Get(ctx, user.ID)
	if err != nil {
		return e.abort(ctx, user.ID, err)
	}

	reply, err := e.advance(ctx, user, sess, msg)
	if err != nil {
		return e.abort(ctx, user.ID, err)
	}
	return reply
}

func (e *Engine) abort(ctx context.Context, userID uint64, err error) Reply {
	log.Printf("[conversation] turn failed uid=%d err=%v", userID, err)
	_ = e.store.Clear(ctx, userID)
	return Reply{Response: apologyGeneric, Status: http.StatusInternalServerError}
}

func (e *Engine) advance(ctx context.Context, user *models.User, sess *Session, msg string) (Reply, error) {
	switch sess.Step {
	case StepGreeting:
		if msg != "hi" && msg != "hello" {
			return Reply{Response: "Please type 'Hi' or 'Hello' to start the conversation."}, nil
		}
		sess.Step = StepName
		if err := e.store.Save(ctx, user.ID, sess); err != nil {
			return Reply{}, err
		}
		return Reply{Response: "Hello! I'm your IT Support Assistant. What is your name?"}, nil

	case StepName:
		sess.Name = msg
		sess.Step = StepDesignation
		if err := e.store.Save(ctx, user.ID, sess); err != nil {
			return Reply{}, err
		}
		return Reply{Response: fmt.Sprintf("Nice to meet you, %s! Please enter your designation.", msg)}, nil

	case StepDesignation:
		sess.Designation = msg
		sess.Step = StepDepartment
		if err := e.store.Save(ctx, user.ID, sess); err != nil {
			return Reply{}, err
		}
		return Reply{Response: "Thank you. Now, please enter your department."}, nil

	case StepDepartment:
		sess.Department = msg
		sess.Step = StepProblem
		if err := e.store.Save(ctx, user.ID, sess); err != nil {
			return Reply{}, err
		}
		return Reply{Response: "Please describe your IT problem in detail. What issues are you experiencing?"}, nil

	case StepProblem:
		sess.Problem = msg
		steps := e.firstSteps(ctx, msg)
		sess.LastResolution = steps
		sess.Step = StepFirstCheck
		if err := e.store.Save(ctx, user.ID, sess); err != nil {
			return Reply{}, err
		}
		return Reply{Response: stepsPrompt(steps)}, nil

	case StepFirstCheck:
		switch msg {
		case "yes":
			return e.finishResolved(ctx, user.ID, sess,
				"Great! I'm glad your issue has been resolved. Your details have been saved, and you can always come back if you need more assistance.")
		case "no":
			steps, next := e.secondSteps(ctx, sess.Problem)
			sess.LastResolution = steps
			sess.Step = next
			if err := e.store.Save(ctx, user.ID, sess); err != nil {
				return Reply{}, err
			}
			return Reply{Response: altStepsPrompt(steps)}, nil
		default:
			return Reply{Response: promptYesNo}, nil
		}

	case StepAltCheck:
		switch msg {
		case "yes":
			return e.finishResolved(ctx, user.ID, sess,
				"Great! I'm glad the alternative solution worked. Your details have been saved, and you can always come back if you need more assistance.")
		case "no":
			return e.escalate(ctx, user, sess)
		default:
			return Reply{Response: promptYesNo}, nil
		}

	case StepTierCheck:
		switch msg {
		case "yes":
			return e.finishResolved(ctx, user.ID, sess,
				"Great! I'm glad those alternative steps worked. Your details have been saved, and you can always come back if you need more assistance.")
		case "no":
			return e.escalate(ctx, user, sess)
		default:
			return Reply{Response: promptYesNo}, nil
		}
	}

	// unknown step id: corrupted state, start over
	return Reply{}, fmt.Errorf("invalid conversation step %d", sess.Step)
}

// firstSteps asks the oracle, falling back to tier-1 canned steps when it is
// disabled or fails. A response is always produced.
func (e *Engine) firstSteps(ctx context.Context, problem string) string {
	if !e.disabled {
		if steps, err := e.provider.Generate(ctx, problem); err == nil {
			return steps
		}
	}
	return kb.Fallback(problem, kb.Tier1)
}

// secondSteps is the second-round policy: with the oracle disabled the tier-2
// canned steps are used directly (next gate: StepTierCheck); otherwise the
// oracle is asked for an alternative, with the same tier-2 fallback on error.
func (e *Engine) secondSteps(ctx context.Context, problem string) (string, int) {
	if e.disabled {
		return kb.Fallback(problem, kb.Tier2), StepTierCheck
	}
	steps, err := e.provider.Generate(ctx, "Alternative solution for: "+problem)
	if err != nil {
		return kb.Fallback(problem, kb.Tier2), StepTierCheck
	}
	return steps, StepAltCheck
}

func (e *Engine) finishResolved(ctx context.Context, userID uint64, sess *Session, response string) (Reply, error) {
	if err := e.resolved.RecordResolved(ctx, sess.Name, sess.Designation, sess.Department, sess.Problem, sess.LastResolution); err != nil {
		return Reply{}, err
	}
	if err := e.store.Clear(ctx, userID); err != nil {
		return Reply{}, err
	}
	return Reply{Response: response}, nil
}

// escalate creates the support ticket after both self-service rounds failed.
// Business-rule failures keep the session so the user can retry the turn.
func (e *Engine) escalate(ctx context.Context, user *models.User, sess *Session) (Reply, error) {
	created, err := e.tickets.CreateFromChat(ctx, ticket.Intake{
		Reporter:    *user,
		Problem:     sess.Problem,
		Name:        sess.Name,
		Designation: sess.Designation,
		Department:  sess.Department,
		Steps:       sess.LastResolution,
	})
	if err != nil {
		switch {
		case errors.Is(err, ticket.ErrMissingProblem):
			return Reply{Response: apologyNoProblem, Status: http.StatusBadRequest}, nil
		case errors.Is(err, ticket.ErrNoTechnicians):
			return Reply{Response: apologyNoTechnician, Status: http.StatusInternalServerError}, nil
		}
		log.Printf("[conversation] ticket creation failed uid=%d err=%v", user.ID, err)
		_ = e.store.Clear(ctx, user.ID)
		return Reply{Response: apologyTicket, Status: http.StatusInternalServerError}, nil
	}

	if err := e.store.Clear(ctx, user.ID); err != nil {
		return Reply{}, err
	}

	response := fmt.Sprintf(
		"Since the troubleshooting steps didn't resolve your issue, I've automatically created a support ticket for you:\n\n"+
			"Ticket Number: %s\n"+
			"Assigned Technician: %s\n"+
			"Status: Open\n\n"+
			"You can view this ticket and its progress in your dashboard. The technician will contact you soon to resolve your issue.",
		created.ComplaintNo, created.TechnicianName,
	)
	return Reply{Response: response}, nil
}
