package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/suPer8Hu/helpdesk/internal/ai"
	"github.com/suPer8Hu/helpdesk/internal/kb"
	"github.com/suPer8Hu/helpdesk/internal/models"
	"github.com/suPer8Hu/helpdesk/internal/ticket"
)

type scriptedProvider struct {
	calls   int
	replies []string
	err     error
}

func (p *scriptedProvider) Generate(ctx context.Context, query string) (string, error) {
	_ = ctx
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	reply := p.replies[0]
	if len(p.replies) > 1 {
		p.replies = p.replies[1:]
	}
	return reply, nil
}

type fakeTickets struct {
	created []ticket.Intake
	err     error
}

func (f *fakeTickets) CreateFromChat(ctx context.Context, intake ticket.Intake) (*ticket.Created, error) {
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, intake)
	return &ticket.Created{ComplaintNo: "AB12CD34", TechnicianName: "tech1"}, nil
}

type fakeRecorder struct {
	resolved []string
}

func (f *fakeRecorder) RecordResolved(ctx context.Context, name, designation, department, problem, resolution string) error {
	_ = ctx
	f.resolved = append(f.resolved, problem)
	return nil
}

func testUser() *models.User {
	return &models.User{ID: 42, Username: "emp1", Role: models.RoleEmployee, Department: "HR", Designation: "HR Executive"}
}

func newTestEngine(disabled bool, provider ai.Provider, tickets *fakeTickets, recorder *fakeRecorder) *Engine {
	return NewEngine(NewMemoryStore(), provider, disabled, tickets, recorder)
}

func runTurns(t *testing.T, e *Engine, user *models.User, messages ...string) Reply {
	t.Helper()
	var last Reply
	for _, m := range messages {
		last = e.Turn(context.Background(), user, m)
		if last.Status >= 500 {
			t.Fatalf("turn %q failed: %q", m, last.Response)
		}
	}
	return last
}

func TestTurn_GreetingGate(t *testing.T) {
	e := newTestEngine(true, &scriptedProvider{}, &fakeTickets{}, &fakeRecorder{})
	user := testUser()

	reply := e.Turn(context.Background(), user, "what's up")
	if !strings.Contains(reply.Response, "'Hi' or 'Hello'") {
		t.Fatalf("expected greeting prompt, got %q", reply.Response)
	}

	reply = e.Turn(context.Background(), user, "Hello")
	if !strings.Contains(reply.Response, "What is your name?") {
		t.Fatalf("expected name prompt, got %q", reply.Response)
	}
}

func TestTurn_FullEscalationWithoutOracle(t *testing.T) {
	provider := &scriptedProvider{}
	tickets := &fakeTickets{}
	recorder := &fakeRecorder{}
	e := newTestEngine(true, provider, tickets, recorder)
	user := testUser()

	runTurns(t, e, user, "hi", "Alex", "Engineer", "R&D")

	reply := e.Turn(context.Background(), user, "printer not printing")
	if !strings.Contains(reply.Response, kb.Fallback("printer not printing", kb.Tier1)) {
		t.Fatalf("first round should use the tier-1 printer steps, got %q", reply.Response)
	}

	reply = e.Turn(context.Background(), user, "no")
	if !strings.Contains(reply.Response, kb.Fallback("printer not printing", kb.Tier2)) {
		t.Fatalf("second round should use the tier-2 printer steps, got %q", reply.Response)
	}

	reply = e.Turn(context.Background(), user, "no")
	if !strings.Contains(reply.Response, "Ticket Number: AB12CD34") {
		t.Fatalf("expected ticket confirmation, got %q", reply.Response)
	}
	if !strings.Contains(reply.Response, "Assigned Technician: tech1") {
		t.Fatalf("expected technician in confirmation, got %q", reply.Response)
	}

	if provider.calls != 0 {
		t.Fatalf("oracle disabled but called %d times", provider.calls)
	}
	if len(tickets.created) != 1 {
		t.Fatalf("expected exactly one ticket, got %d", len(tickets.created))
	}
	intake := tickets.created[0]
	if intake.Problem != "printer not printing" || intake.Name != "alex" || intake.Department != "r&d" {
		t.Fatalf("intake snapshot wrong: %+v", intake)
	}
	if intake.Steps != kb.Fallback("printer not printing", kb.Tier2) {
		t.Fatalf("intake should carry the last steps shown")
	}
	if len(recorder.resolved) != 0 {
		t.Fatalf("nothing was resolved, but recorder got %d entries", len(recorder.resolved))
	}

	// session is cleared after escalation: a new greeting starts over
	reply = e.Turn(context.Background(), user, "hi")
	if !strings.Contains(reply.Response, "What is your name?") {
		t.Fatalf("session should restart after ticket, got %q", reply.Response)
	}
}

func TestTurn_YesEndsWithoutTicket(t *testing.T) {
	tickets := &fakeTickets{}
	recorder := &fakeRecorder{}
	e := newTestEngine(true, &scriptedProvider{}, tickets, recorder)
	user := testUser()

	runTurns(t, e, user, "hi", "Alex", "Engineer", "R&D", "wifi down")
	reply := e.Turn(context.Background(), user, "yes")
	if !strings.Contains(reply.Response, "glad your issue has been resolved") {
		t.Fatalf("expected resolution message, got %q", reply.Response)
	}

	if len(tickets.created) != 0 {
		t.Fatalf("no ticket expected, got %d", len(tickets.created))
	}
	if len(recorder.resolved) != 1 || recorder.resolved[0] != "wifi down" {
		t.Fatalf("resolved recorder = %v", recorder.resolved)
	}

	// session cleared: next message hits the greeting gate again
	reply = e.Turn(context.Background(), user, "anything")
	if !strings.Contains(reply.Response, "'Hi' or 'Hello'") {
		t.Fatalf("expected fresh greeting gate, got %q", reply.Response)
	}
}

func TestTurn_YesNoGateReprompts(t *testing.T) {
	tickets := &fakeTickets{}
	e := newTestEngine(true, &scriptedProvider{}, tickets, &fakeRecorder{})
	user := testUser()

	runTurns(t, e, user, "hi", "Alex", "Engineer", "R&D", "wifi down")

	reply := e.Turn(context.Background(), user, "maybe")
	if reply.Response != "Please answer with 'Yes' or 'No'." {
		t.Fatalf("expected reprompt, got %q", reply.Response)
	}
	// the gate holds: "no" still advances to the second round
	reply = e.Turn(context.Background(), user, "no")
	if !strings.Contains(reply.Response, "alternative steps") {
		t.Fatalf("expected alternative steps, got %q", reply.Response)
	}
	if len(tickets.created) != 0 {
		t.Fatalf("reprompt must not create tickets")
	}
}

func TestTurn_OracleDrivesBothRounds(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"try turning it off", "try the other port"}}
	tickets := &fakeTickets{}
	e := newTestEngine(false, provider, tickets, &fakeRecorder{})
	user := testUser()

	runTurns(t, e, user, "hi", "Alex", "Engineer", "R&D")

	reply := e.Turn(context.Background(), user, "monitor flickers")
	if !strings.Contains(reply.Response, "try turning it off") {
		t.Fatalf("expected oracle steps, got %q", reply.Response)
	}

	reply = e.Turn(context.Background(), user, "no")
	if !strings.Contains(reply.Response, "try the other port") {
		t.Fatalf("expected oracle alternative, got %q", reply.Response)
	}

	reply = e.Turn(context.Background(), user, "no")
	if !strings.Contains(reply.Response, "Ticket Number:") {
		t.Fatalf("expected escalation, got %q", reply.Response)
	}
	if provider.calls != 2 {
		t.Fatalf("oracle called %d times, want 2", provider.calls)
	}
	if tickets.created[0].Steps != "try the other port" {
		t.Fatalf("intake should carry the oracle alternative")
	}
}

func TestTurn_OracleFailureFallsBack(t *testing.T) {
	provider := &scriptedProvider{err: ai.ErrUnavailable}
	e := newTestEngine(false, provider, &fakeTickets{}, &fakeRecorder{})
	user := testUser()

	runTurns(t, e, user, "hi", "Alex", "Engineer", "R&D")

	reply := e.Turn(context.Background(), user, "wifi down")
	if !strings.Contains(reply.Response, kb.Fallback("wifi down", kb.Tier1)) {
		t.Fatalf("expected tier-1 fallback on oracle error, got %q", reply.Response)
	}

	reply = e.Turn(context.Background(), user, "no")
	if !strings.Contains(reply.Response, kb.Fallback("wifi down", kb.Tier2)) {
		t.Fatalf("expected tier-2 fallback on oracle error, got %q", reply.Response)
	}
}

func TestTurn_NoTechniciansKeepsSession(t *testing.T) {
	tickets := &fakeTickets{err: ticket.ErrNoTechnicians}
	e := newTestEngine(true, &scriptedProvider{}, tickets, &fakeRecorder{})
	user := testUser()

	runTurns(t, e, user, "hi", "Alex", "Engineer", "R&D", "wifi down", "no")

	reply := e.Turn(context.Background(), user, "no")
	if reply.Status != 500 {
		t.Fatalf("status = %d, want 500", reply.Status)
	}
	if !strings.Contains(reply.Response, "no technicians are available") {
		t.Fatalf("got %q", reply.Response)
	}

	// session survives: retrying "no" once a technician exists escalates again
	tickets.err = nil
	reply = e.Turn(context.Background(), user, "no")
	if !strings.Contains(reply.Response, "Ticket Number:") {
		t.Fatalf("expected retry to escalate, got %q", reply.Response)
	}
}
