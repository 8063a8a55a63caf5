package usecase

import (
	"strings"
	"testing"
	"time"

	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
)

type helpDeskFixture struct {
	*fixture
	uc        *HelpDeskUsecase
	requester *model.Profile
	itLead    *model.Profile
	admin     *model.Profile
	super     *model.Profile
}

func newHelpDeskFixture(t *testing.T) *helpDeskFixture {
	f := newFixture(t)
	hf := &helpDeskFixture{
		fixture:   f,
		uc:        NewHelpDeskUsecase(f.store, f.resolver),
		requester: f.profile("Rita Req", model.RoleEmployee, "Sales"),
		itLead:    f.profile("Ivan It", model.RoleLead, "IT", "IT"),
		admin:     f.profile("Amy Admin", model.RoleAdmin, "Operations"),
		super:     f.profile("Sam Super", model.RoleSuperAdmin, "Board"),
	}
	hf.uc.now = fixedClock("2024-03-04T09:00:00Z")
	return hf
}

func (hf *helpDeskFixture) ticket(requestType, priority string) *model.HelpDeskTicket {
	hf.t.Helper()
	t, err := hf.uc.Create(hf.ctx, hf.requester.ID, CreateTicketInput{
		Title:             "Laptop keeps rebooting",
		ServiceDepartment: "IT",
		RequestType:       requestType,
		Priority:          priority,
	})
	if err != nil {
		hf.t.Fatalf("create ticket: %v", err)
	}
	return t
}

func TestCreateSupportTicket(t *testing.T) {
	hf := newHelpDeskFixture(t)
	ticket := hf.ticket("", "")

	if ticket.Status != model.TicketNew || ticket.RequestType != model.RequestTypeSupport || ticket.Priority != model.PriorityMedium {
		t.Fatalf("unexpected defaults %+v", ticket)
	}
	if !strings.HasPrefix(ticket.TicketNumber, "HD-20240304-") {
		t.Fatalf("unexpected ticket number %s", ticket.TicketNumber)
	}
	if len(ticket.Approvals) != 0 || ticket.ApprovalRequired || ticket.PausedAt != nil {
		t.Fatalf("support tickets need no approvals")
	}
	want := hf.uc.now().Add(24 * time.Hour)
	if !ticket.SLATargetAt.Equal(want) {
		t.Fatalf("sla_target_at=%v, want %v", ticket.SLATargetAt, want)
	}
	// The IT lead gets an in-app notification plus one mail message.
	if n := hf.outboxCount(); n != 2 {
		t.Fatalf("outbox=%d, want 2", n)
	}
}

func TestCreateProcurementTicketSeedsApprovals(t *testing.T) {
	hf := newHelpDeskFixture(t)
	ticket := hf.ticket(model.RequestTypeProcurement, model.PriorityUrgent)

	if ticket.Status != model.TicketPendingApproval || !ticket.ApprovalRequired || ticket.PausedAt == nil {
		t.Fatalf("unexpected procurement ticket %+v", ticket)
	}
	if len(ticket.Approvals) != len(model.ProcurementApprovalStages) {
		t.Fatalf("approvals=%d, want %d", len(ticket.Approvals), len(model.ProcurementApprovalStages))
	}
	for i, a := range ticket.Approvals {
		if a.ApprovalStage != model.ProcurementApprovalStages[i] || a.StageOrder != i+1 || a.Status != model.ApprovalPending {
			t.Fatalf("approval %d = %+v", i, a)
		}
	}
	if !ticket.SLATargetAt.Equal(hf.uc.now().Add(4 * time.Hour)) {
		t.Fatalf("urgent sla target not applied: %v", ticket.SLATargetAt)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	hf := newHelpDeskFixture(t)
	cases := []CreateTicketInput{
		{ServiceDepartment: "IT"},
		{Title: "Printer"},
		{Title: "Printer", ServiceDepartment: "IT", Priority: "critical"},
		{Title: "Printer", ServiceDepartment: "IT", RequestType: "complaint"},
	}
	for _, in := range cases {
		_, err := hf.uc.Create(hf.ctx, hf.requester.ID, in)
		wantKind(t, err, apperr.KindValidation)
	}
}

func TestLeadCanOnlyRaiseTicketsForManagedDepartments(t *testing.T) {
	hf := newHelpDeskFixture(t)
	_, err := hf.uc.Create(hf.ctx, hf.itLead.ID, CreateTicketInput{Title: "Budget", ServiceDepartment: "Finance"})
	wantKind(t, err, apperr.KindForbidden)

	if _, err := hf.uc.Create(hf.ctx, hf.itLead.ID, CreateTicketInput{Title: "Switch", ServiceDepartment: "it"}); err != nil {
		t.Fatalf("lead raising ticket for own department: %v", err)
	}
}

func TestUpdateTicketLifecycle(t *testing.T) {
	hf := newHelpDeskFixture(t)
	ticket := hf.ticket("", model.PriorityHigh)
	tech := hf.profile("Tom Tech", model.RoleEmployee, "IT")

	status := func(s string) *string { return &s }

	_, err := hf.uc.Update(hf.ctx, hf.requester.ID, ticket.ID, UpdateTicketInput{Status: status(model.TicketInProgress)})
	wantKind(t, err, apperr.KindForbidden)

	ticket, err = hf.uc.Update(hf.ctx, hf.itLead.ID, ticket.ID, UpdateTicketInput{AssignedTo: &tech.ID})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if ticket.Status != model.TicketAssigned || ticket.AssignedTo == nil || *ticket.AssignedTo != tech.ID {
		t.Fatalf("unexpected ticket after assignment %+v", ticket)
	}

	// The assignee is staff for this ticket now.
	ticket, err = hf.uc.Update(hf.ctx, tech.ID, ticket.ID, UpdateTicketInput{Status: status(model.TicketInProgress)})
	if err != nil {
		t.Fatalf("start work: %v", err)
	}
	if ticket.StartedAt == nil {
		t.Fatalf("started_at not stamped")
	}

	_, err = hf.uc.Update(hf.ctx, tech.ID, ticket.ID, UpdateTicketInput{Status: status(model.TicketNew)})
	wantKind(t, err, apperr.KindValidation)

	rating := 5
	_, err = hf.uc.Update(hf.ctx, hf.requester.ID, ticket.ID, UpdateTicketInput{CSATRating: &rating})
	wantKind(t, err, apperr.KindValidation)

	ticket, err = hf.uc.Update(hf.ctx, tech.ID, ticket.ID, UpdateTicketInput{Status: status(model.TicketResolved)})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ticket.ResolvedAt == nil {
		t.Fatalf("resolved_at not stamped")
	}

	_, err = hf.uc.Update(hf.ctx, tech.ID, ticket.ID, UpdateTicketInput{CSATRating: &rating})
	wantKind(t, err, apperr.KindForbidden)

	bad := 6
	_, err = hf.uc.Update(hf.ctx, hf.requester.ID, ticket.ID, UpdateTicketInput{CSATRating: &bad})
	wantKind(t, err, apperr.KindValidation)

	feedback := "quick fix"
	ticket, err = hf.uc.Update(hf.ctx, hf.requester.ID, ticket.ID, UpdateTicketInput{CSATRating: &rating, CSATFeedback: &feedback})
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if ticket.CSATRating == nil || *ticket.CSATRating != 5 || ticket.CSATFeedback != feedback {
		t.Fatalf("csat not stored %+v", ticket)
	}

	events, err := hf.uc.Events(hf.ctx, hf.requester.ID, ticket.ID)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("events=%d, want 5", len(events))
	}

	_, err = hf.uc.Update(hf.ctx, hf.requester.ID, ticket.ID, UpdateTicketInput{})
	wantKind(t, err, apperr.KindValidation)
}

func TestRequesterMayOnlyCancel(t *testing.T) {
	hf := newHelpDeskFixture(t)
	ticket := hf.ticket(model.RequestTypeProcurement, "")
	cancelled := model.TicketCancelled

	outsider := hf.profile("Olga Out", model.RoleEmployee, "Sales")
	_, err := hf.uc.Update(hf.ctx, outsider.ID, ticket.ID, UpdateTicketInput{Status: &cancelled})
	wantKind(t, err, apperr.KindForbidden)
	_, err = hf.uc.Get(hf.ctx, outsider.ID, ticket.ID)
	wantKind(t, err, apperr.KindForbidden)

	inProgress := model.TicketInProgress
	_, err = hf.uc.Update(hf.ctx, hf.admin.ID, ticket.ID, UpdateTicketInput{Status: &inProgress})
	wantKind(t, err, apperr.KindValidation)

	ticket, err = hf.uc.Update(hf.ctx, hf.requester.ID, ticket.ID, UpdateTicketInput{Status: &cancelled})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ticket.Status != model.TicketCancelled {
		t.Fatalf("status=%s", ticket.Status)
	}
}

func TestListTickets(t *testing.T) {
	hf := newHelpDeskFixture(t)
	hf.ticket("", "")
	if _, err := hf.uc.Create(hf.ctx, hf.requester.ID, CreateTicketInput{Title: "Payslip", ServiceDepartment: "Finance"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := hf.uc.List(hf.ctx, hf.requester.ID, TicketScopeMine, "")
	if err != nil || len(mine) != 2 {
		t.Fatalf("mine=%d err=%v", len(mine), err)
	}

	dept, err := hf.uc.List(hf.ctx, hf.itLead.ID, TicketScopeDepartment, "")
	if err != nil || len(dept) != 1 || dept[0].ServiceDepartment != "IT" {
		t.Fatalf("lead department view=%v err=%v", dept, err)
	}

	all, err := hf.uc.List(hf.ctx, hf.admin.ID, TicketScopeDepartment, model.TicketNew)
	if err != nil || len(all) != 2 {
		t.Fatalf("admin department view=%d err=%v", len(all), err)
	}

	orphan := hf.profile("Lee Nodept", model.RoleLead, "")
	none, err := hf.uc.List(hf.ctx, orphan.ID, TicketScopeDepartment, "")
	if err != nil || len(none) != 0 {
		t.Fatalf("lead without departments must see nothing, got %d err=%v", len(none), err)
	}

	_, err = hf.uc.List(hf.ctx, hf.requester.ID, TicketScopeDepartment, "")
	wantKind(t, err, apperr.KindForbidden)
	_, err = hf.uc.List(hf.ctx, hf.requester.ID, "everything", "")
	wantKind(t, err, apperr.KindValidation)
}

func TestProcurementApprovalChain(t *testing.T) {
	hf := newHelpDeskFixture(t)
	ticket := hf.ticket(model.RequestTypeProcurement, "")
	approve := DecideApprovalInput{Decision: model.ApprovalApproved}

	// Stage one belongs to the service department's lead.
	other := hf.profile("Fay Fin", model.RoleLead, "Finance", "Finance")
	_, err := hf.uc.DecideApproval(hf.ctx, other.ID, ticket.ID, approve)
	wantKind(t, err, apperr.KindForbidden)

	ticket, err = hf.uc.DecideApproval(hf.ctx, hf.itLead.ID, ticket.ID, approve)
	if err != nil {
		t.Fatalf("lead approval: %v", err)
	}
	if ticket.Status != model.TicketPendingApproval || ticket.Approvals[0].Status != model.ApprovalApproved {
		t.Fatalf("unexpected ticket after first stage %+v", ticket)
	}

	_, err = hf.uc.DecideApproval(hf.ctx, hf.itLead.ID, ticket.ID, approve)
	wantKind(t, err, apperr.KindForbidden)

	if ticket, err = hf.uc.DecideApproval(hf.ctx, hf.admin.ID, ticket.ID, approve); err != nil {
		t.Fatalf("corporate services approval: %v", err)
	}
	_, err = hf.uc.DecideApproval(hf.ctx, hf.admin.ID, ticket.ID, approve)
	wantKind(t, err, apperr.KindForbidden)

	ticket, err = hf.uc.DecideApproval(hf.ctx, hf.super.ID, ticket.ID, approve)
	if err != nil {
		t.Fatalf("managing director approval: %v", err)
	}
	if ticket.Status != model.TicketNew || ticket.PausedAt != nil {
		t.Fatalf("fully approved ticket should be released, got %+v", ticket)
	}

	_, err = hf.uc.DecideApproval(hf.ctx, hf.super.ID, ticket.ID, approve)
	wantKind(t, err, apperr.KindValidation)
}

func TestProcurementRejectionSkipsRemainingStages(t *testing.T) {
	hf := newHelpDeskFixture(t)
	ticket := hf.ticket(model.RequestTypeProcurement, "")

	_, err := hf.uc.DecideApproval(hf.ctx, hf.itLead.ID, ticket.ID, DecideApprovalInput{Decision: "maybe"})
	wantKind(t, err, apperr.KindValidation)

	ticket, err = hf.uc.DecideApproval(hf.ctx, hf.itLead.ID, ticket.ID, DecideApprovalInput{Decision: model.ApprovalRejected, Comments: "no budget"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if ticket.Status != model.TicketRejected || ticket.ClosedAt == nil {
		t.Fatalf("unexpected rejected ticket %+v", ticket)
	}
	want := []string{model.ApprovalRejected, model.ApprovalSkipped, model.ApprovalSkipped}
	for i, a := range ticket.Approvals {
		if a.Status != want[i] {
			t.Fatalf("approval %d status=%s, want %s", i, a.Status, want[i])
		}
	}
	if ticket.Approvals[0].Comments != "no budget" {
		t.Fatalf("comments not stored")
	}
}
