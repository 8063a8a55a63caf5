package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"erp-backend/internal/access"
	"erp-backend/internal/apperr"
	"erp-backend/internal/metrics"
	"erp-backend/internal/model"
	"erp-backend/internal/notify"
	"erp-backend/internal/repository"

	"github.com/google/uuid"
)

const entityTicket = "help_desk_ticket"

const (
	TicketScopeMine       = "mine"
	TicketScopeDepartment = "department"
)

type CreateTicketInput struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	ServiceDepartment string `json:"service_department"`
	RequestType       string `json:"request_type"`
	Priority          string `json:"priority"`
}

// UpdateTicketInput is a partial update; nil fields are left alone.
type UpdateTicketInput struct {
	Status       *string `json:"status"`
	AssignedTo   *uint   `json:"assigned_to"`
	Priority     *string `json:"priority"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CSATRating   *int    `json:"csat_rating"`
	CSATFeedback *string `json:"csat_feedback"`
}

type DecideApprovalInput struct {
	Decision string `json:"decision"`
	Comments string `json:"comments"`
}

type HelpDeskUsecase struct {
	store    *repository.Store
	resolver *access.Resolver
	now      func() time.Time
}

func NewHelpDeskUsecase(store *repository.Store, resolver *access.Resolver) *HelpDeskUsecase {
	return &HelpDeskUsecase{store: store, resolver: resolver, now: time.Now}
}

func newTicketNumber(now time.Time) string {
	return "HD-" + now.Format("20060102") + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func (u *HelpDeskUsecase) Create(ctx context.Context, actorID uint, in CreateTicketInput) (*model.HelpDeskTicket, error) {
	ctx, span := startSpan(ctx, "helpdesk.Create", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.ServiceDepartment = strings.TrimSpace(in.ServiceDepartment)
	if in.Title == "" {
		return nil, apperr.Validation("title", "title is required")
	}
	if in.ServiceDepartment == "" {
		return nil, apperr.Validation("service_department", "service_department is required")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(in.Priority) {
		return nil, apperr.Validation("priority", "priority must be one of low, medium, high, urgent")
	}
	if in.RequestType == "" {
		in.RequestType = model.RequestTypeSupport
	}
	if in.RequestType != model.RequestTypeSupport && in.RequestType != model.RequestTypeProcurement {
		return nil, apperr.Validation("request_type", "request_type must be support or procurement")
	}
	if a.Scope != nil && a.Scope.Role == model.RoleLead && len(a.Scope.ManagedDepartments) > 0 &&
		!access.CoversDepartment(a.Scope, in.ServiceDepartment) {
		return nil, apperr.Forbidden("you can only raise tickets for departments you manage")
	}

	leads, err := departmentLeads(ctx, u.store, in.ServiceDepartment)
	if err != nil {
		return nil, err
	}

	now := u.now()
	procurement := in.RequestType == model.RequestTypeProcurement
	ticket := &model.HelpDeskTicket{
		TicketNumber:      newTicketNumber(now),
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		ServiceDepartment: in.ServiceDepartment,
		RequestType:       in.RequestType,
		Priority:          in.Priority,
		Status:            model.TicketNew,
		RequesterID:       a.ID(),
		ApprovalRequired:  procurement,
		SubmittedAt:       now,
		SLATargetAt:       model.SLATarget(in.Priority, now),
	}
	if procurement {
		ticket.Status = model.TicketPendingApproval
		ticket.PausedAt = &now
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.HelpDesk.Create(ctx, ticket); err != nil {
			return err
		}
		if procurement {
			approvals := make([]model.HelpDeskApproval, 0, len(model.ProcurementApprovalStages))
			for i, stage := range model.ProcurementApprovalStages {
				approvals = append(approvals, model.HelpDeskApproval{
					TicketID:      ticket.ID,
					ApprovalStage: stage,
					StageOrder:    i + 1,
					Status:        model.ApprovalPending,
					RequestedAt:   now,
				})
			}
			if err := tx.HelpDesk.CreateApprovals(ctx, approvals); err != nil {
				return err
			}
		}
		d := map[string]interface{}{
			"ticket_number": ticket.TicketNumber,
			"request_type":  ticket.RequestType,
			"priority":      ticket.Priority,
		}
		if err := tx.HelpDesk.AddEvent(ctx, &model.HelpDeskEvent{
			TicketID:  ticket.ID,
			ActorID:   a.ID(),
			EventType: "ticket_created",
			NewStatus: ticket.Status,
			Details:   details(d),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, a.ID(), "ticket_created", entityTicket, ticket.ID, "", ticket.Status, d); err != nil {
			return err
		}
		for _, leadID := range leads {
			if leadID == a.ID() {
				continue
			}
			if err := notify.Enqueue(ctx, tx.Outbox, notify.Notification{
				UserID:     leadID,
				Type:       "ticket_created",
				Title:      "New help-desk ticket " + ticket.TicketNumber,
				Message:    fmt.Sprintf("%s raised %q for %s.", a.Profile.FullName, ticket.Title, ticket.ServiceDepartment),
				Priority:   ticket.Priority,
				LinkURL:    fmt.Sprintf("/help-desk/tickets/%d", ticket.ID),
				EntityType: entityTicket,
				EntityID:   ticket.ID,
			}); err != nil {
				return err
			}
		}
		return notify.EnqueueMail(ctx, tx.Outbox, notify.Mail{
			UserIDs: leads,
			Subject: "New help-desk ticket " + ticket.TicketNumber,
			Title:   ticket.Title,
			Message: fmt.Sprintf("A %s priority %s request was raised for %s.", ticket.Priority, ticket.RequestType, ticket.ServiceDepartment),
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.HelpDeskTickets.WithLabelValues(ticket.RequestType).Inc()
	return u.store.HelpDesk.GetByID(ctx, ticket.ID)
}

// isStaff reports whether a handles tickets for t's service department.
func isStaff(a actor, t *model.HelpDeskTicket) bool {
	if a.IsAdminLike() {
		return true
	}
	if t.AssignedTo != nil && *t.AssignedTo == a.ID() {
		return true
	}
	return a.Scope != nil && a.Scope.Role == model.RoleLead && access.CoversDepartment(a.Scope, t.ServiceDepartment)
}

func (u *HelpDeskUsecase) Update(ctx context.Context, actorID, ticketID uint, in UpdateTicketInput) (*model.HelpDeskTicket, error) {
	ctx, span := startSpan(ctx, "helpdesk.Update", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	t, err := u.store.HelpDesk.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	staff := isStaff(a, t)
	requester := t.RequesterID == a.ID()
	if !staff && !requester {
		return nil, apperr.Forbidden("you cannot update this ticket")
	}

	now := u.now()
	fields := map[string]interface{}{}
	newStatus := t.Status

	if in.Status != nil && *in.Status != t.Status {
		to := *in.Status
		if !staff && to != model.TicketCancelled {
			return nil, apperr.Forbidden("only support staff can change the ticket status")
		}
		if !model.ValidTicketStatus(to) {
			return nil, apperr.Validation("status", "unknown status "+to)
		}
		if t.Status == model.TicketPendingApproval && to != model.TicketCancelled {
			return nil, apperr.Validation("status", "ticket is awaiting procurement approval")
		}
		if !model.ValidTicketTransition(t.Status, to) {
			return nil, apperr.Validation("status", fmt.Sprintf("cannot move ticket from %s to %s", t.Status, to))
		}
		fields["status"] = to
		newStatus = to
		switch to {
		case model.TicketInProgress:
			if t.StartedAt == nil {
				fields["started_at"] = now
			}
		case model.TicketResolved:
			fields["resolved_at"] = now
		case model.TicketClosed:
			fields["closed_at"] = now
		}
	}
	if in.AssignedTo != nil {
		if !staff {
			return nil, apperr.Forbidden("only support staff can assign tickets")
		}
		assignee, err := u.store.Profiles.GetByID(ctx, *in.AssignedTo)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.Validation("assigned_to", "assignee does not exist")
			}
			return nil, err
		}
		if assignee.EmploymentStatus == model.EmploymentSeparated {
			return nil, apperr.Validation("assigned_to", "assignee is no longer active")
		}
		fields["assigned_to"] = assignee.ID
		if newStatus == model.TicketNew {
			fields["status"] = model.TicketAssigned
			newStatus = model.TicketAssigned
		}
	}
	if in.Priority != nil && *in.Priority != t.Priority {
		if !staff {
			return nil, apperr.Forbidden("only support staff can change priority")
		}
		if !model.ValidPriority(*in.Priority) {
			return nil, apperr.Validation("priority", "priority must be one of low, medium, high, urgent")
		}
		fields["priority"] = *in.Priority
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("title", "title cannot be empty")
		}
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.CSATRating != nil || in.CSATFeedback != nil {
		if !requester {
			return nil, apperr.Forbidden("only the requester can rate a ticket")
		}
		if !model.CSATOpen(newStatus) {
			return nil, apperr.Validation("csat_rating", "tickets can only be rated once resolved")
		}
		if in.CSATRating != nil {
			if *in.CSATRating < 1 || *in.CSATRating > 5 {
				return nil, apperr.Validation("csat_rating", "csat_rating must be between 1 and 5")
			}
			fields["csat_rating"] = *in.CSATRating
		} else if t.CSATRating == nil {
			return nil, apperr.Validation("csat_rating", "csat_rating is required with feedback")
		}
		if in.CSATFeedback != nil {
			fields["csat_feedback"] = *in.CSATFeedback
		}
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("body", "nothing to update")
	}

	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	eventType := "ticket_updated"
	if newStatus != t.Status {
		eventType = "status_changed"
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.HelpDesk.Update(ctx, t.ID, fields); err != nil {
			return err
		}
		d := map[string]interface{}{"fields": changed}
		if err := tx.HelpDesk.AddEvent(ctx, &model.HelpDeskEvent{
			TicketID:  t.ID,
			ActorID:   a.ID(),
			EventType: eventType,
			OldStatus: t.Status,
			NewStatus: newStatus,
			Details:   details(d),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, a.ID(), "ticket_"+eventType, entityTicket, t.ID, t.Status, newStatus, d); err != nil {
			return err
		}
		if id, ok := fields["assigned_to"].(uint); ok && id != a.ID() {
			if err := notify.Enqueue(ctx, tx.Outbox, notify.Notification{
				UserID:     id,
				Type:       "ticket_assigned",
				Title:      "Ticket " + t.TicketNumber + " assigned to you",
				Message:    t.Title,
				Priority:   t.Priority,
				LinkURL:    fmt.Sprintf("/help-desk/tickets/%d", t.ID),
				EntityType: entityTicket,
				EntityID:   t.ID,
			}); err != nil {
				return err
			}
		}
		if newStatus == model.TicketResolved && t.Status != model.TicketResolved {
			if err := notify.Enqueue(ctx, tx.Outbox, notify.Notification{
				UserID:     t.RequesterID,
				Type:       "ticket_resolved",
				Title:      "Ticket " + t.TicketNumber + " resolved",
				Message:    "Your ticket was resolved. Let us know how we did.",
				LinkURL:    fmt.Sprintf("/help-desk/tickets/%d", t.ID),
				EntityType: entityTicket,
				EntityID:   t.ID,
			}); err != nil {
				return err
			}
			return notify.EnqueueMail(ctx, tx.Outbox, notify.Mail{
				UserIDs: []uint{t.RequesterID},
				Subject: "Ticket " + t.TicketNumber + " resolved",
				Title:   t.Title,
				Message: "Your help-desk ticket has been resolved. Please rate the support you received.",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.store.HelpDesk.GetByID(ctx, t.ID)
}

// List returns tickets for scope "mine" (requested by or assigned to the
// caller) or "department" (leads and admins, filtered to their departments).
func (u *HelpDeskUsecase) List(ctx context.Context, actorID uint, scope, status string) ([]model.HelpDeskTicket, error) {
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	if status != "" && !model.ValidTicketStatus(status) {
		return nil, apperr.Validation("status", "unknown status "+status)
	}
	switch scope {
	case "", TicketScopeMine:
		id := a.ID()
		return u.store.HelpDesk.List(ctx, repository.TicketQuery{Participant: &id, Departments: access.Unscoped(), Status: status})
	case TicketScopeDepartment:
		if a.Scope == nil {
			return nil, apperr.Forbidden("department view requires a lead or admin role")
		}
		return u.store.HelpDesk.List(ctx, repository.TicketQuery{
			Departments: access.DepartmentScope(a.Scope, access.DomainGeneral),
			Status:      status,
		})
	default:
		return nil, apperr.Validation("scope", "scope must be mine or department")
	}
}

func (u *HelpDeskUsecase) visible(ctx context.Context, actorID, ticketID uint) (*model.HelpDeskTicket, error) {
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	t, err := u.store.HelpDesk.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != a.ID() && !isStaff(a, t) {
		return nil, apperr.Forbidden("you cannot view this ticket")
	}
	return t, nil
}

func (u *HelpDeskUsecase) Get(ctx context.Context, actorID, ticketID uint) (*model.HelpDeskTicket, error) {
	return u.visible(ctx, actorID, ticketID)
}

func (u *HelpDeskUsecase) Events(ctx context.Context, actorID, ticketID uint) ([]model.HelpDeskEvent, error) {
	if _, err := u.visible(ctx, actorID, ticketID); err != nil {
		return nil, err
	}
	return u.store.HelpDesk.ListEvents(ctx, ticketID)
}

func canDecideStage(a actor, t *model.HelpDeskTicket, stage string) bool {
	switch stage {
	case model.ApprovalStageDepartmentLead:
		return a.IsAdminLike() || (a.Scope != nil && a.Scope.Role == model.RoleLead && access.CoversDepartment(a.Scope, t.ServiceDepartment))
	case model.ApprovalStageHeadCorporateServices:
		return a.IsAdminLike()
	case model.ApprovalStageManagingDirector:
		return a.Profile.Role == model.RoleSuperAdmin
	}
	return false
}

// DecideApproval records a decision on the first pending stage of a
// procurement ticket. Approving the last stage releases the ticket as new;
// any rejection rejects the ticket and skips the remaining stages.
func (u *HelpDeskUsecase) DecideApproval(ctx context.Context, actorID, ticketID uint, in DecideApprovalInput) (*model.HelpDeskTicket, error) {
	ctx, span := startSpan(ctx, "helpdesk.DecideApproval", actorID)
	defer span.End()

	if in.Decision != model.ApprovalApproved && in.Decision != model.ApprovalRejected {
		return nil, apperr.Validation("decision", "decision must be approved or rejected")
	}
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	t, err := u.store.HelpDesk.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var current *model.HelpDeskApproval
	remaining := 0
	for i := range t.Approvals {
		if t.Approvals[i].Status != model.ApprovalPending {
			continue
		}
		if current == nil {
			current = &t.Approvals[i]
		}
		remaining++
	}
	if current == nil || t.Status != model.TicketPendingApproval {
		return nil, apperr.Validation("status", "ticket has no pending approval")
	}
	if !canDecideStage(a, t, current.ApprovalStage) {
		return nil, apperr.Forbidden("you cannot decide the " + current.ApprovalStage + " stage")
	}

	now := u.now()
	newStatus := t.Status
	ticketFields := map[string]interface{}{}
	switch {
	case in.Decision == model.ApprovalRejected:
		newStatus = model.TicketRejected
		ticketFields["status"] = newStatus
		ticketFields["closed_at"] = now
	case remaining == 1:
		newStatus = model.TicketNew
		ticketFields["status"] = newStatus
		ticketFields["paused_at"] = nil
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.HelpDesk.UpdateApproval(ctx, current.ID, map[string]interface{}{
			"status":      in.Decision,
			"approver_id": a.ID(),
			"comments":    in.Comments,
			"decided_at":  now,
		}); err != nil {
			return err
		}
		if in.Decision == model.ApprovalRejected {
			if err := tx.HelpDesk.SkipPendingApprovals(ctx, t.ID); err != nil {
				return err
			}
		}
		if len(ticketFields) > 0 {
			if err := tx.HelpDesk.Update(ctx, t.ID, ticketFields); err != nil {
				return err
			}
		}
		d := map[string]interface{}{
			"stage":    current.ApprovalStage,
			"decision": in.Decision,
			"comments": in.Comments,
		}
		if err := tx.HelpDesk.AddEvent(ctx, &model.HelpDeskEvent{
			TicketID:  t.ID,
			ActorID:   a.ID(),
			EventType: "approval_" + in.Decision,
			OldStatus: t.Status,
			NewStatus: newStatus,
			Details:   details(d),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, a.ID(), "ticket_approval_"+in.Decision, entityTicket, t.ID, t.Status, newStatus, d); err != nil {
			return err
		}
		if newStatus == t.Status {
			return nil
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     t.RequesterID,
			Type:       "ticket_approval_" + in.Decision,
			Title:      "Procurement request " + t.TicketNumber + " " + in.Decision,
			Message:    fmt.Sprintf("Your request %q was %s at the %s stage.", t.Title, in.Decision, current.ApprovalStage),
			LinkURL:    fmt.Sprintf("/help-desk/tickets/%d", t.ID),
			EntityType: entityTicket,
			EntityID:   t.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.store.HelpDesk.GetByID(ctx, t.ID)
}
