package usecase

import (
	"context"
	"fmt"
	"time"

	"erp-backend/internal/access"
	"erp-backend/internal/apperr"
	"erp-backend/internal/metrics"
	"erp-backend/internal/model"
	"erp-backend/internal/notify"
	"erp-backend/internal/repository"
)

const (
	ActionWithdraw    = "withdraw"
	ActionCancel      = "cancel"
	ActionExtend      = "extend"
	ActionEarlyReturn = "early_return"
)

const entityLeave = "leave_request"

type SubmitLeaveInput struct {
	LeaveTypeID   uint   `json:"leave_type_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RelieverID    *uint  `json:"reliever_id"`
	SupervisorID  *uint  `json:"supervisor_id"`
	Reason        string `json:"reason"`
	HandoverNotes string `json:"handover_notes"`
}

type DecideLeaveInput struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment"`
}

type LifecycleInput struct {
	LeaveRequestID  uint   `json:"leave_request_id"`
	Action          string `json:"action"`
	Reason          string `json:"reason"`
	ExtensionDays   *int   `json:"extension_days"`
	EarlyReturnDate string `json:"early_return_date"`
}

type LifecycleResult struct {
	Message string              `json:"message"`
	Request *model.LeaveRequest `json:"request"`
}

type LeaveUsecase struct {
	store    *repository.Store
	resolver *access.Resolver
	now      func() time.Time
}

func NewLeaveUsecase(store *repository.Store, resolver *access.Resolver) *LeaveUsecase {
	return &LeaveUsecase{store: store, resolver: resolver, now: time.Now}
}

func initialStage(relieverID, supervisorID *uint) string {
	switch {
	case relieverID != nil:
		return model.StageReliever
	case supervisorID != nil:
		return model.StageSupervisor
	default:
		return model.StageHR
	}
}

// stageApprover returns the user who acts on req at its current stage, or 0
// when the stage belongs to HR as a group.
func stageApprover(req *model.LeaveRequest) uint {
	switch req.ApprovalStage {
	case model.StageReliever:
		if req.RelieverID != nil {
			return *req.RelieverID
		}
	case model.StageSupervisor:
		if req.SupervisorID != nil {
			return *req.SupervisorID
		}
	}
	return 0
}

// balanceYear is the year a request is charged against.
func balanceYear(req *model.LeaveRequest) int {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return 0
	}
	return start.Year()
}

// rejectOverlap fails when the user already has pending or approved leave on
// any day between from and to.
func rejectOverlap(ctx context.Context, tx *repository.Store, userID uint, from, to string) error {
	existing, err := tx.Leaves.FindOverlapping(ctx, userID, from, to)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		o := existing[0]
		return apperr.Validation("start_date", fmt.Sprintf("overlaps %s leave request #%d (%s to %s)", o.Status, o.ID, o.StartDate, o.EndDate))
	}
	return nil
}

func (u *LeaveUsecase) Submit(ctx context.Context, actorID uint, in SubmitLeaveInput) (*model.LeaveRequest, error) {
	ctx, span := startSpan(ctx, "leave.Submit", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	if in.LeaveTypeID == 0 {
		return nil, apperr.Validation("leave_type_id", "leave_type_id is required")
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperr.Validation("end_date", "end_date must not be before start_date")
	}
	if in.RelieverID != nil && *in.RelieverID == a.ID() {
		return nil, apperr.Validation("reliever_id", "you cannot relieve yourself")
	}
	if in.SupervisorID != nil && *in.SupervisorID == a.ID() {
		return nil, apperr.Validation("supervisor_id", "you cannot supervise your own request")
	}
	lt, err := u.store.Leaves.GetLeaveType(ctx, in.LeaveTypeID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Validation("leave_type_id", "unknown leave type")
		}
		return nil, err
	}

	days := daysInclusive(start, end)
	req := &model.LeaveRequest{
		UserID:        a.ID(),
		LeaveTypeID:   lt.ID,
		StartDate:     start.Format(dateLayout),
		EndDate:       end.Format(dateLayout),
		ResumeDate:    end.AddDate(0, 0, 1).Format(dateLayout),
		DaysCount:     days,
		Status:        model.LeavePending,
		ApprovalStage: initialStage(in.RelieverID, in.SupervisorID),
		RelieverID:    in.RelieverID,
		SupervisorID:  in.SupervisorID,
		RequestKind:   model.RequestKindStandard,
		Reason:        in.Reason,
		HandoverNotes: in.HandoverNotes,
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := rejectOverlap(ctx, tx, a.ID(), req.StartDate, req.EndDate); err != nil {
			return err
		}
		balance, err := tx.Leaves.EnsureBalance(ctx, a.ID(), lt.ID, start.Year(), lt.DefaultDays)
		if err != nil {
			return err
		}
		if balance.Remaining() < days {
			return apperr.Validation("end_date", fmt.Sprintf("insufficient balance: %d day(s) remaining", balance.Remaining()))
		}
		if err := tx.Leaves.Create(ctx, req); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, a.ID(), "leave_submitted", entityLeave, req.ID, "", string(req.Status), map[string]interface{}{
			"days_count": days,
			"stage":      req.ApprovalStage,
		}); err != nil {
			return err
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     stageApprover(req),
			Type:       "leave_approval_requested",
			Title:      "Leave request awaiting your approval",
			Message:    fmt.Sprintf("%s requested %d day(s) of %s from %s.", a.Profile.FullName, days, lt.Name, req.StartDate),
			LinkURL:    fmt.Sprintf("/leave/requests/%d", req.ID),
			EntityType: entityLeave,
			EntityID:   req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.LeaveActions.WithLabelValues("submit").Inc()
	return req, nil
}

// Decide approves or rejects a pending request at its current stage. Final
// approval charges the balance and marks attendance for the leave period.
func (u *LeaveUsecase) Decide(ctx context.Context, actorID, requestID uint, in DecideLeaveInput) (*model.LeaveRequest, error) {
	ctx, span := startSpan(ctx, "leave.Decide", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	if in.Decision != "approve" && in.Decision != "reject" {
		return nil, apperr.Validation("decision", "decision must be approve or reject")
	}
	req, err := u.store.Leaves.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.UserID == a.ID() {
		return nil, apperr.Forbidden("you cannot decide your own leave request")
	}

	var allowed bool
	switch req.ApprovalStage {
	case model.StageReliever, model.StageSupervisor:
		allowed = stageApprover(req) == a.ID()
	case model.StageHR:
		allowed = access.IsHR(a.Scope)
	default:
		return nil, apperr.Validation("status", "request is not pending")
	}
	if !allowed {
		return nil, apperr.Forbidden("you are not the approver for this stage")
	}
	if req.Status != model.LeavePending {
		return nil, apperr.Validation("status", "request is not pending")
	}

	now := u.now()
	fields := map[string]interface{}{}
	event := "leave_stage_approved"
	switch {
	case in.Decision == "reject":
		fields["status"] = model.LeaveRejected
		fields["approval_stage"] = model.StageRejected
		event = "leave_rejected"
	case req.ApprovalStage == model.StageReliever && req.SupervisorID != nil:
		fields["approval_stage"] = model.StageSupervisor
	case req.ApprovalStage == model.StageReliever || req.ApprovalStage == model.StageSupervisor:
		fields["approval_stage"] = model.StageHR
	default:
		fields["status"] = model.LeaveApproved
		fields["approval_stage"] = model.StageCompleted
		fields["approved_by"] = a.ID()
		fields["approved_at"] = now
		event = "leave_approved"
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if event == "leave_approved" {
			year := balanceYear(req)
			balance, err := tx.Leaves.EnsureBalance(ctx, req.UserID, req.LeaveTypeID, year, req.LeaveType.DefaultDays)
			if err != nil {
				return err
			}
			if balance.Remaining() < req.DaysCount {
				return apperr.Validation("days_count", "requester no longer has enough leave balance")
			}
		}
		ok, err := tx.Leaves.UpdateIfStatus(ctx, req.ID, model.LeavePending, fields)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("request was changed by someone else")
		}
		if event == "leave_approved" {
			if err := tx.Leaves.DeductBalance(ctx, req.UserID, req.LeaveTypeID, balanceYear(req), req.DaysCount); err != nil {
				return err
			}
			if err := u.applyAttendance(ctx, tx, req, req.StartDate, req.EndDate); err != nil {
				return err
			}
		}
		newStatus := string(req.Status)
		if s, ok := fields["status"]; ok {
			newStatus = string(s.(model.LeaveStatus))
		}
		if err := recordAudit(ctx, tx, a.ID(), event, entityLeave, req.ID, string(req.Status), newStatus, map[string]interface{}{
			"from_stage": req.ApprovalStage,
			"to_stage":   fields["approval_stage"],
			"comment":    in.Comment,
		}); err != nil {
			return err
		}

		refreshed, err := tx.Leaves.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if next := stageApprover(refreshed); next != 0 && refreshed.Status == model.LeavePending {
			if err := notify.Enqueue(ctx, tx.Outbox, notify.Notification{
				UserID:     next,
				Type:       "leave_approval_requested",
				Title:      "Leave request awaiting your approval",
				Message:    fmt.Sprintf("A leave request from %s to %s needs your decision.", refreshed.StartDate, refreshed.EndDate),
				LinkURL:    fmt.Sprintf("/leave/requests/%d", req.ID),
				EntityType: entityLeave,
				EntityID:   req.ID,
			}); err != nil {
				return err
			}
		}
		if refreshed.Status != model.LeavePending {
			if err := notify.Enqueue(ctx, tx.Outbox, notify.Notification{
				UserID:     req.UserID,
				Type:       event,
				Title:      "Your leave request was " + string(refreshed.Status),
				Message:    fmt.Sprintf("Leave from %s to %s was %s.", refreshed.StartDate, refreshed.EndDate, refreshed.Status),
				LinkURL:    fmt.Sprintf("/leave/requests/%d", req.ID),
				EntityType: entityLeave,
				EntityID:   req.ID,
			}); err != nil {
				return err
			}
			if err := notify.EnqueueMail(ctx, tx.Outbox, notify.Mail{
				UserIDs: []uint{req.UserID},
				Subject: "Leave request " + string(refreshed.Status),
				Title:   "Leave request " + string(refreshed.Status),
				Message: fmt.Sprintf("Your leave from %s to %s was %s.", refreshed.StartDate, refreshed.EndDate, refreshed.Status),
			}); err != nil {
				return err
			}
		}
		req = refreshed
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.LeaveActions.WithLabelValues(in.Decision).Inc()
	return req, nil
}

// Lifecycle runs withdraw, cancel, extend or early_return on a request.
func (u *LeaveUsecase) Lifecycle(ctx context.Context, actorID uint, in LifecycleInput) (*LifecycleResult, error) {
	ctx, span := startSpan(ctx, "leave.Lifecycle."+in.Action, actorID)
	defer span.End()

	switch in.Action {
	case ActionWithdraw, ActionCancel, ActionExtend, ActionEarlyReturn:
	default:
		return nil, apperr.Validation("action", "action must be one of withdraw, cancel, extend, early_return")
	}
	if in.LeaveRequestID == 0 {
		return nil, apperr.Validation("leave_request_id", "leave_request_id is required")
	}
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	req, err := u.store.Leaves.GetByID(ctx, in.LeaveRequestID)
	if err != nil {
		return nil, err
	}

	var result *LifecycleResult
	switch in.Action {
	case ActionWithdraw:
		result, err = u.withdraw(ctx, a, req, in)
	case ActionCancel:
		result, err = u.cancel(ctx, a, req, in)
	case ActionExtend:
		result, err = u.extend(ctx, a, req, in)
	case ActionEarlyReturn:
		result, err = u.earlyReturn(ctx, a, req, in)
	}
	if err != nil {
		return nil, err
	}
	metrics.LeaveActions.WithLabelValues(in.Action).Inc()
	return result, nil
}

func (u *LeaveUsecase) withdraw(ctx context.Context, a actor, req *model.LeaveRequest, in LifecycleInput) (*LifecycleResult, error) {
	if req.UserID != a.ID() {
		return nil, apperr.Forbidden("only the requester can withdraw a leave request")
	}
	if req.Status != model.LeavePending {
		return nil, apperr.Validation("status", "only pending requests can be withdrawn")
	}

	err := u.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Leaves.UpdateIfStatus(ctx, req.ID, model.LeavePending, map[string]interface{}{
			"status":              model.LeaveCancelled,
			"approval_stage":      model.StageCancelled,
			"cancellation_reason": in.Reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("request was changed by someone else")
		}
		if err := recordAudit(ctx, tx, a.ID(), "leave_withdrawn", entityLeave, req.ID, string(req.Status), string(model.LeaveCancelled), map[string]interface{}{
			"reason": in.Reason,
		}); err != nil {
			return err
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     stageApprover(req),
			Type:       "leave_withdrawn",
			Title:      "Leave request withdrawn",
			Message:    fmt.Sprintf("%s withdrew the leave request from %s to %s.", a.Profile.FullName, req.StartDate, req.EndDate),
			EntityType: entityLeave,
			EntityID:   req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.result(ctx, req.ID, "Leave request withdrawn")
}

func (u *LeaveUsecase) cancel(ctx context.Context, a actor, req *model.LeaveRequest, in LifecycleInput) (*LifecycleResult, error) {
	isHR := access.IsHR(a.Scope)
	if req.UserID != a.ID() && !isHR {
		return nil, apperr.Forbidden("you are not allowed to cancel this leave")
	}
	if req.Status != model.LeaveApproved {
		return nil, apperr.Validation("status", "only approved leave can be cancelled")
	}
	if !isHR {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, apperr.Internal("stored leave has an invalid start date", err)
		}
		if !start.After(today(u.now())) {
			return nil, apperr.Validation("start_date", "leave already in progress; ask HR to cancel it")
		}
	}

	err := u.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Leaves.UpdateIfStatus(ctx, req.ID, model.LeaveApproved, map[string]interface{}{
			"status":              model.LeaveCancelled,
			"approval_stage":      model.StageCancelled,
			"cancellation_reason": in.Reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("request was changed by someone else")
		}
		if err := restoreBalance(ctx, tx, req, req.DaysCount); err != nil {
			return err
		}
		if _, err := tx.Attendance.ClearLeave(ctx, req.UserID, req.ID, req.StartDate, req.EndDate); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, a.ID(), "leave_cancelled", entityLeave, req.ID, string(req.Status), string(model.LeaveCancelled), map[string]interface{}{
			"reason":        in.Reason,
			"restored_days": req.DaysCount,
		}); err != nil {
			return err
		}
		if req.UserID == a.ID() {
			return nil
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     req.UserID,
			Type:       "leave_cancelled",
			Title:      "Your leave was cancelled",
			Message:    fmt.Sprintf("Leave from %s to %s was cancelled by HR.", req.StartDate, req.EndDate),
			EntityType: entityLeave,
			EntityID:   req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.result(ctx, req.ID, "Leave cancelled and balance restored")
}

// extend files a new pending request that starts the day after req ends.
// req itself is left untouched.
func (u *LeaveUsecase) extend(ctx context.Context, a actor, req *model.LeaveRequest, in LifecycleInput) (*LifecycleResult, error) {
	if req.UserID != a.ID() {
		return nil, apperr.Forbidden("only the requester can extend a leave")
	}
	if in.ExtensionDays == nil || *in.ExtensionDays <= 0 {
		return nil, apperr.Validation("extension_days", "extension_days must be a positive number")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apperr.Internal("stored leave has an invalid end date", err)
	}

	// The extension starts at reliever when one is inherited, otherwise at the
	// first later stage that has an owner.
	n := *in.ExtensionDays
	start := end.AddDate(0, 0, 1)
	newEnd := start.AddDate(0, 0, n-1)
	ext := &model.LeaveRequest{
		UserID:            req.UserID,
		LeaveTypeID:       req.LeaveTypeID,
		StartDate:         start.Format(dateLayout),
		EndDate:           newEnd.Format(dateLayout),
		ResumeDate:        newEnd.AddDate(0, 0, 1).Format(dateLayout),
		DaysCount:         n,
		Status:            model.LeavePending,
		ApprovalStage:     initialStage(req.RelieverID, req.SupervisorID),
		RelieverID:        req.RelieverID,
		SupervisorID:      req.SupervisorID,
		OriginalRequestID: uintPtr(req.ID),
		RequestKind:       model.RequestKindExtension,
		Reason:            in.Reason,
		HandoverNotes:     req.HandoverNotes,
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := rejectOverlap(ctx, tx, ext.UserID, ext.StartDate, ext.EndDate); err != nil {
			return err
		}
		if err := tx.Leaves.Create(ctx, ext); err != nil {
			return apperr.Internal("failed to create extension request", err)
		}
		if err := recordAudit(ctx, tx, a.ID(), "leave_extension_requested", entityLeave, ext.ID, "", string(ext.Status), map[string]interface{}{
			"original_request_id": req.ID,
			"extension_days":      n,
		}); err != nil {
			return err
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     stageApprover(ext),
			Type:       "leave_approval_requested",
			Title:      "Leave extension awaiting your approval",
			Message:    fmt.Sprintf("%s asked to extend leave by %d day(s) until %s.", a.Profile.FullName, n, ext.EndDate),
			EntityType: entityLeave,
			EntityID:   ext.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.result(ctx, ext.ID, "Extension request submitted")
}

// earlyReturn shortens approved leave so it ends on the return date, giving
// the unused days back and clearing attendance after the new end.
func (u *LeaveUsecase) earlyReturn(ctx context.Context, a actor, req *model.LeaveRequest, in LifecycleInput) (*LifecycleResult, error) {
	if !access.IsHR(a.Scope) {
		return nil, apperr.Forbidden("only HR can record an early return")
	}
	if req.Status != model.LeaveApproved {
		return nil, apperr.Validation("status", "only approved leave can be shortened")
	}
	early, err := parseDate("early_return_date", in.EarlyReturnDate)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apperr.Internal("stored leave has an invalid start date", err)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apperr.Internal("stored leave has an invalid end date", err)
	}
	if early.Before(start) || early.After(end) {
		return nil, apperr.Validation("early_return_date", "early_return_date must fall within the leave period")
	}

	newDays := daysInclusive(start, early)
	delta := req.DaysCount - newDays
	earlyStr := early.Format(dateLayout)

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Leaves.UpdateIfStatus(ctx, req.ID, model.LeaveApproved, map[string]interface{}{
			"end_date":          earlyStr,
			"resume_date":       early.AddDate(0, 0, 1).Format(dateLayout),
			"days_count":        newDays,
			"early_return_date": earlyStr,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("request was changed by someone else")
		}
		if delta > 0 {
			if err := restoreBalance(ctx, tx, req, delta); err != nil {
				return err
			}
			from := early.AddDate(0, 0, 1).Format(dateLayout)
			if _, err := tx.Attendance.ClearLeave(ctx, req.UserID, req.ID, from, req.EndDate); err != nil {
				return err
			}
		}
		if err := recordAudit(ctx, tx, a.ID(), "leave_early_return", entityLeave, req.ID, string(req.Status), string(req.Status), map[string]interface{}{
			"early_return_date": earlyStr,
			"original_end_date": req.EndDate,
			"restored_days":     delta,
		}); err != nil {
			return err
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     req.UserID,
			Type:       "leave_early_return",
			Title:      "Early return recorded",
			Message:    fmt.Sprintf("Your leave now ends on %s; %d day(s) returned to your balance.", earlyStr, delta),
			EntityType: entityLeave,
			EntityID:   req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.result(ctx, req.ID, "Early return recorded")
}

// restoreBalance gives days back to the balance req was charged against.
// used_days never drops below zero.
func restoreBalance(ctx context.Context, tx *repository.Store, req *model.LeaveRequest, days int) error {
	if days <= 0 {
		return nil
	}
	// Restore to the year that was charged, which may differ from the current year.
	_, err := tx.Leaves.RestoreBalance(ctx, req.UserID, req.LeaveTypeID, balanceYear(req), days)
	return err
}

func (u *LeaveUsecase) applyAttendance(ctx context.Context, tx *repository.Store, req *model.LeaveRequest, from, to string) error {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return apperr.Internal("stored leave has an invalid start date", err)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return apperr.Internal("stored leave has an invalid end date", err)
	}
	return tx.Attendance.MarkLeave(ctx, req.UserID, req.ID, dateRange(start, end))
}

func (u *LeaveUsecase) result(ctx context.Context, id uint, message string) (*LifecycleResult, error) {
	req, err := u.store.Leaves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LifecycleResult{Message: message, Request: req}, nil
}

func (u *LeaveUsecase) ListMine(ctx context.Context, actorID uint) ([]model.LeaveRequest, error) {
	return u.store.Leaves.ListByUser(ctx, actorID)
}

// ListForApprover returns pending requests waiting on the caller.
func (u *LeaveUsecase) ListForApprover(ctx context.Context, actorID uint) ([]model.LeaveRequest, error) {
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	return u.store.Leaves.ListAwaiting(ctx, a.ID(), access.IsHR(a.Scope))
}

// Balances returns the caller's balances for year, creating rows for leave
// types that have none yet.
func (u *LeaveUsecase) Balances(ctx context.Context, actorID uint, year int) ([]model.LeaveBalance, error) {
	if year == 0 {
		year = u.now().Year()
	}
	types, err := u.store.Leaves.ListLeaveTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, lt := range types {
		if _, err := u.store.Leaves.EnsureBalance(ctx, actorID, lt.ID, year, lt.DefaultDays); err != nil {
			return nil, err
		}
	}
	return u.store.Leaves.ListBalances(ctx, actorID, year)
}
