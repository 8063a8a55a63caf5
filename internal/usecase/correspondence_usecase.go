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
	"erp-backend/internal/storage"

	"github.com/google/uuid"
)

const entityCorrespondence = "correspondence_record"

const signedURLTTL = 15 * time.Minute

// FileStore is the blob storage used for correspondence documents.
type FileStore interface {
	Upload(ctx context.Context, path string, data []byte) error
	Remove(ctx context.Context, path string) error
	SignedURL(path string, ttl time.Duration) (string, error)
}

type CreateCorrespondenceInput struct {
	Direction              string  `json:"direction"`
	Subject                string  `json:"subject"`
	Summary                string  `json:"summary"`
	Sender                 string  `json:"sender"`
	Recipient              string  `json:"recipient"`
	Priority               string  `json:"priority"`
	DueDate                *string `json:"due_date"`
	ReferenceNumber        string  `json:"reference_number"`
	DepartmentName         string  `json:"department_name"`
	AssignedDepartmentName string  `json:"assigned_department_name"`
}

type UploadDocumentInput struct {
	Kind          string
	FileName      string
	Data          []byte
	ChangeSummary string
}

// UpdateCorrespondenceInput lists the fields a PATCH may touch. Supplying
// VersionFilePath or ChangeSummary records a new version.
type UpdateCorrespondenceInput struct {
	Subject                *string `json:"subject"`
	Summary                *string `json:"summary"`
	Sender                 *string `json:"sender"`
	Recipient              *string `json:"recipient"`
	Priority               *string `json:"priority"`
	DueDate                *string `json:"due_date"`
	ReferenceNumber        *string `json:"reference_number"`
	AssignedDepartmentName *string `json:"assigned_department_name"`
	Status                 *string `json:"status"`
	VersionFilePath        *string `json:"version_file_path"`
	ChangeSummary          *string `json:"change_summary"`
}

type CorrespondenceDecisionInput struct {
	Decision string `json:"decision"`
	Comments string `json:"comments"`
}

type ListCorrespondenceInput struct {
	Status    string
	Direction string
}

type CorrespondenceDetail struct {
	Record    *model.CorrespondenceRecord    `json:"record"`
	Approvals []model.CorrespondenceApproval `json:"approvals"`
	Events    []model.CorrespondenceEvent    `json:"events"`
}

type Document struct {
	Kind       string    `json:"kind"`
	VersionNo  int       `json:"version_no,omitempty"`
	FileName   string    `json:"file_name"`
	Summary    string    `json:"summary,omitempty"`
	UploadedBy uint      `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	URL        string    `json:"url"`
	path       string
}

type CorrespondenceUsecase struct {
	store    *repository.Store
	resolver *access.Resolver
	files    FileStore
	now      func() time.Time
}

func NewCorrespondenceUsecase(store *repository.Store, resolver *access.Resolver, files FileStore) *CorrespondenceUsecase {
	return &CorrespondenceUsecase{store: store, resolver: resolver, files: files, now: time.Now}
}

func (u *CorrespondenceUsecase) canManage(a actor, rec *model.CorrespondenceRecord) bool {
	if a.IsAdminLike() || rec.OriginatorID == a.ID() {
		return true
	}
	return a.Scope != nil && access.CoversDepartment(a.Scope, rec.DepartmentName)
}

func (u *CorrespondenceUsecase) canView(a actor, rec *model.CorrespondenceRecord) bool {
	if u.canManage(a, rec) {
		return true
	}
	own := access.CanonicalDepartment(a.Profile.Department)
	return own != "" && (strings.EqualFold(own, access.CanonicalDepartment(rec.DepartmentName)) ||
		strings.EqualFold(own, access.CanonicalDepartment(rec.AssignedDepartmentName)))
}

func canDecideCorrespondence(a actor, rec *model.CorrespondenceRecord) bool {
	if a.IsAdminLike() {
		return true
	}
	return a.Scope != nil && a.Scope.Role == model.RoleLead && access.CoversDepartment(a.Scope, rec.DepartmentName)
}

func (u *CorrespondenceUsecase) addEvent(ctx context.Context, tx *repository.Store, actorID uint, rec *model.CorrespondenceRecord, eventType, oldStatus, newStatus string, d map[string]interface{}) error {
	if err := tx.Correspondence.AddEvent(ctx, &model.CorrespondenceEvent{
		CorrespondenceID: rec.ID,
		ActorID:          actorID,
		EventType:        eventType,
		OldStatus:        oldStatus,
		NewStatus:        newStatus,
		Details:          details(d),
		CreatedAt:        u.now(),
	}); err != nil {
		return err
	}
	return recordAudit(ctx, tx, actorID, "correspondence_"+eventType, entityCorrespondence, rec.ID, oldStatus, newStatus, d)
}

func (u *CorrespondenceUsecase) Create(ctx context.Context, actorID uint, in CreateCorrespondenceInput) (*model.CorrespondenceRecord, error) {
	ctx, span := startSpan(ctx, "correspondence.Create", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	if in.Direction != model.DirectionIncoming && in.Direction != model.DirectionOutgoing {
		return nil, apperr.Validation("direction", "direction must be incoming or outgoing")
	}
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" {
		return nil, apperr.Validation("subject", "subject is required")
	}
	dept := strings.TrimSpace(in.DepartmentName)
	if dept == "" {
		dept = a.Profile.Department
	}
	if in.Direction == model.DirectionOutgoing && dept == "" {
		return nil, apperr.Validation("department_name", "department_name is required for outgoing correspondence")
	}
	if in.Priority != "" && !model.ValidPriority(in.Priority) {
		return nil, apperr.Validation("priority", "priority must be one of low, medium, high, urgent")
	}
	if in.DueDate != nil && *in.DueDate != "" {
		if _, err := parseDate("due_date", *in.DueDate); err != nil {
			return nil, err
		}
	} else {
		in.DueDate = nil
	}
	if a.Scope != nil && a.Scope.Role == model.RoleLead && !access.CoversDepartment(a.Scope, dept) {
		return nil, apperr.Forbidden("you can only create correspondence for departments you manage")
	}

	leads, err := departmentLeads(ctx, u.store, dept)
	if err != nil {
		return nil, err
	}
	// The first lead covering the department, other than the caller, is told.
	var leadID uint
	for _, id := range leads {
		if id != a.ID() {
			leadID = id
			break
		}
	}

	status := model.CorrespondenceOpen
	if in.Direction == model.DirectionOutgoing {
		status = model.CorrespondenceDraft
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	rec := &model.CorrespondenceRecord{
		ReferenceNumber:        in.ReferenceNumber,
		Direction:              in.Direction,
		Subject:                in.Subject,
		Summary:                in.Summary,
		Sender:                 in.Sender,
		Recipient:              in.Recipient,
		Priority:               priority,
		DueDate:                in.DueDate,
		DepartmentName:         dept,
		AssignedDepartmentName: in.AssignedDepartmentName,
		Status:                 status,
		OriginatorID:           a.ID(),
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Correspondence.Create(ctx, rec); err != nil {
			return err
		}
		if err := u.addEvent(ctx, tx, a.ID(), rec, "created", "", rec.Status, map[string]interface{}{
			"direction":       rec.Direction,
			"department_name": rec.DepartmentName,
		}); err != nil {
			return err
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     leadID,
			Type:       "correspondence_created",
			Title:      "New " + rec.Direction + " correspondence",
			Message:    rec.Subject,
			Priority:   rec.Priority,
			LinkURL:    fmt.Sprintf("/correspondence/records/%d", rec.ID),
			EntityType: entityCorrespondence,
			EntityID:   rec.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (u *CorrespondenceUsecase) load(ctx context.Context, actorID, id uint) (actor, *model.CorrespondenceRecord, error) {
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return actor{}, nil, err
	}
	rec, err := u.store.Correspondence.GetByID(ctx, id)
	if err != nil {
		return actor{}, nil, err
	}
	return a, rec, nil
}

// Upload stores a document for a record. Drafts become the next version,
// proofs replace the proof of delivery, supporting documents are attached.
func (u *CorrespondenceUsecase) Upload(ctx context.Context, actorID, id uint, in UploadDocumentInput) (*model.CorrespondenceRecord, error) {
	ctx, span := startSpan(ctx, "correspondence.Upload", actorID)
	defer span.End()

	a, rec, err := u.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !u.canManage(a, rec) {
		return nil, apperr.Forbidden("you cannot upload documents to this record")
	}
	switch in.Kind {
	case model.DocumentDraft, model.DocumentProof, model.DocumentSupporting:
	default:
		return nil, apperr.Validation("kind", "kind must be draft, proof or supporting")
	}
	if len(in.Data) == 0 {
		return nil, apperr.Validation("file", "file is required")
	}
	if in.Kind == model.DocumentDraft && rec.IsLocked {
		return nil, apperr.Conflict("record is approved and locked")
	}

	name := storage.SanitizeFileName(in.FileName)
	path := fmt.Sprintf("correspondence/%d/%s_%s_%s", rec.ID, in.Kind, uuid.NewString()[:8], name)
	if err := u.files.Upload(ctx, path, in.Data); err != nil {
		return nil, err
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		d := map[string]interface{}{"kind": in.Kind, "file_path": path, "file_name": name}
		switch in.Kind {
		case model.DocumentDraft:
			version, err := tx.Correspondence.BumpVersion(ctx, rec.ID)
			if err != nil {
				return err
			}
			if err := tx.Correspondence.AddVersion(ctx, &model.CorrespondenceVersion{
				CorrespondenceID: rec.ID,
				VersionNo:        version,
				FilePath:         path,
				ChangeSummary:    in.ChangeSummary,
				UploadedBy:       a.ID(),
			}); err != nil {
				return err
			}
			d["version_no"] = version
		case model.DocumentProof:
			if err := tx.Correspondence.Update(ctx, rec.ID, map[string]interface{}{"proof_of_delivery_path": path}); err != nil {
				return err
			}
		case model.DocumentSupporting:
			if err := tx.Correspondence.AddAttachment(ctx, &model.CorrespondenceAttachment{
				CorrespondenceID: rec.ID,
				FilePath:         path,
				FileName:         name,
				Summary:          in.ChangeSummary,
				UploadedBy:       a.ID(),
			}); err != nil {
				return err
			}
		}
		return u.addEvent(ctx, tx, a.ID(), rec, in.Kind+"_uploaded", rec.Status, rec.Status, d)
	})
	if err != nil {
		// Nothing references the blob once the transaction rolled back.
		_ = u.files.Remove(ctx, path)
		return nil, err
	}
	return u.store.Correspondence.GetByID(ctx, rec.ID)
}

// Documents lists a record's files with short-lived signed links.
func (u *CorrespondenceUsecase) Documents(ctx context.Context, actorID, id uint) ([]Document, error) {
	a, rec, err := u.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !u.canView(a, rec) {
		return nil, apperr.Forbidden("you cannot view this record")
	}
	versions, err := u.store.Correspondence.ListVersions(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	attachments, err := u.store.Correspondence.ListAttachments(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, v := range versions {
		docs = append(docs, Document{
			Kind: model.DocumentDraft, VersionNo: v.VersionNo, FileName: baseName(v.FilePath),
			Summary: v.ChangeSummary, UploadedBy: v.UploadedBy, CreatedAt: v.CreatedAt, path: v.FilePath,
		})
	}
	for _, at := range attachments {
		docs = append(docs, Document{
			Kind: model.DocumentSupporting, FileName: at.FileName, Summary: at.Summary,
			UploadedBy: at.UploadedBy, CreatedAt: at.CreatedAt, path: at.FilePath,
		})
	}
	if rec.ProofOfDeliveryPath != "" {
		docs = append(docs, Document{Kind: model.DocumentProof, FileName: baseName(rec.ProofOfDeliveryPath), path: rec.ProofOfDeliveryPath})
	}
	for i := range docs {
		if docs[i].path == "" {
			continue
		}
		link, err := u.files.SignedURL(docs[i].path, signedURLTTL)
		if err != nil {
			return nil, apperr.Internal("failed to sign document link", err)
		}
		docs[i].URL = link
	}
	return docs, nil
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Submit sends a draft for approval and queues a pending department lead
// approval if none is waiting yet.
func (u *CorrespondenceUsecase) Submit(ctx context.Context, actorID, id uint) (*model.CorrespondenceRecord, error) {
	ctx, span := startSpan(ctx, "correspondence.Submit", actorID)
	defer span.End()

	a, rec, err := u.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !u.canManage(a, rec) {
		return nil, apperr.Forbidden("you cannot submit this record")
	}
	if rec.Status != model.CorrespondenceDraft && rec.Status != model.CorrespondenceReturnedForCorrection {
		return nil, apperr.Validation("status", "only drafts or returned records can be submitted")
	}
	leads, err := departmentLeads(ctx, u.store, rec.DepartmentName)
	if err != nil {
		return nil, err
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Correspondence.Update(ctx, rec.ID, map[string]interface{}{"status": model.CorrespondenceSubmitted}); err != nil {
			return err
		}
		pending, err := tx.Correspondence.PendingApproval(ctx, rec.ID)
		if err != nil {
			return err
		}
		if pending == nil {
			if err := tx.Correspondence.CreateApproval(ctx, &model.CorrespondenceApproval{
				CorrespondenceID: rec.ID,
				ApprovalStage:    model.ApprovalStageDepartmentLead,
				Status:           model.ApprovalPending,
			}); err != nil {
				return err
			}
		}
		if err := u.addEvent(ctx, tx, a.ID(), rec, "submitted", rec.Status, model.CorrespondenceSubmitted, map[string]interface{}{
			"current_version": rec.CurrentVersion,
		}); err != nil {
			return err
		}
		for _, id := range leads {
			if id == a.ID() {
				continue
			}
			if err := notify.Enqueue(ctx, tx.Outbox, notify.Notification{
				UserID:     id,
				Type:       "correspondence_submitted",
				Title:      "Correspondence awaiting approval",
				Message:    rec.Subject,
				LinkURL:    fmt.Sprintf("/correspondence/records/%d", rec.ID),
				EntityType: entityCorrespondence,
				EntityID:   rec.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.store.Correspondence.GetByID(ctx, rec.ID)
}

// Decide records an approval decision. The pending approval row is updated
// when there is one; otherwise a decided row is inserted directly.
func (u *CorrespondenceUsecase) Decide(ctx context.Context, actorID, id uint, in CorrespondenceDecisionInput) (*model.CorrespondenceRecord, error) {
	ctx, span := startSpan(ctx, "correspondence.Decide", actorID)
	defer span.End()

	switch in.Decision {
	case model.CorrespondenceApproved, model.CorrespondenceRejected, model.CorrespondenceReturnedForCorrection:
	default:
		return nil, apperr.Validation("decision", "decision must be approved, rejected or returned_for_correction")
	}
	a, rec, err := u.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !canDecideCorrespondence(a, rec) {
		return nil, apperr.Forbidden("you cannot decide on this record")
	}
	if rec.IsLocked {
		return nil, apperr.Conflict("record is already approved and locked")
	}

	now := u.now()
	fields := map[string]interface{}{"status": in.Decision}
	if in.Decision == model.CorrespondenceApproved {
		fields["approved_at"] = now
		fields["is_locked"] = true
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		pending, err := tx.Correspondence.PendingApproval(ctx, rec.ID)
		if err != nil {
			return err
		}
		seeded := pending != nil
		if seeded {
			err = tx.Correspondence.UpdateApproval(ctx, pending.ID, map[string]interface{}{
				"status":      in.Decision,
				"approver_id": a.ID(),
				"comments":    in.Comments,
				"decided_at":  now,
			})
		} else {
			err = tx.Correspondence.CreateApproval(ctx, &model.CorrespondenceApproval{
				CorrespondenceID: rec.ID,
				ApprovalStage:    model.ApprovalStageDepartmentLead,
				ApproverID:       uintPtr(a.ID()),
				Status:           in.Decision,
				Comments:         in.Comments,
				DecidedAt:        &now,
			})
		}
		if err != nil {
			return err
		}
		if err := tx.Correspondence.Update(ctx, rec.ID, fields); err != nil {
			return err
		}
		if err := u.addEvent(ctx, tx, a.ID(), rec, "approval_decided", rec.Status, in.Decision, map[string]interface{}{
			"decision":       in.Decision,
			"comments":       in.Comments,
			"pending_queued": seeded,
		}); err != nil {
			return err
		}
		if rec.OriginatorID == a.ID() {
			return nil
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     rec.OriginatorID,
			Type:       "correspondence_" + in.Decision,
			Title:      "Correspondence " + strings.ReplaceAll(in.Decision, "_", " "),
			Message:    rec.Subject,
			LinkURL:    fmt.Sprintf("/correspondence/records/%d", rec.ID),
			EntityType: entityCorrespondence,
			EntityID:   rec.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.CorrespondenceDecisions.WithLabelValues(in.Decision).Inc()
	return u.store.Correspondence.GetByID(ctx, rec.ID)
}

// patchTransitions lists, per status a PATCH may set, the statuses it may be
// set from. Everything else goes through Submit and Decide.
var patchTransitions = map[string][]string{
	model.CorrespondenceOpen:       {model.CorrespondenceClosed},
	model.CorrespondenceDispatched: {model.CorrespondenceApproved},
	model.CorrespondenceClosed:     {model.CorrespondenceOpen, model.CorrespondenceDispatched},
}

func canPatchStatus(rec *model.CorrespondenceRecord, to string) bool {
	if to == model.CorrespondenceOpen && rec.IsLocked {
		return false
	}
	for _, from := range patchTransitions[to] {
		if rec.Status == from {
			return true
		}
	}
	return false
}

// Update applies a PATCH. A version_file_path or change_summary in the body
// also records a new version.
func (u *CorrespondenceUsecase) Update(ctx context.Context, actorID, id uint, in UpdateCorrespondenceInput) (*model.CorrespondenceRecord, error) {
	ctx, span := startSpan(ctx, "correspondence.Update", actorID)
	defer span.End()

	a, rec, err := u.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !u.canManage(a, rec) {
		return nil, apperr.Forbidden("you cannot update this record")
	}

	fields := map[string]interface{}{}
	content := false
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
			content = true
		}
	}
	set("subject", in.Subject)
	set("summary", in.Summary)
	set("sender", in.Sender)
	set("recipient", in.Recipient)
	set("assigned_department_name", in.AssignedDepartmentName)
	if in.Subject != nil && fields["subject"] == "" {
		return nil, apperr.Validation("subject", "subject cannot be empty")
	}
	if in.Priority != nil {
		if !model.ValidPriority(*in.Priority) {
			return nil, apperr.Validation("priority", "priority must be one of low, medium, high, urgent")
		}
		fields["priority"] = *in.Priority
		content = true
	}
	if in.DueDate != nil {
		if *in.DueDate == "" {
			fields["due_date"] = nil
		} else {
			if _, err := parseDate("due_date", *in.DueDate); err != nil {
				return nil, err
			}
			fields["due_date"] = *in.DueDate
		}
		content = true
	}
	if in.ReferenceNumber != nil {
		fields["reference_number"] = strings.TrimSpace(*in.ReferenceNumber)
	}
	if in.Status != nil && *in.Status != rec.Status {
		if _, ok := patchTransitions[*in.Status]; !ok {
			return nil, apperr.Validation("status", "status can only be set to open, dispatched or closed here")
		}
		if !canPatchStatus(rec, *in.Status) {
			return nil, apperr.Validation("status", fmt.Sprintf("cannot move record from %s to %s", rec.Status, *in.Status))
		}
		fields["status"] = *in.Status
	}
	bump := (in.VersionFilePath != nil && *in.VersionFilePath != "") || (in.ChangeSummary != nil && *in.ChangeSummary != "")
	if (content || bump) && rec.IsLocked {
		return nil, apperr.Conflict("record is approved and locked")
	}
	if len(fields) == 0 && !bump {
		return nil, apperr.Validation("body", "nothing to update")
	}
	newStatus := rec.Status
	if s, ok := fields["status"].(string); ok {
		newStatus = s
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Correspondence.Update(ctx, rec.ID, fields); err != nil {
			return err
		}
		changed := make([]string, 0, len(fields))
		for k := range fields {
			changed = append(changed, k)
		}
		d := map[string]interface{}{"fields": changed}
		if bump {
			version, err := tx.Correspondence.BumpVersion(ctx, rec.ID)
			if err != nil {
				return err
			}
			v := &model.CorrespondenceVersion{
				CorrespondenceID: rec.ID,
				VersionNo:        version,
				UploadedBy:       a.ID(),
			}
			if in.VersionFilePath != nil {
				v.FilePath = *in.VersionFilePath
			}
			if in.ChangeSummary != nil {
				v.ChangeSummary = *in.ChangeSummary
			}
			if err := tx.Correspondence.AddVersion(ctx, v); err != nil {
				return err
			}
			d["version_no"] = version
		}
		return u.addEvent(ctx, tx, a.ID(), rec, "updated", rec.Status, newStatus, d)
	})
	if err != nil {
		return nil, err
	}
	return u.store.Correspondence.GetByID(ctx, rec.ID)
}

func (u *CorrespondenceUsecase) List(ctx context.Context, actorID uint, in ListCorrespondenceInput) ([]model.CorrespondenceRecord, error) {
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	q := repository.CorrespondenceQuery{Status: in.Status, Direction: in.Direction}
	if a.Scope != nil {
		q.Departments = access.DepartmentScope(a.Scope, access.DomainGeneral)
	} else {
		id := a.ID()
		q.Participant = &id
		q.OwnDepartment = a.Profile.Department
	}
	return u.store.Correspondence.List(ctx, q)
}

func (u *CorrespondenceUsecase) Get(ctx context.Context, actorID, id uint) (*CorrespondenceDetail, error) {
	a, rec, err := u.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !u.canView(a, rec) {
		return nil, apperr.Forbidden("you cannot view this record")
	}
	approvals, err := u.store.Correspondence.ListApprovals(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	events, err := u.store.Correspondence.ListEvents(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return &CorrespondenceDetail{Record: rec, Approvals: approvals, Events: events}, nil
}
