package usecase

import (
	"context"
	"encoding/json"
	"time"

	"erp-backend/internal/access"
	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

var tracer = otel.Tracer("erp-backend/usecase")

func startSpan(ctx context.Context, name string, actorID uint) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Int("actor.id", int(actorID))))
}

// actor is the caller of a workflow operation with a freshly computed scope.
type actor struct {
	Profile *model.Profile
	Scope   *access.AdminScope
}

func (a actor) ID() uint {
	return a.Profile.ID
}

func (a actor) IsAdminLike() bool {
	return a.Profile.Role.IsAdminLike()
}

func loadActor(ctx context.Context, store *repository.Store, resolver *access.Resolver, id uint) (actor, error) {
	p, err := store.Profiles.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return actor{}, apperr.Unauthorized("session user no longer exists")
		}
		return actor{}, err
	}
	if p.EmploymentStatus == model.EmploymentSeparated {
		return actor{}, apperr.Unauthorized("account is no longer active")
	}
	scope, err := resolver.FromProfile(ctx, p)
	if err != nil {
		return actor{}, err
	}
	return actor{Profile: p, Scope: scope}, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperr.Validation(field, field+" is required")
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation(field, field+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

// daysInclusive counts calendar days from start to end, both included.
func daysInclusive(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func dateRange(start, end time.Time) []string {
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(dateLayout))
	}
	return out
}

func today(now time.Time) time.Time {
	t, _ := time.Parse(dateLayout, now.Format(dateLayout))
	return t
}

func details(v map[string]interface{}) datatypes.JSON {
	if len(v) == 0 {
		return datatypes.JSON("{}")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

func recordAudit(ctx context.Context, tx *repository.Store, actorID uint, action, entityType string, entityID uint, oldStatus, newStatus string, d map[string]interface{}) error {
	return tx.Audit.Record(ctx, &model.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Details:    details(d),
	})
}

func uintPtr(v uint) *uint {
	return &v
}

// departmentLeads returns the ids of active leads whose scope covers dept.
func departmentLeads(ctx context.Context, store *repository.Store, dept string) ([]uint, error) {
	leads, err := store.Profiles.ListLeads(ctx)
	if err != nil {
		return nil, err
	}
	var ids []uint
	for i := range leads {
		if access.LeadCovers(&leads[i], dept) {
			ids = append(ids, leads[i].ID)
		}
	}
	return ids, nil
}
