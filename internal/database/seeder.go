package database

import (
	"context"
	"fmt"
	"time"

	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

var seedDepartments = []model.Department{
	{Name: "Accounts", OfficeLocation: "Head Office"},
	{Name: "Admin & HR", OfficeLocation: "Head Office"},
	{Name: "IT", OfficeLocation: "Head Office"},
	{Name: "Operations", OfficeLocation: "Field Office"},
	{Name: "Legal", OfficeLocation: "Head Office"},
	{Name: "Sales", OfficeLocation: "City Office"},
}

var seedLeaveTypes = []model.LeaveType{
	{Name: "Annual leave", Code: "annual", DefaultDays: 20, IsPaid: true},
	{Name: "Sick leave", Code: "sick", DefaultDays: 10, IsPaid: true},
	{Name: "Compassionate leave", Code: "compassionate", DefaultDays: 5, IsPaid: true},
	{Name: "Study leave", Code: "study", DefaultDays: 10, IsPaid: false},
}

// SeedAll creates the department roster, the leave types, this year's
// balances for every active profile and the first super admin. Running it
// again is safe.
func SeedAll(ctx context.Context, store *repository.Store, cfg SeedConfig, log *zap.Logger) error {
	// 1. Seed departments
	for i := range seedDepartments {
		d := seedDepartments[i]
		if err := store.Departments.Upsert(ctx, &d); err != nil {
			return fmt.Errorf("seed department %s: %w", d.Name, err)
		}
	}
	log.Info("departments seeded", zap.Int("count", len(seedDepartments)))

	// 2. Seed leave types
	for i := range seedLeaveTypes {
		lt := seedLeaveTypes[i]
		if err := store.Leaves.UpsertLeaveType(ctx, &lt); err != nil {
			return fmt.Errorf("seed leave type %s: %w", lt.Code, err)
		}
	}
	types, err := store.Leaves.ListLeaveTypes(ctx)
	if err != nil {
		return err
	}
	log.Info("leave types seeded", zap.Int("count", len(types)))

	// 3. Seed the first super admin
	if cfg.AdminEmail != "" {
		if err := seedSuperAdmin(ctx, store, cfg); err != nil {
			return err
		}
		log.Info("super admin ready", zap.String("email", cfg.AdminEmail))
	}

	// 4. Open balances for the current year
	profiles, err := store.Profiles.List(ctx)
	if err != nil {
		return err
	}
	year := time.Now().Year()
	for _, p := range profiles {
		if p.EmploymentStatus == model.EmploymentSeparated {
			continue
		}
		for _, lt := range types {
			if _, err := store.Leaves.EnsureBalance(ctx, p.ID, lt.ID, year, lt.DefaultDays); err != nil {
				return fmt.Errorf("seed balance for %d: %w", p.ID, err)
			}
		}
	}
	log.Info("balances seeded", zap.Int("profiles", len(profiles)), zap.Int("year", year))
	return nil
}

func seedSuperAdmin(ctx context.Context, store *repository.Store, cfg SeedConfig) error {
	if len(cfg.AdminPassword) < 8 {
		return fmt.Errorf("seed admin password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	existing, err := store.Profiles.GetByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		// Keep the password in sync with the environment.
		return store.Profiles.Update(ctx, existing.ID, map[string]interface{}{
			"password_hash": string(hashed),
			"role":          model.RoleSuperAdmin,
			"is_admin":      true,
		})
	case !apperr.Is(err, apperr.KindNotFound):
		return err
	}

	name := cfg.AdminName
	if name == "" {
		name = "System Administrator"
	}
	return store.Profiles.Create(ctx, &model.Profile{
		FullName:         name,
		Email:            cfg.AdminEmail,
		PasswordHash:     string(hashed),
		Role:             model.RoleSuperAdmin,
		Department:       "Admin & HR",
		OfficeLocation:   "Head Office",
		IsAdmin:          true,
		EmploymentStatus: model.EmploymentActive,
	})
}
