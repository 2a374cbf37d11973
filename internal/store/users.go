package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/model"
)

// ErrNoAccount is returned when no table holds the given email.
var ErrNoAccount = errors.New("account not found")

// Roles live in disjoint tables; lookups by email walk them in this order.
var roleTables = []struct {
	role  auth.Role
	table string
}{
	{auth.RoleAdmin, "admins"},
	{auth.RoleOwner, "owners"},
	{auth.RoleCustomer, "customers"},
}

func tableFor(role auth.Role) (string, error) {
	for _, rt := range roleTables {
		if rt.role == role {
			return rt.table, nil
		}
	}
	return "", apperr.Validation("unknown role %q", role)
}

// accountRow scans any of the user tables; LineID stays empty outside owners.
type accountRow struct {
	model.Account
	LineID string
}

func (r accountRow) profile(role auth.Role) Profile {
	return Profile{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		LineID:    r.LineID,
		Role:      role,
		CreatedAt: r.CreatedAt,
	}
}

// NormalizeEmail is the stored form of an email: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailTaken(tx *gorm.DB, email string) (bool, error) {
	for _, rt := range roleTables {
		var n int64
		if err := tx.Table(rt.table).Where("email = ?", email).Count(&n).Error; err != nil {
			return false, fmt.Errorf("failed to check email in %s: %w", rt.table, err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// CreateAccount inserts a user into its role's table. Emails are unique across all roles.
func (s *gormStore) CreateAccount(ctx context.Context, role auth.Role, acct model.Account, lineID string) (Profile, error) {
	if _, err := tableFor(role); err != nil {
		return Profile{}, err
	}

	acct.Email = NormalizeEmail(acct.Email)

	var profile Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, acct.Email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: email %s is already registered", apperr.ErrConflict, acct.Email)
		}

		row := accountRow{LineID: lineID}
		switch role {
		case auth.RoleCustomer:
			c := model.Customer{Account: acct}
			err = tx.Create(&c).Error
			row.Account = c.Account
		case auth.RoleOwner:
			o := model.Owner{Account: acct, LineID: lineID}
			err = tx.Create(&o).Error
			row.Account = o.Account
		case auth.RoleAdmin:
			a := model.Admin{Account: acct}
			err = tx.Create(&a).Error
			row.Account = a.Account
		}
		if err != nil {
			return fmt.Errorf("failed to create %s account: %w", role, err)
		}
		profile = row.profile(role)
		return nil
	})
	return profile, err
}

// FindByEmail locates an account in whichever role table holds it.
func (s *gormStore) FindByEmail(ctx context.Context, email string) (Principal, error) {
	email = NormalizeEmail(email)
	db := s.db.WithContext(ctx)
	for _, rt := range roleTables {
		var row accountRow
		res := db.Table(rt.table).Where("email = ?", email).Limit(1).Find(&row)
		if res.Error != nil {
			return Principal{}, fmt.Errorf("failed to look up email in %s: %w", rt.table, res.Error)
		}
		if res.RowsAffected > 0 {
			return Principal{ID: row.ID, Email: row.Email, PasswordHash: row.PasswordHash, Role: rt.role}, nil
		}
	}
	return Principal{}, ErrNoAccount
}

// GetProfile loads an account by id from its role's table.
func (s *gormStore) GetProfile(ctx context.Context, role auth.Role, id int64) (Profile, error) {
	table, err := tableFor(role)
	if err != nil {
		return Profile{}, err
	}
	var row accountRow
	res := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return Profile{}, fmt.Errorf("failed to load account %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return Profile{}, apperr.NotFound("account", id)
	}
	return row.profile(role), nil
}

// UpdateProfile changes allow-listed profile columns. Email and password are not among them.
func (s *gormStore) UpdateProfile(ctx context.Context, role auth.Role, id int64, fields map[string]any) (Profile, error) {
	table, err := tableFor(role)
	if err != nil {
		return Profile{}, err
	}
	updates, err := pick(fields, profileColumns(role))
	if err != nil {
		return Profile{}, err
	}
	updates["updated_at"] = s.now()

	res := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return Profile{}, fmt.Errorf("failed to update account %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return Profile{}, apperr.NotFound("account", id)
	}
	return s.GetProfile(ctx, role, id)
}

// EnsureAdmin creates the admin account when it does not exist yet. It reports
// whether an account was created.
func (s *gormStore) EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	email = NormalizeEmail(email)
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Admin{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check admin account: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.CreateAccount(ctx, auth.RoleAdmin, model.Account{Email: email, PasswordHash: passwordHash}, ""); err != nil {
		return false, err
	}
	return true, nil
}
