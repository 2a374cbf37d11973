package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/approval"
	"dorm-rental-backend/internal/model"
)

// findDorm loads a dorm, scoped to ownerID unless it is zero.
func findDorm(tx *gorm.DB, ownerID, id int64) (model.Dorm, error) {
	q := tx.Where("id = ?", id)
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}
	var d model.Dorm
	if err := q.First(&d).Error; err != nil {
		return model.Dorm{}, notFound(err, "dorm", id)
	}
	return d, nil
}

func withImages(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

// CreateDorm inserts a new listing. New listings always start pending review.
func (s *gormStore) CreateDorm(ctx context.Context, d *model.Dorm) error {
	d.ID = 0
	d.Status = approval.StatusPending
	d.RejectReason = ""
	d.ReviewedAt = nil
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create dorm: %w", err)
	}
	return nil
}

// GetDorm loads a dorm with its gallery.
func (s *gormStore) GetDorm(ctx context.Context, ownerID, id int64) (model.Dorm, error) {
	q := withImages(s.db.WithContext(ctx)).Where("id = ?", id)
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}
	var d model.Dorm
	if err := q.First(&d).Error; err != nil {
		return model.Dorm{}, notFound(err, "dorm", id)
	}
	return d, nil
}

// GetPublicDorm loads an approved dorm. Pending and rejected dorms do not exist publicly.
func (s *gormStore) GetPublicDorm(ctx context.Context, id int64) (model.Dorm, error) {
	var d model.Dorm
	err := withImages(s.db.WithContext(ctx)).
		Where("id = ? AND status = ?", id, approval.StatusApproved).
		First(&d).Error
	if err != nil {
		return model.Dorm{}, notFound(err, "dorm", id)
	}
	return d, nil
}

// ListPublicDorms returns approved dorms, newest first.
func (s *gormStore) ListPublicDorms(ctx context.Context, f DormFilter) ([]model.Dorm, error) {
	q := withImages(s.db.WithContext(ctx)).Where("status = ?", approval.StatusApproved)
	if f.ProvinceID != 0 {
		q = q.Where("province_id = ?", f.ProvinceID)
	}
	if f.DistrictID != 0 {
		q = q.Where("district_id = ?", f.DistrictID)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}

	var dorms []model.Dorm
	if err := q.Order("created_at DESC, id DESC").Find(&dorms).Error; err != nil {
		return nil, fmt.Errorf("failed to list dorms: %w", err)
	}
	return dorms, nil
}

// ListOwnerDorms returns every dorm of an owner whatever its review status.
func (s *gormStore) ListOwnerDorms(ctx context.Context, ownerID int64) ([]model.Dorm, error) {
	var dorms []model.Dorm
	if err := withImages(s.db.WithContext(ctx)).Where("owner_id = ?", ownerID).Order("id").Find(&dorms).Error; err != nil {
		return nil, fmt.Errorf("failed to list dorms of owner %d: %w", ownerID, err)
	}
	return dorms, nil
}

// ListDormsByStatus returns dorms for review. An empty status lists all of them.
func (s *gormStore) ListDormsByStatus(ctx context.Context, status approval.Status) ([]model.Dorm, error) {
	q := withImages(s.db.WithContext(ctx))
	if status != "" {
		if !status.Valid() {
			return nil, apperr.Validation("unknown status %q", status)
		}
		q = q.Where("status = ?", status)
	}
	var dorms []model.Dorm
	if err := q.Order("created_at, id").Find(&dorms).Error; err != nil {
		return nil, fmt.Errorf("failed to list dorms: %w", err)
	}
	return dorms, nil
}

// UpdateDorm changes allow-listed listing columns. Review status is not among them.
func (s *gormStore) UpdateDorm(ctx context.Context, ownerID, id int64, fields map[string]any) (model.Dorm, error) {
	updates, err := pick(fields, dormColumns)
	if err != nil {
		return model.Dorm{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findDorm(tx, ownerID, id); err != nil {
			return err
		}
		if err := tx.Model(&model.Dorm{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update dorm %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return model.Dorm{}, err
	}
	return s.GetDorm(ctx, ownerID, id)
}

// DeleteDorm removes a dorm with its rooms, bills and gallery, returning the image
// paths so the caller can remove the files.
func (s *gormStore) DeleteDorm(ctx context.Context, ownerID, id int64) ([]string, error) {
	var paths []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findDorm(tx, ownerID, id); err != nil {
			return err
		}
		if err := tx.Model(&model.DormImage{}).Where("dorm_id = ?", id).Pluck("image_path", &paths).Error; err != nil {
			return fmt.Errorf("failed to list images of dorm %d: %w", id, err)
		}
		for _, m := range []any{&model.BillRecord{}, &model.Room{}, &model.DormImage{}} {
			if err := tx.Where("dorm_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete dependents of dorm %d: %w", id, err)
			}
		}
		if err := tx.Delete(&model.Dorm{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete dorm %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ReviewDorm applies an admin decision to a pending dorm.
func (s *gormStore) ReviewDorm(ctx context.Context, id int64, approve bool, reason string) (model.Dorm, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := findDorm(tx.Clauses(clause.Locking{Strength: "UPDATE"}), 0, id)
		if err != nil {
			return err
		}

		var decision approval.Decision
		if approve {
			decision, err = approval.Approve(d.Status)
		} else {
			decision, err = approval.Reject(d.Status, reason)
		}
		if err != nil {
			return err
		}

		return tx.Model(&model.Dorm{}).Where("id = ?", id).Updates(map[string]any{
			"status":        decision.Status,
			"reject_reason": decision.RejectReason,
			"reviewed_at":   s.now(),
		}).Error
	})
	if err != nil {
		return model.Dorm{}, err
	}
	return s.GetDorm(ctx, 0, id)
}

// AddImages appends pictures to a dorm's gallery.
func (s *gormStore) AddImages(ctx context.Context, ownerID, dormID int64, paths []string) ([]model.DormImage, error) {
	if len(paths) == 0 {
		return nil, apperr.Validation("no images given")
	}
	images := make([]model.DormImage, 0, len(paths))
	for _, p := range paths {
		images = append(images, model.DormImage{DormID: dormID, ImagePath: p})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findDorm(tx, ownerID, dormID); err != nil {
			return err
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteImage removes one picture and returns its path.
func (s *gormStore) DeleteImage(ctx context.Context, ownerID, dormID, imageID int64) (string, error) {
	var img model.DormImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findDorm(tx, ownerID, dormID); err != nil {
			return err
		}
		if err := tx.Where("id = ? AND dorm_id = ?", imageID, dormID).First(&img).Error; err != nil {
			return notFound(err, "image", imageID)
		}
		return tx.Delete(&img).Error
	})
	if err != nil {
		return "", err
	}
	return img.ImagePath, nil
}
