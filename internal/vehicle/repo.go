package vehicle

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Motolog/Motolog/internal/fuellog"
	"github.com/Motolog/Motolog/internal/rideboard"
	"github.com/Motolog/Motolog/internal/trip"
)

// Repo Store 的 GORM 实现。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Insert(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	err := db.Create(v).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRegistration
	}
	return err
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repo) FindByRegistration(ctx context.Context, reg string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("registration_number = ?", reg).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repo) Update(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(v).Error
}

// DeleteCascade 在一个事务里删掉车辆及其全部关联数据：
// 行程上的反应和评论、行程本身、加油记录，最后是车辆。
func (r *Repo) DeleteCascade(ctx context.Context, id string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}

	deleted := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var tripIDs []string
		if err := tx.Model(&trip.Trip{}).
			Where("vehicle_id = ?", id).Pluck("id", &tripIDs).Error; err != nil {
			return err
		}
		if len(tripIDs) > 0 {
			if err := tx.Where("trip_id IN ?", tripIDs).
				Delete(&rideboard.Reaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("trip_id IN ?", tripIDs).
				Delete(&rideboard.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", tripIDs).Delete(&trip.Trip{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&fuellog.FuelLog{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&Vehicle{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Vehicle, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	if err := db.Model(&Vehicle{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var vehicles []Vehicle
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}
