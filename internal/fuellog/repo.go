package fuellog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
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

func (r *Repo) Insert(ctx context.Context, log *FuelLog) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(log).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*FuelLog, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var log FuelLog
	if err := db.Where("id = ?", id).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *Repo) Update(ctx context.Context, log *FuelLog) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(log).Error
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&FuelLog{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByVehicle 按 createdAt 升序返回（派生计算要求的顺序）。
func (r *Repo) ListByVehicle(ctx context.Context, userID, vehicleID string) ([]FuelLog, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var logs []FuelLog
	if err := db.Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).
		Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
