package trip

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

func (r *Repo) Insert(ctx context.Context, t *Trip) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(t).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Trip, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var t Trip
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Update(ctx context.Context, t *Trip) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(t).Error
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&Trip{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Trip, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var trips []Trip
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}
