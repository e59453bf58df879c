package rideboard

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

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

func (r *Repo) FindPublicTrip(ctx context.Context, tripID string) (*trip.Trip, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var t trip.Trip
	err := db.Where("id = ? AND visibility = ?", tripID, trip.VisibilityPublic).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListPublicTrips(ctx context.Context, offset, limit int) ([]trip.Trip, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var trips []trip.Trip
	err := db.Where("visibility = ?", trip.VisibilityPublic).
		Order("shared_at DESC").Offset(offset).Limit(limit).Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *Repo) HasReaction(ctx context.Context, tripID, userID string, kind ReactionKind) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	var count int64
	err := db.Model(&Reaction{}).
		Where("trip_id = ? AND user_id = ? AND kind = ?", tripID, userID, kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repo) AddReaction(ctx context.Context, reaction *Reaction) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	// 复合主键冲突说明并发下已经有同样的反应，按幂等处理
	err := db.Create(reaction).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *Repo) RemoveReaction(ctx context.Context, tripID, userID string, kind ReactionKind) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Where("trip_id = ? AND user_id = ? AND kind = ?", tripID, userID, kind).
		Delete(&Reaction{}).Error
}

func (r *Repo) CountReactions(ctx context.Context, tripID string, kind ReactionKind) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var count int64
	err := db.Model(&Reaction{}).
		Where("trip_id = ? AND kind = ?", tripID, kind).
		Count(&count).Error
	return count, err
}

func (r *Repo) InsertComment(ctx context.Context, c *Comment) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(c).Error
}

func (r *Repo) FindComment(ctx context.Context, commentID string) (*Comment, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Comment
	if err := db.Where("id = ?", commentID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) DeleteComment(ctx context.Context, commentID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Where("id = ?", commentID).Delete(&Comment{}).Error
}

func (r *Repo) ListComments(ctx context.Context, tripID string) ([]Comment, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var comments []Comment
	err := db.Where("trip_id = ?", tripID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
