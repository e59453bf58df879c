package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound 行程不存在
	ErrNotFound = errors.New("trip not found")
	// ErrForbidden 操作人不是行程所有者
	ErrForbidden = errors.New("not the trip owner")
)

// Store 服务层依赖的持久化接口。
type Store interface {
	Insert(ctx context.Context, t *Trip) error
	FindByID(ctx context.Context, id string) (*Trip, error)
	Update(ctx context.Context, t *Trip) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Trip, error)
}

// DistanceResolver 行程距离解析能力（geo.DistanceService 实现）。
// 返回 nil 表示无法计算，属于正常结果。
type DistanceResolver interface {
	ResolveDistance(ctx context.Context, startText, endText string) *float64
}

// Service 行程用例 + 距离派生流水线。
type Service struct {
	store    Store
	distance DistanceResolver
}

func NewService(store Store, distance DistanceResolver) *Service {
	return &Service{store: store, distance: distance}
}

// Create 校验通过后总是先解析距离再落库；解析失败距离存 NULL。
func (s *Service) Create(ctx context.Context, in CreateInput) (*Trip, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	t := &Trip{
		ID:                 uuid.NewString(),
		UserID:             strings.TrimSpace(in.UserID),
		Owner:              strings.TrimSpace(in.Owner),
		VehicleID:          strings.TrimSpace(in.VehicleID),
		Brand:              strings.TrimSpace(in.Brand),
		Model:              strings.TrimSpace(in.Model),
		Color:              strings.TrimSpace(in.Color),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(in.RegistrationNumber)),
		VehicleImage:       strings.TrimSpace(in.VehicleImage),
		StartLocation:      strings.TrimSpace(in.StartLocation),
		EndLocation:        strings.TrimSpace(in.EndLocation),
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		TripImages:         filterImageURLs(in.TripImages),
		Description:        in.Description,
		Rating:             in.Rating,
		Visibility:         VisibilityPrivate,
	}
	t.CalculatedDistance = s.distance.ResolveDistance(ctx, t.StartLocation, t.EndLocation)

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return t, nil
}

// Update 只在端点真的变化时重算距离，避免多余的外部调用。
// 只提交一个端点时，另一个端点取存量值，保证解析时两端总是齐的。
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Trip, error) {
	t, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if err := in.validateAgainst(t); err != nil {
		return nil, err
	}

	start := t.StartLocation
	if in.StartLocation != nil {
		start = strings.TrimSpace(*in.StartLocation)
	}
	end := t.EndLocation
	if in.EndLocation != nil {
		end = strings.TrimSpace(*in.EndLocation)
	}
	locationChanged := start != t.StartLocation || end != t.EndLocation

	t.StartLocation = start
	t.EndLocation = end
	if in.StartTime != nil {
		t.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		t.EndTime = *in.EndTime
	}
	if in.TripImages != nil {
		t.TripImages = filterImageURLs(in.TripImages)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Rating != nil {
		t.Rating = in.Rating
	}

	if locationChanged {
		t.CalculatedDistance = s.distance.ResolveDistance(ctx, start, end)
	}

	if err := s.store.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Trip, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.store.FindByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Trip, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("userId required")
	}
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Share 把私有行程放上共享板：盖 sharedAt 时间戳，子状态（点赞/收藏/
// 同行/评论）从空开始累积。已公开的行程保持原 sharedAt。仅所有者可操作。
func (s *Service) Share(ctx context.Context, id, userID string) (*Trip, error) {
	t, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if t.UserID != strings.TrimSpace(userID) {
		return nil, ErrForbidden
	}
	if t.IsPublic() {
		return t, nil
	}

	now := time.Now()
	t.Visibility = VisibilityPublic
	t.SharedAt = &now
	if err := s.store.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to share trip: %w", err)
	}
	return t, nil
}

// Unshare 把行程撤回私有。已累积的点赞/收藏/同行/评论保留不动，
// 再次公开时继续使用。仅所有者可操作。
func (s *Service) Unshare(ctx context.Context, id, userID string) (*Trip, error) {
	t, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if t.UserID != strings.TrimSpace(userID) {
		return nil, ErrForbidden
	}
	if !t.IsPublic() {
		return t, nil
	}

	t.Visibility = VisibilityPrivate
	if err := s.store.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to unshare trip: %w", err)
	}
	return t, nil
}
