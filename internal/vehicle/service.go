package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Motolog/Motolog/internal/common/validation"
)

var (
	// ErrNotFound 车辆不存在
	ErrNotFound = errors.New("vehicle not found")
	// ErrDuplicateRegistration 车牌号已被占用
	ErrDuplicateRegistration = errors.New("registration number already in use")
)

const minYear = 1900

// Store 车辆持久化接口。DeleteCascade 在一个事务里连带清掉
// 该车的加油记录、行程以及行程挂着的反应和评论。
type Store interface {
	Insert(ctx context.Context, v *Vehicle) error
	FindByID(ctx context.Context, id string) (*Vehicle, error)
	FindByRegistration(ctx context.Context, reg string) (*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	DeleteCascade(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Vehicle, int64, error)
}

// Service 车辆用例。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput 新建车辆入参。
type CreateInput struct {
	UserID             string `json:"userId" validate:"required"`
	Owner              string `json:"owner" validate:"required"`
	Type               Type   `json:"type"`
	Brand              string `json:"brand" validate:"required"`
	Model              string `json:"model" validate:"required"`
	Year               int    `json:"year"`
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
	KilometersDriven   int    `json:"kilometersDriven"`
	Color              string `json:"color"`
	ImageURL           string `json:"imageUrl"`
}

func (in *CreateInput) validate() error {
	verr := validation.Struct(in)
	if !in.Type.Valid() {
		verr.Add("type")
	}
	// 允许登记下一年款的新车
	if in.Year < minYear || in.Year > time.Now().Year()+1 {
		verr.Add("year")
	}
	if in.KilometersDriven < 0 {
		verr.Add("kilometersDriven")
	}
	return verr.OrNil()
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	reg := strings.ToUpper(strings.TrimSpace(in.RegistrationNumber))
	if existing, err := s.store.FindByRegistration(ctx, reg); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	} else if existing != nil {
		return nil, ErrDuplicateRegistration
	}

	v := &Vehicle{
		ID:                 uuid.NewString(),
		UserID:             strings.TrimSpace(in.UserID),
		Owner:              strings.TrimSpace(in.Owner),
		Type:               in.Type,
		Brand:              strings.TrimSpace(in.Brand),
		Model:              strings.TrimSpace(in.Model),
		Year:               in.Year,
		RegistrationNumber: reg,
		KilometersDriven:   in.KilometersDriven,
		Color:              strings.TrimSpace(in.Color),
		ImageURL:           strings.TrimSpace(in.ImageURL),
	}
	if err := s.store.Insert(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return v, nil
}

// UpdateInput 编辑车辆入参，nil 字段保持不变。车牌号与归属不可改。
type UpdateInput struct {
	Brand            *string `json:"brand"`
	Model            *string `json:"model"`
	Year             *int    `json:"year"`
	KilometersDriven *int    `json:"kilometersDriven"`
	Color            *string `json:"color"`
	ImageURL         *string `json:"imageUrl"`
}

func (in *UpdateInput) validate() error {
	verr := &validation.Error{}
	if in.Brand != nil && strings.TrimSpace(*in.Brand) == "" {
		verr.Add("brand")
	}
	if in.Model != nil && strings.TrimSpace(*in.Model) == "" {
		verr.Add("model")
	}
	if in.Year != nil && (*in.Year < minYear || *in.Year > time.Now().Year()+1) {
		verr.Add("year")
	}
	if in.KilometersDriven != nil && *in.KilometersDriven < 0 {
		verr.Add("kilometersDriven")
	}
	return verr.OrNil()
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if in.Brand != nil {
		v.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Model != nil {
		v.Model = strings.TrimSpace(*in.Model)
	}
	if in.Year != nil {
		v.Year = *in.Year
	}
	if in.KilometersDriven != nil {
		v.KilometersDriven = *in.KilometersDriven
	}
	if in.Color != nil {
		v.Color = strings.TrimSpace(*in.Color)
	}
	if in.ImageURL != nil {
		v.ImageURL = strings.TrimSpace(*in.ImageURL)
	}

	if err := s.store.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.store.FindByID(ctx, id)
}

// ListByUser 按车主分页列出车辆，最新在前。
func (s *Service) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]Vehicle, int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, 0, fmt.Errorf("userId required")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.store.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
}

// Delete 删除车辆并级联清掉它的全部加油记录与行程（含行程上的
// 反应和评论）。整个清理在存储层的一个事务里完成，不会出现
// 半删的孤儿数据。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteCascade(ctx, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
