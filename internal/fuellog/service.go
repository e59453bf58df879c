package fuellog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Motolog/Motolog/internal/common/validation"
	"github.com/google/uuid"
)

// ErrNotFound 加油记录不存在
var ErrNotFound = errors.New("fuel log not found")

// Store 服务层依赖的持久化接口，便于测试时用内存实现替换。
type Store interface {
	Insert(ctx context.Context, log *FuelLog) error
	FindByID(ctx context.Context, id string) (*FuelLog, error)
	Update(ctx context.Context, log *FuelLog) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByVehicle(ctx context.Context, userID, vehicleID string) ([]FuelLog, error)
}

// Service 封装加油记录用例（不依赖 HTTP），油耗只在读取时派生。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput 新建加油记录入参
type CreateInput struct {
	UserID     string  `json:"userId"`
	VehicleID  string  `json:"vehicleId"`
	OdoReading int     `json:"odoReading"`
	FuelLitres float64 `json:"fuelLitres"`
}

// UpdateInput 编辑入参：身份字段不可变，只允许改读数和油量。
type UpdateInput struct {
	OdoReading *int     `json:"odoReading"`
	FuelLitres *float64 `json:"fuelLitres"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*FuelLog, error) {
	verr := &validation.Error{}
	if strings.TrimSpace(in.UserID) == "" {
		verr.Add("userId")
	}
	if strings.TrimSpace(in.VehicleID) == "" {
		verr.Add("vehicleId")
	}
	if in.OdoReading < 0 {
		verr.Add("odoReading")
	}
	if in.FuelLitres <= 0 {
		verr.Add("fuelLitres")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	log := &FuelLog{
		ID:         uuid.NewString(),
		UserID:     strings.TrimSpace(in.UserID),
		VehicleID:  strings.TrimSpace(in.VehicleID),
		OdoReading: in.OdoReading,
		FuelLitres: in.FuelLitres,
	}
	if err := s.store.Insert(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create fuel log: %w", err)
	}
	return log, nil
}

func (s *Service) Get(ctx context.Context, id string) (*FuelLog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.store.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*FuelLog, error) {
	log, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	verr := &validation.Error{}
	if in.OdoReading != nil {
		if *in.OdoReading < 0 {
			verr.Add("odoReading")
		} else {
			log.OdoReading = *in.OdoReading
		}
	}
	if in.FuelLitres != nil {
		if *in.FuelLitres <= 0 {
			verr.Add("fuelLitres")
		} else {
			log.FuelLitres = *in.FuelLitres
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to update fuel log: %w", err)
	}
	return log, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("failed to delete fuel log: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// ListByVehicle 返回某辆车的加油记录（附派生油耗），最新在前。
// 每次读取都整体重新派生——历史任何一条被编辑或删除后结果始终一致。
func (s *Service) ListByVehicle(ctx context.Context, userID, vehicleID string) ([]LogWithMileage, error) {
	verr := &validation.Error{}
	if strings.TrimSpace(userID) == "" {
		verr.Add("userId")
	}
	if strings.TrimSpace(vehicleID) == "" {
		verr.Add("vehicleId")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	logs, err := s.store.ListByVehicle(ctx, strings.TrimSpace(userID), strings.TrimSpace(vehicleID))
	if err != nil {
		return nil, fmt.Errorf("failed to list fuel logs: %w", err)
	}
	return DeriveMileage(logs), nil
}
