package fuellog

import (
	"context"
	"testing"
	"time"

	"github.com/Motolog/Motolog/internal/common/validation"
)

// fakeStore Store 的内存实现
type fakeStore struct {
	logs map[string]*FuelLog
	now  time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{logs: make(map[string]*FuelLog), now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) Insert(ctx context.Context, log *FuelLog) error {
	f.now = f.now.Add(time.Minute)
	log.CreatedAt = f.now
	cp := *log
	f.logs[log.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*FuelLog, error) {
	log, ok := f.logs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *log
	return &cp, nil
}

func (f *fakeStore) Update(ctx context.Context, log *FuelLog) error {
	cp := *log
	f.logs[log.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.logs[id]; !ok {
		return false, nil
	}
	delete(f.logs, id)
	return true, nil
}

func (f *fakeStore) ListByVehicle(ctx context.Context, userID, vehicleID string) ([]FuelLog, error) {
	var out []FuelLog
	for _, log := range f.logs {
		if log.UserID == userID && log.VehicleID == vehicleID {
			out = append(out, *log)
		}
	}
	return out, nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Create(context.Background(), CreateInput{UserID: "u1", VehicleID: "v1", OdoReading: 100, FuelLitres: 0})
	verr, ok := validation.AsError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != "fuelLitres" {
		t.Fatalf("expected fuelLitres to be flagged, got %v", verr.Fields)
	}

	_, err = svc.Create(context.Background(), CreateInput{OdoReading: -1, FuelLitres: 10})
	verr, ok = validation.AsError(err)
	if !ok || len(verr.Fields) != 3 {
		t.Fatalf("expected userId, vehicleId, odoReading flagged, got %v", err)
	}
}

func TestListByVehicleDerivesMileageOnEveryRead(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	var ids []string
	for _, in := range []CreateInput{
		{UserID: "u1", VehicleID: "v1", OdoReading: 1000, FuelLitres: 40},
		{UserID: "u1", VehicleID: "v1", OdoReading: 1200, FuelLitres: 10},
		{UserID: "u1", VehicleID: "v1", OdoReading: 1400, FuelLitres: 10},
	} {
		log, err := svc.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, log.ID)
	}

	out, err := svc.ListByVehicle(ctx, "u1", "v1")
	if err != nil {
		t.Fatalf("ListByVehicle: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(out))
	}
	if out[0].Mileage == nil || *out[0].Mileage != 20.0 {
		t.Fatalf("expected newest mileage 20.0, got %v", out[0].Mileage)
	}

	// 编辑中间一条历史，重新读取后油耗必须跟着变——没有缓存可言
	odo := 1300
	if _, err := svc.Update(ctx, ids[1], UpdateInput{OdoReading: &odo}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	out, err = svc.ListByVehicle(ctx, "u1", "v1")
	if err != nil {
		t.Fatalf("ListByVehicle: %v", err)
	}
	if out[0].Mileage == nil || *out[0].Mileage != 10.0 {
		t.Fatalf("expected recomputed mileage 10.0 after edit, got %v", out[0].Mileage)
	}

	// 删除一条后同样整体重算
	if err := svc.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	out, err = svc.ListByVehicle(ctx, "u1", "v1")
	if err != nil {
		t.Fatalf("ListByVehicle: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 logs after delete, got %d", len(out))
	}
	if out[0].Mileage == nil || *out[0].Mileage != 40.0 {
		t.Fatalf("expected mileage 40.0 after neighbor removed, got %v", out[0].Mileage)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(newFakeStore())
	if err := svc.Delete(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
