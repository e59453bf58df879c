package vehicle

import (
	"context"
	"testing"
	"time"

	"github.com/Motolog/Motolog/internal/common/validation"
)

type fakeStore struct {
	vehicles map[string]*Vehicle
	// 级联删除时清理的关联数据，按车辆 ID 记账
	fuelLogs map[string]int
	trips    map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles: make(map[string]*Vehicle),
		fuelLogs: make(map[string]int),
		trips:    make(map[string]int),
	}
}

func (f *fakeStore) Insert(ctx context.Context, v *Vehicle) error {
	for _, existing := range f.vehicles {
		if existing.RegistrationNumber == v.RegistrationNumber {
			return ErrDuplicateRegistration
		}
	}
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeStore) FindByRegistration(ctx context.Context, reg string) (*Vehicle, error) {
	for _, v := range f.vehicles {
		if v.RegistrationNumber == reg {
			cp := *v
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Update(ctx context.Context, v *Vehicle) error {
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteCascade(ctx context.Context, id string) (bool, error) {
	if _, ok := f.vehicles[id]; !ok {
		return false, nil
	}
	delete(f.vehicles, id)
	delete(f.fuelLogs, id)
	delete(f.trips, id)
	return true, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Vehicle, int64, error) {
	var out []Vehicle
	for _, v := range f.vehicles {
		if v.UserID == userID {
			out = append(out, *v)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		UserID:             "u1",
		Owner:              "Alex",
		Type:               TypeBike,
		Brand:              "Honda",
		Model:              "CB500X",
		Year:               2022,
		RegistrationNumber: "b 1234 xy",
		KilometersDriven:   12000,
	}
}

func TestCreateNormalizesRegistration(t *testing.T) {
	svc := NewService(newFakeStore())
	v, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.RegistrationNumber != "B 1234 XY" {
		t.Fatalf("expected uppercase registration, got %q", v.RegistrationNumber)
	}
	if v.Verified {
		t.Fatalf("new vehicle must start unverified")
	}
}

func TestCreateRejectsDuplicateRegistration(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCreateInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	in := validCreateInput()
	in.UserID = "u2"
	in.RegistrationNumber = "B 1234 XY" // 大小写归一后撞车
	if _, err := svc.Create(ctx, in); err != ErrDuplicateRegistration {
		t.Fatalf("expected ErrDuplicateRegistration, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	in := validCreateInput()
	in.Type = "boat"
	in.Year = time.Now().Year() + 2
	in.KilometersDriven = -1

	_, err := svc.Create(ctx, in)
	verr, ok := validation.AsError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]bool{"type": true, "year": true, "kilometersDriven": true}
	if len(verr.Fields) != len(want) {
		t.Fatalf("expected %d failing fields, got %v", len(want), verr.Fields)
	}
	for _, f := range verr.Fields {
		if !want[f] {
			t.Fatalf("unexpected failing field %q in %v", f, verr.Fields)
		}
	}
}

func TestCreateAllowsNextYearModel(t *testing.T) {
	svc := NewService(newFakeStore())
	in := validCreateInput()
	in.Year = time.Now().Year() + 1
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("next-year model must pass: %v", err)
	}
}

func TestUpdateKeepsUnsubmittedFields(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	created, _ := svc.Create(ctx, validCreateInput())

	km := 15000
	updated, err := svc.Update(ctx, created.ID, UpdateInput{KilometersDriven: &km})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.KilometersDriven != 15000 {
		t.Fatalf("expected updated kilometers, got %d", updated.KilometersDriven)
	}
	if updated.Brand != "Honda" || updated.RegistrationNumber != "B 1234 XY" {
		t.Fatalf("unsubmitted fields must not change: %+v", updated)
	}
}

func TestDeleteCascadesRelatedData(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	created, _ := svc.Create(ctx, validCreateInput())
	store.fuelLogs[created.ID] = 3
	store.trips[created.ID] = 2

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); err != ErrNotFound {
		t.Fatalf("expected vehicle gone, got %v", err)
	}
	if store.fuelLogs[created.ID] != 0 || store.trips[created.ID] != 0 {
		t.Fatalf("related data must be cascaded away, got %d logs / %d trips",
			store.fuelLogs[created.ID], store.trips[created.ID])
	}
}

func TestDeleteMissingVehicle(t *testing.T) {
	svc := NewService(newFakeStore())
	if err := svc.Delete(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
