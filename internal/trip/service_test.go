package trip

import (
	"context"
	"testing"
	"time"

	"github.com/Motolog/Motolog/internal/common/validation"
)

type fakeStore struct {
	trips map[string]*Trip
}

func newFakeStore() *fakeStore {
	return &fakeStore{trips: make(map[string]*Trip)}
}

func (f *fakeStore) Insert(ctx context.Context, t *Trip) error {
	cp := *t
	f.trips[t.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*Trip, error) {
	t, ok := f.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) Update(ctx context.Context, t *Trip) error {
	cp := *t
	f.trips[t.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.trips[id]; !ok {
		return false, nil
	}
	delete(f.trips, id)
	return true, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]Trip, error) {
	var out []Trip
	for _, t := range f.trips {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// fakeResolver 记录调用并返回固定距离；result=nil 模拟解析失败。
type fakeResolver struct {
	calls  int
	starts []string
	ends   []string
	result *float64
}

func (f *fakeResolver) ResolveDistance(ctx context.Context, start, end string) *float64 {
	f.calls++
	f.starts = append(f.starts, start)
	f.ends = append(f.ends, end)
	return f.result
}

func km(v float64) *float64 { return &v }

func validCreateInput() CreateInput {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return CreateInput{
		UserID:        "u1",
		Owner:         "Alex",
		VehicleID:     "v1",
		Brand:         "Honda",
		Model:         "CB500X",
		StartLocation: "Berlin",
		EndLocation:   "Munich",
		StartTime:     t0,
		EndTime:       t0.Add(6 * time.Hour),
	}
}

func TestCreateStoresResolvedDistance(t *testing.T) {
	store := newFakeStore()
	resolver := &fakeResolver{result: km(504.26)}
	svc := NewService(store, resolver)

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("expected 1 resolver call, got %d", resolver.calls)
	}
	if created.CalculatedDistance == nil || *created.CalculatedDistance != 504.26 {
		t.Fatalf("expected distance 504.26, got %v", created.CalculatedDistance)
	}
	if created.Visibility != VisibilityPrivate {
		t.Fatalf("new trip must start private, got %s", created.Visibility)
	}
}

func TestCreateResolutionFailureStoresNull(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeResolver{result: nil})

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("resolution failure must not fail the request: %v", err)
	}
	if created.CalculatedDistance != nil {
		t.Fatalf("expected nil distance, got %v", *created.CalculatedDistance)
	}
}

func TestCreateValidationShortCircuitsResolver(t *testing.T) {
	resolver := &fakeResolver{result: km(1)}
	svc := NewService(newFakeStore(), resolver)

	in := validCreateInput()
	in.StartLocation = ""
	in.EndTime = in.StartTime // 时间区间也非法

	_, err := svc.Create(context.Background(), in)
	verr, ok := validation.AsError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if resolver.calls != 0 {
		t.Fatalf("validation failure must precede external lookup, got %d calls", resolver.calls)
	}
	hasField := func(name string) bool {
		for _, f := range verr.Fields {
			if f == name {
				return true
			}
		}
		return false
	}
	if !hasField("startLocation") || !hasField("endTime") {
		t.Fatalf("expected startLocation and endTime flagged, got %v", verr.Fields)
	}
}

func TestCreateRatingRange(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeResolver{})
	in := validCreateInput()
	bad := 6
	in.Rating = &bad
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatalf("expected rating out of range to fail")
	}
	ok := 5
	in.Rating = &ok
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("rating 5 must pass: %v", err)
	}
}

func TestCreateFiltersEmptyImageURLs(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeResolver{})
	in := validCreateInput()
	in.TripImages = []string{"https://img/1.jpg", "", "   ", "https://img/2.jpg"}

	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.TripImages) != 2 {
		t.Fatalf("expected 2 images, got %v", created.TripImages)
	}
}

func TestUpdateRecomputesOnlyWhenEndpointChanges(t *testing.T) {
	store := newFakeStore()
	resolver := &fakeResolver{result: km(504.26)}
	svc := NewService(store, resolver)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	resolver.calls = 0
	resolver.starts = nil
	resolver.ends = nil

	// 不碰端点：不允许产生外部调用，缓存距离保持
	desc := "nice ride"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resolver.calls != 0 {
		t.Fatalf("unchanged endpoints must not trigger lookup, got %d calls", resolver.calls)
	}
	if updated.CalculatedDistance == nil || *updated.CalculatedDistance != 504.26 {
		t.Fatalf("cached distance must survive, got %v", updated.CalculatedDistance)
	}

	// 提交了端点但与存量一致：同样不重算
	same := "Berlin"
	if _, err := svc.Update(ctx, created.ID, UpdateInput{StartLocation: &same}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resolver.calls != 0 {
		t.Fatalf("identical endpoint must not trigger lookup, got %d calls", resolver.calls)
	}

	// 只提交一个端点：另一端取存量值
	resolver.result = km(878.84)
	newEnd := "Hamburg"
	updated, err = svc.Update(ctx, created.ID, UpdateInput{EndLocation: &newEnd})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("changed endpoint must trigger exactly one lookup, got %d", resolver.calls)
	}
	if resolver.starts[0] != "Berlin" || resolver.ends[0] != "Hamburg" {
		t.Fatalf("expected stored start + supplied end, got %q -> %q", resolver.starts[0], resolver.ends[0])
	}
	if updated.CalculatedDistance == nil || *updated.CalculatedDistance != 878.84 {
		t.Fatalf("expected recomputed distance, got %v", updated.CalculatedDistance)
	}
}

func TestUpdateEndpointChangeResolutionFailureOverwritesWithNull(t *testing.T) {
	store := newFakeStore()
	resolver := &fakeResolver{result: km(504.26)}
	svc := NewService(store, resolver)
	ctx := context.Background()

	created, _ := svc.Create(ctx, validCreateInput())

	// 端点变了但解析失败：缓存值必须被 NULL 覆盖，不能留着旧数字
	resolver.result = nil
	newEnd := "Nowhereville"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{EndLocation: &newEnd})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CalculatedDistance != nil {
		t.Fatalf("stale distance must not survive endpoint change, got %v", *updated.CalculatedDistance)
	}
}

func TestUpdateTimeRangeAgainstStored(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeResolver{})
	ctx := context.Background()
	created, _ := svc.Create(ctx, validCreateInput())

	bad := created.StartTime.Add(-time.Hour)
	_, err := svc.Update(ctx, created.ID, UpdateInput{EndTime: &bad})
	if _, ok := validation.AsError(err); !ok {
		t.Fatalf("expected validation error for endTime before stored startTime, got %v", err)
	}
}

func TestShareStampsSharedAt(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeResolver{})
	ctx := context.Background()
	created, _ := svc.Create(ctx, validCreateInput())

	if _, err := svc.Share(ctx, created.ID, "intruder"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	shared, err := svc.Share(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if !shared.IsPublic() || shared.SharedAt == nil {
		t.Fatalf("expected public trip with sharedAt stamped")
	}
	first := *shared.SharedAt

	// 重复 share 幂等，不改时间戳
	again, err := svc.Share(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if !again.SharedAt.Equal(first) {
		t.Fatalf("re-share of public trip must keep sharedAt")
	}

	// 撤回后行程私有，但 share 记录还在（子状态保留由存储层保证）
	private, err := svc.Unshare(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("Unshare: %v", err)
	}
	if private.IsPublic() {
		t.Fatalf("expected private after unshare")
	}
}

func TestShareMissingTrip(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeResolver{})
	if _, err := svc.Share(context.Background(), "nope", "u1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
