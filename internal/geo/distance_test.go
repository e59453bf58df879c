package geo

import (
	"context"
	"math"
	"strings"
	"testing"
)

// fakeGeocoder 按预置表解析，表中没有的地名视为解析失败。
type fakeGeocoder struct {
	coords map[string]Coord
	calls  int
}

func (f *fakeGeocoder) Resolve(ctx context.Context, query string) (Coord, bool) {
	f.calls++
	c, ok := f.coords[strings.ToLower(strings.TrimSpace(query))]
	return c, ok
}

func TestHaversineKnownDistance(t *testing.T) {
	// 柏林 -> 慕尼黑，约 504 公里
	berlin := Coord{Lat: 52.5200, Lon: 13.4050}
	munich := Coord{Lat: 48.1351, Lon: 11.5820}

	d := Haversine(berlin, munich)
	if d < 500 || d > 510 {
		t.Fatalf("expected ~504km, got %v", d)
	}
	// 保留两位小数
	if math.Round(d*100)/100 != d {
		t.Fatalf("expected 2-decimal rounding, got %v", d)
	}
}

func TestHaversineZeroDistance(t *testing.T) {
	p := Coord{Lat: 52.52, Lon: 13.405}
	if d := Haversine(p, p); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestResolveDistanceBothResolve(t *testing.T) {
	g := &fakeGeocoder{coords: map[string]Coord{
		"berlin": {Lat: 52.5200, Lon: 13.4050},
		"munich": {Lat: 48.1351, Lon: 11.5820},
	}}
	svc := NewDistanceService(g)

	d := svc.ResolveDistance(context.Background(), "Berlin", "Munich")
	if d == nil {
		t.Fatalf("expected distance, got nil")
	}
	want := Haversine(g.coords["berlin"], g.coords["munich"])
	if *d != want {
		t.Fatalf("expected %v, got %v", want, *d)
	}
	if *d < 0 {
		t.Fatalf("distance must be non-negative, got %v", *d)
	}
	if g.calls != 2 {
		t.Fatalf("expected 2 lookups, got %d", g.calls)
	}
}

func TestResolveDistanceUnresolvedEndpoint(t *testing.T) {
	g := &fakeGeocoder{coords: map[string]Coord{
		"berlin": {Lat: 52.5200, Lon: 13.4050},
	}}
	svc := NewDistanceService(g)

	if d := svc.ResolveDistance(context.Background(), "Berlin", "Nowhereville"); d != nil {
		t.Fatalf("expected nil for unresolved endpoint, got %v", *d)
	}
	if d := svc.ResolveDistance(context.Background(), "Nowhereville", "Berlin"); d != nil {
		t.Fatalf("expected nil for unresolved endpoint, got %v", *d)
	}
	if d := svc.ResolveDistance(context.Background(), "Nowhere", "Elsewhere"); d != nil {
		t.Fatalf("expected nil when both unresolved, got %v", *d)
	}
}
