package geo

import (
	"context"
	"math"
	"sync"
)

// earthRadiusKm 地球半径（公里）
const earthRadiusKm = 6371

// Haversine 计算两点间大圆距离（公里），保留两位小数。
func Haversine(a, b Coord) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*100) / 100
}

// DistanceService 行程距离解析：两个端点地名 -> 大圆距离。
type DistanceService struct {
	geocoder Geocoder
}

func NewDistanceService(g Geocoder) *DistanceService {
	return &DistanceService{geocoder: g}
}

// ResolveDistance 并发解析两个端点并计算距离。
// 任一端点解析失败返回 nil：表示“无法计算”，由调用方原样存储/展示，
// 绝不能退化成 0，也不在这里做重试。
func (s *DistanceService) ResolveDistance(ctx context.Context, startText, endText string) *float64 {
	if s == nil || s.geocoder == nil {
		return nil
	}

	var (
		start, end     Coord
		startOK, endOK bool
		wg             sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		start, startOK = s.geocoder.Resolve(ctx, startText)
	}()
	go func() {
		defer wg.Done()
		end, endOK = s.geocoder.Resolve(ctx, endText)
	}()
	wg.Wait()

	if !startOK || !endOK {
		return nil
	}

	d := Haversine(start, end)
	return &d
}
