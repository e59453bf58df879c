package fuellog

import "sort"

// LogWithMileage 在加油记录上附加派生油耗（公里/升）。
type LogWithMileage struct {
	FuelLog
	Mileage *float64 `json:"mileage"`
}

// DeriveMileage 为同一辆车的加油记录派生每条的油耗。纯函数。
//
// 油耗只相对同车按 createdAt 升序的前一条记录有定义，所以必须先升序
// 排好再计算——在降序遍历里计算会把每条记录配到错误的邻居。
// 规则：
//   - 第一条记录没有油耗（nil）
//   - distance = odo[i] - odo[i-1]；仅当 distance > 0 且 fuelLitres > 0
//     时 mileage = distance / fuelLitres，否则 nil（里程表回退、重复
//     录入、改小的读数都不允许产生 0 或负油耗）
//
// 返回值按最新在前排列（展示顺序）。
func DeriveMileage(logs []FuelLog) []LogWithMileage {
	asc := make([]FuelLog, len(logs))
	copy(asc, logs)
	// 稳定排序：createdAt 相同时保持输入顺序
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].CreatedAt.Before(asc[j].CreatedAt)
	})

	out := make([]LogWithMileage, len(asc))
	for i, log := range asc {
		entry := LogWithMileage{FuelLog: log}
		if i > 0 {
			distance := log.OdoReading - asc[i-1].OdoReading
			if log.FuelLitres > 0 && distance > 0 {
				m := float64(distance) / log.FuelLitres
				entry.Mileage = &m
			}
		}
		out[i] = entry
	}

	// 最新在前
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
