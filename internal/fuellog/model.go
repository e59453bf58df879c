package fuellog

import "time"

// FuelLog 是 fuel_logs 表的 GORM 模型。
// 注意：表里没有油耗字段——油耗永远是派生值（见 mileage.go），
// 持久化它会在历史被编辑/删除时悄悄变脏。
type FuelLog struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"index;size:64;not null" json:"userId"`
	VehicleID  string    `gorm:"index;size:36;not null" json:"vehicleId"`
	OdoReading int       `gorm:"not null" json:"odoReading"`
	FuelLitres float64   `gorm:"not null" json:"fuelLitres"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
