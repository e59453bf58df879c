package vehicle

import "time"

// Type 车辆类型。
type Type string

const (
	TypeBike Type = "bike"
	TypeCar  Type = "car"
)

// Valid 是否为已知车辆类型。
func (t Type) Valid() bool {
	return t == TypeBike || t == TypeCar
}

// Vehicle 是 vehicles 表的 GORM 模型。车牌号全局唯一，统一大写存储。
type Vehicle struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	UserID             string    `gorm:"index;size:64;not null" json:"userId"`
	Owner              string    `gorm:"size:128;not null" json:"owner"`
	Type               Type      `gorm:"type:varchar(8);not null" json:"type"`
	Brand              string    `gorm:"size:64;not null" json:"brand"`
	Model              string    `gorm:"size:64;not null" json:"model"`
	Year               int       `gorm:"not null" json:"year"`
	RegistrationNumber string    `gorm:"uniqueIndex;size:32;not null" json:"registrationNumber"`
	KilometersDriven   int       `gorm:"not null;default:0" json:"kilometersDriven"`
	Color              string    `gorm:"size:32" json:"color"`
	ImageURL           string    `gorm:"size:512" json:"imageUrl"`
	Verified           bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
