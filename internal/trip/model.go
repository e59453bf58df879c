package trip

import "time"

// Visibility 行程可见性（持久化为字符串）。
type Visibility string

const (
	VisibilityPrivate Visibility = "private" // 仅车主可见
	VisibilityPublic  Visibility = "public"  // 进入共享板，携带点赞/收藏/同行/评论子状态
)

// Trip 是 trips 表的 GORM 模型。
//
// calculatedDistance 是“派生但缓存”的字段：计算要走外部地理编码（贵），
// 输入（两个端点文本）很少变，所以写入时算好存下，只在端点变化时重算。
// 解析失败存 NULL——展示为“无法计算”，绝不伪造数字。
type Trip struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	UserID             string     `gorm:"index;size:64;not null" json:"userId"`
	Owner              string     `gorm:"size:128;not null" json:"owner"`
	VehicleID          string     `gorm:"index;size:36;not null" json:"vehicleId"`
	Brand              string     `gorm:"size:64;not null" json:"brand"`
	Model              string     `gorm:"size:64;not null" json:"model"`
	Color              string     `gorm:"size:32" json:"color"`
	RegistrationNumber string     `gorm:"size:32" json:"registrationNumber"`
	VehicleImage       string     `gorm:"size:512" json:"vehicleImage"`
	StartLocation      string     `gorm:"size:255;not null" json:"startLocation"`
	EndLocation        string     `gorm:"size:255;not null" json:"endLocation"`
	StartTime          time.Time  `gorm:"not null" json:"startTime"`
	EndTime            time.Time  `gorm:"not null" json:"endTime"`
	CalculatedDistance *float64   `json:"calculatedDistance"` // 公里，可为 NULL
	TripImages         []string   `gorm:"serializer:json" json:"tripImages"`
	Description        string     `gorm:"type:text" json:"description"`
	Rating             *int       `json:"rating"` // 1-5，可为空
	Visibility         Visibility `gorm:"type:varchar(16);index;not null;default:'private'" json:"visibility"`
	SharedAt           *time.Time `gorm:"index" json:"sharedAt"` // 首次/最近一次公开时间
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsPublic 是否在共享板上。
func (t *Trip) IsPublic() bool {
	return t != nil && t.Visibility == VisibilityPublic
}
