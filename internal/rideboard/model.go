package rideboard

import (
	"time"

	"github.com/Motolog/Motolog/internal/trip"
)

// ReactionKind 反应类型：点赞 / 收藏 / 同行。
type ReactionKind string

const (
	KindLike ReactionKind = "like"
	KindSave ReactionKind = "save"
	KindJoin ReactionKind = "join"
)

// Valid 是否为已知的反应类型。
func (k ReactionKind) Valid() bool {
	switch k {
	case KindLike, KindSave, KindJoin:
		return true
	}
	return false
}

// Reaction 一条反应记录。复合主键保证同一用户对同一行程的
// 同一种反应至多一条，toggle 语义落在集合语义上。
type Reaction struct {
	TripID    string       `gorm:"primaryKey;size:36" json:"tripId"`
	UserID    string       `gorm:"primaryKey;size:64" json:"userId"`
	Kind      ReactionKind `gorm:"primaryKey;type:varchar(8)" json:"kind"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"createdAt"`
}

// Comment 共享板上的一条评论。
type Comment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TripID      string    `gorm:"index;size:36;not null" json:"tripId"`
	UserID      string    `gorm:"size:64;not null" json:"userId"`
	DisplayName string    `gorm:"size:128" json:"displayName"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ToggleResult 反应开关的结果：操作人当前状态 + 行程总数。
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// FeedItem 共享板信息流中的一条行程，带聚合计数和
// 当前查看者的个人状态。
type FeedItem struct {
	trip.Trip
	Likes    int64     `json:"likes"`
	Saves    int64     `json:"saves"`
	Joins    int64     `json:"joins"`
	Liked    bool      `json:"liked"`
	Saved    bool      `json:"saved"`
	Joined   bool      `json:"joined"`
	Comments []Comment `json:"comments"`
}

// FeedPage 信息流的一页。
type FeedPage struct {
	Trips    []FeedItem `json:"trips"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	HasMore  bool       `json:"hasMore"`
}
