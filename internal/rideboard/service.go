package rideboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Motolog/Motolog/internal/common/validation"
	"github.com/Motolog/Motolog/internal/trip"
)

var (
	// ErrNotFound 行程不存在或不在共享板上（对外不区分两者）
	ErrNotFound = errors.New("trip not on rideboard")
	// ErrCommentNotFound 评论不存在或不属于该行程
	ErrCommentNotFound = errors.New("comment not found")
	// ErrForbidden 操作人不是评论作者
	ErrForbidden = errors.New("not the comment author")
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Store 共享板的持久化接口。
type Store interface {
	FindPublicTrip(ctx context.Context, tripID string) (*trip.Trip, error)
	ListPublicTrips(ctx context.Context, offset, limit int) ([]trip.Trip, error)

	HasReaction(ctx context.Context, tripID, userID string, kind ReactionKind) (bool, error)
	AddReaction(ctx context.Context, r *Reaction) error
	RemoveReaction(ctx context.Context, tripID, userID string, kind ReactionKind) error
	CountReactions(ctx context.Context, tripID string, kind ReactionKind) (int64, error)

	InsertComment(ctx context.Context, c *Comment) error
	FindComment(ctx context.Context, commentID string) (*Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	ListComments(ctx context.Context, tripID string) ([]Comment, error)
}

// Service 共享板用例：反应开关、评论、信息流。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Toggle 对公开行程切换一种反应：已有则撤掉，没有则加上。
// 返回操作后的个人状态与该行程该类反应的总数。
// 唯一性由存储层的复合主键保证，并发重复提交收敛到同一行。
func (s *Service) Toggle(ctx context.Context, tripID, userID string, kind ReactionKind) (*ToggleResult, error) {
	tripID = strings.TrimSpace(tripID)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		verr := &validation.Error{}
		verr.Add("userId")
		return nil, verr
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown reaction kind: %s", kind)
	}
	if _, err := s.store.FindPublicTrip(ctx, tripID); err != nil {
		return nil, err
	}

	active, err := s.store.HasReaction(ctx, tripID, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to check reaction: %w", err)
	}
	if active {
		if err := s.store.RemoveReaction(ctx, tripID, userID, kind); err != nil {
			return nil, fmt.Errorf("failed to remove reaction: %w", err)
		}
	} else {
		r := &Reaction{TripID: tripID, UserID: userID, Kind: kind}
		if err := s.store.AddReaction(ctx, r); err != nil {
			return nil, fmt.Errorf("failed to add reaction: %w", err)
		}
	}

	count, err := s.store.CountReactions(ctx, tripID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}
	return &ToggleResult{Active: !active, Count: count}, nil
}

// CommentInput 新增评论入参。
type CommentInput struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
}

// AddComment 在公开行程下追加评论。展示名缺省回退为用户 ID。
func (s *Service) AddComment(ctx context.Context, tripID string, in CommentInput) (*Comment, error) {
	verr := &validation.Error{}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		verr.Add("userId")
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		verr.Add("text")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	tripID = strings.TrimSpace(tripID)
	if _, err := s.store.FindPublicTrip(ctx, tripID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		name = userID
	}
	c := &Comment{
		ID:          uuid.NewString(),
		TripID:      tripID,
		UserID:      userID,
		DisplayName: name,
		Text:        text,
	}
	if err := s.store.InsertComment(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return c, nil
}

// DeleteComment 删除自己的评论。评论不存在/不属于该行程与
// 非作者删除是两类错误，各走各的状态码。
func (s *Service) DeleteComment(ctx context.Context, tripID, commentID, userID string) error {
	c, err := s.store.FindComment(ctx, strings.TrimSpace(commentID))
	if err != nil {
		return err
	}
	if c.TripID != strings.TrimSpace(tripID) {
		return ErrCommentNotFound
	}
	if c.UserID != strings.TrimSpace(userID) {
		return ErrForbidden
	}
	if err := s.store.DeleteComment(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// Feed 公开行程信息流，按公开时间倒序分页。
// hasMore 判定：取满一页就认为可能还有下一页，不额外 count。
// viewerID 可为空（匿名浏览），个人状态全为 false。
func (s *Service) Feed(ctx context.Context, viewerID string, page, pageSize int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	viewerID = strings.TrimSpace(viewerID)

	trips, err := s.store.ListPublicTrips(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list public trips: %w", err)
	}

	items := make([]FeedItem, 0, len(trips))
	for i := range trips {
		item, err := s.buildFeedItem(ctx, &trips[i], viewerID)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return &FeedPage{
		Trips:    items,
		Page:     page,
		PageSize: pageSize,
		HasMore:  len(trips) == pageSize,
	}, nil
}

func (s *Service) buildFeedItem(ctx context.Context, t *trip.Trip, viewerID string) (*FeedItem, error) {
	item := &FeedItem{Trip: *t}

	var err error
	if item.Likes, err = s.store.CountReactions(ctx, t.ID, KindLike); err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	if item.Saves, err = s.store.CountReactions(ctx, t.ID, KindSave); err != nil {
		return nil, fmt.Errorf("failed to count saves: %w", err)
	}
	if item.Joins, err = s.store.CountReactions(ctx, t.ID, KindJoin); err != nil {
		return nil, fmt.Errorf("failed to count joins: %w", err)
	}

	if viewerID != "" {
		if item.Liked, err = s.store.HasReaction(ctx, t.ID, viewerID, KindLike); err != nil {
			return nil, err
		}
		if item.Saved, err = s.store.HasReaction(ctx, t.ID, viewerID, KindSave); err != nil {
			return nil, err
		}
		if item.Joined, err = s.store.HasReaction(ctx, t.ID, viewerID, KindJoin); err != nil {
			return nil, err
		}
	}

	if item.Comments, err = s.store.ListComments(ctx, t.ID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return item, nil
}
