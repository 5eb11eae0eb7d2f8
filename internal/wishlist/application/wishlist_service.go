package application

import (
	"context"

	"github.com/wyfcoding/stylehub/internal/session"
	"github.com/wyfcoding/stylehub/internal/wishlist/domain"
)

// Notifier 面向访客的一次性提示端口。
type Notifier interface {
	Notify(ctx context.Context, userKey, message string) error
}

// Policy 收藏集策略。RequireAuth 为真时匿名写操作被拒绝。
type Policy struct {
	RequireAuth bool
}

// WishlistService 心愿单应用服务。
// 仅限登录是收藏集的显式策略而非实现巧合：匿名访客的写操作
// 以 ErrNotAuthenticated 拒绝，不做任何变更。
type WishlistService struct {
	repo     domain.WishlistRepository
	policy   Policy
	notifier Notifier
}

// NewWishlistService 创建心愿单应用服务实例
func NewWishlistService(repo domain.WishlistRepository, policy Policy, notifier Notifier) *WishlistService {
	return &WishlistService{repo: repo, policy: policy, notifier: notifier}
}

// List 返回当前用户的心愿单。
func (s *WishlistService) List(ctx context.Context, visitor session.Visitor) ([]domain.Entry, error) {
	user, err := s.requireUser(visitor)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

// Add 收藏商品。已收藏时是静默空操作。
func (s *WishlistService) Add(ctx context.Context, visitor session.Visitor, productID string) error {
	user, err := s.requireUser(visitor)
	if err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, user.ID, productID)
	if err != nil {
		s.notify(ctx, user, "Failed to update wishlist")
		return err
	}
	if exists {
		return nil
	}

	if err := s.repo.Insert(ctx, user.ID, productID); err != nil {
		s.notify(ctx, user, "Failed to update wishlist")
		return err
	}
	s.notify(ctx, user, "Added to wishlist")
	return nil
}

// Remove 取消收藏。未收藏时是空操作。
func (s *WishlistService) Remove(ctx context.Context, visitor session.Visitor, productID string) error {
	user, err := s.requireUser(visitor)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, user.ID, productID); err != nil {
		s.notify(ctx, user, "Failed to update wishlist")
		return err
	}
	s.notify(ctx, user, "Removed from wishlist")
	return nil
}

// Contains 查询商品是否已收藏。匿名访客恒为 false。
func (s *WishlistService) Contains(ctx context.Context, visitor session.Visitor, productID string) (bool, error) {
	if !visitor.Authenticated() {
		return false, nil
	}
	return s.repo.Exists(ctx, visitor.User.ID, productID)
}

func (s *WishlistService) requireUser(visitor session.Visitor) (*session.User, error) {
	if s.policy.RequireAuth && !visitor.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if visitor.User == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return visitor.User, nil
}

func (s *WishlistService) notify(ctx context.Context, user *session.User, message string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Notify(ctx, "user:"+user.ID, message)
}
