package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/stylehub/internal/cart/domain"
	"github.com/wyfcoding/stylehub/internal/session"
)

// CartView 返回给接口层的购物车视图。合计与件数总是现算。
type CartView struct {
	Items     []domain.LineItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"item_count"`
}

func viewOf(cart domain.Cart) *CartView {
	items := cart.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return &CartView{Items: items, Total: cart.Total(), ItemCount: cart.ItemCount()}
}

// CartService 购物车应用服务。
// 按访客形态分派：匿名访客读写游客存储，登录用户读写账号仓储。
// 写失败时向访客发送 "Failed to ..." 提示并返回最后确认的视图。
type CartService struct {
	repo      domain.CartRepository
	guests    domain.GuestStore
	products  domain.ProductReader
	notifier  domain.Notifier
	publisher domain.EventPublisher
}

// NewCartService 创建购物车应用服务实例
func NewCartService(repo domain.CartRepository, guests domain.GuestStore, products domain.ProductReader, notifier domain.Notifier, publisher domain.EventPublisher) *CartService {
	return &CartService{repo: repo, guests: guests, products: products, notifier: notifier, publisher: publisher}
}

// Get 返回当前访客的购物车。
func (s *CartService) Get(ctx context.Context, visitor session.Visitor) (*CartView, error) {
	cart, err := s.load(ctx, visitor)
	if err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

// AddItem 加入商品。已有行数量加一，新行以数量 1 写入，
// 单价在加入时按实际成交价捕获。
func (s *CartService) AddItem(ctx context.Context, visitor session.Visitor, productID string) (*CartView, error) {
	confirmed, err := s.load(ctx, visitor)
	if err != nil {
		s.notify(ctx, visitor, "Failed to add item to cart")
		return nil, err
	}

	info, err := s.products.Read(ctx, productID)
	if err != nil {
		s.notify(ctx, visitor, "Failed to add item to cart")
		return viewOf(confirmed), err
	}

	next := domain.Cart{Items: append([]domain.LineItem(nil), confirmed.Items...)}
	next.Add(domain.LineItem{
		ProductID: info.ProductID,
		Title:     info.Title,
		UnitPrice: info.UnitPrice,
		ImageURL:  info.ImageURL,
	})

	if visitor.Authenticated() {
		userID := visitor.User.ID
		quantity, found, err := s.repo.GetQuantity(ctx, userID, productID)
		if err == nil {
			if found {
				err = s.repo.UpdateQuantity(ctx, userID, productID, quantity+1)
			} else {
				err = s.repo.Insert(ctx, userID, productID, 1)
			}
		}
		if err != nil {
			s.notify(ctx, visitor, "Failed to add item to cart")
			return viewOf(confirmed), err
		}
		// 重新读取账号仓储，保证行上的商品字段与库内一致。
		if fresh, err := s.repo.ListByUser(ctx, userID); err == nil {
			next = domain.Cart{Items: fresh}
		}
	} else {
		if err := s.storeGuest(ctx, visitor.GuestToken, next.Items); err != nil {
			s.notify(ctx, visitor, "Failed to add item to cart")
			return viewOf(confirmed), err
		}
	}

	s.notify(ctx, visitor, "Added to cart")
	s.publish(ctx, domain.CartItemAddedEventType, userKey(visitor), domain.CartItemAddedEvent{
		UserKey:   userKey(visitor),
		ProductID: info.ProductID,
		Quantity:  1,
		UnitPrice: info.UnitPrice,
		Timestamp: time.Now(),
	})
	return viewOf(next), nil
}

// RemoveItem 移除商品。不存在的行是空操作。
func (s *CartService) RemoveItem(ctx context.Context, visitor session.Visitor, productID string) (*CartView, error) {
	confirmed, err := s.load(ctx, visitor)
	if err != nil {
		s.notify(ctx, visitor, "Failed to remove item from cart")
		return nil, err
	}
	if confirmed.Find(productID) < 0 {
		return viewOf(confirmed), nil
	}

	next := domain.Cart{Items: append([]domain.LineItem(nil), confirmed.Items...)}
	next.Remove(productID)

	if err := s.persist(ctx, visitor, next, productID, "Failed to remove item from cart"); err != nil {
		return viewOf(confirmed), err
	}

	s.notify(ctx, visitor, "Removed from cart")
	return viewOf(next), nil
}

// SetQuantity 设置行数量。小于 1 时等价于移除，无数量上限。
// 乐观更新：远端写失败时回退到最后确认的视图并返回错误。
func (s *CartService) SetQuantity(ctx context.Context, visitor session.Visitor, productID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, visitor, productID)
	}

	confirmed, err := s.load(ctx, visitor)
	if err != nil {
		s.notify(ctx, visitor, "Failed to update cart")
		return nil, err
	}
	if confirmed.Find(productID) < 0 {
		return viewOf(confirmed), nil
	}

	next := domain.Cart{Items: append([]domain.LineItem(nil), confirmed.Items...)}
	next.SetQuantity(productID, quantity)

	if err := s.persist(ctx, visitor, next, productID, "Failed to update cart"); err != nil {
		return viewOf(confirmed), err
	}
	return viewOf(next), nil
}

// Clear 清空购物车。
func (s *CartService) Clear(ctx context.Context, visitor session.Visitor) (*CartView, error) {
	var err error
	if visitor.Authenticated() {
		err = s.repo.Clear(ctx, visitor.User.ID)
	} else {
		err = s.guests.Delete(ctx, visitor.GuestToken)
	}
	if err != nil {
		s.notify(ctx, visitor, "Failed to clear cart")
		confirmed, loadErr := s.load(ctx, visitor)
		if loadErr != nil {
			return nil, err
		}
		return viewOf(confirmed), err
	}

	s.notify(ctx, visitor, "Cart cleared")
	s.publish(ctx, domain.CartClearedEventType, userKey(visitor), domain.CartClearedEvent{
		UserKey:   userKey(visitor),
		Timestamp: time.Now(),
	})
	return viewOf(domain.Cart{}), nil
}

// MergeGuestCart 登录迁移：游客购物车逐行并入账号购物车。
// 远端已有同商品行则数量累加，否则带着游客数量插入；
// 之后删除游客键（即使没有任何行），再以账号仓储为准重新读取。
// 重复登录没有新的游客数据时不改变任何状态。
func (s *CartService) MergeGuestCart(ctx context.Context, guestToken string, user session.User) (*CartView, error) {
	payload, err := s.guests.Get(ctx, guestToken)
	if err != nil {
		return nil, err
	}
	items, decodeErr := domain.DecodeItems(payload)
	if decodeErr != nil {
		logging.Debug(ctx, "discarding unparseable guest cart", "guest_token", guestToken, "error", decodeErr)
	}

	merged := domain.Cart{}
	migrated := 0
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		quantity, found, err := s.repo.GetQuantity(ctx, user.ID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if found {
			item.Quantity += quantity
			err = s.repo.UpdateQuantity(ctx, user.ID, item.ProductID, item.Quantity)
		} else {
			err = s.repo.Insert(ctx, user.ID, item.ProductID, item.Quantity)
		}
		if err != nil {
			return nil, err
		}
		merged.Items = append(merged.Items, item)
		migrated++
	}

	if err := s.guests.Delete(ctx, guestToken); err != nil {
		return viewOf(merged), err
	}

	if migrated > 0 {
		_ = s.notifier.Notify(ctx, "user:"+user.ID, "Your cart has been restored to your account")
		s.publish(ctx, domain.CartMergedEventType, user.ID, domain.CartMergedEvent{
			UserID:     user.ID,
			GuestToken: guestToken,
			Migrated:   migrated,
			Timestamp:  time.Now(),
		})
	}

	fresh, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		// 迁移本身已经落库，返回内存中的合并视图并上抛错误供调用方重读。
		return viewOf(merged), err
	}
	return viewOf(domain.Cart{Items: fresh}), nil
}

// OnSignIn 实现 session.Merger，在登录事件上驱动购物车迁移。
func (s *CartService) OnSignIn(ctx context.Context, guestToken string, user session.User) error {
	_, err := s.MergeGuestCart(ctx, guestToken, user)
	return err
}

func (s *CartService) load(ctx context.Context, visitor session.Visitor) (domain.Cart, error) {
	if visitor.Authenticated() {
		items, err := s.repo.ListByUser(ctx, visitor.User.ID)
		if err != nil {
			return domain.Cart{}, err
		}
		return domain.Cart{Items: items}, nil
	}

	payload, err := s.guests.Get(ctx, visitor.GuestToken)
	if err != nil {
		return domain.Cart{}, err
	}
	items, decodeErr := domain.DecodeItems(payload)
	if decodeErr != nil {
		logging.Debug(ctx, "discarding unparseable guest cart", "guest_token", visitor.GuestToken, "error", decodeErr)
	}
	return domain.Cart{Items: items}, nil
}

func (s *CartService) persist(ctx context.Context, visitor session.Visitor, next domain.Cart, productID, failMsg string) error {
	var err error
	if visitor.Authenticated() {
		if i := next.Find(productID); i >= 0 {
			err = s.repo.UpdateQuantity(ctx, visitor.User.ID, productID, next.Items[i].Quantity)
		} else {
			err = s.repo.Delete(ctx, visitor.User.ID, productID)
		}
	} else {
		err = s.storeGuest(ctx, visitor.GuestToken, next.Items)
	}
	if err != nil {
		s.notify(ctx, visitor, failMsg)
	}
	return err
}

func (s *CartService) storeGuest(ctx context.Context, token string, items []domain.LineItem) error {
	payload, err := domain.EncodeItems(items)
	if err != nil {
		return err
	}
	return s.guests.Set(ctx, token, payload)
}

func (s *CartService) notify(ctx context.Context, visitor session.Visitor, message string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Notify(ctx, userKey(visitor), message)
}

func (s *CartService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, topic, key, event)
}

func userKey(visitor session.Visitor) string {
	if visitor.Authenticated() {
		return "user:" + visitor.User.ID
	}
	return "guest:" + visitor.GuestToken
}
