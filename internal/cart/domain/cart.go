// Package domain 购物车领域模型：游客本地购物车与账号购物车的统一视图。
package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItem 购物车行项目。同一购物车内 ProductID 唯一。
type LineItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// Cart 内存中的购物车视图。合计与件数总是重新计算，从不落库。
type Cart struct {
	Items []LineItem
}

// Total 合计金额。
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount 件数合计。
func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Find 按商品定位行项目，返回索引，不存在时为 -1。
func (c *Cart) Find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add 已有行数量加一，新行以数量 1 追加。
func (c *Cart) Add(item LineItem) {
	if i := c.Find(item.ProductID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// Remove 删除行项目。不存在时为空操作。
func (c *Cart) Remove(productID string) {
	if i := c.Find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// SetQuantity 设置行数量。小于 1 等价于删除；无上限。
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity < 1 {
		c.Remove(productID)
		return
	}
	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

// EncodeItems 序列化游客购物车载荷。
func EncodeItems(items []LineItem) ([]byte, error) {
	return json.Marshal(items)
}

// DecodeItems 解析游客购物车载荷。损坏或为空的载荷按空购物车处理。
func DecodeItems(data []byte) ([]LineItem, error) {
	if len(data) == 0 {
		return []LineItem{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return []LineItem{}, err
	}
	return items, nil
}

// CartItemRecord 账号购物车的持久化行。商品字段读取时关联 products 补齐。
type CartItemRecord struct {
	gorm.Model
	UserID    string `gorm:"column:user_id;type:varchar(36);index:idx_user_product,unique;not null"`
	ProductID string `gorm:"column:product_id;type:varchar(36);index:idx_user_product,unique;not null"`
	Quantity  int    `gorm:"column:quantity;not null"`
}

func (CartItemRecord) TableName() string { return "cart_items" }
