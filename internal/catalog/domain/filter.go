package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Sort 商品排序方式。
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortTrending  Sort = "trending"
)

// Filter 商品筛选条件。零值字段不参与筛选。
type Filter struct {
	// Query 在标题、品牌、描述上做大小写无关的子串匹配。
	Query string
	// Category 类目，大小写无关的全等匹配。
	Category string
	// MinPrice / MaxPrice 基于实际成交价的区间过滤。
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// FilterSort 对已取回的商品列表做纯函数式的筛选与排序。
// 不修改输入切片；相同输入恒产出相同输出。
func FilterSort(products []*Product, f Filter, s Sort) []*Product {
	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if matches(p, f) {
			out = append(out, p)
		}
	}

	switch s {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().LessThan(out[j].EffectivePrice())
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().GreaterThan(out[j].EffectivePrice())
		})
	case SortTrending:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].LikeCount > out[j].LikeCount
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func matches(p *Product, f Filter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && p.EffectivePrice().LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.EffectivePrice().GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}
