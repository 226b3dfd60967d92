package models

import (
	"encoding/json"
	"fmt"
)

// Product is a catalog entry as served by the remote catalog API.
// Products are immutable once fetched.
type Product struct {
	ID                 int64    `json:"id" validate:"required"`
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" validate:"gte=0"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rating             float64  `json:"rating" validate:"gte=0,lte=5"`
	Category           string   `json:"category"`
	Brand              *string  `json:"brand,omitempty"`
	Stock              int      `json:"stock" validate:"gte=0"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images,omitempty"`
}

// OriginalPrice returns the pre-discount price for a discounted product.
// It reports false when the product carries no usable discount.
func (p Product) OriginalPrice() (float64, bool) {
	if p.DiscountPercentage == nil {
		return 0, false
	}

	d := *p.DiscountPercentage
	if d <= 0 || d >= 100 {
		return 0, false
	}

	return p.Price / (1 - d/100), true
}

// BrandName returns the brand or "" when the product has none.
func (p Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}

	return *p.Brand
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both {"slug","name","url"} objects and the bare
// slug strings older catalog deployments return.
func (c *Category) UnmarshalJSON(data []byte) error {
	var slug string
	if err := json.Unmarshal(data, &slug); err == nil {
		c.Slug = slug
		c.Name = slug

		return nil
	}

	var obj struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}

	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding category: %w", err)
	}

	if obj.Slug == "" {
		return fmt.Errorf("decoding category: missing slug")
	}

	c.Slug = obj.Slug
	c.Name = obj.Name

	if c.Name == "" {
		c.Name = obj.Slug
	}

	return nil
}

// ProductQuery describes a browse request: optional category scope,
// free-text search and sort key.
type ProductQuery struct {
	Text     string `json:"q"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
}

const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
)
