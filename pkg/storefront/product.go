package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Badge values accepted by the product form.
const (
	BadgeNewProduct = "new_product"
	BadgeBestSale   = "best_sale"
	BadgeFeatured   = "featured"
)

// Product is the persisted product record.
type Product struct {
	ID              int64    `json:"id,omitempty"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	Featured        bool     `json:"featured"`
	Badge           string   `json:"badge,omitempty"`
	Rating          float64  `json:"rating"`
	Tags            []string `json:"tags,omitempty"`
	Price           float64  `json:"price"`
	FeaturedImageID int64    `json:"featuredImageId"`
}

// ProductStore persists products.
type ProductStore interface {
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) (Product, error)
}

// ErrMissingProductID is returned when an update targets a product without id.
var ErrMissingProductID = errors.New("storefront: product id is required for updates")

// ProductValues seeds the product form from an existing record (edit mode).
func ProductValues(p Product) map[string]any {
	tags := make([]any, len(p.Tags))
	for i, tag := range p.Tags {
		tags[i] = tag
	}
	values := map[string]any{
		"name":            p.Name,
		"slug":            p.Slug,
		"description":     p.Description,
		"featured":        p.Featured,
		"badge":           p.Badge,
		"rating":          p.Rating,
		"tags":            tags,
		"price":           p.Price,
		"featuredImageId": p.FeaturedImageID,
	}
	if p.FeaturedImageID == 0 {
		values["featuredImageId"] = nil
	}
	return values
}

// ProductFromPayload converts a projected submission payload into a Product.
func ProductFromPayload(payload submit.Payload) (Product, error) {
	p := Product{
		Name:        stringValue(payload["name"]),
		Slug:        stringValue(payload["slug"]),
		Description: stringValue(payload["description"]),
		Badge:       stringValue(payload["badge"]),
	}
	if v, ok := payload["featured"]; ok {
		b, ok := validation.ToBool(v)
		if !ok {
			return Product{}, fmt.Errorf("storefront: featured: unexpected value %v", v)
		}
		p.Featured = b
	}
	var err error
	if p.Rating, err = floatValue(payload, "rating"); err != nil {
		return Product{}, err
	}
	if p.Price, err = floatValue(payload, "price"); err != nil {
		return Product{}, err
	}
	if v, ok := payload["featuredImageId"]; ok && v != nil {
		id, ok := validation.ToInt(v)
		if !ok {
			return Product{}, fmt.Errorf("storefront: featuredImageId: unexpected value %v", v)
		}
		p.FeaturedImageID = id
	}
	if v, ok := payload["tags"]; ok {
		items, ok := validation.ToList(v)
		if !ok {
			return Product{}, fmt.Errorf("storefront: tags: unexpected value %v", v)
		}
		for _, item := range items {
			if tag := strings.TrimSpace(fmt.Sprint(item)); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
	}
	return p, nil
}

// Record renders the product as the map carried in submit.Outcome.
func (p Product) Record() map[string]any {
	record := ProductValues(p)
	record["id"] = p.ID
	return record
}

// Changes is the column set written on update. Cleared optional columns are
// present as null or an empty list so the stored row drops the old value.
func (p Product) Changes() map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	changes := map[string]any{
		"name":            p.Name,
		"slug":            p.Slug,
		"description":     p.Description,
		"featured":        p.Featured,
		"badge":           p.Badge,
		"rating":          p.Rating,
		"tags":            tags,
		"price":           p.Price,
		"featuredImageId": p.FeaturedImageID,
	}
	if p.Badge == "" {
		changes["badge"] = nil
	}
	if p.FeaturedImageID == 0 {
		changes["featuredImageId"] = nil
	}
	return changes
}

// ProductOperation returns the operation submitting the product form. A nil
// existing product creates a new record, otherwise the existing one is
// updated in place.
func ProductOperation(store ProductStore, existing *Product) submit.Operation {
	return submit.OperationFunc(func(ctx context.Context, payload submit.Payload) (submit.Outcome, error) {
		product, err := ProductFromPayload(payload)
		if err != nil {
			return submit.Outcome{}, err
		}
		var saved Product
		if existing == nil {
			saved, err = store.Create(ctx, product)
		} else {
			if existing.ID == 0 {
				return submit.Outcome{}, ErrMissingProductID
			}
			product.ID = existing.ID
			saved, err = store.Update(ctx, product)
		}
		if err != nil {
			return submit.Outcome{}, err
		}
		return submit.Outcome{Record: saved.Record()}, nil
	})
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func floatValue(payload submit.Payload, key string) (float64, error) {
	v, ok := payload[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, ok := validation.ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("storefront: %s: unexpected value %v", key, v)
	}
	return n, nil
}
