// Package memory keeps storefront records in process. It backs the CLI and
// server when no remote backend is configured and mirrors the conflict
// errors the SQL backends report.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/backend"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/storefront"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

// Image is a media entry a product can feature.
type Image struct {
	ID  int64
	URL string
}

// Store holds products, accounts and images. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]storefront.Product
	accounts map[string]storefront.Account
	images   []Image
}

// New returns an empty store seeded with images.
func New(images ...Image) *Store {
	return &Store{
		products: make(map[int64]storefront.Product),
		accounts: make(map[string]storefront.Account),
		images:   append([]Image(nil), images...),
	}
}

// Create stores a new product. Slugs are unique.
func (s *Store) Create(ctx context.Context, product storefront.Product) (storefront.Product, error) {
	if err := ctx.Err(); err != nil {
		return storefront.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkSlugLocked(product); err != nil {
		return storefront.Product{}, err
	}
	s.nextID++
	product.ID = s.nextID
	s.products[product.ID] = product
	return product, nil
}

// Update replaces an existing product.
func (s *Store) Update(ctx context.Context, product storefront.Product) (storefront.Product, error) {
	if err := ctx.Err(); err != nil {
		return storefront.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return storefront.Product{}, fmt.Errorf("memory: product %d not found", product.ID)
	}
	if err := s.checkSlugLocked(product); err != nil {
		return storefront.Product{}, err
	}
	s.products[product.ID] = product
	return product, nil
}

// Get returns the product with id.
func (s *Store) Get(id int64) (storefront.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[id]
	return product, ok
}

// Products lists stored products by id.
func (s *Store) Products() []storefront.Product {
	s.mu.RLock()
	out := make([]storefront.Product, 0, len(s.products))
	for _, product := range s.products {
		out = append(out, product)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) checkSlugLocked(product storefront.Product) error {
	for id, existing := range s.products {
		if id != product.ID && existing.Slug == product.Slug {
			detail := fmt.Sprintf("Key (slug)=(%s) already exists.", product.Slug)
			return backend.UniqueViolation(detail, "products_slug_key", http.StatusConflict, nil)
		}
	}
	return nil
}

// SignUp registers an account. Emails are unique, case-insensitively.
func (s *Store) SignUp(ctx context.Context, email, _ string) (storefront.Account, error) {
	if err := ctx.Err(); err != nil {
		return storefront.Account{}, err
	}
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		detail := fmt.Sprintf("Key (email)=(%s) already exists.", key)
		return storefront.Account{}, backend.UniqueViolation(detail, "", http.StatusUnprocessableEntity, nil)
	}
	account := storefront.Account{ID: uuid.NewString(), Email: email}
	s.accounts[key] = account
	return account, nil
}

// References lists the stored images for reference pickers.
func (s *Store) References(ctx context.Context, _ model.Field) ([]widgets.ReferenceOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]widgets.ReferenceOption, len(s.images))
	for i, img := range s.images {
		out[i] = widgets.ReferenceOption{ID: img.ID, Label: fmt.Sprintf("Image %d", img.ID), Preview: img.URL}
	}
	return out, nil
}

var (
	_ storefront.ProductStore = (*Store)(nil)
	_ storefront.SignUpClient = (*Store)(nil)
	_ widgets.ReferenceSource = (*Store)(nil)
)
