package supabase

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/storefront"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// SignUpOperation registers the submitted email and password and navigates
// to redirect.
func SignUpOperation(c *Client, redirect string) submit.Operation {
	return storefront.SignUpOperation(c, redirect)
}

// InsertOperation inserts the payload into table and returns the stored row.
func InsertOperation(c *Client, table string) submit.Operation {
	return submit.OperationFunc(func(ctx context.Context, payload submit.Payload) (submit.Outcome, error) {
		record := map[string]any{}
		if err := c.Insert(ctx, table, payload, &record); err != nil {
			return submit.Outcome{}, err
		}
		return submit.Outcome{Record: record}, nil
	})
}

// UpdateOperation patches the row of table identified by id.
func UpdateOperation(c *Client, table string, id any) submit.Operation {
	return submit.OperationFunc(func(ctx context.Context, payload submit.Payload) (submit.Outcome, error) {
		record := map[string]any{}
		if err := c.Update(ctx, table, id, payload, &record); err != nil {
			return submit.Outcome{}, err
		}
		return submit.Outcome{Record: record}, nil
	})
}

// ProductStore persists storefront products in a Supabase table.
type ProductStore struct {
	client *Client
	table  string
}

var _ storefront.ProductStore = (*ProductStore)(nil)

// Products returns a ProductStore over table ("products" when empty).
func Products(c *Client, table string) *ProductStore {
	if table == "" {
		table = storefront.ProductFormID
	}
	return &ProductStore{client: c, table: table}
}

// Create inserts product.
func (s *ProductStore) Create(ctx context.Context, product storefront.Product) (storefront.Product, error) {
	product.ID = 0
	var out storefront.Product
	if err := s.client.Insert(ctx, s.table, product, &out); err != nil {
		return storefront.Product{}, err
	}
	return out, nil
}

// Update patches product by id. Every column is sent so cleared fields are
// cleared in the row too.
func (s *ProductStore) Update(ctx context.Context, product storefront.Product) (storefront.Product, error) {
	if product.ID == 0 {
		return storefront.Product{}, storefront.ErrMissingProductID
	}
	var out storefront.Product
	if err := s.client.Update(ctx, s.table, product.ID, product.Changes(), &out); err != nil {
		return storefront.Product{}, err
	}
	return out, nil
}
