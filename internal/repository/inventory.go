package repository

import (
	"context"

	"github.com/mkolchin/shopcart/internal/domain/entity"
)

// InventoryClient is the read-only view onto the remote inventory service.
// StockQuota reports the quantity currently available for a product and is
// queried per mutation, never cached. Product returns the descriptive
// metadata copied into a line item when it first enters the cart.
type InventoryClient interface {
	StockQuota(ctx context.Context, productID int64) (int, error)
	Product(ctx context.Context, productID int64) (*entity.Product, error)
}
