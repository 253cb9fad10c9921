package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is the version written into every persisted cart blob.
// Blobs carrying any other version are treated as absent on bootstrap.
const SchemaVersion = 1

var (
	ErrItemNotFound  = errors.New("item not found in cart")
	ErrSchemaVersion = errors.New("unsupported cart schema version")
)

// Product is the descriptive metadata reported by the inventory service.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// LineItem is one product held in the cart. The descriptive fields are
// copied from inventory metadata when the product first enters the cart;
// only Amount changes afterwards and it is never below 1.
type LineItem struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`
}

// Cart holds the ordered line-item sequence. At most one LineItem exists
// per product ID; appends keep insertion order, updates keep position.
type Cart struct {
	Items []LineItem `json:"items"`
}

func NewCart() *Cart {
	return &Cart{Items: make([]LineItem, 0)}
}

func (c *Cart) Item(productID int64) (*LineItem, int) {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return &c.Items[i], i
		}
	}
	return nil, -1
}

// Append adds a new line item for a product not yet in the cart.
func (c *Cart) Append(product Product, amount int) error {
	if amount < 1 {
		return errors.New("line item amount must be at least 1")
	}
	if item, _ := c.Item(product.ID); item != nil {
		return fmt.Errorf("product %d is already in the cart", product.ID)
	}
	c.Items = append(c.Items, LineItem{
		ID:     product.ID,
		Title:  product.Title,
		Price:  product.Price,
		Image:  product.Image,
		Amount: amount,
	})
	return nil
}

// SetAmount mutates the amount of an existing line item in place.
func (c *Cart) SetAmount(productID int64, amount int) error {
	if amount < 1 {
		return errors.New("line item amount must be at least 1")
	}
	item, _ := c.Item(productID)
	if item == nil {
		return ErrItemNotFound
	}
	item.Amount = amount
	return nil
}

// Remove drops the line item for productID, keeping the order of the rest.
func (c *Cart) Remove(productID int64) error {
	_, index := c.Item(productID)
	if index == -1 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return nil
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items}
}

// Snapshot returns a read-only copy of the line-item sequence.
func (c *Cart) Snapshot() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

type cartBlob struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Encode serializes the cart into the versioned blob format written to
// durable storage.
func (c *Cart) Encode() ([]byte, error) {
	blob := cartBlob{Version: SchemaVersion, Items: c.Items}
	data, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart blob: %w", err)
	}
	return data, nil
}

// DecodeCart parses a persisted blob back into a Cart. A version other than
// SchemaVersion yields ErrSchemaVersion so callers can fall back to an
// empty cart instead of best-effort parsing.
func DecodeCart(data []byte) (*Cart, error) {
	var blob cartBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to decode cart blob: %w", err)
	}
	if blob.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, blob.Version)
	}
	cart := NewCart()
	if len(blob.Items) > 0 {
		cart.Items = blob.Items
	}
	return cart, nil
}
