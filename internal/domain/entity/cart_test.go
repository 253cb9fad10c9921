package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleProduct(id int64, title string) Product {
	return Product{ID: id, Title: title, Price: 19.9, Image: "https://cdn.example.com/p.jpg"}
}

func TestCart_Append_KeepsInsertionOrder(t *testing.T) {
	cart := NewCart()

	assert.NoError(t, cart.Append(sampleProduct(1, "Sneaker"), 1))
	assert.NoError(t, cart.Append(sampleProduct(2, "Boot"), 1))
	assert.NoError(t, cart.Append(sampleProduct(3, "Sandal"), 2))

	assert.Len(t, cart.Items, 3)
	assert.Equal(t, int64(1), cart.Items[0].ID)
	assert.Equal(t, int64(2), cart.Items[1].ID)
	assert.Equal(t, int64(3), cart.Items[2].ID)
}

func TestCart_Append_RejectsDuplicateProduct(t *testing.T) {
	cart := NewCart()

	assert.NoError(t, cart.Append(sampleProduct(1, "Sneaker"), 1))
	err := cart.Append(sampleProduct(1, "Sneaker again"), 1)

	assert.Error(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCart_Append_RejectsNonPositiveAmount(t *testing.T) {
	cart := NewCart()

	assert.Error(t, cart.Append(sampleProduct(1, "Sneaker"), 0))
	assert.Error(t, cart.Append(sampleProduct(1, "Sneaker"), -2))
	assert.Empty(t, cart.Items)
}

func TestCart_SetAmount_MutatesInPlace(t *testing.T) {
	cart := NewCart()
	_ = cart.Append(sampleProduct(1, "Sneaker"), 1)
	_ = cart.Append(sampleProduct(2, "Boot"), 1)

	assert.NoError(t, cart.SetAmount(1, 4))

	assert.Equal(t, 4, cart.Items[0].Amount)
	assert.Equal(t, int64(1), cart.Items[0].ID, "position must be preserved")
}

func TestCart_SetAmount_UnknownProduct(t *testing.T) {
	cart := NewCart()

	err := cart.SetAmount(42, 2)

	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCart_Remove_PreservesOrderOfRemaining(t *testing.T) {
	cart := NewCart()
	_ = cart.Append(sampleProduct(1, "Sneaker"), 1)
	_ = cart.Append(sampleProduct(2, "Boot"), 1)
	_ = cart.Append(sampleProduct(3, "Sandal"), 1)

	assert.NoError(t, cart.Remove(2))

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, int64(1), cart.Items[0].ID)
	assert.Equal(t, int64(3), cart.Items[1].ID)
}

func TestCart_Remove_UnknownProduct(t *testing.T) {
	cart := NewCart()
	_ = cart.Append(sampleProduct(1, "Sneaker"), 1)

	err := cart.Remove(99)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Len(t, cart.Items, 1)
}

func TestCart_Clone_IsIndependent(t *testing.T) {
	cart := NewCart()
	_ = cart.Append(sampleProduct(1, "Sneaker"), 1)

	clone := cart.Clone()
	assert.NoError(t, clone.SetAmount(1, 5))

	assert.Equal(t, 1, cart.Items[0].Amount)
	assert.Equal(t, 5, clone.Items[0].Amount)
}

func TestCart_Snapshot_DoesNotExposeInternalSlice(t *testing.T) {
	cart := NewCart()
	_ = cart.Append(sampleProduct(1, "Sneaker"), 1)

	snapshot := cart.Snapshot()
	snapshot[0].Amount = 99

	assert.Equal(t, 1, cart.Items[0].Amount)
}

func TestCart_EncodeDecode_RoundTrip(t *testing.T) {
	cart := NewCart()
	_ = cart.Append(sampleProduct(2, "Boot"), 3)
	_ = cart.Append(sampleProduct(1, "Sneaker"), 1)

	data, err := cart.Encode()
	assert.NoError(t, err)

	restored, err := DecodeCart(data)
	assert.NoError(t, err)
	assert.Equal(t, cart.Items, restored.Items)
}

func TestDecodeCart_RejectsUnknownSchemaVersion(t *testing.T) {
	blob, err := json.Marshal(map[string]interface{}{
		"version": 2,
		"items":   []LineItem{{ID: 1, Title: "Sneaker", Amount: 1}},
	})
	assert.NoError(t, err)

	_, err = DecodeCart(blob)

	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestDecodeCart_RejectsMalformedBlob(t *testing.T) {
	_, err := DecodeCart([]byte("{not json"))

	assert.Error(t, err)
}

func TestDecodeCart_EmptyItems(t *testing.T) {
	cart := NewCart()

	data, err := cart.Encode()
	assert.NoError(t, err)

	restored, err := DecodeCart(data)
	assert.NoError(t, err)
	assert.NotNil(t, restored.Items)
	assert.Empty(t, restored.Items)
}
