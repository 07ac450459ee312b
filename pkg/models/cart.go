package models

import "time"

// CartItem is a single cart line. Lines are unique by product id.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart holds the pending selection for one owner. A missing stored cart
// means an empty cart, not an error.
type Cart struct {
	OwnerID   string     `json:"ownerId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// FindItem returns the index of the line holding productID, or -1.
func (c Cart) FindItem(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
