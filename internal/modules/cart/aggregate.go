package cart

// Pure cart arithmetic. Everything here is a display-time projection over a
// list of items; nothing is persisted.

// ShippingPolicy drives the shipping part of the totals.
type ShippingPolicy struct {
	FlatRate              float64
	FreeShippingThreshold float64
}

// Totals is the checkout-ready breakdown of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Subtotal sums effective unit price times quantity across the items.
// The sum is commutative: reordering the list never changes the result.
func Subtotal(items []*CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	return round2(sum)
}

// ItemCount sums quantities, not rows.
func ItemCount(items []*CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// ComputeTotals derives tax and shipping from the subtotal. Shipping is
// waived once the subtotal reaches the free-shipping threshold.
func ComputeTotals(subtotal, taxRate float64, policy ShippingPolicy) Totals {
	tax := round2(subtotal * taxRate)
	shipping := policy.FlatRate
	if subtotal >= policy.FreeShippingThreshold {
		shipping = 0
	}
	return Totals{
		Subtotal: round2(subtotal),
		Tax:      tax,
		Shipping: shipping,
		Total:    round2(subtotal + tax + shipping),
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
