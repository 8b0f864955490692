package cart

import "time"

type CartItem struct {
	UID               string
	ShopperUID        string
	ProductUID        string
	ProductName       string
	VariantUID        string
	VariantAttributes []string
	UnitPrice         int64
	Currency          string
	Quantity          int
	Stock             int
	CreatedAt         time.Time
}

// CheckoutLine is a read-only projection of a cart item, taken at the moment
// checkout is entered. It is derived fresh every time and never stored.
type CheckoutLine struct {
	CartItemUID       string
	ProductUID        string
	ProductName       string
	VariantUID        string
	VariantAttributes []string
	UnitPrice         int64
	Currency          string
	Quantity          int
}

func (l CheckoutLine) TotalPrice() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Selection is the frozen set of cart items a shopper picked for one checkout
// attempt. There is at most one per shopper: it is keyed by shopper uid.
type Selection struct {
	ShopperUID   string
	CartItemUIDs []string
	CreatedAt    time.Time
}
