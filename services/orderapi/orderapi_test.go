package orderapi

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

var checkout = Checkout{
	CartItemUIDs:  []string{"item_123", "item_456"},
	AddressUID:    "address_789",
	PaymentMethod: "qr",
	VoucherUID:    "voucher_abc",
	Remark:        "leave at the front desk",
}

func TestEncodeDecodeSame(t *testing.T) {
	//  encode followed by decode must end up same

	values, err := checkout.ToForm()
	assert.NoError(t, err)
	checkoutAgain, err := NewFromValues(values)
	assert.NoError(t, err)

	assert.Equal(t, checkout, checkoutAgain)
}

func TestDecode(t *testing.T) {
	form := url.Values{
		"cartItemUids[0]": []string{"item_123"},
		"cartItemUids[1]": []string{"item_456"},
		"addressUid":      []string{"address_789"},
		"paymentMethod":   []string{"qr"},
		"voucherUid":      []string{"voucher_abc"},
		"remark":          []string{"leave at the front desk"},
	}

	checkoutAgain, err := NewFromValues(form)
	assert.NoError(t, err)
	assert.Equal(t, checkout, checkoutAgain)
}
