package orderapi

import (
	"fmt"
	"net/http"
	"net/url"

	formcodec "github.com/go-playground/form/v4"

	"github.com/lapstore/checkout/lib/myerrors"
)

// Checkout is the form payload that the storefront posts when the shopper
// submits an order.
type Checkout struct {
	CartItemUIDs  []string `form:"cartItemUids"`
	AddressUID    string   `form:"addressUid"`
	PaymentMethod string   `form:"paymentMethod"`
	VoucherUID    string   `form:"voucherUid"`
	Remark        string   `form:"remark"`
}

func NewFromRequest(r *http.Request) (Checkout, error) {
	err := r.ParseForm()
	if err != nil {
		return Checkout{}, myerrors.NewInvalidInputError(err)
	}
	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (Checkout, error) {
	checkout := Checkout{}
	err := formcodec.NewDecoder().Decode(&checkout, values)
	if err != nil {
		return checkout, fmt.Errorf("error decoding form: %s", err)
	}

	return checkout, nil
}

func (c Checkout) ToForm() (url.Values, error) {
	values, err := formcodec.NewEncoder().Encode(c)
	if err != nil {
		return nil, fmt.Errorf("error encoding form: %s", err)
	}

	return values, nil
}
