package payment

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/lapstore/checkout/lib/myerrors"
)

const qrImageSize = 256

// qrImage renders the payload of a payment session as a PNG image that the
// storefront can show for the shopper to scan.
func qrImage(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error encoding qr code: %s", err))
	}

	return png, nil
}
