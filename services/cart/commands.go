package cart

import (
	"context"
	"fmt"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mystore"
)

func (s *Service) ListItems(c context.Context, shopperUID string) ([]CartItem, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Fetch cart of shopper %s", shopperUID)

	items, err := s.itemStore.Query(c, []mystore.Filter{
		{Field: "ShopperUID", Compare: "=", Value: shopperUID},
	}, "CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	return items, nil
}

func (s *Service) AddItem(c context.Context, item CartItem) (CartItem, error) {
	if item.ProductUID == "" || item.VariantUID == "" {
		return CartItem{}, myerrors.NewInvalidInputErrorf("cart item needs a product and a variant")
	}
	if item.Quantity <= 0 {
		return CartItem{}, myerrors.NewInvalidInputErrorf("cart item needs a positive quantity")
	}

	item.UID = s.uuider.Create()
	item.CreatedAt = s.nower.Now()

	s.logger.Log(c, item.UID, mylog.SeverityInfo, "Adding cart item %s (%s) for shopper %s", item.UID, item.ProductName, item.ShopperUID)

	err := s.itemStore.Put(c, item.UID, item)
	if err != nil {
		return CartItem{}, myerrors.NewInternalError(err)
	}

	return item, nil
}

func (s *Service) RemoveItem(c context.Context, shopperUID string, itemUID string) error {
	s.logger.Log(c, itemUID, mylog.SeverityInfo, "Removing cart item %s of shopper %s", itemUID, shopperUID)

	item, found, err := s.itemStore.Get(c, itemUID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("cart item with uid %s not found", itemUID))
	}
	if item.ShopperUID != shopperUID {
		return myerrors.NewNotFoundError(fmt.Errorf("cart item with uid %s not found", itemUID))
	}

	err = s.itemStore.Delete(c, itemUID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

// FreezeSelection stores the set of cart items the shopper wants to check out.
// This replaces any previous selection for this shopper.
func (s *Service) FreezeSelection(c context.Context, shopperUID string, cartItemUIDs []string) (Selection, error) {
	if len(cartItemUIDs) == 0 {
		return Selection{}, myerrors.NewInvalidInputErrorf("selection must contain at least one cart item")
	}

	selection := Selection{
		ShopperUID:   shopperUID,
		CartItemUIDs: cartItemUIDs,
		CreatedAt:    s.nower.Now(),
	}

	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Freezing selection of %d cart items for shopper %s", len(cartItemUIDs), shopperUID)

	err := s.selectionStore.Put(c, shopperUID, selection)
	if err != nil {
		return Selection{}, myerrors.NewInternalError(err)
	}

	return selection, nil
}

func (s *Service) Selection(c context.Context, shopperUID string) (Selection, bool, error) {
	selection, found, err := s.selectionStore.Get(c, shopperUID)
	if err != nil {
		return Selection{}, false, myerrors.NewInternalError(err)
	}

	return selection, found, nil
}

// ConsumeSelection removes the frozen selection and the cart items it refers to.
// Called by the order service once an order has been created from the selection.
func (s *Service) ConsumeSelection(c context.Context, shopperUID string) error {
	selection, found, err := s.selectionStore.Get(c, shopperUID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	if !found {
		// nothing to consume
		return nil
	}

	for _, itemUID := range selection.CartItemUIDs {
		err = s.itemStore.Delete(c, itemUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
	}

	err = s.selectionStore.Delete(c, shopperUID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

// Resolve materializes the current product/variant/price details of the given
// cart items. Items that can no longer be resolved (removed in the meantime) are
// logged and omitted: cart contents can change between selecting and checking
// out, and checkout must tolerate a shrinking set of lines.
func (s *Service) Resolve(c context.Context, shopperUID string, cartItemUIDs []string) ([]CheckoutLine, int64, error) {
	lines := make([]CheckoutLine, 0, len(cartItemUIDs))
	var subtotal int64

	for _, itemUID := range cartItemUIDs {
		item, found, err := s.itemStore.Get(c, itemUID)
		if err != nil {
			return nil, 0, myerrors.NewInternalError(fmt.Errorf("error resolving cart item %s: %s", itemUID, err))
		}
		if !found || item.ShopperUID != shopperUID {
			s.logger.Log(c, shopperUID, mylog.SeverityWarn, "Cart item %s could not be resolved -> omitted from checkout", itemUID)
			continue
		}

		line := CheckoutLine{
			CartItemUID:       item.UID,
			ProductUID:        item.ProductUID,
			ProductName:       item.ProductName,
			VariantUID:        item.VariantUID,
			VariantAttributes: item.VariantAttributes,
			UnitPrice:         item.UnitPrice,
			Currency:          item.Currency,
			Quantity:          item.Quantity,
		}
		lines = append(lines, line)
		subtotal += line.TotalPrice()
	}

	// lines keep the order in which the shopper selected them
	return lines, subtotal, nil
}
