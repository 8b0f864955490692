package order

import (
	"context"
	"fmt"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/services/orderapi"
	"github.com/lapstore/checkout/services/orderevents"
)

// submitCheckout turns the shopper's frozen cart selection into an order.
// Prices, discounts and the delivery address are snapshotted: the order is no
// longer affected by later catalog or address changes.
func (s *service) submitCheckout(c context.Context, shopperUID string, checkout orderapi.Checkout) (Order, error) {
	if len(checkout.CartItemUIDs) == 0 {
		return Order{}, myerrors.NewInvalidInputErrorf("checkout needs at least one cart item")
	}
	if checkout.AddressUID == "" {
		return Order{}, myerrors.NewInvalidInputErrorf("checkout needs a delivery address")
	}
	if checkout.PaymentMethod != PaymentMethodQR && checkout.PaymentMethod != PaymentMethodCOD {
		return Order{}, myerrors.NewInvalidInputErrorf("unsupported payment method %s", checkout.PaymentMethod)
	}

	addr, found, err := s.addressGetter.GetAddress(c, shopperUID, checkout.AddressUID)
	if err != nil {
		return Order{}, err
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("address with uid %s not found", checkout.AddressUID))
	}

	resolvedLines, subtotal, err := s.cartResolver.Resolve(c, shopperUID, checkout.CartItemUIDs)
	if err != nil {
		return Order{}, err
	}
	if len(resolvedLines) == 0 {
		return Order{}, myerrors.NewInvalidInputErrorf("none of the selected cart items could be resolved")
	}

	now := s.nower.Now()

	var discount int64
	if checkout.VoucherUID != "" {
		evaluation, err := s.voucherChecker.CheckVoucher(c, checkout.VoucherUID, subtotal, now)
		if err != nil {
			return Order{}, err
		}
		if !evaluation.Usable {
			return Order{}, myerrors.NewInvalidInputErrorf("voucher %s can not be used: %s", checkout.VoucherUID, evaluation.Reason)
		}
		discount = evaluation.Discount
	}

	total := subtotal - discount
	if total < 0 {
		// a fixed-value voucher may exceed the subtotal
		total = 0
	}

	lines := make([]OrderLine, 0, len(resolvedLines))
	for _, rl := range resolvedLines {
		lines = append(lines, OrderLine{
			ProductUID:        rl.ProductUID,
			ProductName:       rl.ProductName,
			VariantUID:        rl.VariantUID,
			VariantAttributes: rl.VariantAttributes,
			UnitPrice:         rl.UnitPrice,
			Currency:          rl.Currency,
			Quantity:          rl.Quantity,
		})
	}

	paymentStatus := PaymentStatusNotYet
	if checkout.PaymentMethod == PaymentMethodQR {
		paymentStatus = PaymentStatusPending
	}

	order := Order{
		UID:        s.uuider.Create(),
		ShopperUID: shopperUID,
		Lines:      lines,
		DeliveryAddress: DeliveryAddress{
			Name:        addr.Name,
			PhoneNumber: addr.PhoneNumber,
			Detail:      addr.Detail,
		},
		PaymentMethod: checkout.PaymentMethod,
		VoucherUID:    checkout.VoucherUID,
		Subtotal:      subtotal,
		Discount:      discount,
		TotalAmount:   total,
		Currency:      resolvedLines[0].Currency,
		Remark:        checkout.Remark,
		Status:        StatusPending,
		PaymentStatus: paymentStatus,
		CreatedAt:     now,
	}

	s.logger.Log(c, order.UID, mylog.SeverityInfo, "Creating order %s for shopper %s (%d lines, total %d %s)", order.UID, shopperUID, len(order.Lines), order.TotalAmount, order.Currency)

	err = s.orderStore.RunInTransaction(c, func(c context.Context) error {
		err := s.orderStore.Put(c, order.UID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		if order.VoucherUID != "" {
			err = s.voucherChecker.RedeemVoucher(c, order.VoucherUID)
			if err != nil {
				return err
			}
		}

		err = s.cartResolver.ConsumeSelection(c, shopperUID)
		if err != nil {
			return err
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderCreated{
			OrderUID:      order.UID,
			ShopperUID:    shopperUID,
			PaymentMethod: order.PaymentMethod,
			Amount:        order.TotalAmount,
			Currency:      order.Currency,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (s *service) listOrders(c context.Context, shopperUID string, status Status) ([]Order, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Fetch orders of shopper %s", shopperUID)

	filters := []mystore.Filter{
		{Field: "ShopperUID", Compare: "=", Value: shopperUID},
	}
	if status != "" {
		if !status.IsValid() {
			return nil, myerrors.NewInvalidInputErrorf("unknown order status %s", status)
		}
		filters = append(filters, mystore.Filter{Field: "Status", Compare: "=", Value: status})
	}

	orders, err := s.orderStore.Query(c, filters, "-CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	return orders, nil
}

func (s *service) getOrder(c context.Context, shopperUID string, orderUID string) (Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Fetch details of order %s", orderUID)

	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found || order.ShopperUID != shopperUID {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}

	return order, nil
}

// cancelOrder cancels an order on behalf of the shopper. Only orders that have
// not shipped yet can be cancelled. A paid order keeps its payment status so a
// refund can be reconciled manually.
func (s *service) cancelOrder(c context.Context, shopperUID string, orderUID string) (Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Cancelling order %s", orderUID)

	now := s.nower.Now()

	var order Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		order, found, err = s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found || order.ShopperUID != shopperUID {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		if order.Status == StatusCancelled {
			// already cancelled
			return nil
		}
		if !order.Status.CanTransitionTo(StatusCancelled) {
			return myerrors.NewConflictError(fmt.Errorf("order with status %s can not be cancelled", order.Status))
		}

		order.Status = StatusCancelled
		if order.PaymentStatus == PaymentStatusPending {
			order.PaymentStatus = PaymentStatusCancelled
		}
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderCancelled{
			OrderUID:   orderUID,
			ShopperUID: shopperUID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

// updateStatus moves an order through its fulfillment lifecycle. Used by the
// back office, not by shoppers.
func (s *service) updateStatus(c context.Context, orderUID string, newStatus Status) (Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Updating status of order %s -> %s", orderUID, newStatus)

	if !newStatus.IsValid() {
		return Order{}, myerrors.NewInvalidInputErrorf("unknown order status %s", newStatus)
	}

	now := s.nower.Now()

	var order Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		order, found, err = s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		if order.Status == newStatus {
			// idempotent
			return nil
		}
		if !order.Status.CanTransitionTo(newStatus) {
			return myerrors.NewConflictError(fmt.Errorf("order can not go from status %s to %s", order.Status, newStatus))
		}

		order.Status = newStatus
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

// updatePaymentStatus overrides the payment status of an order. Used by the
// back office to reconcile payments that did not complete via the provider.
func (s *service) updatePaymentStatus(c context.Context, orderUID string, newStatus PaymentStatus) (Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Updating payment status of order %s -> %s", orderUID, newStatus)

	if !newStatus.IsValid() {
		return Order{}, myerrors.NewInvalidInputErrorf("unknown payment status %s", newStatus)
	}

	now := s.nower.Now()

	var order Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		order, found, err = s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		order.PaymentStatus = newStatus
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}
