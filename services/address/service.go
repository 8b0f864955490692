package address

import (
	"context"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
)

type Service struct {
	addressStore mystore.Store[Address]
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(addressStore mystore.Store[Address], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *Service {
	return &Service{
		addressStore: addressStore,
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}

// ListAddresses returns the shopper's addresses with the default address first,
// so the checkout screen can pre-select it.
func (s *Service) ListAddresses(c context.Context, shopperUID string, pageSize int) ([]Address, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Fetch addresses of shopper %s", shopperUID)

	addresses, err := s.addressStore.Query(c, []mystore.Filter{
		{Field: "ShopperUID", Compare: "=", Value: shopperUID},
	}, "-CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	// default first, creation order otherwise
	result := make([]Address, 0, len(addresses))
	for _, a := range addresses {
		if a.IsDefault {
			result = append(result, a)
		}
	}
	for _, a := range addresses {
		if !a.IsDefault {
			result = append(result, a)
		}
	}

	if pageSize > 0 && len(result) > pageSize {
		result = result[:pageSize]
	}

	return result, nil
}

func (s *Service) CreateAddress(c context.Context, addr Address) (Address, error) {
	if addr.Name == "" || addr.PhoneNumber == "" || addr.Detail == "" {
		return Address{}, myerrors.NewInvalidInputErrorf("address needs a name, a phone number and a detail")
	}

	addr.UID = s.uuider.Create()
	addr.CreatedAt = s.nower.Now()

	s.logger.Log(c, addr.UID, mylog.SeverityInfo, "Creating address %s for shopper %s", addr.UID, addr.ShopperUID)

	err := s.addressStore.RunInTransaction(c, func(c context.Context) error {
		// a new default address replaces the previous one
		if addr.IsDefault {
			existing, err := s.addressStore.Query(c, []mystore.Filter{
				{Field: "ShopperUID", Compare: "=", Value: addr.ShopperUID},
				{Field: "IsDefault", Compare: "=", Value: true},
			}, "")
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			for _, prev := range existing {
				prev.IsDefault = false
				err = s.addressStore.Put(c, prev.UID, prev)
				if err != nil {
					return myerrors.NewInternalError(err)
				}
			}
		}

		err := s.addressStore.Put(c, addr.UID, addr)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Address{}, err
	}

	return addr, nil
}

// GetAddress is used by the order service to snapshot the delivery address at
// order-submit time.
func (s *Service) GetAddress(c context.Context, shopperUID string, addressUID string) (Address, bool, error) {
	addr, found, err := s.addressStore.Get(c, addressUID)
	if err != nil {
		return Address{}, false, myerrors.NewInternalError(err)
	}
	if !found || addr.ShopperUID != shopperUID {
		return Address{}, false, nil
	}

	return addr, true, nil
}
