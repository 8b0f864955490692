package order

import (
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mypublisher"
	"github.com/lapstore/checkout/lib/mypubsub"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
)

type service struct {
	orderStore     mystore.Store[Order]
	cartResolver   CartResolver
	addressGetter  AddressGetter
	voucherChecker VoucherChecker
	publisher      mypublisher.Publisher
	pubsub         mypubsub.PubSub
	nower          mytime.Nower
	uuider         myuuid.UUIDer
	logger         mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(orderStore mystore.Store[Order], cartResolver CartResolver, addressGetter AddressGetter, voucherChecker VoucherChecker, pub mypublisher.Publisher, pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		orderStore:     orderStore,
		cartResolver:   cartResolver,
		addressGetter:  addressGetter,
		voucherChecker: voucherChecker,
		publisher:      pub,
		pubsub:         pubsub,
		nower:          nower,
		uuider:         uuider,
		logger:         logger,
	}
}
