package payment

import (
	"time"

	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mypublisher"
	"github.com/lapstore/checkout/lib/mypubsub"
	"github.com/lapstore/checkout/lib/myqueue"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
)

// A QR code that has not been scanned within this window is expired.
const qrExpiry = 15 * time.Minute

type service struct {
	apiKey       string
	payer        Payer
	sessionStore mystore.Store[PaymentSession]
	refStore     mystore.Store[SessionRef]
	orderReader  OrderReader
	queuer       myqueue.TaskQueuer
	publisher    mypublisher.Publisher
	pubsub       mypubsub.PubSub
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(apiKey string, payer Payer, sessionStore mystore.Store[PaymentSession], refStore mystore.Store[SessionRef], orderReader OrderReader, queuer myqueue.TaskQueuer, pub mypublisher.Publisher, pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		apiKey:       apiKey,
		payer:        payer,
		sessionStore: sessionStore,
		refStore:     refStore,
		orderReader:  orderReader,
		queuer:       queuer,
		publisher:    pub,
		pubsub:       pubsub,
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}
