package cart

import (
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
)

type Service struct {
	itemStore      mystore.Store[CartItem]
	selectionStore mystore.Store[Selection]
	nower          mytime.Nower
	uuider         myuuid.UUIDer
	logger         mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(itemStore mystore.Store[CartItem], selectionStore mystore.Store[Selection], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *Service {
	return &Service{
		itemStore:      itemStore,
		selectionStore: selectionStore,
		nower:          nower,
		uuider:         uuider,
		logger:         logger,
	}
}
