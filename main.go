package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mypublisher"
	"github.com/lapstore/checkout/lib/mypubsub"
	"github.com/lapstore/checkout/lib/myqueue"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
	"github.com/lapstore/checkout/services/address"
	"github.com/lapstore/checkout/services/cart"
	"github.com/lapstore/checkout/services/order"
	"github.com/lapstore/checkout/services/payment"
	"github.com/lapstore/checkout/services/voucher"
)

func main() {
	c := context.Background()

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := createPublisher(c, router, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()

	cartService, err := createCartService(c, router, nower, uuider)
	if err != nil {
		log.Fatalf("Error creating cart service: %s", err)
	}

	voucherService, err := createVoucherService(c, router, nower)
	if err != nil {
		log.Fatalf("Error creating voucher service: %s", err)
	}

	addressService, err := createAddressService(c, router, nower, uuider)
	if err != nil {
		log.Fatalf("Error creating address service: %s", err)
	}

	orderStore, err := createOrderService(c, router, cartService, addressService, voucherService, publisher, pubsub, nower, uuider)
	if err != nil {
		log.Fatalf("Error creating order service: %s", err)
	}

	err = createPaymentService(c, router, orderStore, queue, publisher, pubsub, nower, uuider)
	if err != nil {
		log.Fatalf("Error creating payment service: %s", err)
	}

	startWebServerBlocking(router)
}

func createPublisher(c context.Context, router *mux.Router, pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) (mypublisher.Publisher, func(), error) {
	publisher, cleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		return nil, nil, err
	}
	publisher.RegisterEndpoints(c, router)

	return publisher, cleanup, nil
}

func createCartService(c context.Context, router *mux.Router, nower mytime.Nower, uuider myuuid.UUIDer) (*cart.Service, error) {
	itemStore, _, err := mystore.New[cart.CartItem](c)
	if err != nil {
		return nil, err
	}
	selectionStore, _, err := mystore.New[cart.Selection](c)
	if err != nil {
		return nil, err
	}

	service := cart.NewService(itemStore, selectionStore, nower, uuider, mylog.New("cart"))

	err = cart.NewWebService(service).RegisterEndpoints(c, router)
	if err != nil {
		return nil, err
	}

	return service, nil
}

func createVoucherService(c context.Context, router *mux.Router, nower mytime.Nower) (*voucher.Service, error) {
	voucherStore, _, err := mystore.New[voucher.Voucher](c)
	if err != nil {
		return nil, err
	}

	service := voucher.NewService(voucherStore, mylog.New("voucher"))

	err = voucher.NewWebService(service, nower).RegisterEndpoints(c, router)
	if err != nil {
		return nil, err
	}

	return service, nil
}

func createAddressService(c context.Context, router *mux.Router, nower mytime.Nower, uuider myuuid.UUIDer) (*address.Service, error) {
	addressStore, _, err := mystore.New[address.Address](c)
	if err != nil {
		return nil, err
	}

	service := address.NewService(addressStore, nower, uuider, mylog.New("address"))

	err = address.NewWebService(service).RegisterEndpoints(c, router)
	if err != nil {
		return nil, err
	}

	return service, nil
}

func createOrderService(c context.Context, router *mux.Router, cartService *cart.Service, addressService *address.Service, voucherService *voucher.Service, publisher mypublisher.Publisher, pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer) (mystore.Store[order.Order], error) {
	orderStore, _, err := mystore.New[order.Order](c)
	if err != nil {
		return nil, err
	}

	webService := order.NewWebService(orderStore, cartService, addressService, voucherService, publisher, pubsub, nower, uuider)

	err = webService.RegisterEndpoints(c, router)
	if err != nil {
		return nil, err
	}

	err = webService.Subscribe(c)
	if err != nil {
		return nil, err
	}

	return orderStore, nil
}

func createPaymentService(c context.Context, router *mux.Router, orderStore mystore.Store[order.Order], queue myqueue.TaskQueuer, publisher mypublisher.Publisher, pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer) error {
	payer, err := payment.NewPayer()
	if err != nil {
		return err
	}

	sessionStore, _, err := mystore.New[payment.PaymentSession](c)
	if err != nil {
		return err
	}
	refStore, _, err := mystore.New[payment.SessionRef](c)
	if err != nil {
		return err
	}

	webService := payment.NewWebService(os.Getenv("MOLLIE_API_KEY"), payer, sessionStore, refStore, order.NewReader(orderStore), queue, publisher, pubsub, nower, uuider)

	err = webService.RegisterEndpoints(c, router)
	if err != nil {
		return err
	}

	return webService.Subscribe(c)
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
