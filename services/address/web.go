package address

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lapstore/checkout/lib/mycontext"
	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/myhttp"
	"github.com/lapstore/checkout/lib/mylog"
)

type webService struct {
	service *Service
	logger  mylog.Logger
}

func NewWebService(service *Service) *webService {
	return &webService{
		service: service,
		logger:  mylog.New("address"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/address", s.listAddressesPage()).Methods("GET")
	router.HandleFunc("/api/address", s.createAddressPage()).Methods("POST")

	return nil
}

func (s *webService) listAddressesPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		addresses, err := s.service.ListAddresses(c, myhttp.ShopperUID(r), pageSize)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, addresses)
	}
}

func (s *webService) createAddressPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		addr := Address{}
		err := json.NewDecoder(r.Body).Decode(&addr)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		addr.ShopperUID = myhttp.ShopperUID(r)

		addr, err = s.service.CreateAddress(c, addr)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, addr)
	}
}
