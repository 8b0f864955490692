package cart

import (
	"context"
	"encoding/json"
	"net/http"

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
		logger:  mylog.New("cart"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/cart", s.listItemsPage()).Methods("GET")
	router.HandleFunc("/api/cart", s.addItemPage()).Methods("POST")
	router.HandleFunc("/api/cart/{itemUID}", s.removeItemPage()).Methods("DELETE")

	// The frozen checkout selection, read once on checkout entry
	router.HandleFunc("/api/cart/selection", s.getSelectionPage()).Methods("GET")
	router.HandleFunc("/api/cart/selection", s.freezeSelectionPage()).Methods("PUT")

	return nil
}

type selectionRequest struct {
	CartItemUIDs []string
}

type selectionResponse struct {
	CartItemUIDs []string
	Lines        []CheckoutLine
	Subtotal     int64
}

func (s *webService) listItemsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		items, err := s.service.ListItems(c, myhttp.ShopperUID(r))
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, items)
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		item := CartItem{}
		err := json.NewDecoder(r.Body).Decode(&item)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		item.ShopperUID = myhttp.ShopperUID(r)

		item, err = s.service.AddItem(c, item)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, item)
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		itemUID := mux.Vars(r)["itemUID"]

		err := s.service.RemoveItem(c, myhttp.ShopperUID(r), itemUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
}

func (s *webService) freezeSelectionPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := selectionRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		selection, err := s.service.FreezeSelection(c, myhttp.ShopperUID(r), req.CartItemUIDs)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, selection)
	}
}

// getSelectionPage returns the frozen selection together with freshly resolved
// line details so the checkout screen can show current prices and the subtotal.
func (s *webService) getSelectionPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shopperUID := myhttp.ShopperUID(r)

		selection, found, err := s.service.Selection(c, shopperUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		if !found {
			errorWriter.Write(c, w, http.StatusOK, selectionResponse{
				CartItemUIDs: []string{},
				Lines:        []CheckoutLine{},
			})
			return
		}

		lines, subtotal, err := s.service.Resolve(c, shopperUID, selection.CartItemUIDs)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, selectionResponse{
			CartItemUIDs: selection.CartItemUIDs,
			Lines:        lines,
			Subtotal:     subtotal,
		})
	}
}
