package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/api/responses"
	"github.com/hamnakhalid/kitchenia-backend/api/validators"
	"github.com/hamnakhalid/kitchenia-backend/internal/cart"
	"github.com/hamnakhalid/kitchenia-backend/internal/menu"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

const cartIDHeader = "X-Cart-Id"

type cartView struct {
	Items      []cart.Entry `json:"items"`
	TotalCount int          `json:"total_count"`
	TotalValue int          `json:"total_value"`
}

func newCartView(snapshot cart.Snapshot) cartView {
	items := snapshot.Entries
	if items == nil {
		items = []cart.Entry{}
	}
	return cartView{
		Items:      items,
		TotalCount: snapshot.TotalCount(),
		TotalValue: snapshot.TotalValue(),
	}
}

func cartIDFromRequest(r *http.Request) (string, error) {
	cartID := strings.TrimSpace(r.Header.Get(cartIDHeader))
	if cartID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart id header is required").WithDetails(map[string]any{"header": cartIDHeader})
	}
	return cartID, nil
}

// CartGet returns the cart snapshot with totals.
func CartGet(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := store.List(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snapshot))
	}
}

type cartAddRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

// CartAdd resolves the menu item server side so the cart snapshots the
// catalog price rather than whatever the client sent.
func CartAdd(store *cart.Store, catalog menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := catalog.Get(r.Context(), payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !item.Active {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "menu item is not available"))
			return
		}

		ref := cart.ItemRef{ID: item.ID, Name: item.Name, Price: item.Price, ImageURL: item.ImageURL}
		if err := store.Add(r.Context(), cartID, ref, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.List(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snapshot))
	}
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartSetQuantity overwrites an item's quantity; zero or less removes it.
func CartSetQuantity(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.SetQuantity(r.Context(), cartID, itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := store.List(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snapshot))
	}
}

func CartRemoveItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Remove(r.Context(), cartID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := store.List(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snapshot))
	}
}

func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Clear(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(cart.Snapshot{}))
	}
}
