package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hamnakhalid/kitchenia-backend/api/responses"
	"github.com/hamnakhalid/kitchenia-backend/api/validators"
	"github.com/hamnakhalid/kitchenia-backend/internal/orders"
	"github.com/hamnakhalid/kitchenia-backend/internal/tracking"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
	"github.com/hamnakhalid/kitchenia-backend/pkg/pagination"
)

// OrderTrack resolves an order by id, order code or tracking number and
// returns it with line items and the full status history.
func OrderTrack(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := strings.TrimSpace(chi.URLParam(r, "identifier"))
		if identifier == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "identifier is required"))
			return
		}
		detail, err := svc.Find(r.Context(), identifier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// OrderStatusPoll reads only the status column; the storefront polls this
// endpoint between full refreshes.
func OrderStatusPoll(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.GetStatus(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": status.String()})
	}
}

// OrderEvents streams order detail refreshes as server-sent events. The
// stream sends the current detail immediately, then one event per status
// change, and closes once the order reaches a terminal status or the
// client disconnects.
func OrderEvents(svc orders.Service, logg *logger.Logger, pollInterval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		poller, err := tracking.NewPoller(svc, logg, pollInterval)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The initial read doubles as the existence check.
		detail, err := svc.Find(r.Context(), orderID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		writeOrderEvent(w, detail)
		flusher.Flush()

		err = poller.Watch(r.Context(), orderID, func(ctx context.Context, detail *orders.OrderDetail) {
			writeOrderEvent(w, detail)
			flusher.Flush()
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(logg.WithOrderID(r.Context(), orderID.String()), "order event stream ended", err)
		}
	}
}

func writeOrderEvent(w io.Writer, detail *orders.OrderDetail) {
	payload, err := json.Marshal(detail)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: order\ndata: %s\n\n", payload)
}

// AdminOrdersList pages through orders newest first.
func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.ListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if filters.DateFrom, err = validators.ParseQueryDate(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateTo, err = validators.ParseQueryDate(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type statusUpdateRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

// AdminOrderStatusUpdate appends a ledger entry and mirrors the order row.
func AdminOrderStatusUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.AppendStatus(r.Context(), orders.AppendStatusInput{
			OrderID: orderID,
			Status:  status,
			Notes:   payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type trackingUpdateRequest struct {
	TrackingNumber  string  `json:"tracking_number"`
	ShipmentCarrier *string `json:"shipment_carrier"`
	TrackingURL     *string `json:"tracking_url"`
}

// AdminOrderTracking attaches courier details; the first tracking number
// on an early-stage order auto-advances it to shipped.
func AdminOrderTracking(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload trackingUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetTrackingInfo(r.Context(), orders.TrackingInput{
			OrderID:         orderID,
			TrackingNumber:  payload.TrackingNumber,
			ShipmentCarrier: payload.ShipmentCarrier,
			TrackingURL:     payload.TrackingURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
