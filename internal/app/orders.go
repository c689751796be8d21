package app

import (
	"net/http"

	"github.com/metinatakli/seat-reservation-engine/api"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

func (app *Application) CreateOrder(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateOrderRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	req := domain.OrderRequest{
		HolderID:     app.contextGetHolderID(r),
		HoldIDs:      input.HoldIds,
		PaymentToken: input.PaymentToken,
	}

	if input.Items != nil {
		for _, item := range *input.Items {
			req.Items = append(req.Items, domain.ItemRequest{
				ProductID: item.ProductId,
				Quantity:  item.Quantity,
			})
		}
	}

	order, err := app.checkout.ConfirmOrder(r.Context(), req)
	if err != nil {
		logger.Info("order rejected", "hold_ids", input.HoldIds, "reason", err)
		app.reservationErrorResponse(w, r, err, "hold_ids", input.HoldIds)
		return
	}

	logger.Info("order confirmed", "order_id", order.ID, "seats", len(order.Seats), "total", order.Total.String())

	err = app.writeJSON(w, http.StatusCreated, toApiOrder(order), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetOrder(w http.ResponseWriter, r *http.Request, orderId string) {
	order, err := app.checkout.GetOrder(r.Context(), orderId, app.contextGetHolderID(r))
	if err != nil {
		app.reservationErrorResponse(w, r, err, "order_id", orderId)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiOrder(order), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelOrder(w http.ResponseWriter, r *http.Request, orderId string) {
	order, err := app.checkout.CancelOrder(r.Context(), orderId, app.contextGetHolderID(r))
	if err != nil {
		app.reservationErrorResponse(w, r, err, "order_id", orderId)
		return
	}

	app.contextGetLogger(r).Info("order cancelled", "order_id", order.ID)

	err = app.writeJSON(w, http.StatusOK, toApiOrder(order), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiOrder(order *domain.Order) api.OrderResponse {
	resp := api.OrderResponse{
		OrderId:     order.ID,
		Status:      api.OrderStatus(order.Status),
		Seats:       make([]api.OrderSeat, len(order.Seats)),
		Items:       make([]api.OrderItem, len(order.Items)),
		Total:       order.Total,
		Currency:    order.Currency,
		CreatedAt:   order.CreatedAt,
		CancelledAt: order.CancelledAt,
	}

	for i, s := range order.Seats {
		resp.Seats[i] = api.OrderSeat{
			ShowtimeId: s.ShowtimeID,
			SeatId:     s.SeatID,
			Label:      domain.Seat{Row: s.Row, Number: s.Number}.Label(),
			Category:   api.SeatCategory(s.Category),
			Price:      s.Price,
		}
	}

	for i, item := range order.Items {
		resp.Items[i] = api.OrderItem{
			ProductId: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
	}

	return resp
}
