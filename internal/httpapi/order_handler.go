package httpapi

import (
	"encoding/json"
	"net/http"

	"campuseats-be/internal/order"
	"campuseats-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type checkoutRequest struct {
	Location           *locationView `json:"location"`
	Notes              string        `json:"notes"`
	DeliveryFee        float64       `json:"deliveryFee"`
	PaymentReferenceID string        `json:"paymentReferenceId,omitempty"`
}

type locationView struct {
	Building   string `json:"building"`
	RoomNumber string `json:"roomNumber"`
	Notes      string `json:"notes,omitempty"`
}

type checkoutResponse struct {
	Success     bool     `json:"success"`
	OrderID     string   `json:"orderId,omitempty"`
	RedirectURL string   `json:"redirectUrl,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

type orderLineView struct {
	FoodItemID   int64   `json:"foodItemId"`
	FoodItemName string  `json:"foodItemName"`
	Amount       int     `json:"amount"`
	UnitPrice    float64 `json:"unitPrice"`
	Sum          float64 `json:"sum"`
}

type orderView struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	CourierID   *string         `json:"courierId,omitempty"`
	Location    locationView    `json:"location"`
	Lines       []orderLineView `json:"lines"`
	Notes       string          `json:"notes,omitempty"`
	OrderDate   string          `json:"orderDate"`
	DeliveryFee float64         `json:"deliveryFee"`
	Total       float64         `json:"total"`
	Tipped      bool            `json:"tipped"`
}

type cancelResponse struct {
	OrderID      string  `json:"orderId"`
	Status       string  `json:"status"`
	RefundAmount float64 `json:"refundAmount"`
}

type tipRequest struct {
	PaymentReferenceID string `json:"paymentReferenceId"`
}

func toOrderView(o *order.Order) orderView {
	lines := make([]orderLineView, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, orderLineView{
			FoodItemID:   line.FoodItemID,
			FoodItemName: line.FoodItemName,
			Amount:       line.Amount,
			UnitPrice:    line.UnitPrice,
			Sum:          line.Sum(),
		})
	}

	view := orderView{
		ID:     o.ID.String(),
		Status: string(o.Status),
		Location: locationView{
			Building:   o.Location.Building,
			RoomNumber: o.Location.RoomNumber,
			Notes:      o.Location.Notes,
		},
		Lines:       lines,
		Notes:       o.Notes,
		OrderDate:   o.OrderDate.Format("2006-01-02T15:04:05Z07:00"),
		DeliveryFee: o.DeliveryFee,
		Total:       o.Total(),
		Tipped:      o.TipPaymentReferenceID != nil,
	}
	if o.CourierID != nil {
		view.CourierID = utils.StrPtr(o.CourierID.String())
	}
	return view
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := order.CheckoutParams{
		CartID:             cartID,
		CustomerID:         userID,
		Notes:              req.Notes,
		DeliveryFee:        req.DeliveryFee,
		PaymentReferenceID: req.PaymentReferenceID,
	}
	if req.Location != nil {
		params.Location = &order.Location{
			Building:   req.Location.Building,
			RoomNumber: req.Location.RoomNumber,
			Notes:      req.Location.Notes,
		}
	}

	result, err := s.orders.Checkout(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !result.Success {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, checkoutResponse{
			Success: false,
			Errors:  result.Errors,
		})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, checkoutResponse{
		Success:     true,
		OrderID:     result.OrderID.String(),
		RedirectURL: result.RedirectURL,
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	o, err := s.orders.GetOrder(r.Context(), orderID, userID, utils.IsAdmin(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toOrderView(o))
}

func (s *Server) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := s.orders.ListCustomerOrders(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toOrderViews(orders))
}

func (s *Server) handleCourierOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := s.orders.ListCourierOrders(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toOrderViews(orders))
}

func (s *Server) handleOpenOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListOpenOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toOrderViews(orders))
}

func (s *Server) handleAdvanceOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	courierID, _ := utils.GetUserIDFromContext(r.Context())

	o, err := s.orders.AdvanceByCourier(r.Context(), orderID, courierID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toOrderView(o))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	result, err := s.orders.Cancel(r.Context(), orderID, userID, utils.IsAdmin(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cancelResponse{
		OrderID:      result.OrderID.String(),
		Status:       string(result.Status),
		RefundAmount: result.RefundAmount,
	})
}

func (s *Server) handleSetTip(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req tipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.orders.SetTipReference(r.Context(), orderID, userID, req.PaymentReferenceID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toOrderViews(orders []*order.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views
}
