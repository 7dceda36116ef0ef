package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campuseats-be/internal/cart"
	"campuseats-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type addCartItemRequest struct {
	SKU   int64   `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type cartItemView struct {
	SKU       int64   `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Count     int     `json:"count"`
	Sum       float64 `json:"sum"`
}

type cartView struct {
	ID       string         `json:"id"`
	Items    []cartItemView `json:"items"`
	Subtotal float64        `json:"subtotal"`
}

func toCartView(c *cart.Cart) cartView {
	items := make([]cartItemView, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemView{
			SKU:       item.SKU,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Count:     item.Count,
			Sum:       item.Sum(),
		})
	}
	return cartView{ID: c.ID.String(), Items: items, Subtotal: c.Subtotal()}
}

func cartIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "cartID"))
	if err != nil {
		utils.WriteJSONError(w, "invalid cart id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func skuParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	sku, err := strconv.ParseInt(chi.URLParam(r, "sku"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, "invalid sku", http.StatusBadRequest)
		return 0, false
	}
	return sku, true
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}

	c, err := s.carts.GetCart(r.Context(), cartID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toCartView(c))
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := cart.AddItemParams{
		CartID: cartID,
		SKU:    req.SKU,
		Name:   req.Name,
		Price:  req.Price,
	}
	if userID, authed := utils.GetUserIDFromContext(r.Context()); authed {
		params.OwnerUserID = &userID
	}

	item, err := s.carts.AddItem(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, cartItemView{
		SKU:       item.SKU,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Count:     item.Count,
		Sum:       item.Sum(),
	})
}

func (s *Server) handleRemoveOne(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	sku, ok := skuParam(w, r)
	if !ok {
		return
	}

	if err := s.carts.RemoveOne(r.Context(), cartID, sku); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCompletely(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	sku, ok := skuParam(w, r)
	if !ok {
		return
	}

	if err := s.carts.RemoveCompletely(r.Context(), cartID, sku); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}

	if err := s.carts.Clear(r.Context(), cartID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
