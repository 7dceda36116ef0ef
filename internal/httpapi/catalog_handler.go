package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campuseats-be/internal/catalog"
	"campuseats-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type catalogItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type catalogItemView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

func toCatalogItemView(item *catalog.FoodItem) catalogItemView {
	return catalogItemView{ID: item.ID, Name: item.Name, Price: item.Price, Available: item.Available}
}

func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListAvailable(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]catalogItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toCatalogItemView(item))
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetCatalogItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, "invalid item id", http.StatusBadRequest)
		return
	}

	item, err := s.catalog.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toCatalogItemView(item))
}

func (s *Server) handleCreateCatalogItem(w http.ResponseWriter, r *http.Request) {
	var req catalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := s.catalog.CreateItem(r.Context(), req.Name, req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toCatalogItemView(item))
}

func (s *Server) handleUpdateCatalogItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var req catalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := s.catalog.UpdateItem(r.Context(), catalog.UpdateItemParams{ID: id, Name: req.Name, Price: req.Price})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toCatalogItemView(item))
}
