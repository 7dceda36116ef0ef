package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"campuseats-be/internal/utils"
)

func (s *Server) handleCourierEarnings(w http.ResponseWriter, r *http.Request) {
	courierID, _ := utils.GetUserIDFromContext(r.Context())

	year := time.Now().UTC().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			utils.WriteJSONError(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	rows, err := s.earnings.MonthlyCourierEarnings(r.Context(), courierID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRevenueSummary(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		utils.WriteJSONError(w, "invalid from date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		utils.WriteJSONError(w, "invalid to date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summary, err := s.earnings.RevenueSummary(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}
