package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vytor/leaguesim/internal/logger"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// parsePagination reads page/per_page query parameters with bounded values.
func parsePagination(r *http.Request) (limit, offset int) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	perPage := 25
	switch r.URL.Query().Get("per_page") {
	case "10":
		perPage = 10
	case "25":
		perPage = 25
	case "50":
		perPage = 50
	case "100":
		perPage = 100
	}

	return perPage, (page - 1) * perPage
}
