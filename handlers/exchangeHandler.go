package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/b-castleman/llm-tutor-knowledge-base/db"
)

type ExchangeHandler struct {
	repo db.ExchangeRepository
}

func NewExchangeHandler(repo db.ExchangeRepository) *ExchangeHandler {
	return &ExchangeHandler{repo: repo}
}

func (h *ExchangeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/exchanges", h.GetAllExchanges).Methods("GET")
	router.HandleFunc("/exchanges/{id:[0-9]+}", h.GetExchangeByID).Methods("GET")
}

func (h *ExchangeHandler) GetAllExchanges(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateParam(r.URL.Query().Get("start_date"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid start_date, expected RFC 3339")
		return
	}
	endDate, err := parseDateParam(r.URL.Query().Get("end_date"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid end_date, expected RFC 3339")
		return
	}

	exchanges, err := h.repo.GetExchangesByDateRange(startDate, endDate)
	if err != nil {
		log.Printf("[ERROR] Failed to retrieve exchanges: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve exchanges")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, exchanges)
}

func (h *ExchangeHandler) GetExchangeByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid exchange ID")
		return
	}

	exchange, err := h.repo.GetExchangeByID(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			log.Printf("[ERROR] Failed to retrieve exchange %d: %v", id, err)
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve exchange")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, exchange)
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *ExchangeHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *ExchangeHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
