package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/b-castleman/llm-tutor-knowledge-base/services/tutor"
)

type RateAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type TutorHandler struct {
	service *tutor.Service
}

func NewTutorHandler(service *tutor.Service) *TutorHandler {
	return &TutorHandler{service: service}
}

func (h *TutorHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tutor/rate", h.RateAnswer).Methods("POST")
	router.HandleFunc("/tutor/quiz", h.GenerateQuizQuestions).Methods("POST")
}

func (h *TutorHandler) RateAnswer(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received rate answer request")

	var req RateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode rate answer request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Question == "" || req.Answer == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Both question and answer are required")
		return
	}

	result, err := h.service.RateAnswer(r.Context(), req.Question, req.Answer)
	if err != nil {
		log.Printf("[ERROR] Answer rating failed: %v", err)
		var unparseable *tutor.UnparseableRatingError
		if errors.As(err, &unparseable) {
			h.writeErrorResponse(w, http.StatusBadGateway, err.Error())
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Rate answer request completed successfully")
	h.writeJSONResponse(w, http.StatusOK, result)
}

// GenerateQuizQuestions streams one JSON object per subtopic as newline
// delimited JSON, matching the fire-and-report nature of the operation.
func (h *TutorHandler) GenerateQuizQuestions(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received quiz generation request")

	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)

	err := h.service.GenerateQuizQuestions(r.Context(), func(questions tutor.QuizQuestions) error {
		if err := encoder.Encode(questions); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] Quiz generation failed: %v", err)
		if errors.Is(err, tutor.ErrNoLectureMaterial) {
			h.writeErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Quiz generation completed successfully")
}

func (h *TutorHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *TutorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
