package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"chorechampions/internal/engine"
	"chorechampions/internal/repository"
	"chorechampions/internal/service"
	"chorechampions/internal/teachback"
	"chorechampions/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps domain errors to a status code. Anything
// unrecognised is logged and reported as a 500.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var verr validation.ValidationError
	var judgeErr *teachback.VerificationError

	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials", "", nil)
	case errors.Is(err, service.ErrTaskNotAssigned):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	case errors.Is(err, repository.ErrLearnerNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, engine.ErrBookNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, engine.ErrUnknownPlot),
		errors.Is(err, engine.ErrUnknownPlant),
		errors.Is(err, service.ErrNotEligible):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, engine.ErrInvalidPlotState),
		errors.Is(err, engine.ErrNothingToHarvest),
		errors.Is(err, engine.ErrInsufficientPoints),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, teachback.ErrSubmissionInFlight),
		errors.Is(err, teachback.ErrSessionClosed):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.As(err, &judgeErr):
		respondWithError(w, http.StatusBadGateway, teachback.FailureMessage, logMsg, err)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

// decodeJSON reads a size-limited JSON body, refusing unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, true)
}

// decodeJSONLenient is decodeJSON for public endpoints that ignore extra fields
func decodeJSONLenient(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, false)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}
