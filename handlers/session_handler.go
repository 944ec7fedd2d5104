package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"studyRatsAPI/middleware"
	"studyRatsAPI/services"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sess, err := h.sessionService.StartSession(ctx, clerkID)
	if err != nil {
		log.Printf("StartSession Handler: Service error: %v", err)
		errMsg := err.Error()
		switch {
		case errMsg == "a session is already running":
			respondWithError(w, http.StatusConflict, errMsg)
		case strings.Contains(errMsg, "user not found"):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to start session")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, sess)
}

func (h *SessionHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sessionID, err := uuid.Parse(mux.Vars(r)["sessionID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	result, err := h.sessionService.StopSession(ctx, clerkID, sessionID)
	if err != nil {
		log.Printf("StopSession Handler: Service error: %v", err)
		errMsg := err.Error()
		switch {
		case errMsg == "session not found or already stopped":
			respondWithError(w, http.StatusConflict, errMsg)
		case strings.Contains(errMsg, "user not found"):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to stop session")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sess, err := h.sessionService.GetActiveSession(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// nil session means no timer is running; the client renders the idle state
	respondWithJSON(w, http.StatusOK, map[string]any{"session": sess})
}
