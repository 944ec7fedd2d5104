package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"studyRatsAPI/internal/group"
	"studyRatsAPI/middleware"
	"studyRatsAPI/services"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req group.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := h.groupService.CreateGroup(ctx, clerkID, &req)
	if err != nil {
		log.Printf("CreateGroup Handler: Service error: %v", err)
		errMsg := err.Error()
		switch {
		case errMsg == "group name is required" || errMsg == "end date is required" || strings.HasPrefix(errMsg, "invalid metric"):
			respondWithError(w, http.StatusBadRequest, errMsg)
		case strings.Contains(errMsg, "user not found"):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create group")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) GetMyGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	groups, err := h.groupService.GetUserGroups(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) GetDiscovery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	groups, err := h.groupService.GetDiscovery(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	var req group.JoinGroupRequest
	if r.Body != nil {
		// body is optional for groups without a password
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.groupService.JoinGroup(ctx, clerkID, groupID, req.Password); err != nil {
		log.Printf("JoinGroup Handler: Service error: %v", err)
		errMsg := err.Error()
		switch {
		case errMsg == "incorrect group password":
			respondWithError(w, http.StatusForbidden, errMsg)
		case errMsg == "group not found" || strings.Contains(errMsg, "user not found"):
			respondWithError(w, http.StatusNotFound, errMsg)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to join group")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Joined group successfully"})
}

func (h *GroupHandler) JoinByToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req group.JoinByTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.InviteToken == "" {
		respondWithError(w, http.StatusBadRequest, "invite_token is required")
		return
	}

	g, err := h.groupService.JoinByInviteToken(ctx, clerkID, req.InviteToken)
	if err != nil {
		errMsg := err.Error()
		switch {
		case errMsg == "invalid invite token":
			respondWithError(w, http.StatusNotFound, errMsg)
		case strings.Contains(errMsg, "user not found"):
			respondWithError(w, http.StatusNotFound, errMsg)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to join group")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	rankingResp, err := h.groupService.GetRanking(ctx, clerkID, groupID)
	if err != nil {
		errMsg := err.Error()
		switch {
		case errMsg == "not a group member":
			respondWithError(w, http.StatusForbidden, errMsg)
		case errMsg == "group not found" || strings.Contains(errMsg, "user not found"):
			respondWithError(w, http.StatusNotFound, errMsg)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to load ranking")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, rankingResp)
}

func (h *GroupHandler) GetInvite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	invite, err := h.groupService.GenerateInvite(ctx, clerkID, groupID)
	if err != nil {
		errMsg := err.Error()
		switch {
		case errMsg == "not a group member":
			respondWithError(w, http.StatusForbidden, errMsg)
		case errMsg == "group not found":
			respondWithError(w, http.StatusNotFound, errMsg)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to generate invite")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, invite)
}
