package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyRatsAPI/internal/feed"
	"studyRatsAPI/middleware"
	"studyRatsAPI/services"
)

const maxPhotoBytes = 10 << 20 // 10 MiB

type FeedHandler struct {
	feedService *services.FeedService
}

func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := middleware.GetClerkID(ctx); !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	posts, err := h.feedService.GetFeed(ctx, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, posts)
}

// CreatePost accepts a multipart form: photo (file, required), title
// (required), description and session_id (optional). Validation failures
// abort before any storage or database write.
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondWithError(w, http.StatusBadRequest, "title is required")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "photo is required")
		return
	}
	defer file.Close()

	photoData, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read photo")
		return
	}

	req := &feed.CreatePostRequest{
		Title:       title,
		Description: r.FormValue("description"),
		PhotoData:   photoData,
		ContentType: header.Header.Get("Content-Type"),
		PhotoExt:    strings.TrimPrefix(filepath.Ext(header.Filename), "."),
	}

	if v := r.FormValue("session_id"); v != "" {
		sessionID, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid session_id")
			return
		}
		req.SessionID = &sessionID
	}

	post, err := h.feedService.CreatePost(ctx, clerkID, req)
	if err != nil {
		log.Printf("CreatePost Handler: Service error: %v", err)
		errMsg := err.Error()
		switch {
		case strings.Contains(errMsg, "is required"):
			respondWithError(w, http.StatusBadRequest, errMsg)
		case strings.Contains(errMsg, "user not found"):
			respondWithError(w, http.StatusNotFound, "User not found")
		case errMsg == "photo storage unavailable":
			respondWithError(w, http.StatusServiceUnavailable, errMsg)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create post")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, post)
}
