package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "scribble/internal/errors"
	"scribble/internal/models"
	"scribble/internal/services"
)

// FeedHandler serves the read-only JSON feed for external readers.
type FeedHandler struct {
	posts services.PostServiceProvider
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(posts services.PostServiceProvider) *FeedHandler {
	return &FeedHandler{posts: posts}
}

// List handles the request to get all posts, most recent first.
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAllPosts()
	if err != nil {
		http.Error(w, "Failed to retrieve posts", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

// Get handles the request to get a single post by its id.
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	post, err := h.posts.GetPostByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}
