package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scribble/internal/auth"
	apperrors "scribble/internal/errors"
	"scribble/internal/models"
	"scribble/internal/services"
	"scribble/internal/web"
)

// BlogHandler handles the HTML pages for viewing and editing posts.
type BlogHandler struct {
	posts  services.PostServiceProvider
	render *web.Renderer
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(posts services.PostServiceProvider, render *web.Renderer) *BlogHandler {
	return &BlogHandler{posts: posts, render: render}
}

// Index shows all posts, most recent first.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAllPosts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		h.render.Error(w, pageData(r).User, http.StatusInternalServerError, "Failed to load posts.")
		return
	}
	data := pageData(r)
	data.Posts = posts
	h.render.Page(w, http.StatusOK, "index", data)
}

// ShowCreate renders the new-post form.
func (h *BlogHandler) ShowCreate(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "create", pageData(r))
}

// Create persists a new post for the logged-in user.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	body := r.PostFormValue("body")
	user, _ := auth.CurrentUser(r.Context())

	if title == "" {
		data := pageData(r)
		data.Flash = "Title is required."
		data.Post = models.Post{Title: title, Body: body}
		h.render.Page(w, http.StatusBadRequest, "create", data)
		return
	}

	id, err := h.posts.CreatePost(user.ID, title, body)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create post")
		h.render.Error(w, pageData(r).User, http.StatusInternalServerError, "Failed to create post.")
		return
	}

	log.Info().Int64("post_id", id).Int64("user_id", user.ID).Msg("Post created")
	http.Redirect(w, r, "/", http.StatusFound)
}

// ShowUpdate renders the edit form for a post the user owns.
func (h *BlogHandler) ShowUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r.Context())

	post, err := h.posts.GetPostForUser(id, user, true)
	if err != nil {
		h.renderDomainError(w, r, id, err)
		return
	}

	data := pageData(r)
	data.Post = post
	h.render.Page(w, http.StatusOK, "update", data)
}

// Update overwrites the title and body of a post the user owns.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	body := r.PostFormValue("body")
	user, _ := auth.CurrentUser(r.Context())

	if title == "" {
		data := pageData(r)
		data.Flash = "Title is required."
		data.Post = models.Post{ID: id, Title: title, Body: body}
		h.render.Page(w, http.StatusBadRequest, "update", data)
		return
	}

	if err := h.posts.UpdateOwnedPost(id, user, title, body); err != nil {
		h.renderDomainError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Delete removes a post the user owns.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r.Context())

	if err := h.posts.DeleteOwnedPost(id, user); err != nil {
		h.renderDomainError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// postID parses the {id} path parameter, rendering a 404 page when it is
// not a valid id.
func (h *BlogHandler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.render.Error(w, pageData(r).User, http.StatusNotFound, "No such post.")
		return 0, false
	}
	return id, true
}

// renderDomainError turns a post-store error into the terminal error page.
func (h *BlogHandler) renderDomainError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	status := apperrors.HTTPStatus(err)
	var message string
	switch {
	case errors.Is(err, apperrors.ErrPostNotFound):
		message = fmt.Sprintf("Post id %d doesn't exist.", id)
	case errors.Is(err, apperrors.ErrForbidden):
		message = "You can only edit your own posts."
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = "Title is required."
	default:
		log.Error().Err(err).Int64("post_id", id).Msg("Post operation failed")
		message = "Something went wrong."
	}
	h.render.Error(w, pageData(r).User, status, message)
}
