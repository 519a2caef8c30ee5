package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "scribble/internal/errors"
	"scribble/internal/models"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	GetAllPosts() ([]models.Post, error)
	GetPostByID(id int64) (models.Post, error)
	CreatePost(authorID int64, title, body string) (int64, error)
	UpdatePost(id int64, title, body string) error
	DeletePost(id int64) error
	GetPostForUser(id int64, requester models.User, requireOwnership bool) (models.Post, error)
	UpdateOwnedPost(id int64, requester models.User, title, body string) error
	DeleteOwnedPost(id int64, requester models.User) error
}

// FeedNotifier receives post lifecycle events for the live feed. A nil
// notifier disables notifications.
type FeedNotifier interface {
	Notify(action string, post models.Post)
}

// PostService provides post CRUD plus the ownership checks guarding
// mutations.
type PostService struct {
	db   *sql.DB
	feed FeedNotifier
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, feed FeedNotifier) *PostService {
	return &PostService{db: db, feed: feed}
}

const postColumns = `p.id, p.title, p.body, p.author_id, u.username, p.created_at`

// scanPost is a helper to scan a post from a row or rows object.
func scanPost(scanner interface{ Scan(...any) error }) (models.Post, error) {
	var post models.Post
	err := scanner.Scan(&post.ID, &post.Title, &post.Body, &post.AuthorID, &post.AuthorName, &post.CreatedAt)
	return post, err
}

// GetAllPosts retrieves every post joined with its author's username,
// newest first. Posts created in the same instant keep insertion order,
// most recent on top.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT ` + postColumns + `
		FROM post p JOIN user u ON p.author_id = u.id
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetPostByID retrieves a single post by its id.
func (s *PostService) GetPostByID(id int64) (models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM post p JOIN user u ON p.author_id = u.id
		WHERE p.id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, apperrors.ErrPostNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

// CreatePost persists a new post for the given author and returns the
// assigned id. The body may be empty; the title may not.
func (s *PostService) CreatePost(authorID int64, title, body string) (int64, error) {
	if title == "" {
		return 0, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO post (title, body, author_id, created_at) VALUES (?, ?, ?, ?)",
		title, body, authorID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.notify("post.created", id)
	return id, nil
}

// UpdatePost overwrites the title and body of an existing post. The author
// and creation time are untouched.
func (s *PostService) UpdatePost(id int64, title, body string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE post SET title = ?, body = ? WHERE id = ?", title, body, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.notify("post.updated", id)
	return nil
}

// DeletePost removes a post. Deleting an absent post is a no-op.
func (s *PostService) DeletePost(id int64) error {
	post, err := s.GetPostByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil
		}
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM post WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Notify("post.deleted", post)
	}
	return nil
}

// GetPostForUser fetches a post on behalf of a requester. It fails with
// ErrPostNotFound when the post is absent and, when requireOwnership is
// set, with ErrForbidden unless the requester is the author. The same
// check serves both the edit path and the plain view path.
func (s *PostService) GetPostForUser(id int64, requester models.User, requireOwnership bool) (models.Post, error) {
	post, err := s.GetPostByID(id)
	if err != nil {
		return models.Post{}, err
	}
	if requireOwnership && post.AuthorID != requester.ID {
		return models.Post{}, apperrors.ErrForbidden
	}
	return post, nil
}

// UpdateOwnedPost updates a post after asserting the requester owns it.
func (s *PostService) UpdateOwnedPost(id int64, requester models.User, title, body string) error {
	if _, err := s.GetPostForUser(id, requester, true); err != nil {
		return err
	}
	return s.UpdatePost(id, title, body)
}

// DeleteOwnedPost deletes a post after asserting the requester owns it.
func (s *PostService) DeleteOwnedPost(id int64, requester models.User) error {
	if _, err := s.GetPostForUser(id, requester, true); err != nil {
		return err
	}
	return s.DeletePost(id)
}

// notify re-fetches the post so the event carries the author's username,
// then hands it to the feed.
func (s *PostService) notify(action string, id int64) {
	if s.feed == nil {
		return
	}
	post, err := s.GetPostByID(id)
	if err != nil {
		log.Warn().Err(err).Int64("post_id", id).Str("action", action).Msg("Skipping feed notification")
		return
	}
	s.feed.Notify(action, post)
}
