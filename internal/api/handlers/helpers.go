package handlers

import (
	"net/http"

	"scribble/internal/auth"
	"scribble/internal/web"
)

// pageData seeds a PageData with the user resolved by the session
// middleware, if any.
func pageData(r *http.Request) web.PageData {
	data := web.PageData{}
	if user, ok := auth.CurrentUser(r.Context()); ok {
		data.User = &user
	}
	return data
}
