package handlers

import (
	"net/http"
	"strconv"
)

// pat exposes route params through the query string, e.g. ":id".
func paramInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(":" + name))
	return v
}

// companyID reads the tenant id the JWT middleware stored in the request
// context. Zero means an unauthenticated request reached a guarded handler.
func companyID(r *http.Request) int {
	id, _ := r.Context().Value("company_id").(int)
	return id
}

func userID(r *http.Request) int {
	id, _ := r.Context().Value("user_id").(int)
	return id
}
