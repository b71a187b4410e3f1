package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response is the envelope wrapping every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PageMeta   `json:"meta,omitempty"`
}

// PageMeta carries pagination totals alongside a page of results.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

func respond(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func respondData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respond(w, r, status, Response{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	respond(w, r, status, Response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, Response{Success: false, Message: message})
}

func newPageMeta(page, perPage, total int) *PageMeta {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return &PageMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}
