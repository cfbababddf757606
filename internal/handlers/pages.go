package handlers

import (
	"html/template"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// pageTemplate returns the template for a display page name
func (h *Handlers) pageTemplate(page string) *template.Template {
	switch page {
	case "index":
		return h.templates.Index
	case "bracket":
		return h.templates.Bracket
	case "overlay":
		return h.templates.Overlay
	case "schedule":
		return h.templates.Schedule
	case "pools":
		return h.templates.Pools
	}
	return nil
}

var pageTitles = map[string]string{
	"index":    "Bracket View",
	"bracket":  "Bracket",
	"overlay":  "Stream Overlay",
	"schedule": "Schedule",
	"pools":    "Pools",
}

func (h *Handlers) renderPage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{
			Title: pageTitles[page],
			Page:  page,
			Pool:  r.URL.Query().Get("pool"),
			Side:  r.URL.Query().Get("side"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.pageTemplate(page).ExecuteTemplate(w, "layout", data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// handleQRCode renders a QR code linking to one of the display pages
func (h *Handlers) handleQRCode(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		page = "bracket"
	}
	if _, ok := pageTitles[page]; !ok {
		respondError(w, BadRequest("Invalid page parameter"))
		return
	}

	base, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if base == "" {
		base = requestBaseURL(r)
	}
	url := strings.TrimSuffix(base, "/") + "/"
	if page != "index" {
		url += page
	}

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// requestBaseURL derives the externally visible base URL from the request
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
