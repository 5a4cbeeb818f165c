package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"darew.com/internal/audit"
	"darew.com/internal/site"
)

func (a *API) routeSite() {
	a.mux.HandleFunc("/v1/site/nav", a.getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": site.Nav()})
	}))
	a.mux.HandleFunc("/v1/site/home", a.getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, site.Home(a.content))
	}))
	a.mux.HandleFunc("/v1/site/about", a.getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, site.About())
	}))
	a.mux.HandleFunc("/v1/site/services", a.getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": site.Services(a.content)})
	}))
	a.mux.HandleFunc("/v1/site/projects", a.getOnly(a.getProjects))
	a.mux.Handle("/v1/site/contact", RateLimit(http.HandlerFunc(a.handleContact), a.contactBurst, a.contactRate, a.trusted))
}

func (a *API) getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		h(w, r)
	}
}

func (a *API) getProjects(w http.ResponseWriter, r *http.Request) {
	page, err := site.Projects(a.content, r.URL.Query().Get("category"))
	if err != nil {
		if errors.Is(err, site.ErrUnknownCategory) {
			writeError(w, r, http.StatusBadRequest, "unknown category")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var form site.ContactForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	inq, err := site.SubmitContact(r.Context(), a.content, form)
	switch {
	case errors.Is(err, site.ErrMissingField):
		writeError(w, r, http.StatusBadRequest, "name, email and message are required")
		return
	case errors.Is(err, site.ErrInvalidEmail):
		writeError(w, r, http.StatusBadRequest, "email address is invalid")
		return
	case errors.Is(err, site.ErrControlChar):
		writeError(w, r, http.StatusBadRequest, "fields must not contain control characters")
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	_ = audit.LogEvent(r.Context(), "contact.submitted", zap.String("inquiry_id", inq.ID))
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      inq.ID,
	})
}
