package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"darew.com/internal/auth"
	"darew.com/internal/site"
)

// identityView is an identity as the console sees it: never with its secret.
type identityView struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

func viewOf(id auth.Identity) identityView {
	return identityView{ID: id.ID, Name: id.Name, Email: id.Email, Role: id.Role}
}

type createIdentityRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     auth.Role `json:"role"`
	Password string    `json:"password"`
}

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		roster := a.identities.Roster()
		items := make([]identityView, 0, len(roster))
		for _, id := range roster {
			items = append(items, viewOf(id))
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		a.createIdentity(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createIdentity(w http.ResponseWriter, r *http.Request) {
	var req createIdentityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if err := site.CheckText(req.Name, req.Email); err != nil {
		writeError(w, r, http.StatusBadRequest, "fields must not contain control characters")
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleViewer
	}
	if !req.Role.Valid() {
		writeError(w, r, http.StatusBadRequest, "role must be one of Super Admin, Editor, Viewer")
		return
	}
	created, err := a.identities.AddIdentity(r.Context(), auth.Identity{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, "password cannot be stored")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	a.audit.Record(r.Context(), "Added new user: "+created.Name, zap.String("user_id", created.ID))
	w.Header().Set("Location", "/v1/admin/users/"+created.ID)
	writeJSON(w, http.StatusCreated, viewOf(created))
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	id, rest := splitID(r.URL.Path, "/v1/admin/users/")
	if id == "" || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	existing, ok := a.identities.Lookup(id)
	switch r.Method {
	case http.MethodGet:
		if !ok {
			writeError(w, r, http.StatusNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, viewOf(existing))
	case http.MethodDelete:
		if id == auth.SeedIdentityID {
			writeError(w, r, http.StatusForbidden, "the primary administrator cannot be removed")
			return
		}
		if !ok {
			writeError(w, r, http.StatusNotFound, "user not found")
			return
		}
		a.identities.RemoveIdentity(r.Context(), id)
		a.audit.Record(r.Context(), "Deleted user: "+existing.Name, zap.String("user_id", id))
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}
