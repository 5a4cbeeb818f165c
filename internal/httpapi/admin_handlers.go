package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"darew.com/internal/content"
	"darew.com/internal/icons"
	"darew.com/internal/site"
)

const (
	defaultOfferingIcon  = "Droplets"
	defaultOfferingImage = "https://picsum.photos/800/600"
	defaultProjectImage  = "https://picsum.photos/600/400"
	defaultLogLimit      = 50
	maxLogLimit          = 1000
)

func (a *API) routeAdmin() {
	a.mux.HandleFunc("/v1/admin/login", a.handleLogin)

	gated := map[string]http.HandlerFunc{
		"/v1/admin/logout":             a.handleLogout,
		"/v1/admin/session":            a.handleSession,
		"/v1/admin/dashboard":          a.getOnly(a.getDashboard),
		"/v1/admin/services":           a.handleServicesCollection,
		"/v1/admin/services/":          a.handleServiceResource,
		"/v1/admin/icons":              a.getOnly(a.listIcons),
		"/v1/admin/projects":           a.handleProjectsCollection,
		"/v1/admin/projects/":          a.handleProjectResource,
		"/v1/admin/inquiries":          a.getOnly(a.listInquiries),
		"/v1/admin/inquiries/":         a.handleInquiryResource,
		"/v1/admin/users":              a.handleUsersCollection,
		"/v1/admin/users/":             a.handleUserResource,
		"/v1/admin/stats":              a.handleStats,
		"/v1/admin/logs":               a.getOnly(a.listLogs),
		"/v1/admin/database/schema":    a.getOnly(a.getSchema),
		"/v1/admin/database/sql":       a.getOnly(a.getDump),
		"/v1/admin/database/endpoints": a.getOnly(a.getEndpoints),
	}
	for pattern, h := range gated {
		a.mux.Handle(pattern, a.requireSession(h))
	}
}

func (a *API) getDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, site.Dashboard(a.content))
}

// --- services ---

type offeringRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IconName    string `json:"iconName"`
	Image       string `json:"image"`
}

func (a *API) listIcons(w http.ResponseWriter, r *http.Request) {
	names := icons.Names()
	items := make([]icons.Icon, 0, len(names))
	for _, n := range names {
		items = append(items, icons.Resolve(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "default": defaultOfferingIcon})
}

// checkIcon rejects icon names the site cannot render. An empty name means
// the caller left the field blank.
func checkIcon(name string) error {
	name = strings.TrimSpace(name)
	if name != "" && !icons.Known(name) {
		return fmt.Errorf("unknown icon %q", name)
	}
	return nil
}

func (a *API) handleServicesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"items": site.Services(a.content)})
	case http.MethodPost:
		a.createOffering(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleServiceResource(w http.ResponseWriter, r *http.Request) {
	id, rest := splitID(r.URL.Path, "/v1/admin/services/")
	if id == "" || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		o, ok := a.content.Offering(id)
		if !ok {
			writeError(w, r, http.StatusNotFound, "service not found")
			return
		}
		writeJSON(w, http.StatusOK, o)
	case http.MethodPut:
		a.updateOffering(w, r, id)
	case http.MethodDelete:
		o, ok := a.content.Offering(id)
		if !ok || !a.content.DeleteOffering(r.Context(), id) {
			writeError(w, r, http.StatusNotFound, "service not found")
			return
		}
		a.audit.Record(r.Context(), "Deleted service: "+o.Title, zap.String("service_id", id))
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createOffering(w http.ResponseWriter, r *http.Request) {
	var req offeringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkIcon(req.IconName); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	o := content.Offering{
		ID:          strings.TrimSpace(req.ID),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		IconName:    orDefault(req.IconName, defaultOfferingIcon),
		Image:       orDefault(req.Image, defaultOfferingImage),
	}
	if o.Title == "" || o.Description == "" {
		writeError(w, r, http.StatusBadRequest, "title and description are required")
		return
	}
	if err := site.CheckText(o.ID, o.Title, o.Description, o.Image); err != nil {
		writeError(w, r, http.StatusBadRequest, "fields must not contain control characters")
		return
	}
	o, err := a.content.CreateOffering(r.Context(), o)
	if errors.Is(err, content.ErrDuplicateID) {
		writeError(w, r, http.StatusConflict, "service id already exists")
		return
	}
	a.audit.Record(r.Context(), "Created service: "+o.Title, zap.String("service_id", o.ID))
	w.Header().Set("Location", "/v1/admin/services/"+o.ID)
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) updateOffering(w http.ResponseWriter, r *http.Request, id string) {
	var req offeringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkIcon(req.IconName); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	existing, ok := a.content.Offering(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "service not found")
		return
	}
	o := content.Offering{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		IconName:    orDefault(req.IconName, existing.IconName),
		Image:       orDefault(req.Image, existing.Image),
	}
	if o.Title == "" || o.Description == "" {
		writeError(w, r, http.StatusBadRequest, "title and description are required")
		return
	}
	if err := site.CheckText(o.ID, o.Title, o.Description, o.Image); err != nil {
		writeError(w, r, http.StatusBadRequest, "fields must not contain control characters")
		return
	}
	if !a.content.UpdateOffering(r.Context(), o) {
		writeError(w, r, http.StatusNotFound, "service not found")
		return
	}
	a.audit.Record(r.Context(), "Updated service: "+o.Title, zap.String("service_id", id))
	writeJSON(w, http.StatusOK, o)
}

// --- projects ---

type projectRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

func (req projectRequest) project(id, image string, fallback content.Category) (content.Project, error) {
	p := content.Project{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Category:    content.Category(orDefault(req.Category, string(fallback))),
		Image:       orDefault(req.Image, image),
	}
	if p.Title == "" || p.Description == "" {
		return content.Project{}, errors.New("title and description are required")
	}
	if !p.Category.Valid() {
		return content.Project{}, fmt.Errorf("unknown category %q", p.Category)
	}
	if err := site.CheckText(p.ID, p.Title, p.Location, p.Description, p.Image); err != nil {
		return content.Project{}, errors.New("fields must not contain control characters")
	}
	return p, nil
}

func (a *API) handleProjectsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"items": a.content.Projects()})
	case http.MethodPost:
		var req projectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		p, err := req.project(strings.TrimSpace(req.ID), defaultProjectImage, content.CategoryUpstream)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		p, err = a.content.CreateProject(r.Context(), p)
		if errors.Is(err, content.ErrDuplicateID) {
			writeError(w, r, http.StatusConflict, "project id already exists")
			return
		}
		a.audit.Record(r.Context(), "Created project: "+p.Title, zap.String("project_id", p.ID))
		w.Header().Set("Location", "/v1/admin/projects/"+p.ID)
		writeJSON(w, http.StatusCreated, p)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleProjectResource(w http.ResponseWriter, r *http.Request) {
	id, rest := splitID(r.URL.Path, "/v1/admin/projects/")
	if id == "" || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	existing, ok := a.content.Project(id)
	switch r.Method {
	case http.MethodGet:
		if !ok {
			writeError(w, r, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, existing)
	case http.MethodPut:
		var req projectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if !ok {
			writeError(w, r, http.StatusNotFound, "project not found")
			return
		}
		p, err := req.project(id, existing.Image, existing.Category)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if !a.content.UpdateProject(r.Context(), p) {
			writeError(w, r, http.StatusNotFound, "project not found")
			return
		}
		a.audit.Record(r.Context(), "Updated project: "+p.Title, zap.String("project_id", id))
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if !ok || !a.content.DeleteProject(r.Context(), id) {
			writeError(w, r, http.StatusNotFound, "project not found")
			return
		}
		a.audit.Record(r.Context(), "Deleted project: "+existing.Title, zap.String("project_id", id))
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// --- inquiries ---

type inquiryStatusRequest struct {
	Status content.InquiryStatus `json:"status"`
}

type inquiryRequest struct {
	Name    string                `json:"name"`
	Email   string                `json:"email"`
	Phone   string                `json:"phone"`
	Message string                `json:"message"`
	Status  content.InquiryStatus `json:"status"`
}

func (a *API) listInquiries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": a.content.Inquiries()})
}

func (a *API) handleInquiryResource(w http.ResponseWriter, r *http.Request) {
	id, rest := splitID(r.URL.Path, "/v1/admin/inquiries/")
	if id == "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch rest {
	case "":
	case "status":
		a.updateInquiryStatus(w, r, id)
		return
	default:
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	inq, ok := a.content.Inquiry(id)
	switch r.Method {
	case http.MethodGet:
		if !ok {
			writeError(w, r, http.StatusNotFound, "inquiry not found")
			return
		}
		writeJSON(w, http.StatusOK, inq)
	case http.MethodPut:
		a.updateInquiry(w, r, inq, ok)
	case http.MethodDelete:
		if !ok || !a.content.DeleteInquiry(r.Context(), id) {
			writeError(w, r, http.StatusNotFound, "inquiry not found")
			return
		}
		a.audit.Record(r.Context(), "Deleted inquiry from "+inq.Name, zap.String("inquiry_id", id))
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// updateInquiry replaces every editable field of a message. The submission
// date is kept.
func (a *API) updateInquiry(w http.ResponseWriter, r *http.Request, existing content.Inquiry, found bool) {
	var req inquiryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !found {
		writeError(w, r, http.StatusNotFound, "inquiry not found")
		return
	}
	inq := content.Inquiry{
		ID:      existing.ID,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
		Status:  req.Status,
		Date:    existing.Date,
	}
	if inq.Name == "" || inq.Email == "" || inq.Message == "" {
		writeError(w, r, http.StatusBadRequest, "name, email and message are required")
		return
	}
	if !inq.Status.Valid() {
		writeError(w, r, http.StatusBadRequest, "status must be one of New, Read, Replied")
		return
	}
	if err := site.CheckText(inq.Name, inq.Email, inq.Phone, inq.Message); err != nil {
		writeError(w, r, http.StatusBadRequest, "fields must not contain control characters")
		return
	}
	if !a.content.UpdateInquiry(r.Context(), inq) {
		writeError(w, r, http.StatusNotFound, "inquiry not found")
		return
	}
	a.audit.Record(r.Context(), "Updated inquiry from "+inq.Name, zap.String("inquiry_id", inq.ID))
	writeJSON(w, http.StatusOK, inq)
}

func (a *API) updateInquiryStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	var req inquiryStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Status.Valid() {
		writeError(w, r, http.StatusBadRequest, "status must be one of New, Read, Replied")
		return
	}
	if !a.content.UpdateInquiryStatus(r.Context(), id, req.Status) {
		writeError(w, r, http.StatusNotFound, "inquiry not found")
		return
	}
	a.audit.Record(r.Context(), "Marked inquiry as "+strings.ToLower(string(req.Status)), zap.String("inquiry_id", id))
	inq, _ := a.content.Inquiry(id)
	writeJSON(w, http.StatusOK, inq)
}

// --- stats & logs ---

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"items": a.content.Stats()})
	case http.MethodPut:
		var stats []content.Stat
		if err := decodeJSON(w, r, &stats); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		for i := range stats {
			stats[i].Label = strings.TrimSpace(stats[i].Label)
			stats[i].Value = strings.TrimSpace(stats[i].Value)
			if stats[i].Label == "" || stats[i].Value == "" {
				writeError(w, r, http.StatusBadRequest, "every stat needs a label and a value")
				return
			}
			if err := site.CheckText(stats[i].Label, stats[i].Value); err != nil {
				writeError(w, r, http.StatusBadRequest, "fields must not contain control characters")
				return
			}
		}
		a.content.UpdateStats(r.Context(), stats)
		a.audit.Record(r.Context(), "Updated company stats", zap.Int("count", len(stats)))
		writeJSON(w, http.StatusOK, map[string]any{"items": a.content.Stats()})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) listLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), defaultLogLimit, 1, maxLogLimit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	logs := a.content.Logs()
	if len(logs) > limit {
		logs = logs[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": logs})
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
