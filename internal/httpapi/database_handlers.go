package httpapi

import (
	"bytes"
	"net/http"

	"darew.com/internal/schema"
)

func (a *API) getSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tables": schema.Tables()})
}

func (a *API) getEndpoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": schema.Endpoints()})
}

// getDump streams the SQL export. Identities are dumped with their stored
// hashes, so this stays behind the session gate.
func (a *API) getDump(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := schema.Dump(&buf, schema.Snapshot{
		Users:     a.identities.Roster(),
		Offerings: a.content.Offerings(),
		Projects:  a.content.Projects(),
	}, a.now())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to build dump")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="darew_dump.sql"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
