package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/internal/utils"
	"github.com/MKhiriev/go-family-tree/models"
)

const exportFileName = "familytree_data.json"

// export streams the whole directory as a downloadable JSON document in the
// persisted layout, password hashes included.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.services.DataService.Export(r.Context(), viewer(r))
	if err != nil {
		writeError(w, r, "*Handler.export", err)
		return
	}

	body, err := store.EncodeSnapshot(snap)
	if err != nil {
		writeError(w, r, "*Handler.export", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	var snap models.Snapshot
	if err := utils.DecodeJSON(w, r, &snap); err != nil {
		writeError(w, r, "*Handler.importData", err)
		return
	}

	resp, err := h.services.DataService.Import(r.Context(), viewer(r), snap)
	if err != nil {
		writeError(w, r, "*Handler.importData", err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}
