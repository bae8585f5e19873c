package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-family-tree/internal/app"
	"github.com/MKhiriev/go-family-tree/internal/utils"
	"github.com/MKhiriev/go-family-tree/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.services.PersonService.List(r.Context(), viewer(r))
	if err != nil {
		writeError(w, r, "*Handler.listPersons", err)
		return
	}

	utils.WriteJSON(w, persons, http.StatusOK)
}

func (h *Handler) getPerson(w http.ResponseWriter, r *http.Request) {
	id, err := personID(r)
	if err != nil {
		writeError(w, r, "*Handler.getPerson", err)
		return
	}

	person, err := h.services.PersonService.Get(r.Context(), viewer(r), id)
	if err != nil {
		writeError(w, r, "*Handler.getPerson", err)
		return
	}

	utils.WriteJSON(w, person, http.StatusOK)
}

func (h *Handler) createPerson(w http.ResponseWriter, r *http.Request) {
	var req models.PersonCreate
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.createPerson", err)
		return
	}

	person, err := h.services.PersonService.Create(r.Context(), viewer(r), req)
	if err != nil {
		writeError(w, r, "*Handler.createPerson", err)
		return
	}

	w.Header().Set("Location", "/api/persons/"+person.ID)
	utils.WriteJSON(w, person, http.StatusCreated)
}

func (h *Handler) updatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := personID(r)
	if err != nil {
		writeError(w, r, "*Handler.updatePerson", err)
		return
	}

	var req models.PersonUpdate
	if err = utils.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.updatePerson", err)
		return
	}

	person, err := h.services.PersonService.Update(r.Context(), viewer(r), id, req)
	if err != nil {
		writeError(w, r, "*Handler.updatePerson", err)
		return
	}

	utils.WriteJSON(w, person, http.StatusOK)
}

func (h *Handler) deletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := personID(r)
	if err != nil {
		writeError(w, r, "*Handler.deletePerson", err)
		return
	}

	if err = h.services.PersonService.Delete(r.Context(), viewer(r), id); err != nil {
		writeError(w, r, "*Handler.deletePerson", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := personID(r)
	if err != nil {
		writeError(w, r, "*Handler.changePassword", err)
		return
	}

	var req models.ChangePasswordRequest
	if err = utils.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.changePassword", err)
		return
	}

	if err = h.services.PersonService.ChangePassword(r.Context(), viewer(r), id, req.NewPassword); err != nil {
		writeError(w, r, "*Handler.changePassword", err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgPasswordChanged}, http.StatusOK)
}

func personID(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", ErrMissingPathID
	}
	return id, nil
}
