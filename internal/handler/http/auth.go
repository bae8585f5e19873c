package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-family-tree/internal/app"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/utils"
	"github.com/MKhiriev/go-family-tree/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	identity, err := h.services.AuthService.Authenticate(ctx, req)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, identity)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	log.Info().Str("func", "*Handler.login").Str("person_id", identity.ID).Msg("user logged in")

	http.SetCookie(w, h.sessionCookie(token.SignedString, h.sessionTTL))
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, models.LoginResponse{
		Message: app.MsgLoginSuccessful,
		User:    identity,
		Token:   token.SignedString,
	}, http.StatusOK)
}

// logout clears the session cookie. Tokens are stateless, so a bearer token
// held by an API client stays valid until it expires.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgLoggedOut}, http.StatusOK)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	resp := models.StatusResponse{}
	if identity := viewer(r); identity.Authenticated() {
		resp.IsAuthenticated = true
		resp.User = &identity
	}
	utils.WriteJSON(w, resp, http.StatusOK)
}

// sessionCookie builds the HttpOnly session cookie. A negative ttl deletes it.
func (h *Handler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case ttl < 0:
		cookie.MaxAge = -1
	case ttl > 0:
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}
