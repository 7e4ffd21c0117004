package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/tanvirrrhasan/TanvirEmart/internal/auth"
	"github.com/tanvirrrhasan/TanvirEmart/internal/orders"
	"github.com/tanvirrrhasan/TanvirEmart/internal/otp"
	"github.com/tanvirrrhasan/TanvirEmart/internal/phone"
)

// ProviderVerifier checks an external provider credential (an OAuth ID token)
// and returns the identity it attests to.
type ProviderVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

type AuthHandler struct {
	issuer     *auth.TokenIssuer
	provider   ProviderVerifier
	challenger otp.Challenger
	profiles   orders.ProfileRepository
	session    *auth.Session

	mu    sync.Mutex
	flows map[string]*otp.Flow
}

func NewAuthHandler(issuer *auth.TokenIssuer, provider ProviderVerifier, challenger otp.Challenger, profiles orders.ProfileRepository, session *auth.Session) *AuthHandler {
	return &AuthHandler{
		issuer:     issuer,
		provider:   provider,
		challenger: challenger,
		profiles:   profiles,
		session:    session,
		flows:      make(map[string]*otp.Flow),
	}
}

// flow returns the session's phone sign-in flow, one per session so the
// resend cooldown survives page reloads.
func (h *AuthHandler) flow(sessionID string) *otp.Flow {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.flows[sessionID]
	if !ok {
		f = otp.NewFlow(h.challenger)
		h.flows[sessionID] = f
	}
	return f
}

type SignInResponseDTO struct {
	Token      string           `json:"token"`
	Identity   *auth.Identity   `json:"identity"`
	Completion *auth.Completion `json:"completion,omitempty"`
}

// ProviderSignIn exchanges a verified provider credential for a session
// token.
func (h *AuthHandler) ProviderSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "provider token is required")
		return
	}

	identity, err := h.provider.Verify(req.Token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "provider sign-in failed")
		return
	}
	identity.Method = auth.MethodProvider

	h.respondSignedIn(w, r, identity)
}

// SendCode starts or restarts the phone challenge for this session.
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.flow(getSessionID(r.Context())).SendCode(r.Context(), req.Phone)
	var cooldown *otp.CooldownError
	switch {
	case errors.As(err, &cooldown):
		respondError(w, http.StatusTooManyRequests, "cooldown", cooldown.Error())
	case errors.Is(err, phone.ErrInvalidNumber):
		respondError(w, http.StatusBadRequest, "invalid_phone", err.Error())
	case err != nil:
		respondError(w, http.StatusBadGateway, "send_failed", "could not send verification code")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// VerifyCode confirms the challenge and signs the shopper in.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := getSessionID(r.Context())
	identity, err := h.flow(sessionID).Verify(r.Context(), req.Code)
	switch {
	case errors.Is(err, otp.ErrNoChallenge):
		respondError(w, http.StatusConflict, "no_challenge", "request a code first")
		return
	case errors.Is(err, otp.ErrInvalidCode):
		respondError(w, http.StatusUnauthorized, "invalid_code", "the code is incorrect, try again")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "verification failed")
		return
	}

	h.dropFlow(sessionID)
	h.respondSignedIn(w, r, identity)
}

// dropFlow evicts a finished flow. Cancelled flows stay in the map because
// they carry the resend cooldown.
func (h *AuthHandler) dropFlow(sessionID string) {
	h.mu.Lock()
	delete(h.flows, sessionID)
	h.mu.Unlock()
}

// CancelChallenge abandons the phone sign-in, the cooldown keeps running.
func (h *AuthHandler) CancelChallenge(w http.ResponseWriter, r *http.Request) {
	h.flow(getSessionID(r.Context())).Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// SignOut clears the current identity. The bearer token itself simply lapses
// client-side.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.session.SignOut()
	w.WriteHeader(http.StatusNoContent)
}

// respondSignedIn mints the session token, publishes the identity change and
// attaches the completion step when the identity has no profile document yet.
func (h *AuthHandler) respondSignedIn(w http.ResponseWriter, r *http.Request, identity *auth.Identity) {
	token, err := h.issuer.Issue(identity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue session token")
		return
	}
	h.session.SignIn(identity)

	resp := SignInResponseDTO{Token: token, Identity: identity}
	profile, err := h.profiles.Get(r.Context(), identity.UID)
	if err == nil && profile == nil {
		completion := auth.CompletionFor(identity)
		resp.Completion = &completion
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetProfile serves the signed-in user's profile document.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := getIdentity(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	profile, err := h.profiles.Get(r.Context(), identity.UID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "not_found", "profile not created yet")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies a partial edit. Fields locked by the sign-in path
// cannot be changed here.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := getIdentity(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	completion := auth.CompletionFor(identity)
	fields := make(map[string]any)
	for _, allowed := range []string{"name", "phone", "email", "gender"} {
		value, ok := req[allowed]
		if !ok {
			continue
		}
		if contains(completion.LockedFields, allowed) {
			respondError(w, http.StatusBadRequest, "field_locked", allowed+" is verified and cannot be changed")
			return
		}
		fields[allowed] = value
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "no editable fields in request")
		return
	}

	if raw, ok := fields["phone"].(string); ok {
		canonical, err := phone.Normalize(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_phone", err.Error())
			return
		}
		fields["phone"] = canonical
	}

	if err := h.profiles.UpdateFields(r.Context(), identity.UID, fields); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
