package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/anavarro/melodia/internal/api/middleware"
	"github.com/anavarro/melodia/internal/config"
	"github.com/anavarro/melodia/internal/domain"
	"github.com/anavarro/melodia/internal/service"
	"github.com/anavarro/melodia/internal/token"
)

type AuthHandler struct {
	authService *service.AuthService
	issuer      *token.Issuer
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, issuer *token.Issuer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, issuer: issuer, cfg: cfg}
}

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

func userResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:     user.ID.String(),
		Nombre: user.DisplayName,
		Email:  user.Email,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "nombre, email and password are required")
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		DisplayName: req.Nombre,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "could not create account")
			return
		}
		log.Printf("ERROR [AuthHandler.Register] %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]UserResponse{"user": userResponse(user)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		log.Printf("ERROR [AuthHandler.Login] %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	signed, err := h.issuer.Issue(token.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		log.Printf("ERROR [AuthHandler.Login] issuing token: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setSessionCookie(w, signed)
	respondJSON(w, http.StatusOK, map[string]UserResponse{"user": userResponse(user)})
}

// Logout clears the cookie. The token itself stays valid until its natural
// expiry; there is no revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		log.Printf("ERROR [AuthHandler.Me] %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]UserResponse{"user": userResponse(user)})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.IsProduction(),
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.IsProduction(),
	})
}
