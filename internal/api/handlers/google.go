package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"gorm.io/gorm"

	"github.com/craftfolio/server/internal/models"
)

// GET /api/auth/google/login
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		http.Error(w, "Google sign-in is not configured", http.StatusNotImplemented)
		return
	}

	flow := r.URL.Query().Get("flow") // "login" or "register"
	if flow != "register" {
		flow = "login"
	}

	state, err := encodeOAuthState(map[string]string{"flow": flow})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/auth/google/callback
//
// Completes the OAuth exchange, creates or looks up the user, then sends the
// browser back to the SPA with a bearer token in the query string.
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		http.Error(w, "Google sign-in is not configured", http.StatusNotImplemented)
		return
	}

	stateData, err := decodeOAuthState(r.FormValue("state"))
	if err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	flow := stateData["flow"]

	token, err := h.OAuth.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	client := h.OAuth.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	var user models.User
	err = h.DB.WithContext(r.Context()).Where("email = ?", googleUser.Email).First(&user).Error

	switch flow {
	case "register":
		if err == nil {
			http.Redirect(w, r, h.Cfg.FrontendURL+"/?error=user_already_exists", http.StatusTemporaryRedirect)
			return
		}
		user = models.User{
			Username: googleUser.Name,
			Email:    googleUser.Email,
			Password: "", // Google-authenticated
		}
		if err := h.DB.WithContext(r.Context()).Create(&user).Error; err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

	default: // login
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Redirect(w, r, h.Cfg.FrontendURL+"/?error=user_not_found", http.StatusTemporaryRedirect)
			return
		} else if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	tokenString, err := h.signToken(user)
	if err != nil {
		http.Error(w, "Failed to create token", http.StatusInternalServerError)
		return
	}

	redirectURL := fmt.Sprintf("%s/?token=%s&status=success_%s",
		h.Cfg.FrontendURL, url.QueryEscape(tokenString), flow)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
