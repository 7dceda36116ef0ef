package httpapi

import (
	"encoding/json"
	"net/http"

	"campuseats-be/internal/user"
	"campuseats-be/internal/utils"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type authResponse struct {
	Token string    `json:"token"`
	User  *userView `json:"user"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserView(u *user.User) *userView {
	return &userView{ID: u.ID.String(), Email: u.Email, Role: u.Role}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.WriteJSONError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	token, u, err := s.users.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setAccessCookie(w, token)
	utils.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserView(u)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, u, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setAccessCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: toUserView(u)})
}

func setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
