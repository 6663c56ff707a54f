package http

import (
	"errors"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := core.User{Email: core.NormalizeEmail(req.Email), Name: req.Name}
	if err := user.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	user.PasswordHash = hash

	created, err := s.users.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		s.logger.ErrorContext(r.Context(), "signup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	token, err := s.auth.IssueToken(created.ID, created.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	s.setSessionCookie(w, token)
	s.logger.InfoContext(r.Context(), "user signed up",
		log.FieldOperation, log.OpSignup,
		log.FieldOwnerID, created.ID)
	respondData(w, http.StatusCreated, sessionResponse{Token: token, User: toUserResponse(created)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.logger.ErrorContext(r.Context(), "login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.auth.IssueToken(user.ID, user.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	s.setSessionCookie(w, token)
	s.logger.InfoContext(r.Context(), "user logged in",
		log.FieldOperation, log.OpLogin,
		log.FieldOwnerID, user.ID)
	respondData(w, http.StatusOK, sessionResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondMessage(w, http.StatusOK, "logged out")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := s.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		s.logger.ErrorContext(r.Context(), "me lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load account")
		return
	}

	respondData(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.auth.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
