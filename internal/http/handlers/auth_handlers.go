package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/lfmartins/stock-manager/internal/auth"
	"github.com/lfmartins/stock-manager/internal/http/middleware"
	"github.com/lfmartins/stock-manager/internal/models"
	"github.com/lfmartins/stock-manager/internal/repo"
)

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body RegisterRequest true "username, email and password"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 409 {object} Envelope
// @Router /api/auth/register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errs := validateStruct(req); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Data: errs})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user, err := userRepo.CreateUser(models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUser) {
			respondError(w, http.StatusConflict, "Username or email already exists")
			return
		}
		log.Error().Err(err).Msg("failed to register user")
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondMessageData(w, http.StatusCreated, "User registered successfully", AuthResult{Token: token, User: user})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "username and password"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 401 {object} Envelope
// @Router /api/auth/login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errs := validateStruct(req); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Data: errs})
		return
	}

	user, err := userRepo.GetByUsername(req.Username)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondMessageData(w, http.StatusOK, "Login successful", AuthResult{Token: token, User: user})
}

// ProfileHandler godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/auth/profile [get]
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token is required")
		return
	}
	respondData(w, http.StatusOK, user)
}
