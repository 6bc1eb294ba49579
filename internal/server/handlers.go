package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waslerr/internal/auth"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/repositories"
	"github.com/desertthunder/waslerr/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// Route paths served by [AuthHandler].
const (
	PathRegister = "/api/auth/register"
	PathLogin    = "/api/auth/login"
	PathMe       = "/api/auth/me"
)

// Response messages.
const (
	MsgRegistered         = "User registered successfully"
	MsgLoggedIn           = "Login successful"
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidBody        = "Invalid request body"
	MsgNoToken            = "Not authorized, no token"
	MsgBadToken           = "Not authorized, token failed"
	MsgUserNotFound       = "User not found"
	MsgServerError        = "Server error"
)

const maxBodyBytes = 1 << 20

// apiUser is the wire form of a user. The hosted backend names the ID "_id".
type apiUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toAPIUser(u models.User) apiUser {
	return apiUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type authResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Token   string   `json:"token,omitempty"`
	User    *apiUser `json:"user,omitempty"`
}

type meResponse struct {
	Success bool    `json:"success"`
	Data    apiUser `json:"data"`
}

// AuthHandler serves register, login and me.
type AuthHandler struct {
	accounts   *repositories.AccountRepository
	tokens     *TokenIssuer
	logger     *log.Logger
	bcryptCost int
}

// NewAuthHandler creates an [AuthHandler].
func NewAuthHandler(accounts *repositories.AccountRepository, tokens *TokenIssuer, logger *log.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, logger: logger, bcryptCost: bcrypt.DefaultCost}
}

// SetBcryptCost changes the password hashing cost.
func (h *AuthHandler) SetBcryptCost(cost int) {
	h.bcryptCost = cost
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{PathRegister, PathLogin, PathMe}
}

// ServeHTTP dispatches on path and method.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == PathRegister && r.Method == http.MethodPost:
		h.register(w, r)
	case r.URL.Path == PathLogin && r.Method == http.MethodPost:
		h.login(w, r)
	case r.URL.Path == PathMe && r.Method == http.MethodGet:
		h.me(w, r)
	default:
		writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	form := auth.FormState{
		Mode:            auth.ModeRegister,
		Name:            creds.Name,
		Email:           creds.Email,
		Password:        creds.Password,
		ConfirmPassword: creds.Password,
	}
	if err := auth.Validate(form); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), h.bcryptCost)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		writeFailure(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	account := &models.Account{
		Name:         strings.TrimSpace(creds.Name),
		Email:        creds.Email,
		PasswordHash: string(hash),
	}
	if err := h.accounts.Create(r.Context(), account); err != nil {
		if errors.Is(err, shared.ErrUserExists) {
			writeFailure(w, http.StatusBadRequest, MsgUserExists)
			return
		}
		h.logger.Error("failed to create account", "error", err)
		writeFailure(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	h.logger.Info("account registered", "id", account.ID, "email", account.Email)
	h.respondWithToken(w, http.StatusCreated, MsgRegistered, account)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	if err := auth.Validate(auth.FormState{Mode: auth.ModeLogin, Email: creds.Email, Password: creds.Password}); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.accounts.GetByEmail(r.Context(), creds.Email)
	if err != nil {
		if !errors.Is(err, shared.ErrUserNotFound) {
			h.logger.Error("failed to look up account", "error", err)
			writeFailure(w, http.StatusInternalServerError, MsgServerError)
			return
		}
		writeFailure(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		writeFailure(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	h.respondWithToken(w, http.StatusOK, MsgLoggedIn, account)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		writeFailure(w, http.StatusUnauthorized, MsgNoToken)
		return
	}

	claims, err := h.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		h.logger.Debug("rejected token", "error", err)
		writeFailure(w, http.StatusUnauthorized, MsgBadToken)
		return
	}

	account, err := h.accounts.Get(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			writeFailure(w, http.StatusNotFound, MsgUserNotFound)
			return
		}
		h.logger.Error("failed to load account", "error", err)
		writeFailure(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{Success: true, Data: toAPIUser(account.User())})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, message string, account *models.Account) {
	token, err := h.tokens.Issue(account)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		writeFailure(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	user := toAPIUser(account.User())
	writeJSON(w, status, authResponse{Success: true, Message: message, Token: token, User: &user})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (models.Credentials, bool) {
	var creds models.Credentials
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&creds); err != nil {
		writeFailure(w, http.StatusBadRequest, MsgInvalidBody)
		return creds, false
	}
	return creds, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, authResponse{Success: false, Message: message})
}

// NewAuthAPI wires the auth routes with request IDs, logging, panic recovery and CORS.
func NewAuthAPI(handler *AuthHandler, origins []string, logger *log.Logger) http.Handler {
	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger), Recover(logger))
	router.Handler(handler)
	return CORS(origins)(router)
}
