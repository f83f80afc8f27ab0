package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"notesapi/internal/auth"
	dom "notesapi/internal/domain"
	"notesapi/internal/dto"
	"notesapi/internal/mailer"
	"notesapi/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login, token refresh and email confirmation.
type AuthHandler struct {
	userSvc *service.UserService
	gateway *auth.Gateway
	mail    mailer.Sender
	baseURL string
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(userSvc *service.UserService, gw *auth.Gateway, mail mailer.Sender, baseURL string) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, gateway: gw, mail: mail, baseURL: strings.TrimRight(baseURL, "/")}
}

// Signup godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "Account data"
// @Success      201   {object}  dto.SignupResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"detail": "account already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "registration failed"})
		return
	}
	h.sendConfirmation(user)
	c.JSON(http.StatusCreated, dto.SignupResponse{
		User:   dto.NewUserResponse(user),
		Detail: "user successfully created, check your email for confirmation",
	})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotConfirmed):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "email not confirmed"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid email or password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "login failed"})
		}
		return
	}
	h.issuePair(c, user)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/refresh_token [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	email, err := h.gateway.DecodeRefresh(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	user, err := h.userSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	if user.RefreshToken != token {
		// Presented token is signed but no longer the latest one; drop the
		// stored token so the session has to log in again.
		_ = h.userSvc.ClearRefreshToken(c.Request.Context(), user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid refresh token"})
		return
	}
	h.issuePair(c, user)
}

// ConfirmEmail godoc
// @Summary      Confirm an email address from a verification link
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "Verification token"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/confirmed_email/{token} [get]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	email, err := h.gateway.ResolveEmailFromVerificationToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": auth.ErrInvalidEmailVerificationToken.Error()})
		return
	}
	already, err := h.userSvc.ConfirmEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "verification error"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "verification failed"})
		return
	}
	if already {
		c.JSON(http.StatusOK, gin.H{"message": "your email is already confirmed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email confirmed"})
}

// RequestEmail godoc
// @Summary      Re-send the confirmation email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestEmailRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /auth/request_email [post]
func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var req dto.RequestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user, err := h.userSvc.GetByEmail(c.Request.Context(), req.Email)
	if err == nil && user.Confirmed {
		c.JSON(http.StatusOK, gin.H{"message": "your email is already confirmed"})
		return
	}
	if err == nil {
		h.sendConfirmation(user)
	}
	// Unknown addresses get the same answer; this endpoint is not an
	// account-existence oracle.
	c.JSON(http.StatusOK, gin.H{"message": "check your email for confirmation"})
}

func (h *AuthHandler) issuePair(c *gin.Context, user dom.User) {
	access, refresh, err := h.gateway.IssueTokenPair(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue tokens"})
		return
	}
	if err := h.userSvc.StoreRefreshToken(c.Request.Context(), user.ID, refresh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue tokens"})
		return
	}
	c.JSON(http.StatusOK, dto.NewTokenResponse(access, refresh))
}

// sendConfirmation mails the verification link. Best effort: a mail outage
// must not fail the signup, the user can re-request the email.
func (h *AuthHandler) sendConfirmation(user dom.User) {
	token, err := h.gateway.IssueEmailVerificationToken(user.Email)
	if err != nil {
		log.Printf("issue email verification token for %s: %v", user.Email, err)
		return
	}
	link := h.baseURL + "/api/auth/confirmed_email/" + token
	go func() {
		if err := h.mail.SendConfirmation(context.Background(), user.Email, user.Username, link); err != nil {
			log.Printf("send confirmation mail: %v", err)
		}
	}()
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
