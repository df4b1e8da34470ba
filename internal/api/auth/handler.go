package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"entitlements-app/internal/api/httperr"
	"entitlements-app/internal/app/http/middleware"
	"entitlements-app/internal/domain/users"
	"entitlements-app/internal/store"
)

type Handler struct {
	Store     *store.Store
	JWTSecret string
	TokenTTL  time.Duration
	// Google is nil when Google sign-in is not configured.
	Google *GoogleConfig
}

type registerInput struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strong_password"`
	Role     string `json:"role" binding:"required,signup_role"`
}

// POST /register creates an unapproved teacher or assistant. An admin must
// approve it before it can request upgrades.
func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.BindError(c, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	hashed := string(hashedPassword)

	acc := users.Account{
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		Password:     &hashed,
		AuthProvider: "local",
		Role:         input.Role,
		IsApproved:   false,
	}
	if err := h.Store.Read(c.Request.Context()).CreateAccount(&acc); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		httperr.Respond(c, err)
		return
	}

	log.Info().Uint("account_id", acc.ID).Str("role", acc.Role).Msg("account registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. An administrator must approve it before you can use it.",
		"id":      acc.ID,
	})
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.BindError(c, err)
		return
	}

	acc, err := h.Store.Read(c.Request.Context()).AccountByEmail(input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if acc.Password == nil || *acc.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*acc.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := h.issueAppJWT(acc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

// POST /change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	var body struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,strong_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BindError(c, err)
		return
	}

	tx := h.Store.Read(c.Request.Context())
	acc, err := tx.Account(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if acc.Password == nil || *acc.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "This account does not have a password. Sign in with Google.",
		})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*acc.Password), []byte(body.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
		return
	}

	hashedNew, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := tx.SetPassword(acc.ID, string(hashedNew)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *Handler) issueAppJWT(acc *users.Account) (string, error) {
	ttl := h.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  acc.ID,
		"email":    acc.Email,
		"role":     acc.Role,
		"is_admin": acc.IsAdmin,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return t.SignedString([]byte(h.JWTSecret))
}
