package controllers

import (
	"net/http"
	"strings"

	"smrutimap/middleware"
	models "smrutimap/models/postgres"
	"smrutimap/services/identity"
	"smrutimap/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Register a new account
// @Description Creates a user and returns a JWT for it
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Account name, 3-30 word characters"
// @Param email formData string true "Email address"
// @Param password formData string true "Password, 6 characters minimum"
// @Success 200 {object} object{token=string,username=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")

		if !utils.ValidUsername(username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 letters, digits or underscores"})
			return
		}
		if email == "" || !strings.Contains(email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
			return
		}
		if len(password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
			return
		}

		user := models.User{Username: username, Email: email, PasswordHash: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
			return
		}

		token, err := middleware.GenerateToken(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "username": username})
	}
}

// @Summary Log in
// @Description Checks credentials and returns a JWT
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Account name"
// @Param password formData string true "Password"
// @Success 200 {object} object{token=string,username=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		password := c.PostForm("password")

		// Minimum input sanitizing
		if username == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password!"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password!"})
			return
		}

		token, err := middleware.GenerateToken(user.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "username": user.Username})
	}
}

// @Summary Current account
// @Description The registered account behind the bearer token. Guests have no account and get 401 here.
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} postgres.User
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/me [get]
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.RequestIdentity(c)

		var user models.User
		if err := db.Where("username = ?", id.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// @Summary Start a guest session
// @Description Mints a guest id into the cookie session so anonymous players can play. Idempotent: an existing guest session is returned as is.
// @Tags auth
// @Produce json
// @Success 200 {object} object{guest_id=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/guest [get]
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if existing := middleware.GuestSessionID(c); existing != "" {
			c.JSON(http.StatusOK, gin.H{"guest_id": existing})
			return
		}

		guestID := identity.NewGuestID()
		if err := middleware.StoreGuestSession(c, guestID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"guest_id": guestID})
	}
}
