package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"shopfront/internal/logger"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func handleLoginPage(c *gin.Context) {
	stores := getStores(c)
	// Stale errors must not leak across the login/register views.
	stores.Session.ClearError()

	if stores.Session.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/products")
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Login - Shopfront",
	})
}

func handleLogin(c *gin.Context) {
	stores := getStores(c)

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	errors := make(map[string]string)

	if email == "" {
		errors["email"] = "Email is required"
	}

	if password == "" {
		errors["password"] = "Password is required"
	}

	if len(errors) > 0 {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Login - Shopfront",
			"Errors": errors,
			"Email":  email,
		})
		return
	}

	_, err := stores.Session.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Login - Shopfront",
			"Errors": map[string]string{"general": stores.Session.Error()},
			"Email":  email,
		})
		return
	}

	// The cart becomes meaningful once the identity is known.
	if _, err := stores.Basket.LoadCart(c.Request.Context()); err != nil {
		logger.Warn("Failed to load cart after login", "error", err)
	}

	c.Redirect(http.StatusFound, "/products")
}

func handleRegisterPage(c *gin.Context) {
	stores := getStores(c)
	stores.Session.ClearError()

	if stores.Session.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/products")
		return
	}

	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title": "Register - Shopfront",
	})
}

func handleRegister(c *gin.Context) {
	stores := getStores(c)

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	errors := make(map[string]string)

	if !emailRegex.MatchString(email) {
		errors["email"] = "Please enter a valid email address"
	}

	if len(password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}

	if password != confirmPassword {
		errors["confirm_password"] = "Passwords do not match"
	}

	if len(errors) > 0 {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Title":  "Register - Shopfront",
			"Errors": errors,
			"Email":  email,
		})
		return
	}

	_, err := stores.Session.Register(c.Request.Context(), email, password)
	if err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Title":  "Register - Shopfront",
			"Errors": map[string]string{"general": stores.Session.Error()},
			"Email":  email,
		})
		return
	}

	if _, err := stores.Basket.LoadCart(c.Request.Context()); err != nil {
		logger.Warn("Failed to load cart after registration", "error", err)
	}

	c.Redirect(http.StatusFound, "/products")
}

func handleLogout(c *gin.Context) {
	stores := getStores(c)

	stores.Session.SignOut()
	stores.Basket.Clear()

	c.Redirect(http.StatusFound, "/")
}
