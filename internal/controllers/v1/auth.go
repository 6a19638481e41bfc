package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tripmate-app/backend/internal/auth"
	"github.com/tripmate-app/backend/internal/httputil"
	"github.com/tripmate-app/backend/internal/models"
)

// RegisterAuthRoutes registers the routes for registration and login
// with the RouterGroup that is passed. These routes are the only ones
// that do not require a bearer token.
func RegisterAuthRoutes(r *gin.RouterGroup, tokens *auth.Tokens) {
	r.OPTIONS("/register", OptionsAuth)
	r.POST("/register", Register(tokens))

	r.OPTIONS("/login", OptionsAuth)
	r.POST("/login", Login(tokens))
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/register [options]
func OptionsAuth(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Register user
// @Description	Creates a new user and returns a bearer token for it
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	AuthResponse
// @Failure		400		{object}	AuthResponse
// @Failure		500		{object}	AuthResponse
// @Param			user	body		RegisterEditable	true	"User"
// @Router			/v1/auth/register [post]
func Register(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var editable RegisterEditable
		err := httputil.BindData(c, &editable)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), AuthResponse{Error: &e})
			return
		}

		user := models.User{
			Name:  editable.Name,
			Email: editable.Email,
		}

		err = user.SetPassword(editable.Password)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, AuthResponse{Error: &e})
			return
		}

		err = models.DB.Create(&user).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), AuthResponse{Error: &e})
			return
		}

		token, err := tokens.Generate(user.ID)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, AuthResponse{Error: &e})
			return
		}

		data := newUser(user)
		c.JSON(http.StatusCreated, AuthResponse{Token: &token, Data: &data})
	}
}

// @Summary		Login
// @Description	Verifies the credentials and returns a bearer token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	AuthResponse
// @Failure		400			{object}	AuthResponse
// @Failure		401			{object}	AuthResponse
// @Failure		500			{object}	AuthResponse
// @Param			credentials	body		LoginEditable	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var editable LoginEditable
		err := httputil.BindData(c, &editable)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), AuthResponse{Error: &e})
			return
		}

		var user models.User
		err = models.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(editable.Email))).First(&user).Error
		if err != nil {
			// Do not leak whether the email address exists
			e := models.ErrUserWrongCredential.Error()
			c.JSON(http.StatusUnauthorized, AuthResponse{Error: &e})
			return
		}

		err = user.CheckPassword(editable.Password)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), AuthResponse{Error: &e})
			return
		}

		token, err := tokens.Generate(user.ID)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, AuthResponse{Error: &e})
			return
		}

		data := newUser(user)
		c.JSON(http.StatusOK, AuthResponse{Token: &token, Data: &data})
	}
}
