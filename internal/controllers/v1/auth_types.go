package v1

import (
	"github.com/tripmate-app/backend/internal/models"
)

type RegisterEditable struct {
	Name     string `json:"name" binding:"required" example:"Alice"`                           // Display name of the user
	Email    string `json:"email" binding:"required" example:"alice@example.com"`              // Email address, unique
	Password string `json:"password" binding:"required,min=8" example:"correct-horse-battery"` // Cleartext password, stored as bcrypt hash
}

type LoginEditable struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse-battery"`
}

// UserData is the representation of a user in API v1.
type UserData struct {
	models.DefaultModel
	Name  string `json:"name" example:"Alice"`
	Email string `json:"email" example:"alice@example.com"`
}

func newUser(model models.User) UserData {
	return UserData{
		DefaultModel: model.DefaultModel,
		Name:         model.Name,
		Email:        model.Email,
	}
}

type AuthResponse struct {
	Error *string   `json:"error" example:"the email address or password is incorrect"` // The error, if any occurred
	Token *string   `json:"token"`                                                      // Bearer token for subsequent requests
	Data  *UserData `json:"data"`                                                       // The user
}
