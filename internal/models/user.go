package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents a registered user of the trip planner.
type User struct {
	DefaultModel
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
}

var (
	ErrUserEmailNotUnique  = errors.New("a user with this email address already exists")
	ErrUserNameEmpty       = errors.New("the user name must not be empty")
	ErrUserEmailEmpty      = errors.New("the email address must not be empty")
	ErrUserWrongCredential = errors.New("the email address or password is incorrect")
)

// BeforeSave trims whitespace and normalizes the email address.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.Name == "" {
		return ErrUserNameEmpty
	}

	if u.Email == "" {
		return ErrUserEmailEmpty
	}

	return nil
}

// SetPassword hashes the cleartext password and stores the hash.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the cleartext password against the stored hash.
func (u User) CheckPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		return ErrUserWrongCredential
	}

	return nil
}
