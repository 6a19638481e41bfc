package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip is a planned journey shared by a group of members.
//
// A trip is the highest level of organization, the budget and all
// expenses reference it directly or transitively.
type Trip struct {
	DefaultModel
	Name        string
	Description string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	OrganizerID uuid.UUID
	Organizer   User `json:"-"`
}

// MemberRole determines what a trip member is allowed to do.
type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
	RoleViewer MemberRole = "viewer"
)

// TripMember is the membership of a user on a trip. It is the roster
// entry used for authorization and for the equal-split default.
type TripMember struct {
	DefaultModel
	TripID   uuid.UUID  `gorm:"uniqueIndex:trip_member_trip_user"`
	Trip     Trip       `json:"-"`
	UserID   uuid.UUID  `gorm:"uniqueIndex:trip_member_trip_user"`
	User     User       `json:"-"`
	Role     MemberRole `gorm:"default:member"`
	JoinedAt time.Time
}

var (
	ErrTripNameEmpty       = errors.New("the trip name must not be empty")
	ErrTripMemberNotUnique = errors.New("this user is already a member of the trip")
	ErrTripMemberRole      = errors.New("the member role must be one of admin, member or viewer")
	ErrTripDatesInvalid    = errors.New("the trip end date must not be before the start date")
)

func (r MemberRole) valid() bool {
	return r == RoleAdmin || r == RoleMember || r == RoleViewer
}

// BeforeSave trims whitespace and verifies the dates.
func (t *Trip) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.Destination = strings.TrimSpace(t.Destination)

	if t.Name == "" {
		return ErrTripNameEmpty
	}

	if !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		return ErrTripDatesInvalid
	}

	return nil
}

// AfterCreate sets up everything a new trip needs: the organizer joins
// as admin and the budget is created with the organizer as its sole
// participant. Exactly one budget exists per trip for its lifetime.
func (t *Trip) AfterCreate(tx *gorm.DB) error {
	member := TripMember{
		TripID:   t.ID,
		UserID:   t.OrganizerID,
		Role:     RoleAdmin,
		JoinedAt: time.Now().In(time.UTC),
	}
	err := tx.Create(&member).Error
	if err != nil {
		return err
	}

	budget := Budget{
		TripID:      t.ID,
		Currency:    "USD",
		SplitMethod: SplitEqual,
	}
	return tx.Create(&budget).Error
}

func (m *TripMember) BeforeSave(_ *gorm.DB) error {
	if m.Role == "" {
		m.Role = RoleMember
	}

	if !m.Role.valid() {
		return ErrTripMemberRole
	}

	return nil
}

func (m *TripMember) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().In(time.UTC)
	}

	// The trip has to exist
	return tx.First(&Trip{}, m.TripID).Error
}

// Members returns the roster for the trip, in join order.
func (t Trip) Members(db *gorm.DB) ([]TripMember, error) {
	var members []TripMember
	err := db.Where(&TripMember{TripID: t.ID}).Order("joined_at ASC").Find(&members).Error
	return members, err
}

// IsMember reports whether the user is on the trip roster.
func (t Trip) IsMember(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&TripMember{}).Where(&TripMember{TripID: t.ID, UserID: userID}).Count(&count).Error
	return count > 0, err
}

// IsAdmin reports whether the user administrates the trip. The
// organizer always does.
func (t Trip) IsAdmin(db *gorm.DB, userID uuid.UUID) (bool, error) {
	if t.OrganizerID == userID {
		return true, nil
	}

	var count int64
	err := db.Model(&TripMember{}).Where(&TripMember{TripID: t.ID, UserID: userID, Role: RoleAdmin}).Count(&count).Error
	return count > 0, err
}

// Budget returns the budget for the trip.
func (t Trip) Budget(db *gorm.DB) (Budget, error) {
	var budget Budget
	err := db.Where(&Budget{TripID: t.ID}).First(&budget).Error
	return budget, err
}
