package model

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to admin-gated endpoints.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// CustomerType distinguishes billing plans.
type CustomerType string

const (
	CustomerResidential CustomerType = "residential"
	CustomerCommercial  CustomerType = "commercial"
)

// Address is the service address attached to an account.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Preferences holds per-customer notification settings.
type Preferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	PaperlessBilling   bool `json:"paperlessBilling"`
}

// DefaultPreferences returns the settings assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{EmailNotifications: true}
}

// User represents a portal account. PasswordHash never leaves the
// service layer; DTO conversion strips it.
type User struct {
	ID            uuid.UUID
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string
	Phone         string
	Address       Address
	AccountNumber string
	MeterNumber   string
	CustomerType  CustomerType
	Role          Role
	IsActive      bool
	IsVerified    bool
	LastLogin     *time.Time
	Preferences   Preferences
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user role is in the provided set.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the only user fields mutable by the account
// owner. Role, email and credentials are deliberately absent.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Address     *Address
	Preferences *Preferences
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil &&
		p.Address == nil && p.Preferences == nil
}
