package dto

import (
	"time"

	"github.com/gridbill/gridbill/internal/domain/model"
)

// AddressPayload mirrors model.Address on the wire.
type AddressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// PreferencesPayload mirrors model.Preferences on the wire.
type PreferencesPayload struct {
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	PaperlessBilling   bool `json:"paperlessBilling"`
}

// UserResponse is the account representation returned by the API.
// The password hash never appears here.
type UserResponse struct {
	ID            string             `json:"id"`
	FirstName     string             `json:"firstName"`
	LastName      string             `json:"lastName"`
	FullName      string             `json:"fullName"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	Address       AddressPayload     `json:"address"`
	AccountNumber string             `json:"accountNumber"`
	MeterNumber   string             `json:"meterNumber"`
	CustomerType  string             `json:"customerType"`
	Role          string             `json:"role"`
	IsActive      bool               `json:"isActive"`
	IsVerified    bool               `json:"isVerified"`
	LastLogin     *time.Time         `json:"lastLogin,omitempty"`
	Preferences   PreferencesPayload `json:"preferences"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NewUserResponse converts a domain user into its API representation.
func NewUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID.String(),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Email:         u.Email,
		Phone:         u.Phone,
		Address:       AddressPayload(u.Address),
		AccountNumber: u.AccountNumber,
		MeterNumber:   u.MeterNumber,
		CustomerType:  string(u.CustomerType),
		Role:          string(u.Role),
		IsActive:      u.IsActive,
		IsVerified:    u.IsVerified,
		LastLogin:     u.LastLogin,
		Preferences:   PreferencesPayload(u.Preferences),
		CreatedAt:     u.CreatedAt,
	}
}

// ProfileUpdateRequest carries owner-mutable profile fields. Absent
// fields are left untouched; anything else in the payload is ignored.
type ProfileUpdateRequest struct {
	FirstName   *string             `json:"firstName"`
	LastName    *string             `json:"lastName"`
	Phone       *string             `json:"phone"`
	Address     *AddressPayload     `json:"address"`
	Preferences *PreferencesPayload `json:"preferences"`
}

// ToProfileUpdate converts the request into the domain update set.
func (r ProfileUpdateRequest) ToProfileUpdate() model.ProfileUpdate {
	update := model.ProfileUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
	if r.Address != nil {
		addr := model.Address(*r.Address)
		update.Address = &addr
	}
	if r.Preferences != nil {
		prefs := model.Preferences(*r.Preferences)
		update.Preferences = &prefs
	}
	return update
}

// CreateUserRequest is the admin account provisioning payload.
type CreateUserRequest struct {
	RegisterRequest
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// Pagination describes a page of an admin listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// UserListResponse is a page of users for the admin console.
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}
