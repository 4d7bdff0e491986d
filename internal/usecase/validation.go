package usecase

import (
	"fmt"
	"regexp"
	"strings"

	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
)

const minPasswordLength = 6

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// ValidEmail checks basic email shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone checks phone number shape.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", domainErrors.ErrValidation, msg)
}

// ValidateRegistration checks required fields and formats for account
// creation. Both self-registration and admin user creation run through
// here so no unvalidated write path exists.
func ValidateRegistration(input RegistrationInput) error {
	switch {
	case strings.TrimSpace(input.FirstName) == "":
		return validationError("first name is required")
	case strings.TrimSpace(input.LastName) == "":
		return validationError("last name is required")
	case strings.TrimSpace(input.Email) == "":
		return validationError("email is required")
	case input.Password == "":
		return validationError("password is required")
	case strings.TrimSpace(input.Phone) == "":
		return validationError("phone number is required")
	}

	if !ValidEmail(strings.TrimSpace(input.Email)) {
		return validationError("invalid email")
	}
	if len(input.Password) < minPasswordLength {
		return validationError("password must be at least 6 characters")
	}
	if !ValidPhone(strings.TrimSpace(input.Phone)) {
		return validationError("invalid phone number")
	}

	addr := input.Address
	switch {
	case strings.TrimSpace(addr.Street) == "":
		return validationError("street address is required")
	case strings.TrimSpace(addr.City) == "":
		return validationError("city is required")
	case strings.TrimSpace(addr.State) == "":
		return validationError("state is required")
	case strings.TrimSpace(addr.ZipCode) == "":
		return validationError("zip code is required")
	}

	if input.CustomerType != "" &&
		input.CustomerType != model.CustomerResidential &&
		input.CustomerType != model.CustomerCommercial {
		return validationError("invalid customer type")
	}

	return nil
}
