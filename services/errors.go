package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidSelection   = errors.New("select at least one service")
	ErrUnknownService     = errors.New("unknown or inactive service")
	ErrUnknownCombo       = errors.New("unknown combo")
	ErrComboWithDiscount  = errors.New("a combo cannot be combined with the custom bundle discount")
	ErrNoAdHocDiscount    = errors.New("custom bundle discount is not available for this selection")
	ErrClosedDate         = errors.New("the shop is closed on this date")
	ErrInvalidSlot        = errors.New("invalid time slot")
	ErrSlotTaken          = errors.New("time slot already booked")
	ErrUserBanned         = errors.New("account is banned")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidTransition  = errors.New("appointment is not in a state that allows this change")
	ErrProtectedUser      = errors.New("admin accounts cannot be moderated")
	ErrInvalidBanReason   = errors.New("invalid ban reason")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must have at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidBirthDate   = errors.New("invalid birth date")
	ErrNothingOwed        = errors.New("client has no outstanding balance")
	ErrInvalidStatus      = errors.New("invalid appointment status")
	ErrInvalidService     = errors.New("service needs a slug, a name and a non-negative price")
	ErrSlugTaken          = errors.New("service slug already in use")
)
