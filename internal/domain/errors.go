package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordMismatch   = errors.New("password confirmation mismatch")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Car errors
var (
	ErrCarNotFound         = errors.New("car not found")
	ErrCarAlreadyExists    = errors.New("car already exists")
	ErrInvalidRegistration = errors.New("invalid registration number")
	ErrInvalidCarData      = errors.New("invalid car data")
	ErrCarNotActive        = errors.New("car is not active")
)

// PricingPlan errors
var (
	ErrPricingPlanNotFound = errors.New("pricing plan not found")
	ErrInvalidPricingData  = errors.New("invalid pricing data")
)

// Booking errors
var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrInvalidBookingData      = errors.New("invalid booking data")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrNotCarOwner             = errors.New("caller is not the car owner")
)

// KYC errors
var (
	ErrKYCNotFound    = errors.New("kyc record not found")
	ErrKYCNotApproved = errors.New("kyc is not approved")
	ErrInvalidKYCData = errors.New("invalid kyc data")
)

// Payment errors
var (
	ErrPaymentDeclined = errors.New("payment declined")
	ErrPaymentFailed   = errors.New("payment failed")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
