package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCampaignNotFound is returned when a campaign does not exist or was deleted
type ErrCampaignNotFound struct {
	ID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign not found with ID: %s", e.ID)
}

type ErrRevisionNotFound struct {
	CampaignID string
	ID         string
}

func (e *ErrRevisionNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("campaign %s has no saved revision", e.CampaignID)
	}
	return fmt.Sprintf("revision not found with ID: %s", e.ID)
}

type ErrAssetNotFound struct {
	ID string
}

func (e *ErrAssetNotFound) Error() string {
	return fmt.Sprintf("asset not found with ID: %s", e.ID)
}

// ErrAssetUpload reports a failed upload. The caller never gets a partial URL
// alongside it.
type ErrAssetUpload struct {
	Filename string
	Err      error
}

func (e *ErrAssetUpload) Error() string {
	return fmt.Sprintf("failed to upload asset %q: %v", e.Filename, e.Err)
}

func (e *ErrAssetUpload) Unwrap() error {
	return e.Err
}

// ErrUnsafeHTML is returned when exported HTML fails the spam-free check
type ErrUnsafeHTML struct {
	Reasons []string
}

func (e *ErrUnsafeHTML) Error() string {
	return "exported html failed validation: " + strings.Join(e.Reasons, "; ")
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{Message: message}
}

// IsNotFound reports whether err is one of the not-found errors
func IsNotFound(err error) bool {
	var (
		campaign *ErrCampaignNotFound
		revision *ErrRevisionNotFound
		asset    *ErrAssetNotFound
	)
	return errors.As(err, &campaign) || errors.As(err, &revision) || errors.As(err, &asset)
}

// IsValidation reports whether err should be answered with a 400
func IsValidation(err error) bool {
	var (
		v      ValidationError
		unsafe *ErrUnsafeHTML
	)
	return errors.As(err, &v) || errors.As(err, &unsafe)
}
