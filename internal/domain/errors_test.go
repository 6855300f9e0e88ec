package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundErrors_Error(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{&ErrCampaignNotFound{ID: "c1"}, "campaign not found with ID: c1"},
		{&ErrRevisionNotFound{ID: "r1"}, "revision not found with ID: r1"},
		{&ErrRevisionNotFound{CampaignID: "c1"}, "campaign c1 has no saved revision"},
		{&ErrAssetNotFound{ID: "a1"}, "asset not found with ID: a1"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("Expected error message '%s', got '%s'", tt.expected, tt.err.Error())
		}
		if !IsNotFound(tt.err) {
			t.Errorf("Expected %T to be a not found error", tt.err)
		}
		if !IsNotFound(fmt.Errorf("wrapped: %w", tt.err)) {
			t.Errorf("Expected wrapped %T to be a not found error", tt.err)
		}
	}

	if IsNotFound(errors.New("boom")) {
		t.Error("Expected plain error not to be a not found error")
	}
}

func TestErrAssetUpload(t *testing.T) {
	cause := errors.New("access denied")
	err := &ErrAssetUpload{Filename: "hero.png", Err: cause}

	expected := `failed to upload asset "hero.png": access denied`
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected ErrAssetUpload to unwrap to its cause")
	}
	if IsValidation(err) || IsNotFound(err) {
		t.Error("Expected ErrAssetUpload to be neither validation nor not found")
	}
}

func TestValidationErrors(t *testing.T) {
	err := NewValidationError("name is required")
	if err.Error() != "validation error: name is required" {
		t.Errorf("Unexpected message '%s'", err.Error())
	}
	if !IsValidation(err) {
		t.Error("Expected ValidationError to be a validation error")
	}

	unsafe := &ErrUnsafeHTML{Reasons: []string{"script element", "inline handler"}}
	if unsafe.Error() != "exported html failed validation: script element; inline handler" {
		t.Errorf("Unexpected message '%s'", unsafe.Error())
	}
	if !IsValidation(fmt.Errorf("save: %w", unsafe)) {
		t.Error("Expected wrapped ErrUnsafeHTML to be a validation error")
	}
}

func TestUserIDContext(t *testing.T) {
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("Expected empty user id, got '%s'", got)
	}
	ctx := ContextWithUserID(context.Background(), "u1")
	if got := UserIDFromContext(ctx); got != "u1" {
		t.Errorf("Expected 'u1', got '%s'", got)
	}
}
