package core

import (
	"context"

	"check-please/internal/checkout/domain/dto"
	"check-please/internal/checkout/domain/models"
)

// CheckoutParams are the CLI-tunable settings for the checkout service.
type CheckoutParams struct {
	Port int
}

const WaitTime = 30 // seconds, request and shutdown timeout

// SubmissionState tracks one session's position in the submission flow.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// InFlight reports whether a submission gesture is currently running.
func (s SubmissionState) InFlight() bool {
	return s == StateValidating || s == StateSubmitting
}

// OrderCreator is the external order-creation collaborator.
type OrderCreator interface {
	Create(ctx context.Context, sub dto.OrderSubmission) (dto.OrderConfirmation, error)
}

// DraftStore preserves in-progress split selections across the login detour.
type DraftStore interface {
	Save(ctx context.Context, sessionID string, sel models.SplitSelection) error
	Load(ctx context.Context, sessionID string) (*models.SplitSelection, error)
	Delete(ctx context.Context, sessionID string) error
}
