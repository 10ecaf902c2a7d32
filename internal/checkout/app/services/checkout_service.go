package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"check-please/internal/cart"
	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/domain/dto"
	"check-please/internal/checkout/domain/models"
	"check-please/internal/money"
	"check-please/internal/split"
	"check-please/internal/xpkg/logger"
	"check-please/internal/xpkg/metrics"
)

// CheckoutService runs the submission flow: validate, allocate, assemble one
// immutable OrderSubmission, invoke the order API exactly once. Per session
// the flow is single-flight; a second submit while one is running is
// rejected, not queued.
type CheckoutService struct {
	orderClient core.OrderCreator
	drafts      core.DraftStore
	mylog       logger.Logger

	mu     sync.Mutex
	states map[string]core.SubmissionState
}

func NewCheckoutService(orderClient core.OrderCreator, drafts core.DraftStore, mylog logger.Logger) *CheckoutService {
	return &CheckoutService{
		orderClient: orderClient,
		drafts:      drafts,
		mylog:       mylog,
		states:      make(map[string]core.SubmissionState),
	}
}

// State reports the session's current submission state. Sessions with no
// running submission read as idle; terminal outcomes reach the caller as the
// Submit return value instead of being held here.
func (cs *CheckoutService) State(sessionID string) core.SubmissionState {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if s, ok := cs.states[sessionID]; ok {
		return s
	}
	return core.StateIdle
}

// begin claims the single-flight slot for the session.
func (cs *CheckoutService) begin(sessionID string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.states[sessionID].InFlight() {
		return core.ErrSubmissionInFlight
	}
	cs.states[sessionID] = core.StateValidating
	return nil
}

// setState records an in-flight transition. A terminal state releases the
// session's entry entirely; only in-flight entries guard the single-flight
// slot, and retaining finished sessions would grow the map for every session
// ID the server ever sees.
func (cs *CheckoutService) setState(sessionID string, state core.SubmissionState) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if state.InFlight() {
		cs.states[sessionID] = state
		return
	}
	delete(cs.states, sessionID)
}

// Submit is the checkout gesture. Every failure path releases the
// single-flight slot so the user can retry with a fresh submission.
func (cs *CheckoutService) Submit(ctx context.Context, sess *models.Session) (*dto.OrderConfirmation, error) {
	mylog := cs.mylog.Action("order_submit").With("session_id", sess.ID)

	if err := cs.begin(sess.ID); err != nil {
		mylog.Warn("Rejected concurrent submit")
		return nil, err
	}

	if err := cs.ValidateSubmission(sess); err != nil {
		cs.setState(sess.ID, core.StateIdle)
		if errors.Is(err, core.ErrAuthRequired) {
			cs.preserveDraft(ctx, sess)
			metrics.SubmissionsTotal.WithLabelValues("auth_required").Inc()
			return nil, err
		}
		mylog.Warn("Validation failed", "reason", err.Error())
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	obligations, err := cs.allocate(sess)
	if err != nil {
		cs.setState(sess.ID, core.StateIdle)
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	sub := buildSubmission(sess, obligations)

	cs.setState(sess.ID, core.StateSubmitting)
	mylog.Info("Submitting order",
		"branch_id", sub.BranchID,
		"service_type", sub.ServiceType,
		"items", len(sub.Items),
		"packages", len(sub.Packages),
		"obligations", len(sub.Obligations),
	)

	confirmation, err := cs.orderClient.Create(ctx, sub)
	if err != nil {
		// Failed is terminal for this attempt only; the next gesture builds
		// a fresh OrderSubmission.
		cs.setState(sess.ID, core.StateFailed)
		var apiErr *core.APIError
		if errors.As(err, &apiErr) {
			mylog.Warn("Order rejected by backend", "message", apiErr.Message, "status", apiErr.Status)
			metrics.SubmissionsTotal.WithLabelValues("api_error").Inc()
			return nil, err
		}
		mylog.Error("Order submission failed", err)
		metrics.SubmissionsTotal.WithLabelValues("transport_error").Inc()
		return nil, err
	}

	cs.setState(sess.ID, core.StateSucceeded)
	sess.Cart.Clear()
	if sess.Split.Requested() {
		if derr := cs.drafts.Delete(ctx, sess.ID); derr != nil {
			mylog.Warn("Failed to drop split draft", "reason", derr.Error())
		}
	}

	metrics.SubmissionsTotal.WithLabelValues("succeeded").Inc()
	mylog.Info("Order confirmed", "order_number", confirmation.OrderNumber, "total_amount", confirmation.TotalAmount)
	return &confirmation, nil
}

// PreviewSplit validates the split input and returns the obligations it
// would produce, without touching the order API.
func (cs *CheckoutService) PreviewSplit(sess *models.Session) ([]split.Obligation, error) {
	if !sess.Split.Requested() {
		return nil, core.NewValidationError("split_mode", "no split configured")
	}
	if sess.Cart == nil || sess.Cart.Empty() {
		return nil, core.NewValidationError("cart", core.ErrEmptyCart.Error())
	}
	if !sess.Auth.Authenticated() {
		return nil, core.ErrAuthRequired
	}
	if err := cs.validateSplit(sess); err != nil {
		return nil, err
	}
	return cs.allocate(sess)
}

// RestoreDraft loads split selections preserved before a login detour.
func (cs *CheckoutService) RestoreDraft(ctx context.Context, sessionID string) (*models.SplitSelection, error) {
	sel, err := cs.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load split draft: %w", err)
	}
	return sel, nil
}

func (cs *CheckoutService) preserveDraft(ctx context.Context, sess *models.Session) {
	if !sess.Split.Requested() {
		return
	}
	if err := cs.drafts.Save(ctx, sess.ID, *sess.Split); err != nil {
		// The detour still happens; losing the draft is the lesser failure.
		cs.mylog.Action("draft_save_failed").Error("Failed to preserve split draft", err, "session_id", sess.ID)
		return
	}
	cs.mylog.Action("draft_saved").Debug("Preserved split draft for login detour", "session_id", sess.ID)
}

func (cs *CheckoutService) allocate(sess *models.Session) ([]split.Obligation, error) {
	if !sess.Split.Requested() {
		return nil, nil
	}

	var obligations []split.Obligation
	switch sess.Split.Mode {
	case split.Equal:
		obligations = split.AllocateEqual(sess.Cart.Lines(), sess.Split.PeopleCount, sess.Split.Numbers)
	case split.ByItem:
		obligations = split.AllocateByItem(sess.Cart.Lines(), sess.Split.ItemAssignments)
	}

	// Only reachable when validation was bypassed, still no submit.
	if len(obligations) == 0 {
		return nil, core.NewValidationError("split", "no valid split assignments")
	}

	metrics.SplitAllocationsTotal.WithLabelValues(string(sess.Split.Mode)).Inc()
	cs.mylog.Action("split_allocated").Debug("Produced split obligations",
		"session_id", sess.ID,
		"mode", string(sess.Split.Mode),
		"count", len(obligations),
		"total", money.Format(split.Total(obligations)),
	)
	return obligations, nil
}

// buildSubmission assembles the one-shot order payload: regular items and
// packages in their own groups, each in the shape the order API expects.
func buildSubmission(sess *models.Session, obligations []split.Obligation) dto.OrderSubmission {
	var items []dto.SubmissionItem
	var packages []dto.SubmissionPackage

	for _, line := range sess.Cart.Lines() {
		switch l := line.(type) {
		case cart.RegularItem:
			modifiers := make([]string, 0, len(l.Modifiers))
			for _, m := range l.Modifiers {
				modifiers = append(modifiers, m.ID)
			}
			items = append(items, dto.SubmissionItem{
				ItemID:    l.ID,
				Name:      l.Name,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				VariantID: l.VariantID,
				Modifiers: modifiers,
			})
		case cart.PackageItem:
			components := make([]dto.SubmissionComponent, 0, len(l.Components))
			for _, c := range l.Components {
				components = append(components, dto.SubmissionComponent{
					ItemID:    c.ItemID,
					Name:      c.Name,
					Quantity:  c.Quantity,
					VariantID: c.VariantID,
				})
			}
			packages = append(packages, dto.SubmissionPackage{
				PackageID:  l.PackageID,
				Name:       l.Name,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				Components: components,
			})
		}
	}

	deviceID := sess.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	tableNumber := 0
	if sess.Service == models.ServiceDineIn {
		tableNumber = sess.TableNumber
	}

	return dto.OrderSubmission{
		BranchID:     sess.BranchID,
		ServiceType:  string(sess.Service),
		TableNumber:  tableNumber,
		Items:        items,
		Packages:     packages,
		Obligations:  obligations,
		Instructions: sess.Instructions,
		DeviceID:     deviceID,
		BearerToken:  sess.Auth.BearerToken(),
	}
}
