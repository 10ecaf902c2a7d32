package services

import (
	"fmt"

	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/domain/models"
	"check-please/internal/split"
)

// ValidateSubmission gates the submit gesture. Every failure is a user-facing
// message; nothing is swallowed and no network call happens on failure.
func (cs *CheckoutService) ValidateSubmission(sess *models.Session) error {
	cs.mylog.Action("validation_started").Debug("Validating checkout request", "session_id", sess.ID)

	if err := cs.validateService(sess); err != nil {
		return err
	}

	if sess.Cart == nil || sess.Cart.Empty() {
		return core.NewValidationError("cart", core.ErrEmptyCart.Error())
	}

	if sess.Split.Requested() {
		// Split billing is for known customers only. A guest gets redirected
		// to login, not a silent failure, and keeps their selections.
		if !sess.Auth.Authenticated() {
			return core.ErrAuthRequired
		}
		if err := cs.validateSplit(sess); err != nil {
			return err
		}
	}

	cs.mylog.Action("validation_completed").Debug("Checkout request validated", "session_id", sess.ID)
	return nil
}

func (cs *CheckoutService) validateService(sess *models.Session) error {
	if !sess.Service.Valid() {
		return core.NewValidationError("service_type", fmt.Sprintf("unknown service type: %s", sess.Service))
	}
	if sess.BranchID == "" {
		return core.NewValidationError("branch_id", "branch is required")
	}
	if sess.Service == models.ServiceDineIn && sess.TableNumber <= 0 {
		return core.NewValidationError("table_number", "table could not be resolved for a dine-in order")
	}
	return nil
}

func (cs *CheckoutService) validateSplit(sess *models.Session) error {
	sel := sess.Split

	switch sel.Mode {
	case split.Equal:
		return validateEqualSplit(sel)
	case split.ByItem:
		return validateByItemSplit(sess)
	default:
		return core.NewValidationError("split_mode", fmt.Sprintf("unknown split mode: %s", sel.Mode))
	}
}

func validateEqualSplit(sel *models.SplitSelection) error {
	if sel.PeopleCount < 1 {
		return core.NewValidationError("people_count", "at least one participant is required")
	}

	// Every visible participant slot needs a ten-digit number.
	for i := 0; i < sel.PeopleCount; i++ {
		number := ""
		if i < len(sel.Numbers) {
			number = split.SanitizeMobile(sel.Numbers[i])
		}
		if len(number) != split.MobileDigits {
			return core.NewValidationError(
				fmt.Sprintf("participant %d", i+1),
				"mobile number must be exactly 10 digits",
			)
		}
	}
	return nil
}

func validateByItemSplit(sess *models.Session) error {
	for _, line := range sess.Cart.Lines() {
		number := split.SanitizeMobile(sess.Split.ItemAssignments[line.LineID()])
		if len(number) != split.MobileDigits {
			return core.NewValidationError(
				line.LineName(),
				"item must be assigned a 10-digit mobile number",
			)
		}
	}
	return nil
}
