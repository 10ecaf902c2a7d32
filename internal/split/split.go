// Package split turns a cart and a split mode into per-person payment
// obligations. Allocation is deterministic and side-effect free; completeness
// of the input is the validator's job, so lines or participants without a
// valid mobile number are simply skipped here.
package split

import (
	"fmt"
	"strings"

	"check-please/internal/cart"
	"check-please/internal/money"
)

// Mode selects how the bill is divided. Modes are mutually exclusive;
// switching modes invalidates any per-item assignments already made.
type Mode string

const (
	Equal  Mode = "equal"
	ByItem Mode = "by_item"
)

const (
	// EqualShareLabel is the fixed label on equal-share obligations.
	EqualShareLabel = "Split Bill (Equal Share)"

	MobileDigits = 10
)

// Obligation is one participant's or one item's share of the bill, collected
// independently. Immutable once produced; consumed exactly once by order
// submission.
type Obligation struct {
	Mode             Mode   `json:"split_type"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	MobileNumber     string `json:"mobile_number"`
	Label            string `json:"label"`
}

// SanitizeMobile strips every non-digit rune. The UI filters numbers as
// typed, but sanitizing again here keeps the allocator and validator honest
// about what they compare.
func SanitizeMobile(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidMobile reports whether s sanitizes to exactly ten digits.
func ValidMobile(s string) bool {
	return len(SanitizeMobile(s)) == MobileDigits
}

// AllocateEqual divides the cart total evenly across participantCount. One
// obligation is emitted per participant slot that carries a valid mobile
// number, each for ToMinorUnits(total/participantCount). The divisor is the
// participant count, not the number of valid slots, so a missing or invalid
// number never inflates the remaining shares. Participants are emitted in
// slot order; numbers beyond the count are ignored.
func AllocateEqual(lines []cart.Line, participantCount int, numbers []string) []Obligation {
	if participantCount < 1 {
		return nil
	}

	total := 0.0
	for _, l := range lines {
		total += l.LineUnitPrice() * float64(l.LineQuantity())
	}
	perPerson := total / float64(participantCount)

	var obligations []Obligation
	for i := 0; i < participantCount; i++ {
		number := ""
		if i < len(numbers) {
			number = SanitizeMobile(numbers[i])
		}
		if len(number) != MobileDigits {
			continue
		}
		obligations = append(obligations, Obligation{
			Mode:             Equal,
			AmountMinorUnits: money.ToMinorUnits(perPerson),
			MobileNumber:     number,
			Label:            EqualShareLabel,
		})
	}
	return obligations
}

// AllocateByItem emits one obligation per assigned cart line, in cart order.
// Lines without an assignment are omitted; the validator rejects that state
// before submission is allowed.
func AllocateByItem(lines []cart.Line, assignments map[string]string) []Obligation {
	var obligations []Obligation
	for _, l := range lines {
		number := SanitizeMobile(assignments[l.LineID()])
		if len(number) != MobileDigits {
			continue
		}
		obligations = append(obligations, Obligation{
			Mode:             ByItem,
			AmountMinorUnits: money.ToMinorUnits(l.LineUnitPrice() * float64(l.LineQuantity())),
			MobileNumber:     number,
			Label:            fmt.Sprintf("%s (x%d)", l.LineName(), l.LineQuantity()),
		})
	}
	return obligations
}

// Total sums obligation amounts in minor units.
func Total(obligations []Obligation) int64 {
	var sum int64
	for _, o := range obligations {
		sum += o.AmountMinorUnits
	}
	return sum
}
