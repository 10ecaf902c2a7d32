package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"check-please/internal/auth"
	"check-please/internal/cart"
	"check-please/internal/checkout/adapter/draftstore"
	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/domain/models"
	"check-please/internal/split"
	"check-please/internal/xpkg/logger"
)

var testVerifier = auth.NewVerifier("test-secret")

func authedSession(t *testing.T) *auth.Session {
	t.Helper()
	token, err := testVerifier.Generate("user-1", "1234567890", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return testVerifier.SessionFromToken(token)
}

func testCart(lines ...cart.Line) *cart.Cart {
	return cart.New(lines...)
}

func baseSession(t *testing.T) *models.Session {
	t.Helper()
	return &models.Session{
		ID:       "sess-1",
		Cart:     testCart(cart.RegularItem{ID: "pizza", Name: "Pizza", UnitPrice: 500.00, Quantity: 2}),
		Auth:     authedSession(t),
		BranchID: "branch-1",
		Service:  models.ServiceTakeaway,
	}
}

func newTestService() *CheckoutService {
	return NewCheckoutService(&fakeOrderClient{}, draftstore.NewMemory(time.Minute), logger.Nop())
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(t *testing.T, sess *models.Session)
		wantField string
		wantAuth  bool
	}{
		{
			name:   "valid takeaway without split",
			mutate: func(t *testing.T, sess *models.Session) {},
		},
		{
			name: "unknown service type",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Service = "drive_through"
			},
			wantField: "service_type",
		},
		{
			name: "missing branch",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.BranchID = ""
			},
			wantField: "branch_id",
		},
		{
			name: "empty cart",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Cart.Clear()
			},
			wantField: "cart",
		},
		{
			name: "dine-in without table",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Service = models.ServiceDineIn
				sess.TableNumber = 0
			},
			wantField: "table_number",
		},
		{
			name: "dine-in with table",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Service = models.ServiceDineIn
				sess.TableNumber = 12
			},
		},
		{
			name: "guest requesting split",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Auth = auth.Guest()
				sess.Split = &models.SplitSelection{
					Mode:        split.Equal,
					PeopleCount: 2,
					Numbers:     []string{"1234567890", "2345678901"},
				}
			},
			wantAuth: true,
		},
		{
			name: "equal split complete",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Split = &models.SplitSelection{
					Mode:        split.Equal,
					PeopleCount: 2,
					Numbers:     []string{"1234567890", "2345678901"},
				}
			},
		},
		{
			name: "equal split missing second number",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Split = &models.SplitSelection{
					Mode:        split.Equal,
					PeopleCount: 2,
					Numbers:     []string{"1234567890"},
				}
			},
			wantField: "participant 2",
		},
		{
			name: "equal split short number names the slot",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Split = &models.SplitSelection{
					Mode:        split.Equal,
					PeopleCount: 3,
					Numbers:     []string{"1234567890", "12345", "2345678901"},
				}
			},
			wantField: "participant 2",
		},
		{
			name: "equal split with zero participants",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Split = &models.SplitSelection{Mode: split.Equal}
			},
			wantField: "people_count",
		},
		{
			name: "by-item split fully assigned",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Split = &models.SplitSelection{
					Mode:            split.ByItem,
					ItemAssignments: map[string]string{"pizza": "1234567890"},
				}
			},
		},
		{
			name: "by-item split unassigned item names the item",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Cart.Add(cart.RegularItem{ID: "salad", Name: "Salad", UnitPrice: 150.00, Quantity: 1})
				sess.Split = &models.SplitSelection{
					Mode:            split.ByItem,
					ItemAssignments: map[string]string{"pizza": "1234567890"},
				}
			},
			wantField: "Salad",
		},
		{
			name: "by-item split rejects 11-digit number",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Split = &models.SplitSelection{
					Mode:            split.ByItem,
					ItemAssignments: map[string]string{"pizza": "12345678901"},
				}
			},
			wantField: "Pizza",
		},
		{
			name: "unknown split mode",
			mutate: func(t *testing.T, sess *models.Session) {
				sess.Split = &models.SplitSelection{Mode: "proportional"}
			},
			wantField: "split_mode",
		},
	}

	cs := newTestService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := baseSession(t)
			tt.mutate(t, sess)

			err := cs.ValidateSubmission(sess)

			if tt.wantAuth {
				if !errors.Is(err, core.ErrAuthRequired) {
					t.Fatalf("err = %v, want ErrAuthRequired", err)
				}
				return
			}

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var validationErr *core.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("err = %v, want *core.ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", validationErr.Field, tt.wantField)
			}
			if validationErr.Message == "" {
				t.Error("validation error has no user-facing message")
			}
		})
	}
}

// Every mobile number that does not sanitize to exactly ten digits must be
// rejected, in both modes.
func TestValidateSubmissionMobileLength(t *testing.T) {
	cs := newTestService()
	bad := []string{"", "123", "123456789", "12345678901", "abcdefghij", "12345-678"}

	for _, number := range bad {
		sess := baseSession(t)
		sess.Split = &models.SplitSelection{
			Mode:        split.Equal,
			PeopleCount: 1,
			Numbers:     []string{number},
		}
		var validationErr *core.ValidationError
		if err := cs.ValidateSubmission(sess); !errors.As(err, &validationErr) {
			t.Errorf("equal mode accepted bad number %q", number)
		}

		sess = baseSession(t)
		sess.Split = &models.SplitSelection{
			Mode:            split.ByItem,
			ItemAssignments: map[string]string{"pizza": number},
		}
		if err := cs.ValidateSubmission(sess); !errors.As(err, &validationErr) {
			t.Errorf("by-item mode accepted bad number %q", number)
		}
	}
}

func TestValidationErrorMessageNamesOffender(t *testing.T) {
	cs := newTestService()

	sess := baseSession(t)
	sess.Split = &models.SplitSelection{Mode: split.Equal, PeopleCount: 2, Numbers: []string{"1234567890"}}

	err := cs.ValidateSubmission(sess)
	if err == nil || !strings.Contains(err.Error(), "participant 2") {
		t.Errorf("error %v does not name the offending participant", err)
	}
}
