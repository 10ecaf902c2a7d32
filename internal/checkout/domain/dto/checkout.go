package dto

import (
	"check-please/internal/cart"
	"check-please/internal/checkout/domain/models"
	"check-please/internal/split"
)

// CheckoutRequest is the submit gesture from the web client: the cart as the
// client sees it, the chosen service type, and any split configuration.
type CheckoutRequest struct {
	SessionID    string            `json:"session_id"`
	ServiceType  string            `json:"service_type"`
	BranchID     string            `json:"branch_id"`
	Lines        []CartLineRequest `json:"lines"`
	Split        *SplitRequest     `json:"split,omitempty"`
	Instructions string            `json:"instructions,omitempty"`
	DeviceID     string            `json:"device_id,omitempty"`
}

// CartLineRequest carries one cart line over the wire. Kind discriminates
// between regular items and packages.
type CartLineRequest struct {
	Kind       string             `json:"kind"` // "item" or "package"
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	UnitPrice  float64            `json:"unit_price"`
	Quantity   int                `json:"quantity"`
	VariantID  string             `json:"variant_id,omitempty"`
	Modifiers  []ModifierRequest  `json:"modifiers,omitempty"`
	PackageID  string             `json:"package_id,omitempty"`
	Components []ComponentRequest `json:"components,omitempty"`
}

type ModifierRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ComponentRequest struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variant_id,omitempty"`
}

// SplitRequest is the split configuration from the client.
type SplitRequest struct {
	Mode            string            `json:"mode"` // "equal" or "by_item"
	PeopleCount     int               `json:"people_count,omitempty"`
	Numbers         []string          `json:"numbers,omitempty"`
	ItemAssignments map[string]string `json:"item_assignments,omitempty"`
}

// ToCart converts the wire lines into the session cart model.
func (r *CheckoutRequest) ToCart() *cart.Cart {
	c := cart.New()
	for _, l := range r.Lines {
		if l.Kind == "package" {
			components := make([]cart.Component, 0, len(l.Components))
			for _, cm := range l.Components {
				components = append(components, cart.Component{
					ItemID:    cm.ItemID,
					Name:      cm.Name,
					Quantity:  cm.Quantity,
					VariantID: cm.VariantID,
				})
			}
			c.Add(cart.PackageItem{
				ID:         l.ID,
				Name:       l.Name,
				UnitPrice:  l.UnitPrice,
				Quantity:   l.Quantity,
				PackageID:  l.PackageID,
				Components: components,
			})
			continue
		}
		modifiers := make([]cart.Modifier, 0, len(l.Modifiers))
		for _, m := range l.Modifiers {
			modifiers = append(modifiers, cart.Modifier{ID: m.ID, Name: m.Name})
		}
		c.Add(cart.RegularItem{
			ID:        l.ID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			VariantID: l.VariantID,
			Modifiers: modifiers,
		})
	}
	return c
}

// ToSelection converts the wire split configuration into the session model.
func (r *SplitRequest) ToSelection() *models.SplitSelection {
	if r == nil {
		return nil
	}
	sel := &models.SplitSelection{
		Mode:            split.Mode(r.Mode),
		PeopleCount:     r.PeopleCount,
		Numbers:         r.Numbers,
		ItemAssignments: r.ItemAssignments,
	}
	if sel.PeopleCount > 0 && len(sel.Numbers) > sel.PeopleCount {
		// stale numbers beyond the visible slots are dropped
		sel.Numbers = sel.Numbers[:sel.PeopleCount]
	}
	return sel
}

// CheckoutResponse reports the submission outcome to the client. ClearCart
// tells the client-side cart store to reset after a confirmed order.
type CheckoutResponse struct {
	Confirmation *OrderConfirmation `json:"confirmation,omitempty"`
	ClearCart    bool               `json:"clear_cart"`
}

// SplitPreviewResponse echoes allocation results without submitting.
type SplitPreviewResponse struct {
	Obligations     []split.Obligation `json:"obligations"`
	TotalMinorUnits int64              `json:"total_minor_units"`
	AmountFormatted string             `json:"amount_formatted"`
}

// ErrorResponse is the error payload for every failure path.
type ErrorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	LoginURL string `json:"login_url,omitempty"`
}
