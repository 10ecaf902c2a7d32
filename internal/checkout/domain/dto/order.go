package dto

import "check-please/internal/split"

// OrderSubmission is the payload assembled once per checkout attempt and sent
// to the external order-creation API. It is never mutated after assembly; a
// failed attempt builds a fresh one on retry.
type OrderSubmission struct {
	BranchID     string              `json:"branch_id"`
	ServiceType  string              `json:"service_type"`
	TableNumber  int                 `json:"table_number,omitempty"`
	Items        []SubmissionItem    `json:"items"`
	Packages     []SubmissionPackage `json:"packages"`
	Obligations  []split.Obligation  `json:"split_bills,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
	DeviceID     string              `json:"device_id"`

	// BearerToken rides along for the Authorization header only.
	BearerToken string `json:"-"`
}

// SubmissionItem is a regular menu item in the shape the order API expects.
type SubmissionItem struct {
	ItemID    string   `json:"item_id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	VariantID string   `json:"variant_id,omitempty"`
	Modifiers []string `json:"modifier_ids,omitempty"`
}

// SubmissionPackage is a deal line with its bundled component selections.
type SubmissionPackage struct {
	PackageID  string                `json:"package_id"`
	Name       string                `json:"name"`
	Quantity   int                   `json:"quantity"`
	UnitPrice  float64               `json:"unit_price"`
	Components []SubmissionComponent `json:"components"`
}

type SubmissionComponent struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variant_id,omitempty"`
}

// OrderConfirmation is the success payload returned by the order API.
type OrderConfirmation struct {
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}
