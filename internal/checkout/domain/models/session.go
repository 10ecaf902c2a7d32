// Package models holds the checkout session state. The session is an
// explicit object passed to the validator and orchestrator; there is no
// ambient global cart or auth store. It is constructed at session start and
// torn down on logout or cart clear.
package models

import (
	"check-please/internal/auth"
	"check-please/internal/cart"
	"check-please/internal/split"
)

// ServiceType is the fulfilment channel for an order.
type ServiceType string

const (
	ServiceDelivery ServiceType = "delivery"
	ServiceTakeaway ServiceType = "takeaway"
	ServiceDineIn   ServiceType = "dine_in"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceDelivery, ServiceTakeaway, ServiceDineIn:
		return true
	}
	return false
}

// SplitSelection is the user's in-progress split configuration. Numbers are
// slot-indexed for equal mode; ItemAssignments maps cart line IDs to mobile
// numbers for by-item mode.
type SplitSelection struct {
	Mode            split.Mode        `json:"mode"`
	PeopleCount     int               `json:"people_count"`
	Numbers         []string          `json:"numbers"`
	ItemAssignments map[string]string `json:"item_assignments"`
}

// Requested reports whether the user asked for split billing at all.
func (s *SplitSelection) Requested() bool {
	return s != nil && s.Mode != ""
}

// SetMode switches split modes. Modes are mutually exclusive, so the other
// mode's partial data is dropped.
func (s *SplitSelection) SetMode(mode split.Mode) {
	if s.Mode == mode {
		return
	}
	s.Mode = mode
	switch mode {
	case split.Equal:
		s.ItemAssignments = nil
	case split.ByItem:
		s.Numbers = nil
		s.PeopleCount = 0
	}
}

// SetPeopleCount resizes the participant slots. Numbers entered beyond the
// new count are discarded rather than retained; a slot that is not on screen
// cannot hold a number the user can see or fix.
func (s *SplitSelection) SetPeopleCount(count int) {
	if count < 0 {
		count = 0
	}
	s.PeopleCount = count
	if len(s.Numbers) > count {
		s.Numbers = s.Numbers[:count]
	}
}

// Session is the application-state context for one checkout session.
type Session struct {
	ID           string
	Cart         *cart.Cart
	Auth         *auth.Session
	BranchID     string
	Service      ServiceType
	TableNumber  int // resolved from route context for dine-in, 0 otherwise
	Split        *SplitSelection
	Instructions string
	DeviceID     string
}
