// Package cart holds the session-scoped cart model. Lines are a tagged
// variant: a regular menu item or a package (deal), discriminated by type
// rather than by field presence.
package cart

// Line is one entry in the cart. Implemented by RegularItem and PackageItem.
type Line interface {
	LineID() string
	LineName() string
	LineUnitPrice() float64
	LineQuantity() int
}

// Modifier is a sub-selection on a regular item (extra cheese, no onion).
type Modifier struct {
	ID   string
	Name string
}

// RegularItem is a plain menu item with optional variant and modifiers.
type RegularItem struct {
	ID        string
	Name      string
	UnitPrice float64
	Quantity  int
	VariantID string
	Modifiers []Modifier
}

func (r RegularItem) LineID() string         { return r.ID }
func (r RegularItem) LineName() string       { return r.Name }
func (r RegularItem) LineUnitPrice() float64 { return r.UnitPrice }
func (r RegularItem) LineQuantity() int      { return r.Quantity }

// Component is one item bundled inside a package.
type Component struct {
	ItemID    string
	Name      string
	Quantity  int
	VariantID string
}

// PackageItem is a deal line: a priced bundle of components.
type PackageItem struct {
	ID         string
	Name       string
	UnitPrice  float64
	Quantity   int
	PackageID  string
	Components []Component
}

func (p PackageItem) LineID() string         { return p.ID }
func (p PackageItem) LineName() string       { return p.Name }
func (p PackageItem) LineUnitPrice() float64 { return p.UnitPrice }
func (p PackageItem) LineQuantity() int      { return p.Quantity }

// Cart is the in-session cart. It lives for one shopping session only and is
// cleared on successful order submission or explicit user action. Line order
// is insertion order, which downstream allocation keeps stable for display.
type Cart struct {
	lines []Line
}

func New(lines ...Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		c.Add(l)
	}
	return c
}

// Add appends a line. Adding a line with an existing ID replaces it in place.
func (c *Cart) Add(line Line) {
	for i, l := range c.lines {
		if l.LineID() == line.LineID() {
			c.lines[i] = line
			return
		}
	}
	c.lines = append(c.lines, line)
}

func (c *Cart) Remove(lineID string) {
	for i, l := range c.lines {
		if l.LineID() == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []Line {
	return c.lines
}

func (c *Cart) Line(lineID string) (Line, bool) {
	for _, l := range c.lines {
		if l.LineID() == lineID {
			return l, true
		}
	}
	return nil, false
}

// Total is the cart total as a decimal amount.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.LineUnitPrice() * float64(l.LineQuantity())
	}
	return total
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}
