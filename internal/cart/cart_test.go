package cart

import "testing"

func TestAddReplacesByID(t *testing.T) {
	c := New(
		RegularItem{ID: "pizza", Name: "Pizza", UnitPrice: 500.00, Quantity: 1},
		RegularItem{ID: "salad", Name: "Salad", UnitPrice: 150.00, Quantity: 1},
	)

	c.Add(RegularItem{ID: "pizza", Name: "Pizza", UnitPrice: 500.00, Quantity: 3})

	if len(c.Lines()) != 2 {
		t.Fatalf("got %d lines, want 2", len(c.Lines()))
	}
	// Replacement keeps the line's original position.
	if c.Lines()[0].LineID() != "pizza" || c.Lines()[0].LineQuantity() != 3 {
		t.Errorf("first line = %v %d, want pizza x3", c.Lines()[0].LineID(), c.Lines()[0].LineQuantity())
	}
}

func TestInsertionOrder(t *testing.T) {
	c := New()
	c.Add(RegularItem{ID: "b", Name: "B", UnitPrice: 1, Quantity: 1})
	c.Add(PackageItem{ID: "a", Name: "A", UnitPrice: 2, Quantity: 1, PackageID: "deal-1"})
	c.Add(RegularItem{ID: "c", Name: "C", UnitPrice: 3, Quantity: 1})

	want := []string{"b", "a", "c"}
	for i, l := range c.Lines() {
		if l.LineID() != want[i] {
			t.Errorf("line %d = %q, want %q", i, l.LineID(), want[i])
		}
	}
}

func TestRemove(t *testing.T) {
	c := New(
		RegularItem{ID: "pizza", UnitPrice: 500.00, Quantity: 1},
		RegularItem{ID: "salad", UnitPrice: 150.00, Quantity: 1},
	)

	c.Remove("pizza")
	if _, ok := c.Line("pizza"); ok {
		t.Error("removed line still present")
	}
	if _, ok := c.Line("salad"); !ok {
		t.Error("remove took out the wrong line")
	}

	c.Remove("missing") // no-op
	if len(c.Lines()) != 1 {
		t.Errorf("got %d lines, want 1", len(c.Lines()))
	}
}

func TestTotal(t *testing.T) {
	c := New(
		RegularItem{ID: "pizza", UnitPrice: 500.00, Quantity: 2},
		PackageItem{ID: "deal", UnitPrice: 900.00, Quantity: 1},
	)
	if got := c.Total(); got != 1900.00 {
		t.Errorf("Total = %v, want 1900.00", got)
	}
}

func TestClear(t *testing.T) {
	c := New(RegularItem{ID: "pizza", UnitPrice: 500.00, Quantity: 1})
	if c.Empty() {
		t.Fatal("cart empty before Clear")
	}
	c.Clear()
	if !c.Empty() {
		t.Error("cart not empty after Clear")
	}
}
