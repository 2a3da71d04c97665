package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/model"
)

func testItem(name string, stock int, purchase, selling int64) *model.Item {
	item := &model.Item{
		ItemName:      name,
		Stock:         stock,
		PurchasePrice: purchase,
		SellingPrice:  selling,
		BranchID:      uuid.New(),
	}
	item.ID = uuid.New()
	return item
}

func TestTotalEqualsSumOfLineSubtotals(t *testing.T) {
	c := New(model.TxOut)
	oil := testItem("Oli Mesin", 10, 30000, 45000)
	filter := testItem("Filter Udara", 8, 20000, 35000)

	if err := c.AddStockedLine(oil, 2); err != nil {
		t.Fatalf("add oil: %v", err)
	}
	if err := c.AddStockedLine(filter, 1); err != nil {
		t.Fatalf("add filter: %v", err)
	}
	if err := c.AddServiceLine("Ganti Oli", 50000); err != nil {
		t.Fatalf("add service: %v", err)
	}

	var want int64
	for _, line := range c.Lines() {
		if line.Subtotal() != int64(line.Quantity())*line.UnitPrice() {
			t.Fatalf("line %q subtotal %d != qty %d * price %d", line.Name(), line.Subtotal(), line.Quantity(), line.UnitPrice())
		}
		want += line.Subtotal()
	}
	if got := c.Total(); got != want {
		t.Fatalf("total = %d, want %d", got, want)
	}
	if want != 2*45000+35000+50000 {
		t.Fatalf("unexpected fixture total %d", want)
	}
}

func TestPriceSnapshotFollowsDirection(t *testing.T) {
	item := testItem("Busi", 20, 10000, 18000)

	in := New(model.TxIn)
	if err := in.AddStockedLine(item, 1); err != nil {
		t.Fatalf("add IN: %v", err)
	}
	if price := in.Lines()[0].UnitPrice(); price != 10000 {
		t.Fatalf("IN line price = %d, want purchase price 10000", price)
	}

	out := New(model.TxOut)
	if err := out.AddStockedLine(item, 1); err != nil {
		t.Fatalf("add OUT: %v", err)
	}
	if price := out.Lines()[0].UnitPrice(); price != 18000 {
		t.Fatalf("OUT line price = %d, want selling price 18000", price)
	}
}

func TestAddStockedLineMergesSameItem(t *testing.T) {
	c := New(model.TxOut)
	item := testItem("Kampas Rem", 10, 40000, 60000)

	if err := c.AddStockedLine(item, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := c.AddStockedLine(item, 3); err != nil {
		t.Fatalf("second add: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("expected merged single line, got %d lines", c.Len())
	}
	line := c.Lines()[0]
	if line.Quantity() != 5 {
		t.Fatalf("merged quantity = %d, want 5", line.Quantity())
	}
	if line.Subtotal() != 5*60000 {
		t.Fatalf("merged subtotal = %d, want %d", line.Subtotal(), 5*60000)
	}
}

func TestAddStockedLineEnforcesCumulativeStockCeiling(t *testing.T) {
	c := New(model.TxOut)
	item := testItem("Aki", 5, 150000, 200000)

	if err := c.AddStockedLine(item, 3); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := c.AddStockedLine(item, 3)
	if !apperr.IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	var stockErr *apperr.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("error is not InsufficientStockError: %v", err)
	}
	if stockErr.Available != 2 {
		t.Fatalf("available = %d, want 2 (5 stock - 3 reserved)", stockErr.Available)
	}
	if c.Lines()[0].Quantity() != 3 {
		t.Fatalf("failed add must not change the cart, quantity = %d", c.Lines()[0].Quantity())
	}
}

func TestAddStockedLineIgnoresCeilingOnIn(t *testing.T) {
	c := New(model.TxIn)
	item := testItem("Oli Gardan", 0, 25000, 40000)

	if err := c.AddStockedLine(item, 50); err != nil {
		t.Fatalf("IN direction must not enforce stock ceiling: %v", err)
	}
}

func TestAddStockedLineRejectsNonPositiveQuantity(t *testing.T) {
	c := New(model.TxOut)
	item := testItem("Lampu", 5, 5000, 9000)

	for _, qty := range []int{0, -1} {
		if err := c.AddStockedLine(item, qty); !apperr.IsValidation(err) {
			t.Fatalf("quantity %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestAddServiceLineValidation(t *testing.T) {
	in := New(model.TxIn)
	if err := in.AddServiceLine("Servis Ringan", 50000); !apperr.IsValidation(err) {
		t.Fatalf("service line on IN must fail validation, got %v", err)
	}

	out := New(model.TxOut)
	if err := out.AddServiceLine("   ", 50000); !apperr.IsValidation(err) {
		t.Fatalf("blank name must fail validation, got %v", err)
	}
	if err := out.AddServiceLine("Servis Ringan", 0); !apperr.IsValidation(err) {
		t.Fatalf("zero price must fail validation, got %v", err)
	}

	if err := out.AddServiceLine("Servis Ringan", 50000); err != nil {
		t.Fatalf("valid service line rejected: %v", err)
	}
	if err := out.AddServiceLine("Servis Ringan", 50000); err != nil {
		t.Fatalf("duplicate service line rejected: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("service lines must never merge, got %d lines", out.Len())
	}
	line := out.Lines()[0]
	if line.Quantity() != 1 || line.Subtotal() != 50000 {
		t.Fatalf("service line qty/subtotal = %d/%d, want 1/50000", line.Quantity(), line.Subtotal())
	}
}

func TestUpdateLineQuantityZeroRemoves(t *testing.T) {
	c := New(model.TxOut)
	item := testItem("Rantai", 10, 70000, 95000)
	if err := c.AddStockedLine(item, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := c.UpdateLineQuantity(0, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if !c.Empty() {
		t.Fatalf("update to zero must remove the line")
	}
	if c.Total() != 0 {
		t.Fatalf("empty cart total = %d, want 0", c.Total())
	}
}

func TestUpdateLineQuantityRecomputesSubtotal(t *testing.T) {
	c := New(model.TxOut)
	item := testItem("Ban Luar", 10, 120000, 160000)
	if err := c.AddStockedLine(item, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := c.UpdateLineQuantity(0, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	line := c.Lines()[0]
	if line.Quantity() != 4 || line.Subtotal() != 4*160000 {
		t.Fatalf("after update qty/subtotal = %d/%d, want 4/%d", line.Quantity(), line.Subtotal(), 4*160000)
	}
}

func TestUpdateLineQuantityRevalidatesStockCeiling(t *testing.T) {
	c := New(model.TxOut)
	item := testItem("Kabel Gas", 5, 8000, 15000)

	if err := c.AddStockedLine(item, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.UpdateLineQuantity(0, 6); !apperr.IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock on update past ceiling, got %v", err)
	}
	if c.Lines()[0].Quantity() != 3 {
		t.Fatalf("failed update must not change quantity")
	}
	if err := c.UpdateLineQuantity(0, 5); err != nil {
		t.Fatalf("update to exact stock must pass: %v", err)
	}
}

func TestServiceLineQuantityFixed(t *testing.T) {
	c := New(model.TxOut)
	if err := c.AddServiceLine("Tune Up", 75000); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.UpdateLineQuantity(0, 3); !apperr.IsValidation(err) {
		t.Fatalf("service quantity update must fail validation, got %v", err)
	}
	if err := c.UpdateLineQuantity(0, 0); err != nil {
		t.Fatalf("zero still removes a service line: %v", err)
	}
	if !c.Empty() {
		t.Fatalf("expected empty cart")
	}
}

func TestRemoveLineAndBounds(t *testing.T) {
	c := New(model.TxOut)
	a := testItem("A", 10, 1000, 2000)
	b := testItem("B", 10, 1000, 3000)
	if err := c.AddStockedLine(a, 1); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := c.AddStockedLine(b, 1); err != nil {
		t.Fatalf("add b: %v", err)
	}

	if err := c.RemoveLine(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if c.Len() != 1 || c.Lines()[0].Name() != "B" {
		t.Fatalf("expected only line B to remain")
	}

	if err := c.RemoveLine(5); !apperr.IsValidation(err) {
		t.Fatalf("out-of-range remove must fail validation, got %v", err)
	}
	if err := c.UpdateLineQuantity(-1, 2); !apperr.IsValidation(err) {
		t.Fatalf("negative index must fail validation, got %v", err)
	}
}

func TestClearEmptiesCartAndNotes(t *testing.T) {
	c := New(model.TxOut)
	item := testItem("Spion", 4, 30000, 50000)
	if err := c.AddStockedLine(item, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	c.SetNotes("pelanggan tetap")

	c.Clear()

	if !c.Empty() {
		t.Fatalf("cart not empty after clear")
	}
	if c.Total() != 0 {
		t.Fatalf("total after clear = %d, want 0", c.Total())
	}
	if c.Notes() != "" {
		t.Fatalf("notes survived clear: %q", c.Notes())
	}
}

func TestDirectionSwitchForcesClear(t *testing.T) {
	c := New(model.TxIn)
	item := testItem("Velg", 3, 200000, 280000)
	if err := c.AddStockedLine(item, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	c.SetDirection(model.TxOut)

	if !c.Empty() {
		t.Fatalf("direction switch must clear the cart")
	}
	if c.Direction() != model.TxOut {
		t.Fatalf("direction = %s, want OUT", c.Direction())
	}

	// Same direction is a no-op.
	if err := c.AddStockedLine(item, 1); err != nil {
		t.Fatalf("add after switch: %v", err)
	}
	c.SetDirection(model.TxOut)
	if c.Empty() {
		t.Fatalf("setting the same direction must not clear")
	}
}
