package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"go-branchpos-ws/internal/alert"
	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/cache"
	"go-branchpos-ws/internal/cart"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository/memory"
	"go-branchpos-ws/internal/ws"
)

// fixture seeds one branch with an admin, a warehouse clerk, and a cashier,
// and wires the committer against the in-memory store.
type fixture struct {
	store  *memory.Store
	tx     TransactionService
	admin  model.Actor
	gudang model.Actor
	kasir  model.Actor
	branch *model.Branch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()

	branch := &model.Branch{BranchName: "Pusat"}
	if err := store.Branches().Create(branch); err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	f := &fixture{
		store:  store,
		tx:     NewTransactionService(store, hub, cache.NoopStatsCache{}, alert.NoopNotifier{}, 5),
		branch: branch,
	}
	f.admin = f.seedUser(t, "admin@test.local", model.RoleAdmin)
	f.gudang = f.seedUser(t, "gudang@test.local", model.RoleStafGudang)
	f.kasir = f.seedUser(t, "kasir@test.local", model.RoleStafKasir)
	return f
}

func (f *fixture) seedUser(t *testing.T, email string, role model.Role) model.Actor {
	t.Helper()
	user := &model.User{
		Email:    email,
		Username: email,
		Role:     role,
		BranchID: f.branch.ID,
		IsActive: true,
	}
	if err := user.SetPassword("rahasia123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := f.store.Users().Create(user); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user.Actor()
}

func (f *fixture) seedItem(t *testing.T, name string, stock int, purchase, selling int64) *model.Item {
	t.Helper()
	item := &model.Item{
		ItemName:      name,
		Stock:         stock,
		PurchasePrice: purchase,
		SellingPrice:  selling,
		BranchID:      f.branch.ID,
	}
	if err := f.store.Catalog().Create(item); err != nil {
		t.Fatalf("seed item %s: %v", name, err)
	}
	return item
}

func (f *fixture) itemStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	item, err := f.store.Catalog().FindByID(id)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	return item.Stock
}

func (f *fixture) groupCount(t *testing.T) int {
	t.Helper()
	groups, err := f.store.Ledger().FindGroups(f.branch.ID, 0)
	if err != nil {
		t.Fatalf("find groups: %v", err)
	}
	return len(groups)
}

func TestCommitOutSale(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Oli Mesin", 5, 700, 1000)

	c := cart.New(model.TxOut)
	if err := c.AddStockedLine(item, 3); err != nil {
		t.Fatalf("add line: %v", err)
	}

	resp, err := f.tx.Commit(f.kasir, c.Direction(), c.Lines(), "penjualan sore")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if resp.TotalAmount != 3000 {
		t.Fatalf("total = %d, want 3000", resp.TotalAmount)
	}
	if len(resp.Lines) != 1 {
		t.Fatalf("response lines = %d, want 1", len(resp.Lines))
	}
	line := resp.Lines[0]
	if line.ItemID == nil || *line.ItemID != item.ID {
		t.Fatalf("response line must reference the sold item")
	}
	if line.Quantity != 3 || line.Price != 1000 || line.Subtotal != 3000 {
		t.Fatalf("line qty/price/subtotal = %d/%d/%d", line.Quantity, line.Price, line.Subtotal)
	}

	if got := f.itemStock(t, item.ID); got != 2 {
		t.Fatalf("stock after OUT = %d, want 2", got)
	}

	groups, err := f.store.Ledger().FindGroups(f.branch.ID, 10)
	if err != nil {
		t.Fatalf("find groups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("persisted groups = %d, want 1", len(groups))
	}
	if groups[0].TotalAmount != 3000 || groups[0].Notes != "penjualan sore" {
		t.Fatalf("persisted group total/notes = %d/%q", groups[0].TotalAmount, groups[0].Notes)
	}
	if len(groups[0].Lines) != 1 {
		t.Fatalf("persisted lines = %d, want 1", len(groups[0].Lines))
	}
}

func TestCommitInPurchaseIncrementsStock(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Busi", 2, 8000, 14000)

	c := cart.New(model.TxIn)
	if err := c.AddStockedLine(item, 10); err != nil {
		t.Fatalf("add line: %v", err)
	}

	resp, err := f.tx.Commit(f.gudang, c.Direction(), c.Lines(), "")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if resp.TotalAmount != 10*8000 {
		t.Fatalf("IN total = %d, want %d (purchase price)", resp.TotalAmount, 10*8000)
	}
	if got := f.itemStock(t, item.ID); got != 12 {
		t.Fatalf("stock after IN = %d, want 12", got)
	}
}

func TestCommitRejectsStaleStockAndRollsBack(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Aki", 5, 150000, 200000)

	// A line built from a stale stock snapshot. The cart validated against 20
	// units but the store only has 5 left.
	stale := &cart.StockedLine{
		ItemID:   item.ID,
		ItemName: item.ItemName,
		Qty:      10,
		Price:    item.SellingPrice,
		Stock:    20,
	}

	_, err := f.tx.Commit(f.kasir, model.TxOut, []cart.Line{stale}, "")
	if !apperr.IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	var stockErr *apperr.InsufficientStockError
	if errors.As(err, &stockErr) && stockErr.Available != 5 {
		t.Fatalf("available = %d, want the current stock 5", stockErr.Available)
	}

	if got := f.itemStock(t, item.ID); got != 5 {
		t.Fatalf("stock changed on failed commit: %d", got)
	}
	if n := f.groupCount(t); n != 0 {
		t.Fatalf("failed commit left %d groups behind", n)
	}
}

func TestCommitServiceLineOnly(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Kampas Rem", 7, 40000, 60000)

	c := cart.New(model.TxOut)
	if err := c.AddServiceLine("Ganti Kampas", 35000); err != nil {
		t.Fatalf("add service: %v", err)
	}

	resp, err := f.tx.Commit(f.kasir, c.Direction(), c.Lines(), "")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if resp.TotalAmount != 35000 {
		t.Fatalf("total = %d, want 35000", resp.TotalAmount)
	}
	line := resp.Lines[0]
	if !line.IsService || line.ItemID != nil {
		t.Fatalf("service line must carry is_service and no item reference")
	}
	if line.ItemName != "Ganti Kampas" {
		t.Fatalf("service line name = %q", line.ItemName)
	}

	// No catalog item is touched by a pure service sale.
	if got := f.itemStock(t, item.ID); got != 7 {
		t.Fatalf("stock changed by service sale: %d", got)
	}
}

func TestCommitMixedCartNetStockChange(t *testing.T) {
	f := newFixture(t)
	oil := f.seedItem(t, "Oli", 10, 30000, 45000)
	filter := f.seedItem(t, "Filter", 6, 20000, 35000)

	c := cart.New(model.TxOut)
	if err := c.AddStockedLine(oil, 2); err != nil {
		t.Fatalf("add oil: %v", err)
	}
	if err := c.AddStockedLine(filter, 1); err != nil {
		t.Fatalf("add filter: %v", err)
	}
	if err := c.AddServiceLine("Jasa Pasang", 25000); err != nil {
		t.Fatalf("add service: %v", err)
	}

	resp, err := f.tx.Commit(f.admin, c.Direction(), c.Lines(), "")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if want := int64(2*45000 + 35000 + 25000); resp.TotalAmount != want {
		t.Fatalf("total = %d, want %d", resp.TotalAmount, want)
	}
	if got := f.itemStock(t, oil.ID); got != 8 {
		t.Fatalf("oil stock = %d, want 8", got)
	}
	if got := f.itemStock(t, filter.ID); got != 5 {
		t.Fatalf("filter stock = %d, want 5", got)
	}
}

func TestCommitDirectionAuthorization(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Rantai", 10, 70000, 95000)

	tests := []struct {
		name      string
		actor     model.Actor
		direction model.TransactionType
		wantErr   bool
	}{
		{"cashier cannot stock in", f.kasir, model.TxIn, true},
		{"warehouse cannot sell", f.gudang, model.TxOut, true},
		{"cashier sells", f.kasir, model.TxOut, false},
		{"warehouse stocks in", f.gudang, model.TxIn, false},
		{"admin stocks in", f.admin, model.TxIn, false},
		{"admin sells", f.admin, model.TxOut, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cart.New(tc.direction)
			if err := c.AddStockedLine(item, 1); err != nil {
				t.Fatalf("add line: %v", err)
			}
			_, err := f.tx.Commit(tc.actor, tc.direction, c.Lines(), "")
			if tc.wantErr {
				if !errors.Is(err, apperr.ErrUnauthorized) {
					t.Fatalf("expected ErrUnauthorized, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("commit: %v", err)
			}
		})
	}

	// Denied commits must not write anything.
	f2 := newFixture(t)
	item2 := f2.seedItem(t, "Velg", 3, 200000, 280000)
	c := cart.New(model.TxIn)
	if err := c.AddStockedLine(item2, 2); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if _, err := f2.tx.Commit(f2.kasir, model.TxIn, c.Lines(), ""); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if n := f2.groupCount(t); n != 0 {
		t.Fatalf("denied commit wrote %d groups", n)
	}
	if got := f2.itemStock(t, item2.ID); got != 3 {
		t.Fatalf("denied commit changed stock: %d", got)
	}
}

func TestCommitValidation(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Lampu", 5, 5000, 9000)

	if _, err := f.tx.Commit(f.admin, model.TxOut, nil, ""); !apperr.IsValidation(err) {
		t.Fatalf("empty cart: expected validation error, got %v", err)
	}

	c := cart.New(model.TxOut)
	if err := c.AddStockedLine(item, 1); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if _, err := f.tx.Commit(f.admin, model.TransactionType("SIDEWAYS"), c.Lines(), ""); !apperr.IsValidation(err) {
		t.Fatalf("bad direction: expected validation error, got %v", err)
	}
}

func TestGetGroupsScopedToBranch(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Spion", 10, 30000, 50000)

	c := cart.New(model.TxOut)
	if err := c.AddStockedLine(item, 1); err != nil {
		t.Fatalf("add line: %v", err)
	}
	resp, err := f.tx.Commit(f.kasir, c.Direction(), c.Lines(), "")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	groups, err := f.tx.GetGroups(f.kasir, 10)
	if err != nil {
		t.Fatalf("get groups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}

	// An actor from another branch sees nothing, by list or by id.
	other := model.Actor{UserID: uuid.New(), Username: "x", Role: model.RoleAdmin, BranchID: uuid.New()}
	otherGroups, err := f.tx.GetGroups(other, 10)
	if err != nil {
		t.Fatalf("get groups other branch: %v", err)
	}
	if len(otherGroups) != 0 {
		t.Fatalf("cross-branch list leaked %d groups", len(otherGroups))
	}
	if _, err := f.tx.GetGroupByID(other, resp.GroupID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("cross-branch fetch: expected ErrNotFound, got %v", err)
	}
}
