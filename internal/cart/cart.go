// Package cart implements the client-held cart builder: an ordered, in-memory
// collection of line items validated against stock and role-independent
// numeric constraints before commit. The cart never touches persistent stores.
package cart

import (
	"strings"

	"github.com/google/uuid"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/model"
)

// Cart accumulates line items for one direction. Switching direction discards
// the lines: they were priced against the other price field.
type Cart struct {
	direction model.TransactionType
	lines     []Line
	notes     string
}

// New returns an empty cart for the given direction.
func New(direction model.TransactionType) *Cart {
	return &Cart{direction: direction}
}

// Direction returns the fixed direction of this cart.
func (c *Cart) Direction() model.TransactionType {
	return c.direction
}

// SetDirection switches the cart direction. A direction swap forces a clear:
// carried-over lines would hold the wrong price snapshot.
func (c *Cart) SetDirection(direction model.TransactionType) {
	if direction == c.direction {
		return
	}
	c.direction = direction
	c.Clear()
}

// AddStockedLine adds quantity units of item to the cart. Lines for the same
// item merge by incrementing quantity. For OUT carts the cumulative quantity
// across the cart must not exceed the item's current stock.
func (c *Cart) AddStockedLine(item *model.Item, quantity int) error {
	if item == nil {
		return apperr.Validationf("item is required")
	}
	if quantity <= 0 {
		return apperr.Validationf("quantity must be a positive integer")
	}

	if c.direction == model.TxOut {
		reserved := c.reservedQuantity(item.ID, -1)
		if quantity+reserved > item.Stock {
			return &apperr.InsufficientStockError{
				ItemName:  item.ItemName,
				Requested: quantity,
				Available: item.Stock - reserved,
			}
		}
	}

	for _, line := range c.lines {
		if stocked, ok := line.(*StockedLine); ok && stocked.ItemID == item.ID {
			stocked.Qty += quantity
			stocked.Stock = item.Stock
			return nil
		}
	}

	c.lines = append(c.lines, &StockedLine{
		ItemID:   item.ID,
		ItemName: item.ItemName,
		Qty:      quantity,
		Price:    item.UnitPrice(c.direction),
		Stock:    item.Stock,
	})
	return nil
}

// AddServiceLine appends an ad-hoc service charge. Service sales only exist
// on the OUT direction; never merged with existing lines.
func (c *Cart) AddServiceLine(name string, unitPrice int64) error {
	if c.direction != model.TxOut {
		return apperr.Validationf("service lines are only valid on OUT transactions")
	}
	if strings.TrimSpace(name) == "" {
		return apperr.Validationf("service name is required")
	}
	if unitPrice <= 0 {
		return apperr.Validationf("service price must be a positive number")
	}

	c.lines = append(c.lines, &ServiceLine{
		Description: strings.TrimSpace(name),
		Price:       unitPrice,
	})
	return nil
}

// UpdateLineQuantity sets the quantity of the line at index. A quantity of
// zero or less removes the line. Stocked OUT lines re-validate the stock
// ceiling against the other lines' consumption plus the new quantity.
func (c *Cart) UpdateLineQuantity(index, newQuantity int) error {
	if index < 0 || index >= len(c.lines) {
		return apperr.Validationf("no cart line at index %d", index)
	}
	if newQuantity <= 0 {
		return c.RemoveLine(index)
	}

	switch line := c.lines[index].(type) {
	case *ServiceLine:
		if newQuantity != 1 {
			return apperr.Validationf("service line quantity is fixed at 1")
		}
		return nil
	case *StockedLine:
		if c.direction == model.TxOut {
			reserved := c.reservedQuantity(line.ItemID, index)
			if newQuantity+reserved > line.Stock {
				return &apperr.InsufficientStockError{
					ItemName:  line.ItemName,
					Requested: newQuantity,
					Available: line.Stock - reserved,
				}
			}
		}
		line.Qty = newQuantity
		return nil
	}
	return apperr.Validationf("unknown cart line kind")
}

// RemoveLine removes the line at index unconditionally.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return apperr.Validationf("no cart line at index %d", index)
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear empties the cart and resets pending notes.
func (c *Cart) Clear() {
	c.lines = nil
	c.notes = ""
}

// Total recomputes the sum of all line subtotals. Never cached.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart holds no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// SetNotes attaches free-text notes carried into the committed group.
func (c *Cart) SetNotes(notes string) {
	c.notes = notes
}

// Notes returns the pending notes.
func (c *Cart) Notes() string {
	return c.notes
}

// reservedQuantity sums the cart's quantity for an item, skipping the line at
// skipIndex (-1 to include all lines).
func (c *Cart) reservedQuantity(itemID uuid.UUID, skipIndex int) int {
	total := 0
	for i, line := range c.lines {
		if i == skipIndex {
			continue
		}
		if stocked, ok := line.(*StockedLine); ok && stocked.ItemID == itemID {
			total += stocked.Qty
		}
	}
	return total
}
