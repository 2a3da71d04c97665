package cart

import "github.com/google/uuid"

// Line is one cart entry: either a stocked-item movement or a standalone
// service charge. The union is sealed so a service line can never carry an
// item reference.
type Line interface {
	Name() string
	Quantity() int
	UnitPrice() int64
	Subtotal() int64

	sealedLine()
}

// StockedLine references a catalog item. The price and stock fields are
// snapshots taken when the line was added.
type StockedLine struct {
	ItemID   uuid.UUID
	ItemName string
	Qty      int
	Price    int64
	Stock    int // Item stock at the time of the last add/merge
}

func (l *StockedLine) Name() string     { return l.ItemName }
func (l *StockedLine) Quantity() int    { return l.Qty }
func (l *StockedLine) UnitPrice() int64 { return l.Price }
func (l *StockedLine) Subtotal() int64  { return int64(l.Qty) * l.Price }
func (l *StockedLine) sealedLine()      {}

// ServiceLine is an ad-hoc charge (e.g. a repair fee). Quantity is fixed at 1,
// so the subtotal equals the unit price.
type ServiceLine struct {
	Description string
	Price       int64
}

func (l *ServiceLine) Name() string     { return l.Description }
func (l *ServiceLine) Quantity() int    { return 1 }
func (l *ServiceLine) UnitPrice() int64 { return l.Price }
func (l *ServiceLine) Subtotal() int64  { return l.Price }
func (l *ServiceLine) sealedLine()      {}
