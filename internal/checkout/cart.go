package checkout

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

const (
	ticketMin = 1000
	ticketMax = 9999
)

// Cart is the in-memory register session. It is not safe for concurrent use;
// each register owns exactly one cart.
type Cart struct {
	lines []CartLine
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem puts one more unit of the item into the cart. Quantities clamp to
// the item's stock and items without stock never enter the cart.
func (c *Cart) AddItem(item CatalogItem) {
	if item.Stock <= 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			if c.lines[i].Quantity < c.lines[i].Item.Stock {
				c.lines[i].Quantity++
			}
			return
		}
	}
	c.lines = append(c.lines, CartLine{Item: item, Quantity: 1})
}

// ChangeQuantity applies a signed delta to an existing line. A resulting
// quantity of zero or less removes the line; quantities above stock clamp to
// stock. Unknown ids are ignored.
func (c *Cart) ChangeQuantity(id uuid.UUID, delta int) {
	for i := range c.lines {
		if c.lines[i].Item.ID != id {
			continue
		}
		next := c.lines[i].Quantity + delta
		if next <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		if next > c.lines[i].Item.Stock {
			next = c.lines[i].Item.Stock
		}
		c.lines[i].Quantity = next
		return
	}
}

// RemoveItem deletes the line for the given item id if present.
func (c *Cart) RemoveItem(id uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len reports how many distinct lines the cart holds.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
}

// Restore replaces the cart contents with a previously persisted snapshot.
func (c *Cart) Restore(lines []CartLine) {
	c.lines = make([]CartLine, len(lines))
	copy(c.lines, lines)
}

// Totals computes the current money summary.
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.lines)
}

// Confirm validates the buyer, issues an immutable receipt from the current
// cart snapshot, and clears the cart. The cart is left untouched on any
// validation failure. Confirm never talks to the network; recording the sale
// is the caller's concern and its failure does not invalidate the receipt.
func (c *Cart) Confirm(customer Customer, voucherType enums.VoucherType, now time.Time) (*Receipt, error) {
	if len(c.lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").WithDetails(map[string]any{
			"reason": ReasonEmptyCart,
		})
	}
	if err := ValidateCustomer(customer); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		TicketNumber: newTicketNumber(),
		VoucherType:  voucherType,
		IssuedAt:     now,
		Customer:     customer,
		Lines:        c.Lines(),
		Totals:       c.Totals(),
	}
	c.Clear()
	return receipt, nil
}

// newTicketNumber draws a random four digit ticket in [1000, 9999].
func newTicketNumber() int {
	return ticketMin + rand.IntN(ticketMax-ticketMin+1)
}
