// Package orderlist implements the wholesale order-list aggregator: an
// insertion-ordered multiset of (item, quantity) with derived totals and a
// deterministic plain-text rendering. The list is session-scoped staging
// state, never persisted to the store.
package orderlist

import (
	"fmt"
	"strings"
)

// Entry is one order-list line: a snapshot of the item's name, category
// name and unit price taken when the item was added, plus a quantity.
type Entry struct {
	ItemID       int64
	Name         string
	CategoryName string
	UnitPrice    float64
	Quantity     int
}

// LineTotal is the entry's quantity times its unit price.
func (e Entry) LineTotal() float64 {
	return float64(e.Quantity) * e.UnitPrice
}

// List holds order-list entries in insertion order, keyed by item
// identifier. Not safe for concurrent use; all mutations happen in direct
// response to one user's actions.
type List struct {
	entries []*Entry
	byID    map[int64]*Entry
}

func New() *List {
	return &List{byID: make(map[int64]*Entry)}
}

// Add increments the quantity of an already-present item, or appends a new
// entry with quantity 1. Name, category and price are snapshotted on first
// add and not refreshed afterwards.
func (l *List) Add(itemID int64, name, categoryName string, unitPrice float64) {
	if e, ok := l.byID[itemID]; ok {
		e.Quantity++
		return
	}
	e := &Entry{
		ItemID:       itemID,
		Name:         name,
		CategoryName: categoryName,
		UnitPrice:    unitPrice,
		Quantity:     1,
	}
	l.entries = append(l.entries, e)
	l.byID[itemID] = e
}

// SetQuantity sets an entry's quantity. A quantity of zero or below
// removes the entry. Unknown identifiers are ignored.
func (l *List) SetQuantity(itemID int64, n int) {
	if n <= 0 {
		l.Remove(itemID)
		return
	}
	if e, ok := l.byID[itemID]; ok {
		e.Quantity = n
	}
}

// Remove drops the entry if present.
func (l *List) Remove(itemID int64) {
	if _, ok := l.byID[itemID]; !ok {
		return
	}
	delete(l.byID, itemID)
	for i, e := range l.entries {
		if e.ItemID == itemID {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			break
		}
	}
}

// Clear empties the list.
func (l *List) Clear() {
	l.entries = nil
	l.byID = make(map[int64]*Entry)
}

// Entries returns the entries in insertion order.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	return out
}

// Len returns the number of distinct items.
func (l *List) Len() int {
	return len(l.entries)
}

// TotalQuantity is the sum of all entry quantities.
func (l *List) TotalQuantity() int {
	total := 0
	for _, e := range l.entries {
		total += e.Quantity
	}
	return total
}

// TotalAmount is the sum of quantity times unit price over all entries.
func (l *List) TotalAmount() float64 {
	total := 0.0
	for _, e := range l.entries {
		total += e.LineTotal()
	}
	return total
}

// RenderSummary produces the canonical plain-text order summary. Both the
// clipboard-copy and print-preview exports must use this exact rendering.
func (l *List) RenderSummary() string {
	var b strings.Builder
	b.WriteString("Wholesale Order Summary\n")
	for i, e := range l.entries {
		fmt.Fprintf(&b, "%d. %s (%s) - Qty: %d @ ₹%.2f = ₹%.2f\n",
			i+1, e.Name, e.CategoryName, e.Quantity, e.UnitPrice, e.LineTotal())
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total Items: %d\n", l.TotalQuantity())
	fmt.Fprintf(&b, "Total Amount: ₹%.2f\n", l.TotalAmount())
	return b.String()
}
