package pos

import (
	"sync"

	"github.com/talkincode/smartpos/internal/domain"
)

// CartLine is one entry in an in-progress cart: a by-value copy of the
// menu item taken at the moment it was first added, plus a quantity.
type CartLine struct {
	ItemID   int64  `json:"item_id,string"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Cart holds the unpersisted selection building toward one checkout.
// First-insertion order is preserved for display. Cart state is lost on
// process restart, which matches the register workflow: an interrupted
// sale is simply rung up again.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add inserts the item with quantity 1, or increments the existing line
// when the item is already in the cart.
func (c *Cart) Add(item domain.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
}

// AdjustQuantity applies delta to a line's quantity, flooring at 1.
// Decrement never removes a line. Returns false when no line matches
// the id.
func (c *Cart) AdjustQuantity(itemID int64, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			q := c.lines[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			c.lines[i].Quantity = q
			return true
		}
	}
	return false
}

// Lines returns a copy of the current cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the running sum of price*quantity across all lines.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum int64
	for i := range c.lines {
		sum += c.lines[i].Price * int64(c.lines[i].Quantity)
	}
	return sum
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// TakeAll snapshots and empties the cart in one locked step, so an add
// racing a checkout lands either in the recorded sale or in the cart
// that remains, never in neither. The caller owns the returned lines.
func (c *Cart) TakeAll() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.lines
	c.lines = nil
	return out
}

// Restore puts taken lines back after a failed checkout, merging the
// quantities of anything added while the checkout was in flight.
func (c *Cart) Restore(lines []CartLine) {
	if len(lines) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	merged := make([]CartLine, len(lines), len(lines)+len(c.lines))
	copy(merged, lines)
	for _, ln := range c.lines {
		found := false
		for i := range merged {
			if merged[i].ItemID == ln.ItemID {
				merged[i].Quantity += ln.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, ln)
		}
	}
	c.lines = merged
}

// CartManager hands out one cart per terminal. A single-register shop
// only ever uses the default terminal.
type CartManager struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

const DefaultTerminal = "default"

func NewCartManager() *CartManager {
	return &CartManager{carts: make(map[string]*Cart)}
}

// Get returns the cart for a terminal, creating it on first use.
// An empty terminal id maps to the default terminal.
func (m *CartManager) Get(terminal string) *Cart {
	if terminal == "" {
		terminal = DefaultTerminal
	}
	m.mu.RLock()
	cart, ok := m.carts[terminal]
	m.mu.RUnlock()
	if ok {
		return cart
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok = m.carts[terminal]; ok {
		return cart
	}
	cart = NewCart()
	m.carts[terminal] = cart
	return cart
}
