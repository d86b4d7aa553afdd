package pos

import (
	"testing"

	"github.com/talkincode/smartpos/internal/domain"
)

func TestCartAddIncrementsExistingLine(t *testing.T) {
	cart := NewCart()
	item := domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000}

	cart.Add(item)
	cart.Add(item)

	lines := cart.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if cart.Total() != 40000 {
		t.Errorf("expected total 40000, got %d", cart.Total())
	}
}

func TestCartPreservesInsertionOrder(t *testing.T) {
	cart := NewCart()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})
	cart.Add(domain.MenuItem{ID: 2, Name: "Trà Vải", Price: 35000})
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Name != "Cà phê Đen" || lines[1].Name != "Trà Vải" {
		t.Errorf("unexpected line order: %v", lines)
	}
}

func TestCartAdjustQuantityFloorsAtOne(t *testing.T) {
	cart := NewCart()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})

	if !cart.AdjustQuantity(1, -100) {
		t.Fatal("expected adjust to find the line")
	}
	lines := cart.Lines()
	if lines[0].Quantity != 1 {
		t.Errorf("expected quantity floored at 1, got %d", lines[0].Quantity)
	}
	if cart.Len() != 1 {
		t.Errorf("decrement must never remove lines, got %d lines", cart.Len())
	}
}

func TestCartAdjustQuantityUnknownItem(t *testing.T) {
	cart := NewCart()
	if cart.AdjustQuantity(42, 1) {
		t.Error("expected false for an item not in the cart")
	}
}

func TestCartTakeAllEmptiesInOneStep(t *testing.T) {
	cart := NewCart()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})
	cart.Add(domain.MenuItem{ID: 2, Name: "Trà Vải", Price: 35000})

	lines := cart.TakeAll()
	if len(lines) != 2 {
		t.Fatalf("expected 2 taken lines, got %d", len(lines))
	}
	if cart.Len() != 0 {
		t.Errorf("cart must be empty after TakeAll, got %d lines", cart.Len())
	}
}

func TestCartAddAfterTakeAllStaysInCart(t *testing.T) {
	cart := NewCart()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})

	lines := cart.TakeAll()

	// lands after the checkout snapshot, so it belongs to the next sale
	cart.Add(domain.MenuItem{ID: 2, Name: "Trà Vải", Price: 35000})

	if len(lines) != 1 || lines[0].Name != "Cà phê Đen" {
		t.Fatalf("unexpected snapshot: %v", lines)
	}
	remaining := cart.Lines()
	if len(remaining) != 1 || remaining[0].Name != "Trà Vải" {
		t.Errorf("item added during checkout must stay in the cart, got %v", remaining)
	}
}

func TestCartRestoreMergesInFlightAdds(t *testing.T) {
	cart := NewCart()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})

	lines := cart.TakeAll()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})
	cart.Add(domain.MenuItem{ID: 2, Name: "Trà Vải", Price: 35000})

	cart.Restore(lines)

	restored := cart.Lines()
	if len(restored) != 2 {
		t.Fatalf("expected 2 lines after restore, got %d", len(restored))
	}
	if restored[0].Name != "Cà phê Đen" || restored[0].Quantity != 2 {
		t.Errorf("restored line must merge the in-flight add: %+v", restored[0])
	}
	if restored[1].Name != "Trà Vải" || restored[1].Quantity != 1 {
		t.Errorf("unexpected second line: %+v", restored[1])
	}
}

func TestCartManagerSharesCartPerTerminal(t *testing.T) {
	m := NewCartManager()
	a := m.Get("")
	b := m.Get(DefaultTerminal)
	if a != b {
		t.Error("empty terminal id must map to the default cart")
	}
	other := m.Get("t2")
	if other == a {
		t.Error("distinct terminals must get distinct carts")
	}
}
