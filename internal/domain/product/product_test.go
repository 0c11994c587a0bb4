package product

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestProduct(t *testing.T) Product {
	t.Helper()
	p, err := New("user-1", "Gaming Laptop Pro", "16 inch, RTX graphics", 1999.99, 5,
		"Electronics", "LAP-001", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNew_Valid(t *testing.T) {
	p := newTestProduct(t)

	if p.OwnerID() != "user-1" {
		t.Errorf("OwnerID() = %q", p.OwnerID())
	}
	if p.Name() != "Gaming Laptop Pro" {
		t.Errorf("Name() = %q", p.Name())
	}
	if !p.Active() {
		t.Error("new product should be active")
	}
	if p.CreatedAt() != testNow {
		t.Errorf("CreatedAt() = %v", p.CreatedAt())
	}
}

func TestNew_NormalizesSKU(t *testing.T) {
	p, err := New("user-1", "Widget", "", 1, 1, "", "lap-001", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.SKU() != "LAP-001" {
		t.Errorf("SKU() = %q, want LAP-001", p.SKU())
	}
}

func TestNew_Invalid(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (Product, error)
	}{
		{"empty owner", func() (Product, error) {
			return New("", "Widget", "", 1, 1, "", "SKU-1", testNow)
		}},
		{"empty name", func() (Product, error) {
			return New("user-1", "", "", 1, 1, "", "SKU-1", testNow)
		}},
		{"name too long", func() (Product, error) {
			return New("user-1", strings.Repeat("x", MaxNameLength+1), "", 1, 1, "", "SKU-1", testNow)
		}},
		{"negative price", func() (Product, error) {
			return New("user-1", "Widget", "", -1, 1, "", "SKU-1", testNow)
		}},
		{"negative stock", func() (Product, error) {
			return New("user-1", "Widget", "", 1, -1, "", "SKU-1", testNow)
		}},
		{"category too long", func() (Product, error) {
			return New("user-1", "Widget", "", 1, 1, strings.Repeat("x", MaxCategoryLength+1), "SKU-1", testNow)
		}},
		{"empty sku", func() (Product, error) {
			return New("user-1", "Widget", "", 1, 1, "", "", testNow)
		}},
		{"sku bad charset", func() (Product, error) {
			return New("user-1", "Widget", "", 1, 1, "", "SKU 1!", testNow)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn()
			if !errors.Is(err, domain.ErrInvalidProduct) {
				t.Errorf("expected ErrInvalidProduct, got %v", err)
			}
		})
	}
}

func TestSearchText(t *testing.T) {
	p := newTestProduct(t)
	want := "Gaming Laptop Pro 16 inch, RTX graphics Electronics"
	if got := p.SearchText(); got != want {
		t.Errorf("SearchText() = %q, want %q", got, want)
	}
}

func TestSearchText_SkipsEmptyFields(t *testing.T) {
	p, err := New("user-1", "Widget", "", 1, 1, "", "SKU-1", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.SearchText(); got != "Widget" {
		t.Errorf("SearchText() = %q, want Widget", got)
	}
}

func TestApply_TextChange(t *testing.T) {
	p := newTestProduct(t)
	later := testNow.Add(time.Hour)

	name := "Gaming Laptop Ultra"
	changed, err := p.Apply(Patch{Name: &name}, later)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("name change should report text changed")
	}
	if p.Name() != name {
		t.Errorf("Name() = %q", p.Name())
	}
	if p.UpdatedAt() != later {
		t.Errorf("UpdatedAt() = %v, want %v", p.UpdatedAt(), later)
	}
}

func TestApply_NonTextChange(t *testing.T) {
	p := newTestProduct(t)

	price := 1799.0
	stock := 10
	active := false
	changed, err := p.Apply(Patch{Price: &price, StockQuantity: &stock, Active: &active}, testNow)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Error("price/stock/active changes should not report text changed")
	}
	if p.Price() != price || p.StockQuantity() != stock || p.Active() {
		t.Errorf("patch not applied: price=%v stock=%d active=%v", p.Price(), p.StockQuantity(), p.Active())
	}
}

func TestApply_SameValueNotChanged(t *testing.T) {
	p := newTestProduct(t)

	name := p.Name()
	changed, err := p.Apply(Patch{Name: &name}, testNow)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Error("identical name should not report text changed")
	}
}

func TestApply_Invalid(t *testing.T) {
	p := newTestProduct(t)

	negative := -1.0
	if _, err := p.Apply(Patch{Price: &negative}, testNow); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Errorf("expected ErrInvalidProduct, got %v", err)
	}
	empty := ""
	if _, err := p.Apply(Patch{Name: &empty}, testNow); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Errorf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestReconstruct(t *testing.T) {
	p := Reconstruct("id-1", "user-1", "Widget", "desc", 9.5, 3, "Misc", "SKU-1",
		false, testNow, testNow.Add(time.Minute))
	if p.ID() != "id-1" || p.Active() || p.Price() != 9.5 {
		t.Errorf("Reconstruct mismatch: %+v", p)
	}
}
