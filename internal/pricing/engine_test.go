package pricing

import (
	"testing"

	"github.com/noah-isme/backend-greenmart/internal/money"
)

func referenceItems() []Item {
	return []Item{
		{Qty: 1, UnitPrice: money.MustParse("199.99")},
		{Qty: 2, UnitPrice: money.MustParse("29.99")},
		{Qty: 1, UnitPrice: money.MustParse("24.50")},
	}
}

func TestComputeReferenceCart(t *testing.T) {
	totals := Compute(referenceItems(), money.MustParse("4.99"), Discount{
		Value:   money.MustParse("10"),
		Percent: true,
		Applied: true,
	})

	if !totals.Subtotal.Equal(money.MustParse("284.47")) {
		t.Fatalf("subtotal: got %s", totals.Subtotal)
	}
	if !totals.Discount.Equal(money.MustParse("28.447")) {
		t.Fatalf("discount must keep full precision: got %s", totals.Discount)
	}
	if !totals.Total.Equal(money.MustParse("261.013")) {
		t.Fatalf("total: got %s", totals.Total)
	}

	rounded := totals.Rounded()
	if !rounded.Total.Equal(money.MustParse("261.01")) {
		t.Fatalf("rounded total: got %s", rounded.Total)
	}
	if got := money.Format(rounded.Total); got != "$261.01" {
		t.Fatalf("formatted total: got %q", got)
	}
}

func TestComputeFlatDiscount(t *testing.T) {
	totals := Compute(referenceItems(), money.Zero(), Discount{
		Value:   money.MustParse("15"),
		Applied: true,
	})
	if !totals.Discount.Equal(money.MustParse("15")) {
		t.Fatalf("discount: got %s", totals.Discount)
	}
	if !totals.Total.Equal(money.MustParse("269.47")) {
		t.Fatalf("total: got %s", totals.Total)
	}
}

func TestComputeNoDiscount(t *testing.T) {
	totals := Compute(referenceItems(), money.MustParse("12.99"), Discount{})
	if !totals.Discount.IsZero() {
		t.Fatalf("expected zero discount, got %s", totals.Discount)
	}
	if !totals.Total.Equal(money.MustParse("297.46")) {
		t.Fatalf("total: got %s", totals.Total)
	}
}

func TestComputeClampsNegativeTotal(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: money.MustParse("5.00")}}
	totals := Compute(items, money.Zero(), Discount{
		Value:   money.MustParse("15"),
		Applied: true,
	})
	if !totals.Total.IsZero() {
		t.Fatalf("expected total floored at zero, got %s", totals.Total)
	}
	if !totals.Discount.Equal(money.MustParse("15")) {
		t.Fatalf("discount itself must not be clamped, got %s", totals.Discount)
	}
}

func TestComputeSkipsNonPositiveQuantities(t *testing.T) {
	items := []Item{
		{Qty: 0, UnitPrice: money.MustParse("100")},
		{Qty: -2, UnitPrice: money.MustParse("100")},
		{Qty: 1, UnitPrice: money.MustParse("10")},
	}
	totals := Compute(items, money.Zero(), Discount{})
	if !totals.Subtotal.Equal(money.MustParse("10")) {
		t.Fatalf("expected only positive lines summed, got %s", totals.Subtotal)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	totals := Compute(nil, money.MustParse("4.99"), Discount{})
	if !totals.Subtotal.IsZero() {
		t.Fatalf("subtotal: got %s", totals.Subtotal)
	}
	if !totals.Total.Equal(money.MustParse("4.99")) {
		t.Fatalf("total: got %s", totals.Total)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	disc := Discount{Value: money.MustParse("20"), Percent: true, Applied: true}
	first := Compute(referenceItems(), money.MustParse("4.99"), disc)
	second := Compute(referenceItems(), money.MustParse("4.99"), disc)
	if !first.Total.Equal(second.Total) || !first.Discount.Equal(second.Discount) {
		t.Fatalf("identical inputs produced different totals: %s vs %s", first.Total, second.Total)
	}
}
