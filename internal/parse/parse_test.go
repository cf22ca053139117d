package parse

import (
	"testing"

	"github.com/firelink-data/fwfconv/internal/schema"
)

func TestBool(t *testing.T) {
	consumed, v, ok, err := Bool([]byte("true "), 5, schema.AlignLeft, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || !v {
		t.Errorf("got (%v, %v), want (true, true)", v, ok)
	}
	if consumed != 5 {
		t.Errorf("consumed %d, want 5", consumed)
	}
}

func TestBoolUnparseable(t *testing.T) {
	_, _, ok, err := Bool([]byte("xxxxx"), 5, schema.AlignLeft, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for unparseable bool")
	}
}

func TestInt32RightAligned(t *testing.T) {
	consumed, v, ok, err := Int32([]byte("   42xxx"), 5, schema.AlignRight, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != 42 {
		t.Errorf("got (%d, %v), want (42, true)", v, ok)
	}
	if consumed != 5 {
		t.Errorf("consumed %d, want 5", consumed)
	}
}

func TestInt32Empty(t *testing.T) {
	_, _, ok, err := Int32([]byte("     "), 5, schema.AlignRight, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for an all-padding field")
	}
}

func TestInt64Negative(t *testing.T) {
	consumed, v, ok, err := Int64([]byte("-123456789"), 10, schema.AlignRight, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != -123456789 {
		t.Errorf("got (%d, %v), want (-123456789, true)", v, ok)
	}
	if consumed != 10 {
		t.Errorf("consumed %d, want 10", consumed)
	}
}

func TestFloat64(t *testing.T) {
	_, v, ok, err := Float64([]byte("  3.14"), 6, schema.AlignRight, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != 3.14 {
		t.Errorf("got (%v, %v), want (3.14, true)", v, ok)
	}
}

func TestFloat16(t *testing.T) {
	_, v, ok, err := Float16([]byte("1.5  "), 5, schema.AlignLeft, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	if got := v.Float32(); got != 1.5 {
		t.Errorf("got %v, want 1.5", got)
	}
}

func TestUtf8AlwaysOk(t *testing.T) {
	_, v, ok, err := Utf8([]byte("hello     "), 10, schema.AlignLeft, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected ok=true for any valid UTF-8 text field")
	}
	if v != "hello" {
		t.Errorf("got %q, want %q", v, "hello")
	}
}

func TestConsumedIsIndependentOfParseOutcome(t *testing.T) {
	// Malformed content for the dtype still consumes the field's full
	// declared width, so the row cursor always advances correctly.
	consumed, _, ok, err := Int16([]byte("notanum123"), 10, schema.AlignLeft, ' ')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false")
	}
	if consumed != 10 {
		t.Errorf("consumed %d, want 10 regardless of parse failure", consumed)
	}
}
