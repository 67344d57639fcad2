package mock

import (
	"context"
	"math"
	"testing"
)

func TestEmbedDeterministic(t *testing.T) {
	e := New()
	a, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("identical texts produced different vectors at %d", i)
		}
	}
}

func TestEmbedDistinctTexts(t *testing.T) {
	e := New()
	a, _ := e.Embed(context.Background(), "hello")
	b, _ := e.Embed(context.Background(), "goodbye")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical vectors")
	}
}

func TestEmbedUnitNorm(t *testing.T) {
	e := New()
	vec, _ := e.Embed(context.Background(), "normalize me")

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if math.Abs(norm-1) > 1e-3 {
		t.Errorf("vector norm = %v, want ~1", norm)
	}
}

func TestDimensions(t *testing.T) {
	if got := New().Dimensions(); got != DefaultDimensions {
		t.Errorf("Dimensions = %d, want %d", got, DefaultDimensions)
	}
	if got := NewWithDimensions(768).Dimensions(); got != 768 {
		t.Errorf("Dimensions = %d, want 768", got)
	}
	if got := NewWithDimensions(-1).Dimensions(); got != DefaultDimensions {
		t.Errorf("non-positive dims should fall back to %d, got %d", DefaultDimensions, got)
	}
	vec, _ := NewWithDimensions(16).Embed(context.Background(), "short")
	if len(vec) != 16 {
		t.Errorf("vector length = %d, want 16", len(vec))
	}
}
