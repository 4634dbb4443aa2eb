package toy

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/loomlm/loom/internal/inference"
)

var _ inference.Model = (*Model)(nil)

func TestLogitsShape(t *testing.T) {
	m := New(37, 8, DefaultContextSize, 1)
	logits, err := m.Logits(context.Background(), []int{0, 5, 12})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	if len(logits) != 37 {
		t.Fatalf("got %d logits, want %d", len(logits), 37)
	}
	if m.ContextSize() != DefaultContextSize {
		t.Fatalf("ContextSize() = %d, want %d", m.ContextSize(), DefaultContextSize)
	}
	if m.VocabSize() != 37 {
		t.Fatalf("VocabSize() = %d, want %d", m.VocabSize(), 37)
	}
}

func TestDeterministicBySeed(t *testing.T) {
	window := []int{3, 1, 4, 1, 5}

	a, err := New(20, 16, 64, 99).Logits(context.Background(), window)
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	b, err := New(20, 16, 64, 99).Logits(context.Background(), window)
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different logits")
	}

	c, err := New(20, 16, 64, 100).Logits(context.Background(), window)
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Fatal("different seeds produced identical logits")
	}
}

func TestWindowOrderMatters(t *testing.T) {
	m := New(20, 16, 64, 7)

	fwd, err := m.Logits(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	rev, err := m.Logits(context.Background(), []int{3, 2, 1})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	if reflect.DeepEqual(fwd, rev) {
		t.Fatal("reversing the window should change the recency weighting")
	}
}

func TestFreshSlicePerCall(t *testing.T) {
	m := New(10, 4, 64, 3)
	window := []int{2, 7}

	first, err := m.Logits(context.Background(), window)
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	want := make([]float32, len(first))
	copy(want, first)
	for i := range first {
		first[i] = -1
	}

	second, err := m.Logits(context.Background(), window)
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	if !reflect.DeepEqual(second, want) {
		t.Fatal("mutating a returned slice affected a later query")
	}
}

func TestOutOfRangeTokenWraps(t *testing.T) {
	m := New(10, 4, 64, 3)

	tests := []struct {
		name    string
		window  []int
		wrapped []int
	}{
		{"above-vocab", []int{13}, []int{3}},
		{"negative", []int{-1}, []int{9}},
		{"mixed", []int{4, 23, -6}, []int{4, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Logits(context.Background(), tt.window)
			if err != nil {
				t.Fatalf("Logits: %v", err)
			}
			want, err := m.Logits(context.Background(), tt.wrapped)
			if err != nil {
				t.Fatalf("Logits: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("window %v did not score like %v", tt.window, tt.wrapped)
			}
		})
	}
}

func TestEmptyWindow(t *testing.T) {
	m := New(10, 4, 64, 3)
	logits, err := m.Logits(context.Background(), nil)
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	if len(logits) != 10 {
		t.Fatalf("got %d logits, want %d", len(logits), 10)
	}
}

func TestCancelledContext(t *testing.T) {
	m := New(10, 4, 64, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Logits(ctx, []int{1}); err != context.Canceled {
		t.Fatalf("got %v, want %v", err, context.Canceled)
	}
}

func TestConcurrentQueriesMatchSerial(t *testing.T) {
	m := New(40, 16, 64, 11)
	windows := [][]int{
		{1, 2, 3},
		{39, 0, 39},
		{7},
		nil,
		{5, 5, 5, 5, 5, 5},
	}

	want := make([][]float32, len(windows))
	for i, w := range windows {
		logits, err := m.Logits(context.Background(), w)
		if err != nil {
			t.Fatalf("Logits: %v", err)
		}
		want[i] = logits
	}

	got := make([][]float32, len(windows))
	errs := make([]error, len(windows))
	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], errs[i] = m.Logits(context.Background(), w)
		}()
	}
	wg.Wait()

	for i := range windows {
		if errs[i] != nil {
			t.Fatalf("Logits: %v", errs[i])
		}
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Fatalf("concurrent query %d diverged from serial result", i)
		}
	}
}
