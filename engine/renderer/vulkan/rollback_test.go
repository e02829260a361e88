package vulkan

import (
	"slices"
	"testing"
)

func TestRollbackRunsInReverse(t *testing.T) {
	var rb rollback
	var order []string
	for _, name := range []string{"instance", "device", "swapchain"} {
		rb.push(name, func() { order = append(order, name) })
	}
	if rb.pending() != 3 {
		t.Fatalf("pending = %d, want 3", rb.pending())
	}

	ran := rb.run()
	want := []string{"swapchain", "device", "instance"}
	if !slices.Equal(order, want) || !slices.Equal(ran, want) {
		t.Fatalf("order = %v, ran = %v, want %v", order, ran, want)
	}
	if rb.pending() != 0 {
		t.Fatalf("stack not emptied: %d", rb.pending())
	}
	if again := rb.run(); len(again) != 0 {
		t.Fatalf("second run released %v", again)
	}
}

func TestRollbackRelease(t *testing.T) {
	var rb rollback
	called := false
	rb.push("surface", func() { called = true })
	rb.push("nil step", nil)
	rb.release()
	rb.run()
	if called {
		t.Fatal("released step ran")
	}
}
