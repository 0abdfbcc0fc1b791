package debugger

import "testing"

func TestAddAssignsIncreasingIDs(t *testing.T) {
	bm := NewBreakpointManager()
	first := bm.Add(10, false)
	second := bm.Add(20, false)
	if first.ID == second.ID {
		t.Fatalf("expected distinct IDs, got %d and %d", first.ID, second.ID)
	}
	if first.Offset != 10 || second.Offset != 20 {
		t.Fatalf("unexpected offsets: %+v %+v", first, second)
	}
}

func TestAtFindsBreakpointByOffset(t *testing.T) {
	bm := NewBreakpointManager()
	bm.Add(42, false)
	bp, ok := bm.At(42)
	if !ok || bp.Offset != 42 {
		t.Fatalf("expected to find breakpoint at offset 42, got %+v, %v", bp, ok)
	}
	if _, ok := bm.At(99); ok {
		t.Fatalf("expected no breakpoint at offset 99")
	}
}

func TestDeleteRemovesBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.Add(5, false)
	if err := bm.Delete(bp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := bm.At(5); ok {
		t.Fatalf("expected breakpoint to be gone after delete")
	}
	if err := bm.Delete(bp.ID); err == nil {
		t.Fatalf("expected error deleting an already-deleted breakpoint")
	}
}

func TestSetEnabledTogglesBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.Add(7, false)
	if err := bm.SetEnabled(bp.ID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if bp.Enabled {
		t.Fatalf("expected breakpoint to be disabled")
	}
	if _, ok := bm.At(7); ok {
		t.Fatalf("expected At to skip a disabled breakpoint")
	}
}

func TestOffsetsReturnsEveryBreakpointOffset(t *testing.T) {
	bm := NewBreakpointManager()
	bm.Add(1, false)
	bm.Add(2, false)
	offsets := bm.Offsets()
	if !offsets[1] || !offsets[2] {
		t.Fatalf("expected offsets 1 and 2 to be present, got %v", offsets)
	}
}

func TestHitIncrementsHitCount(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.Add(3, false)
	bm.Hit(bp)
	bm.Hit(bp)
	if bp.HitCount != 2 {
		t.Fatalf("expected hit count 2, got %d", bp.HitCount)
	}
}

func TestListReturnsAllBreakpoints(t *testing.T) {
	bm := NewBreakpointManager()
	bm.Add(1, false)
	bm.Add(2, false)
	if len(bm.List()) != 2 {
		t.Fatalf("expected 2 breakpoints, got %d", len(bm.List()))
	}
}
