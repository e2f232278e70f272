package ui

import "testing"

func TestBase_ListHeight(t *testing.T) {
	var b Base
	b.SetSize(80, 20)

	if w, h := b.Size(); w != 80 || h != 20 {
		t.Errorf("Size() = %d,%d", w, h)
	}
	if got := b.ListHeight(PanelOverhead); got != 16 {
		t.Errorf("ListHeight = %d, want 16", got)
	}

	b.SetSize(80, 2)
	if got := b.ListHeight(PanelOverhead); got != 0 {
		t.Errorf("ListHeight never goes negative, got %d", got)
	}
}
