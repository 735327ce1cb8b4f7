package ggwriter

import (
	"testing"

	"github.com/gogpu/ggwriter/geom"
)

func TestInsertRemove(t *testing.T) {
	w := New()
	_ = w.Fill(square(0, 0, 1))
	_ = w.Fill(square(1, 0, 1))
	a, b := w.At(0), w.At(1)

	g := New()
	_ = g.Fill(square(5, 5, 1))
	_ = g.Fill(square(6, 6, 1))

	if !w.Insert(1, g) {
		t.Fatal("Insert() = false")
	}
	if w.Len() != 3 || w.At(1) != Node(g) || w.IndexOf(b) != 2 {
		t.Errorf("children after Insert = %v", w.Children())
	}
	if g.Parent() != w || g.Root() != w {
		t.Errorf("inserted group not linked: Parent() = %p, Root() = %p", g.Parent(), g.Root())
	}
	if w.Count() != 5 {
		t.Errorf("Count() = %d, want 5", w.Count())
	}

	if !w.Remove(a) {
		t.Error("Remove() = false")
	}
	if a.Parent() != nil {
		t.Error("removed record still has a parent")
	}
	if w.Remove(a) {
		t.Error("Remove() of a detached node = true")
	}
	if w.Count() != 4 {
		t.Errorf("Count() after Remove = %d, want 4", w.Count())
	}

	g.RemoveFromParent()
	if w.Len() != 1 || w.Count() != 1 {
		t.Errorf("Len() = %d, Count() = %d after RemoveFromParent, want 1, 1", w.Len(), w.Count())
	}
	if g.Root() != g || g.Count() != 2 {
		t.Errorf("detached group Root() = %p, Count() = %d, want itself, 2", g.Root(), g.Count())
	}
}

func TestInsertMovesNode(t *testing.T) {
	w := New(WithForkPolicy(ForkGrouped))
	g1 := w.ForkWriter()
	g2 := w.ForkWriter()
	_ = g1.Fill(square(0, 0, 1))
	rec := g1.At(0)

	if !g2.Add(rec) {
		t.Fatal("Add() = false")
	}
	if g1.Len() != 0 || g2.Len() != 1 || rec.Parent() != g2 {
		t.Errorf("node not moved: g1.Len() = %d, g2.Len() = %d", g1.Len(), g2.Len())
	}
	if w.Count() != 3 {
		t.Errorf("Count() = %d, want 3", w.Count())
	}
}

func TestInsertRejectsCycles(t *testing.T) {
	w := New(WithForkPolicy(ForkGrouped))
	child := w.ForkWriter()
	grand := child.ForkWriter()

	if grand.Add(w) || grand.Add(child) || child.Add(child) {
		t.Error("Add() accepted an ancestor")
	}
	if w.Parent() != nil || child.Parent() != w {
		t.Error("rejected Add() changed the tree")
	}
}

func TestInsertRespectsCeiling(t *testing.T) {
	w := New(WithCeiling(2))
	_ = w.Fill(square(0, 0, 1))

	g := New()
	_ = g.Fill(square(0, 0, 1))
	_ = g.Fill(square(1, 0, 1))
	if w.Add(g) {
		t.Error("Add() of a 3-node subtree into 1 free slot = true")
	}
	if g.Parent() != nil || w.Count() != 1 {
		t.Errorf("failed Add() left state behind: Count() = %d", w.Count())
	}
}

func TestIsEmpty(t *testing.T) {
	w := New(WithForkPolicy(ForkGrouped))
	w.ForkWriter().ForkWriter()
	if !w.IsEmpty() {
		t.Error("IsEmpty() = false for nested empty groups")
	}
	w.At(0).(*Writer).At(0).(*Writer).Fill(square(0, 0, 1))
	if w.IsEmpty() {
		t.Error("IsEmpty() = true with a nested record")
	}
}

func TestInstructionsSimplify(t *testing.T) {
	w := New(WithForkPolicy(ForkGrouped))
	w.ForkWriter()
	inner := w.ForkWriter()
	_ = inner.Fill(square(0, 0, 1))
	_ = inner.Fill(square(1, 0, 1))

	if got := len(w.Instructions(false)); got != 2 {
		t.Errorf("len(Instructions(false)) = %d, want 2", got)
	}
	got := w.Instructions(true)
	if len(got) != 2 || got[0].Kind() != KindFill || got[1].Kind() != KindFill {
		t.Errorf("Instructions(true) = %v, want the two fills of the lone group", got)
	}
	if w.Len() != 2 {
		t.Errorf("Instructions(true) modified the tree: Len() = %d", w.Len())
	}
}

func TestGroupBounds(t *testing.T) {
	w := New(WithForkPolicy(ForkGrouped))
	if b := w.Bounds(); b != (geom.XYWH(0, 0, 0, 0)) {
		t.Errorf("empty Bounds() = %v, want zero", b)
	}
	_ = w.Fill(square(0, 0, 10))
	child := w.ForkWriter()
	child.Translate(20, 20)
	_ = child.Fill(square(0, 0, 10))
	if got, want := w.Bounds(), geom.XYWH(0, 0, 30, 30); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}

	clipped := New()
	clipped.ClipTo(square(0, 0, 5))
	_ = clipped.Fill(square(0, 0, 10))
	if got, want := clipped.Bounds(), geom.XYWH(0, 0, 5, 5); got != want {
		t.Errorf("clipped Bounds() = %v, want %v", got, want)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindFill, "Fill"},
		{KindStroke, "Stroke"},
		{KindCombinedShape, "CombinedShape"},
		{KindImage, "Image"},
		{KindTextBox, "TextBox"},
		{KindGroup, "Group"},
		{Kind(0), "Unknown"},
		{Kind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
