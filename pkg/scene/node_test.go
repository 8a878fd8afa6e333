package scene_test

import (
	"testing"

	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

func TestNodeDefaults(t *testing.T) {
	c := scene.NewContainer()
	if x, y := c.Position(); x != 0 || y != 0 {
		t.Errorf("position = (%v,%v), want origin", x, y)
	}
	if sx, sy := c.Scale(); sx != 1 || sy != 1 {
		t.Errorf("scale = (%v,%v), want (1,1)", sx, sy)
	}
	if c.Alpha() != 1 || !c.Visible() {
		t.Errorf("alpha=%v visible=%v, want 1 true", c.Alpha(), c.Visible())
	}
	if !c.IsIdentity() {
		t.Error("fresh node should be identity")
	}
	if c.Kind() != scene.KindContainer || c.Kind().String() != "container" {
		t.Errorf("kind = %v", c.Kind())
	}
}

func TestChildOrdering(t *testing.T) {
	parent := scene.NewContainer()
	a, b, c := scene.NewGraphics(), scene.NewGraphics(), scene.NewGraphics()
	parent.AddChild(a)
	parent.AddChild(c)
	if err := parent.AddChildAt(b, 1); err != nil {
		t.Fatalf("AddChildAt: %v", err)
	}
	kids := parent.Children()
	if len(kids) != 3 || kids[0] != a || kids[1] != b || kids[2] != c {
		t.Fatalf("children out of order: %v", kids)
	}

	if err := parent.AddChildAt(scene.NewGraphics(), 5); err == nil {
		t.Error("expected out-of-range error")
	}

	if !parent.RemoveChild(b) {
		t.Error("RemoveChild(b) = false")
	}
	if parent.RemoveChild(b) {
		t.Error("second RemoveChild(b) = true")
	}
	if parent.ChildCount() != 2 {
		t.Errorf("ChildCount = %d, want 2", parent.ChildCount())
	}

	parent.RemoveChildren()
	if parent.ChildCount() != 0 {
		t.Errorf("ChildCount after RemoveChildren = %d", parent.ChildCount())
	}
}

func TestCloneIsDeep(t *testing.T) {
	parent := scene.NewContainer()
	parent.SetPosition(3, 4)
	child := scene.NewGraphics().DrawCircle(0, 0, 5)
	child.SetRotation(1)
	parent.AddChild(child)

	clone := parent.Clone()
	if x, y := clone.Position(); x != 3 || y != 4 {
		t.Errorf("clone position = (%v,%v)", x, y)
	}
	kids := clone.Children()
	if len(kids) != 1 || kids[0] == scene.Drawable(child) {
		t.Fatal("clone should hold a copy of the child, not the original")
	}
	kids[0].SetRotation(2)
	if child.Rotation() != 1 {
		t.Error("mutating the cloned child changed the original")
	}
	g := kids[0].(*scene.Graphics)
	if len(g.Commands()) != 1 || g.Commands()[0].Function != "drawCircle" {
		t.Errorf("clone commands = %v", g.Commands())
	}
}

func TestWalk(t *testing.T) {
	root := scene.NewContainer()
	mid := scene.NewContainer()
	mid.AddChild(scene.NewGraphics())
	root.AddChild(mid)
	root.AddChild(scene.NewGraphics())

	var depths []int
	scene.Walk(root, func(d scene.Drawable, depth int) bool {
		depths = append(depths, depth)
		return true
	})
	want := []int{0, 1, 2, 1}
	if len(depths) != len(want) {
		t.Fatalf("visited %v, want %v", depths, want)
	}
	for i := range want {
		if depths[i] != want[i] {
			t.Fatalf("visited %v, want %v", depths, want)
		}
	}

	n := 0
	scene.Walk(root, func(d scene.Drawable, depth int) bool {
		n++
		return depth == 0
	})
	if n != 3 {
		t.Errorf("pruned walk visited %d nodes, want 3", n)
	}
}
