package scene

import "github.com/Crazzygamerr/zen-mandala/pkg/kernel"

// Container groups children under one transform. It draws nothing itself.
type Container struct {
	Node
}

func NewContainer() *Container {
	return &Container{Node: NewNode()}
}

func (c *Container) Kind() Kind                { return KindContainer }
func (c *Container) Paint(kernel.Canvas) error { return nil }
func (c *Container) Clone() Drawable           { return &Container{Node: c.CloneNode()} }
