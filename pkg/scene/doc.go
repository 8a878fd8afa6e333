// Package scene defines the drawable node tree that mandala compositions
// are built from. Every node carries a local transform (position,
// rotation, scale), an opacity, a visibility flag and an ordered child
// list. Graphics nodes additionally hold a replayable list of named
// drawing commands; containers only group children.
package scene
