package engine

import (
	"fmt"
	"strings"
)

// HierarchyReport renders the scene tree under the three stage roots, each
// entity with its flags and the coroutines it owns, followed by the
// game-owned coroutines.
func (g *Game) HierarchyReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Hierarchy at T=%03d mode=%s ---\n", g.state.Tick, g.state.Mode)
	fmt.Fprintf(&b, "entities=%d coroutines=%d camera=%v\n\n", g.entities.Len(), g.coroutines.Len(), g.camera.Frame())

	for _, root := range []*Entity{g.ParallaxStage, g.Stage, g.FixedStage} {
		fmt.Fprintf(&b, "%s %v\n", root.name, root.Position)
		for _, c := range root.children {
			g.writeNode(&b, c, 1)
		}
	}

	owned := g.coroutines.OwnedBy(g)
	if len(owned) > 0 {
		b.WriteString("\ngame coroutines:\n")
		for _, info := range owned {
			fmt.Fprintf(&b, "  [%d] %s: %s\n", info.ID, info.Name, info.Status)
		}
	}
	return b.String()
}

func (g *Game) writeNode(b *strings.Builder, e *Entity, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s %v %gx%g%s\n", indent, e, e.Position, e.Width, e.Height, entityFlags(e))
	for _, info := range g.coroutines.OwnedBy(e) {
		fmt.Fprintf(b, "%s  ~ [%d] %s: %s\n", indent, info.ID, info.Name, info.Status)
	}
	for _, c := range e.children {
		g.writeNode(b, c, depth+1)
	}
}

func entityFlags(e *Entity) string {
	var flags []string
	if e.collidable {
		flags = append(flags, "collidable")
	}
	if e.interactable {
		flags = append(flags, "interactable")
	}
	if !e.Visible {
		flags = append(flags, "hidden")
	}
	if e.destroyed {
		flags = append(flags, "destroyed")
	}
	if e.hitInfo.Hit {
		flags = append(flags, "hit")
	}
	modes := make([]string, len(e.Modes))
	for i, m := range e.Modes {
		modes[i] = string(m)
	}
	flags = append(flags, "modes="+strings.Join(modes, ","))
	return " [" + strings.Join(flags, " ") + "]"
}
