package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sigecs/ecs"
)

// SignatureMatcher builds a signature from selected components and shows
// which archetypes carry it and which systems would track such an entity.
type SignatureMatcher struct {
	selected map[uint32]bool
}

func NewSignatureMatcher() *SignatureMatcher {
	return &SignatureMatcher{
		selected: make(map[uint32]bool),
	}
}

func (sm *SignatureMatcher) Render(world *ecs.World) {
	if !imgui.BeginV("Signature Matcher", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Components:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(sm.selected)
	}

	for _, c := range world.Registry().Components() {
		selected := sm.selected[c.ID()]
		if imgui.Checkbox(c.String(), &selected) {
			sm.Toggle(c, selected)
		}
	}

	imgui.Separator()

	signature := sm.Signature(world.Registry())
	if signature.Count() == 0 {
		imgui.Text("No components selected")
		imgui.End()
		return
	}

	archetypes := MatchArchetypes(world, signature)
	totalEntities := 0
	for _, arch := range archetypes {
		totalEntities += arch.EntityCount
	}

	imgui.Text(fmt.Sprintf("Signature: %s", signature))
	imgui.Text(fmt.Sprintf("Matching Archetypes: %d", len(archetypes)))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", totalEntities))

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("MatchArchTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("All Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, arch := range archetypes {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", arch.ID))

				imgui.TableSetColumnIndex(1)
				imgui.Text(strings.Join(arch.ComponentTypes, ", "))

				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Systems Tracking This Shape") {
		for _, s := range MatchSystems(world, signature) {
			imgui.BulletText(fmt.Sprintf("%T #%d", s, s.ID()))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// Toggle adds or removes a component from the selection.
func (sm *SignatureMatcher) Toggle(c *ecs.ComponentType, selected bool) {
	if selected {
		sm.selected[c.ID()] = true
	} else {
		delete(sm.selected, c.ID())
	}
}

// Signature returns the signature of the selected components.
func (sm *SignatureMatcher) Signature(registry *ecs.Registry) *ecs.BitField {
	components := make([]*ecs.ComponentType, 0, len(sm.selected))
	for id := range sm.selected {
		if c, ok := registry.Component(id); ok {
			components = append(components, c)
		}
	}
	return ecs.Spec(components...)
}

// MatchArchetypes returns the archetypes instantiated in world whose signature
// contains every bit of signature, ordered by tid.
func MatchArchetypes(world *ecs.World, signature *ecs.BitField) []ArchetypeInfo {
	var matching []ArchetypeInfo
	for _, arch := range world.CollectStats().ArchetypeBreakdown {
		archetype, ok := world.Registry().Archetype(arch.ID)
		if !ok || !signature.Subset(archetype.Signature()) {
			continue
		}
		matching = append(matching, ArchetypeInfo{
			ID:             arch.ID,
			Signature:      arch.Signature,
			ComponentTypes: arch.ComponentTypes,
			EntityCount:    arch.EntityCount,
			PooledCount:    arch.PooledCount,
		})
	}
	return matching
}

// MatchSystems returns the registered systems that would track an entity whose
// signature is exactly signature.
func MatchSystems(world *ecs.World, signature *ecs.BitField) []ecs.System {
	var matching []ecs.System
	for _, s := range world.Systems() {
		if s.Signature().Subset(signature) {
			matching = append(matching, s)
		}
	}
	return matching
}
