package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sigecs/ecs"
)

type ArchetypeInfo struct {
	ID             uint32
	Signature      string
	ComponentTypes []string
	EntityCount    int
	PooledCount    int
}

// ArchetypeViewer shows every archetype a world has instantiated with its
// live and pooled entity counts.
type ArchetypeViewer struct {
	archetypes     []ArchetypeInfo
	selectedArchId *uint32
	sortColumn     int
	sortAscending  bool
}

func NewArchetypeViewer() *ArchetypeViewer {
	return &ArchetypeViewer{
		sortColumn:    3,
		sortAscending: false,
	}
}

func (av *ArchetypeViewer) Render(world *ecs.World) {
	if !imgui.BeginV("Archetype Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	av.refresh(world)

	maxEntityCount := 0
	for _, arch := range av.archetypes {
		maxEntityCount = max(maxEntityCount, arch.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Signature")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableSetupColumn("Pooled")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			av.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, arch := range av.archetypes {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := av.selectedArchId != nil && *av.selectedArchId == arch.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", arch.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				archIdCopy := arch.ID
				av.selectedArchId = &archIdCopy
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(arch.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(arch.Signature)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", arch.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(arch.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", arch.PooledCount))
		}

		imgui.EndTable()
	}

	imgui.End()
}

func (av *ArchetypeViewer) refresh(world *ecs.World) {
	stats := world.CollectStats()

	av.archetypes = av.archetypes[:0]
	for _, arch := range stats.ArchetypeBreakdown {
		av.archetypes = append(av.archetypes, ArchetypeInfo{
			ID:             arch.ID,
			Signature:      arch.Signature,
			ComponentTypes: arch.ComponentTypes,
			EntityCount:    arch.EntityCount,
			PooledCount:    arch.PooledCount,
		})
	}

	av.sortArchetypes()
}

// SortBy orders rows by column: 0 id, 1 components, 2 signature, 3 entities, 4 pooled.
func (av *ArchetypeViewer) SortBy(column int, ascending bool) {
	av.sortColumn = column
	av.sortAscending = ascending
	av.sortArchetypes()
}

func (av *ArchetypeViewer) sortArchetypes() {
	sort.SliceStable(av.archetypes, func(i, j int) bool {
		a, b := av.archetypes[i], av.archetypes[j]
		if !av.sortAscending {
			a, b = b, a
		}

		switch av.sortColumn {
		case 0:
			return a.ID < b.ID
		case 1:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 2:
			return a.Signature < b.Signature
		case 4:
			return a.PooledCount < b.PooledCount
		default:
			return a.EntityCount < b.EntityCount
		}
	})
}

// Selected returns the tid of the selected archetype, or nil.
func (av *ArchetypeViewer) Selected() *uint32 {
	return av.selectedArchId
}
