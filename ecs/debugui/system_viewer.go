package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sigecs/ecs"
)

// toggler is implemented by every system that embeds ecs.BaseSystem.
type toggler interface {
	Enable()
	Disable()
}

// SystemViewer lists registered systems with their scheduling state and
// execution timings. Systems can be enabled and disabled from the table.
type SystemViewer struct {
	showUnscheduled bool
}

func NewSystemViewer() *SystemViewer {
	return &SystemViewer{showUnscheduled: true}
}

func (sv *SystemViewer) Render(world *ecs.World) {
	if !imgui.BeginV("Systems", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := world.GetStats()
	imgui.Text(fmt.Sprintf("Registered: %d  Scheduled: %d  Executions: %d", stats.SystemCount, stats.ScheduledCount, stats.TotalExecutions))
	imgui.Checkbox("Show unscheduled", &sv.showUnscheduled)
	imgui.SameLine()
	if imgui.Button("Reschedule") {
		world.Commands().Defer(world.Reschedule)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("SystemTable", 7, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Enabled")
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Priority")
		imgui.TableSetupColumn("Frequency")
		imgui.TableSetupColumn("Entities")
		imgui.TableSetupColumn("Runs")
		imgui.TableSetupColumn("Avg / Max")
		imgui.TableHeadersRow()

		for _, s := range sv.rows(stats) {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			enabled := s.Enabled
			if imgui.Checkbox(fmt.Sprintf("##enabled%d", s.ID), &enabled) {
				SetSystemEnabled(world, s.ID, enabled)
			}

			imgui.TableNextColumn()
			imgui.Text(s.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.Priority))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.Frequency))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.EntityCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%v / %v", s.AvgDuration, s.MaxDuration))
		}

		imgui.EndTable()
	}

	imgui.End()
}

func (sv *SystemViewer) rows(stats *ecs.SchedulerStats) []ecs.SystemStats {
	if sv.showUnscheduled {
		return stats.Systems
	}

	rows := make([]ecs.SystemStats, 0, len(stats.Systems))
	for _, s := range stats.Systems {
		if s.Priority != -1 {
			rows = append(rows, s)
		}
	}
	return rows
}

// SetSystemEnabled enables or disables the registered system with the given
// id. It reports false if no such system exists.
func SetSystemEnabled(world *ecs.World, id uint32, enabled bool) bool {
	for _, s := range world.Systems() {
		if s.ID() != id {
			continue
		}
		t, ok := s.(toggler)
		if !ok {
			return false
		}
		if enabled {
			t.Enable()
		} else {
			t.Disable()
		}
		return true
	}
	return false
}
