package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/engine"
)

// NewPerformanceStatsComponent keeps historyFrames frame times. engineStats
// may be nil when no engine timings are available.
func NewPerformanceStatsComponent(historyFrames int, engineStats func() *engine.Stats) PerformanceStatsComponent {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
		engineStats:   engineStats,
	}
}

func (ps *PerformanceStatsComponent) record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

func (ps *PerformanceStatsComponent) averageFrameTime() float32 {
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}

func (ps *PerformanceStatsComponent) Render(store *ecs.Store, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.record(deltaTime)
	stats := store.CollectStats()

	imgui.Text(fmt.Sprintf("Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Live Slots: %d", stats.SlotCount))
	imgui.Text(fmt.Sprintf("Component Types: %d", len(stats.Types)))
	imgui.Text(fmt.Sprintf("Next Entity: %d", stats.NextEntity))
	imgui.Text(fmt.Sprintf("Next Slot: %s", stats.NextSlot))

	avgFrameTime := ps.averageFrameTime()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if ps.engineStats != nil && imgui.TreeNodeStr("System Timings") {
		es := ps.engineStats()
		imgui.Text(fmt.Sprintf("Frames: %d", es.Frames))

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Min")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range es.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				if sys.Render {
					imgui.Text(sys.Name + " (render)")
				} else {
					imgui.Text(sys.Name)
				}
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MinDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Type Details") {
		for _, ts := range stats.Types {
			imgui.BulletText(fmt.Sprintf("%s: %d held, %d stored", ts.Name, ts.Holders, ts.Stored))
		}
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
