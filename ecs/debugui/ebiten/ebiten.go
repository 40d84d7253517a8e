// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sigecs/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. imgui.ini persistence
// is disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Game implements ebiten.Game. Every Ebiten update ticks the World inside an
// ImGui frame, so render items queued by debugui.ImguiSystem run before the
// frame is closed.
type Game struct {
	World   *ecs.World
	Backend *ImguiBackend

	// DrawWorld, if set, draws game content below the ImGui overlay.
	DrawWorld func(screen *ebiten.Image)

	// QuitKeys end the game when pressed.
	QuitKeys []ebiten.Key
}

// NewGame creates a game that drives world.
func NewGame(world *ecs.World, backend *ImguiBackend) *Game {
	return &Game{World: world, Backend: backend}
}

// Elapsed returns the fixed tick length handed to World.Update, in seconds.
func (g *Game) Elapsed() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(tps)
}

func (g *Game) Update() error {
	for _, key := range g.QuitKeys {
		if ebiten.IsKeyPressed(key) {
			return ebiten.Termination
		}
	}

	g.Backend.BeginFrame()
	g.World.Update(g.Elapsed())
	g.Backend.EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.DrawWorld != nil {
		g.DrawWorld(screen)
	}
	g.Backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run starts the Ebiten loop and blocks until the window is closed.
func (g *Game) Run() error {
	return ebiten.RunGame(g)
}
