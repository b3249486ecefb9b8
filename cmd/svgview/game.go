package main

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/svgworld/compiler"
	"github.com/milk9111/svgworld/debugdraw"
	"github.com/milk9111/svgworld/runner"
	"github.com/milk9111/svgworld/scenes"
	"github.com/milk9111/svgworld/script"
	"github.com/milk9111/svgworld/watch"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/gofont/goregular"
)

// Game steps a runner and draws it. Space pauses, N single-steps while
// paused, C copies the current state as JSON and the left mouse button
// drags dynamic bodies.
type Game struct {
	runner   *runner.Runner
	reloader *watch.Reloader
	pauseUI  *ebitenui.UI
	face     text.Face
	cam      debugdraw.Camera
	paused   bool
	stepOnce bool
	status   string
	clipOK   bool
}

// NewGame compiles source and, for files on disk, reloads it on change.
func NewGame(source string, cfg runner.Config, scriptPath string, contacts []string) (*Game, error) {
	r, err := runner.New(cfg, runner.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}
	data, err := scenes.Open(source, compiler.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}
	if err := r.Load(data); err != nil {
		return nil, err
	}

	if scriptPath != "" {
		s, err := script.LoadFile(scriptPath, r, script.WithLogger(log.Logger))
		if err != nil {
			return nil, err
		}
		for _, c := range contacts {
			a, b, ok := strings.Cut(c, ":")
			if !ok {
				return nil, eris.Errorf("contact %q: want body:body", c)
			}
			r.AddContactSubscriber(a, b, s, c)
		}
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, eris.Wrap(err, "load font")
	}

	g := &Game{
		runner: r,
		face:   &text.GoTextFace{Source: src, Size: 14},
		clipOK: clipboard.Init() == nil,
	}
	g.pauseUI = NewPauseUI(g)

	if !strings.HasPrefix(source, scenes.ScenePrefix) {
		g.reloader, err = watch.NewReloader(source,
			watch.WithLogger(log.Logger),
			watch.WithCompilerOptions(compiler.WithLogger(log.Logger)),
		)
		if err != nil {
			log.Warn().Err(err).Msg("hot reload disabled")
		}
	}
	return g, nil
}

// Close stops the reloader.
func (g *Game) Close() {
	if g.reloader != nil {
		_ = g.reloader.Close()
	}
}

func (g *Game) Update() error {
	g.pollReload()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.stepOnce = true
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.runner.EndDrag()
	}

	if g.paused {
		// Clicks belong to the panel while paused.
		g.pauseUI.Update()
		if !g.stepOnce {
			return nil
		}
	} else {
		g.updateDrag()
	}
	g.stepOnce = false

	if err := g.runner.Step(); err != nil {
		g.status = err.Error()
		g.paused = true
	}
	return nil
}

func (g *Game) updateDrag() {
	x, y := ebiten.CursorPosition()
	p := g.cam.ToWorld(x, y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.runner.StartDrag(p)
	case g.runner.Dragging() != nil:
		g.runner.DragTo(p)
	}
}

func (g *Game) pollReload() {
	if g.reloader == nil {
		return
	}
	select {
	case rl, ok := <-g.reloader.Reloads():
		if !ok {
			g.reloader = nil
			return
		}
		if rl.Err != nil {
			g.status = rl.Err.Error()
			return
		}
		if err := g.runner.Load(rl.Data); err != nil {
			g.status = err.Error()
			return
		}
		g.status = "reloaded"
	default:
	}
}

func (g *Game) copySnapshot() {
	if !g.clipOK {
		g.status = "clipboard unavailable"
		return
	}
	out, err := compiler.MarshalSnapshot(g.runner.Data())
	if err != nil {
		g.status = err.Error()
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.status = "state copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff})

	data := g.runner.Data()
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	g.cam = debugdraw.Fit(data.Size, w, h)
	debugdraw.DrawWorld(screen, data, g.cam, g.runner.Dragging())

	label := fmt.Sprintf("tick %d  bodies %d  joints %d", g.runner.Tick(), len(data.BodyMap), len(data.JointMap))
	if g.paused {
		label += "  [paused]"
	}
	if g.status != "" {
		label += "  " + g.status
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, label, g.face, op)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
