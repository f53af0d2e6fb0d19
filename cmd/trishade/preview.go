package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fortio.org/log"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/trishade/pkg/math3d"
	"github.com/taigrr/trishade/pkg/models"
	"github.com/taigrr/trishade/pkg/render"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity used to ease Velocity toward 0
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// lightingCycle is the order the l key steps through; nil means unlit.
var lightingCycle = []*render.LightingMode{
	nil,
	ptr(render.LightingAmbient),
	ptr(render.LightingDiffuse),
	ptr(render.LightingSpecular),
	ptr(render.LightingAll),
}

func ptr[T any](v T) *T { return &v }

// viewer holds the preview state. All methods run on the render loop
// goroutine.
type viewer struct {
	mesh   *models.Mesh
	base   render.Options
	light  render.Illumination
	center math3d.Vec3

	pitch, yaw RotationAxis
	fps        int

	shading   render.ShadingMode
	lighting  int // index into lightingCycle
	backend   render.Filler
	wireframe bool
}

func newViewer(mesh *models.Mesh, opts render.Options, fps int) *viewer {
	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	v := &viewer{
		mesh:    mesh,
		base:    opts,
		center:  mesh.Center(),
		fps:     fps,
		shading: opts.Shading,
		backend: opts.Filler,
	}
	if v.backend == nil {
		v.backend = render.Scanline{}
	}

	if opts.Lighting != nil {
		v.light = *opts.Lighting
		for i, m := range lightingCycle {
			if m != nil && *m == opts.Lighting.Mode {
				v.lighting = i
			}
		}
	} else {
		// Unlit scenes still get a headlight for the l key.
		v.light = render.Illumination{
			Mode:     render.LightingAll,
			Material: render.Material{Ka: 0.2, Kd: 0.7, Ks: 0.5, N: 10},
			Lights:   []render.Light{{Position: opts.Camera.Eye, Intensity: render.White}},
			Ambient:  render.White,
		}
	}
	v.reset()
	return v
}

func (v *viewer) reset() {
	v.pitch = NewRotationAxis(v.fps)
	v.yaw = NewRotationAxis(v.fps)
}

// illumination returns the active lighting, or nil when unlit.
func (v *viewer) illumination() *render.Illumination {
	m := lightingCycle[v.lighting]
	if m == nil {
		return nil
	}
	il := v.light
	il.Mode = *m
	return &il
}

// handleKey applies one key press and reports whether the viewer should quit.
func (v *viewer) handleKey(key string) bool {
	const impulse = 0.05
	switch key {
	case "esc", "q", "ctrl+c":
		return true
	case "up":
		v.pitch.Velocity -= impulse
	case "down":
		v.pitch.Velocity += impulse
	case "left":
		v.yaw.Velocity -= impulse
	case "right":
		v.yaw.Velocity += impulse
	case "r":
		v.reset()
	case "s":
		v.shading = (v.shading + 1) % 3
		if v.shading == render.ShadingPhong && v.illumination() == nil {
			v.shading = render.ShadingFlat
		}
	case "l":
		v.lighting = (v.lighting + 1) % len(lightingCycle)
		if v.shading == render.ShadingPhong && v.illumination() == nil {
			v.shading = render.ShadingGouraud
		}
	case "b":
		if _, ok := v.backend.(render.Scanline); ok {
			v.backend = render.Barycentric{}
		} else {
			v.backend = render.Scanline{}
		}
	case "x":
		v.wireframe = !v.wireframe
	}
	return false
}

// frame advances the springs and renders the mesh at width×height pixels.
func (v *viewer) frame(width, height int) (*render.Framebuffer, error) {
	v.pitch.Update()
	v.yaw.Update()

	rot := math3d.Rotate(math3d.V3(1, 0, 0), v.pitch.Position).
		Mul(math3d.Rotate(math3d.V3(0, 1, 0), v.yaw.Position))
	m := v.mesh.Clone()
	m.Transform(math3d.Translate(v.center).Mul(rot).Mul(math3d.Translate(v.center.Negate())))

	opts := v.base
	opts.Width, opts.Height = width, height
	// Keep pixels square whatever the terminal shape.
	opts.SensorWidth = opts.SensorHeight * float64(width) / float64(height)
	opts.Shading = v.shading
	opts.Lighting = v.illumination()
	opts.Filler = v.backend
	opts.Wireframe = nil
	if v.wireframe {
		c := render.RGB(0, 1, 0.5)
		opts.Wireframe = &c
	}
	return render.RenderObject(m.Object(), opts)
}

// status is the one-line mode summary shown under the image.
func (v *viewer) status() string {
	lighting := "none"
	if m := lightingCycle[v.lighting]; m != nil {
		lighting = m.String()
	}
	backend := "scanline"
	if _, ok := v.backend.(render.Barycentric); ok {
		backend = "barycentric"
	}
	return fmt.Sprintf(" %s | lighting %s | %s | wire %t | %d tris   s/l/b/x r q",
		v.shading, lighting, backend, v.wireframe, v.mesh.TriangleCount())
}

// keyBindings maps the names handleKey understands to the key strings
// that produce them.
var keyBindings = []struct {
	name string
	keys []string
}{
	{"esc", []string{"escape", "esc", "q"}},
	{"ctrl+c", []string{"ctrl+c"}},
	{"up", []string{"up", "k"}},
	{"down", []string{"down", "j"}},
	{"left", []string{"left", "h"}},
	{"right", []string{"right"}},
	{"r", []string{"r"}},
	{"s", []string{"s"}},
	{"l", []string{"l"}},
	{"b", []string{"b"}},
	{"x", []string{"x"}},
}

func keyName(ev uv.KeyPressEvent) string {
	for _, b := range keyBindings {
		if ev.MatchString(b.keys...) {
			return b.name
		}
	}
	return ""
}

func drawStatus(scr uv.Screen, row, width int, text string) {
	style := uv.Style{Fg: render.Black.RGBA(), Bg: render.RGB(0.8, 0.8, 0.8).RGBA()}
	runes := []rune(text)
	for x := range width {
		content := " "
		if x < len(runes) {
			content = string(runes[x])
		}
		scr.SetCell(x, row, &uv.Cell{Content: content, Width: 1, Style: style})
	}
}

func newPreviewCmd() *cobra.Command {
	var (
		sf  sceneFlags
		fps int
	)

	cmd := &cobra.Command{
		Use:   "preview <scene.json>",
		Short: "Preview a scene in the terminal",
		Long: `Render the scene into the terminal with half-block pixels.

Controls:
  Arrow keys  - Spin the object
  S           - Cycle shading (flat, gouraud, phong)
  L           - Cycle lighting terms
  B           - Toggle scanline/barycentric backend
  X           - Toggle wireframe overlay
  R           - Reset rotation
  Esc/Q       - Quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sf.load(args[0])
			if err != nil {
				return err
			}
			mesh, err := s.Mesh()
			if err != nil {
				return err
			}
			opts, err := s.Options()
			if err != nil {
				return err
			}
			return runPreview(cmd.Context(), newViewer(mesh, opts, max(fps, 1)))
		},
	}

	sf.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "Target FPS")
	return cmd
}

func runPreview(ctx context.Context, v *viewer) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Warnf("shutdown terminal: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(v.fps))
	defer ticker.Stop()
	events := term.Events()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
			case uv.KeyPressEvent:
				if v.handleKey(keyName(ev)) {
					return nil
				}
			}

		case <-ticker.C:
			rows := height - 1
			if width <= 0 || rows <= 0 {
				continue
			}
			fbWidth, fbHeight := render.TerminalSize(width, rows)
			fb, err := v.frame(fbWidth, fbHeight)
			if err != nil {
				return err
			}
			fb.Draw(term, uv.Rect(0, 0, width, rows))
			drawStatus(term, rows, width, v.status())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
