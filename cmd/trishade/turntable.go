package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/trishade/pkg/math3d"
	"github.com/taigrr/trishade/pkg/models"
	"github.com/taigrr/trishade/pkg/render"
	"golang.org/x/sync/errgroup"
)

// turntable renders frames of a mesh rotating about an axis through its
// bounding-box center. Frames are independent and render in parallel;
// each frame is composited by a single goroutine.
type turntable struct {
	mesh    *models.Mesh
	opts    render.Options
	axis    math3d.Vec3
	frames  int
	workers int
	dir     string
	ext     string
	scale   int
}

// framePath names frame i.
func (t *turntable) framePath(i int) string {
	return filepath.Join(t.dir, fmt.Sprintf("frame_%03d%s", i, t.ext))
}

// frame renders the mesh rotated by i/frames of a full turn.
func (t *turntable) frame(i int) (*render.Framebuffer, error) {
	angle := 2 * math.Pi * float64(i) / float64(t.frames)
	c := t.mesh.Center()

	m := t.mesh.Clone()
	m.Transform(math3d.Translate(c).Mul(math3d.Rotate(t.axis, angle)).Mul(math3d.Translate(c.Negate())))

	// Lighting is shared read-only; RenderObject copies it before use.
	return render.RenderObject(m.Object(), t.opts)
}

// run renders every frame and writes it to disk.
func (t *turntable) run(ctx context.Context) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)

	for i := range t.frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fb, err := t.frame(i)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			path := t.framePath(i)
			if err := fb.Save(path, t.scale); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			log.Debugf("wrote %s", path)
			return nil
		})
	}
	return g.Wait()
}

func newTurntableCmd() *cobra.Command {
	var (
		sf      sceneFlags
		dir     string
		format  string
		frames  int
		workers int
		scale   int
		axis    []float64
	)

	cmd := &cobra.Command{
		Use:   "turntable <scene.json>",
		Short: "Render a spinning sequence of frames",
		Long:  "Render frames of the scene object rotating one full turn about an axis through its center.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames <= 0 {
				return fmt.Errorf("--frames must be positive, got %d", frames)
			}
			if len(axis) != 3 {
				return fmt.Errorf("--axis needs 3 components, got %d", len(axis))
			}
			ext := "." + format
			if _, err := render.FormatFromPath(ext); err != nil {
				return err
			}

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
			if opts.Shading != render.ShadingFlat && opts.Lighting != nil && !mesh.HasNormals() {
				mesh.CalculateSmoothNormals()
			}

			tt := &turntable{
				mesh:    mesh,
				opts:    opts,
				axis:    math3d.V3(axis[0], axis[1], axis[2]),
				frames:  frames,
				workers: max(workers, 1),
				dir:     dir,
				ext:     ext,
				scale:   scale,
			}
			start := time.Now()
			if err := tt.run(cmd.Context()); err != nil {
				return err
			}
			log.Infof("Wrote %d frames to %s in %v", frames, dir, time.Since(start))
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", "frames", "Output directory")
	cmd.Flags().StringVar(&format, "format", "png", "Frame format: png, webp or tga")
	cmd.Flags().IntVarP(&frames, "frames", "n", 36, "Number of frames in one turn")
	cmd.Flags().IntVarP(&workers, "workers", "j", runtime.NumCPU(), "Frames rendered in parallel")
	cmd.Flags().IntVar(&scale, "scale", 1, "Integer upscale factor (nearest neighbour)")
	cmd.Flags().Float64SliceVar(&axis, "axis", []float64{0, 1, 0}, "Rotation axis x,y,z")
	return cmd
}
