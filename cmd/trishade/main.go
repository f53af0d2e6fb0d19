// trishade - software triangle rasterizer
// Renders triangle meshes with flat, Gouraud or Phong shading through a
// pinhole camera, to image files or straight into the terminal.
//
// Commands:
//
//	render     - Render a scene to PNG, WebP or TGA
//	turntable  - Render frames of the object spinning about an axis
//	info       - Print mesh statistics for a model or scene
//	preview    - Interactive half-block preview in the terminal
package main

import (
	"context"
	"os"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/trishade/pkg/scene"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "trishade",
		Short: "Software triangle rasterizer",
		Long: `trishade - software triangle rasterizer

Fills triangles with a scanline active-edge engine (or a barycentric
reference backend), shades them flat, Gouraud or Phong, and composites
whole objects back to front through a pinhole camera.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLogLevel(log.Debug)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newRenderCmd(),
		newTurntableCmd(),
		newInfoCmd(),
		newPreviewCmd(),
	)
	return cmd
}

// sceneFlags are the scene overrides shared by every rendering command.
type sceneFlags struct {
	scene.Flags
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Shading, "shading", "", "Shading mode: flat, gouraud or phong")
	cmd.Flags().StringVar(&f.Lighting, "lighting", "", "Lighting terms: ambient, diffuse, specular, all or none")
	cmd.Flags().StringVar(&f.Backend, "backend", "", "Fill backend: scanline or barycentric")
	cmd.Flags().StringVar(&f.Background, "bg", "", "Background color (#rrggbb or R,G,B)")
	cmd.Flags().IntVar(&f.Width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&f.Height, "height", 0, "Image height in pixels")
}

// load reads a scene file and applies the flag overrides.
func (f *sceneFlags) load(path string) (*scene.Scene, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	s.Resolve(f.Flags)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	log.Debugf("scene %s: %s shading, %s lighting, %s backend, %dx%d",
		path, s.Shading, s.Lighting, s.Backend, s.Image.Width, s.Image.Height)
	return s, nil
}
