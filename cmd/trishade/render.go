package main

import (
	"fmt"
	"time"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/trishade/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		sf        sceneFlags
		out       string
		scale     int
		wireframe string
	)

	cmd := &cobra.Command{
		Use:   "render <scene.json>",
		Short: "Render a scene to an image file",
		Long:  "Render a scene to PNG, WebP or TGA. The format follows the --out extension.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sf.load(args[0])
			if err != nil {
				return err
			}
			obj, opts, err := s.Build()
			if err != nil {
				return err
			}
			if wireframe != "" {
				c, err := render.ParseColor(wireframe)
				if err != nil {
					return fmt.Errorf("--wireframe: %w", err)
				}
				opts.Wireframe = &c
			}
			if _, err := render.FormatFromPath(out); err != nil {
				return err
			}

			start := time.Now()
			fb, err := render.RenderObject(obj, opts)
			if err != nil {
				return err
			}
			if err := fb.Save(out, scale); err != nil {
				return err
			}
			log.Infof("Wrote %s (%dx%d, %d faces, %d pixels drawn) in %v",
				out, fb.Width*max(scale, 1), fb.Height*max(scale, 1), len(obj.Faces), fb.CountDiff(), time.Since(start))
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "out.png", "Output image (.png, .webp or .tga)")
	cmd.Flags().IntVar(&scale, "scale", 1, "Integer upscale factor (nearest neighbour)")
	cmd.Flags().StringVar(&wireframe, "wireframe", "", "Outline faces in this color")
	return cmd
}
