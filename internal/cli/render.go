package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindwell/mindgrid/pkg/layout"
	"github.com/mindwell/mindgrid/pkg/mapdoc"
	"github.com/mindwell/mindgrid/pkg/render"
)

// Supported render formats.
const (
	formatSVG = "svg"
	formatDOT = "dot"
	formatPNG = "png"
)

// renderCommand creates the render command for producing visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		format     string
		configPath string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "render [map.json]",
		Short: "Render a mind map as SVG, DOT, or PNG",
		Long: `Render a mind map as SVG, DOT, or PNG.

The svg format draws the map exactly as the layout engine positions it.
The dot format exports Graphviz DOT for external tooling, and png
rasterizes that DOT through the embedded Graphviz engine.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, format, configPath, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), dot, png")
	cmd.Flags().StringVar(&configPath, "config", "", "layout config file (TOML)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node ids in DOT labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output, format, configPath string, detailed bool) error {
	t, err := mapdoc.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}

	var data []byte
	switch format {
	case formatSVG:
		cfg, err := loadLayoutConfig(configPath)
		if err != nil {
			return err
		}
		nodes := layout.Layout(t, cfg)
		data = render.RenderSVG(t, nodes, cfg)

	case formatDOT:
		data = []byte(render.ToDOT(t, render.DOTOptions{Detailed: detailed}))

	case formatPNG:
		dot := render.ToDOT(t, render.DOTOptions{Detailed: detailed})
		data, err = render.RenderDOTPNG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render png: %w", err)
		}

	default:
		return fmt.Errorf("unsupported format %q (want svg, dot, or png)", format)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Rendered %s", format)
	printFile(outputPath)
	return nil
}
