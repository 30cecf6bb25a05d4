package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindwell/mindgrid/pkg/cache"
	"github.com/mindwell/mindgrid/pkg/layout"
	"github.com/mindwell/mindgrid/pkg/mapdoc"
	"github.com/mindwell/mindgrid/pkg/observability"
	"github.com/mindwell/mindgrid/pkg/tree"
)

// positionedJSON is the wire form of one positioned node in layout output.
type positionedJSON struct {
	ID            string  `json:"id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	OwnHeight     float64 `json:"own_height"`
	SubtreeHeight float64 `json:"subtree_height"`
	Direction     int     `json:"direction"`
}

// layoutCommand creates the layout command for positioning map nodes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [map.json]",
		Short: "Compute node positions for a mind map",
		Long: `Compute node positions for a mind map.

The layout command takes a map.json file and assigns a coordinate to every
visible node: root-level branches split left and right, sibling subtrees
stack in non-overlapping vertical bands. The output is a layout.json file
listing each node's position and band heights.

Layout is deterministic, so results are cached locally keyed by document
content and config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, configPath, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "layout config file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the map, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output, configPath string, noCache bool) error {
	t, err := mapdoc.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}

	cfg, err := loadLayoutConfig(configPath)
	if err != nil {
		return err
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	data, cacheHit, err := layoutWithCache(ctx, store, t, cfg)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	var positioned []positionedJSON
	_ = json.Unmarshal(data, &positioned)

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(t.Len(), len(positioned), cacheHit)
	printNewline()
	printNextStep("Render", "mindgrid render "+input)

	return nil
}

// layoutWithCache returns the marshaled layout for the tree, serving from
// the cache when the document and config are unchanged.
func layoutWithCache(ctx context.Context, store cache.Cache, t *tree.Tree, cfg layout.Config) ([]byte, bool, error) {
	docBytes, err := mapdoc.Marshal(t)
	if err != nil {
		return nil, false, err
	}
	key := cache.LayoutKey(cache.Hash(docBytes), cfg)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	observability.Layout().OnLayoutStart(ctx, t.Len())
	start := time.Now()
	nodes := layout.Layout(t, cfg)
	observability.Layout().OnLayoutComplete(ctx, len(nodes), time.Since(start))

	out := make([]positionedJSON, len(nodes))
	for i, p := range nodes {
		out[i] = positionedJSON{
			ID:            p.ID,
			X:             p.X,
			Y:             p.Y,
			OwnHeight:     p.OwnHeight,
			SubtreeHeight: p.SubtreeHeight,
			Direction:     p.Direction,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, false, err
	}

	_ = store.Set(ctx, key, data, 0)
	return data, false, nil
}

// loadLayoutConfig loads the TOML config or returns defaults when no path
// is given.
func loadLayoutConfig(path string) (layout.Config, error) {
	if path == "" {
		return layout.DefaultConfig(), nil
	}
	return layout.LoadConfig(path)
}
