package layout

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries every knob the layout pipeline reads. It is passed
// explicitly into ComputeMetrics and Layout so the core stays free of
// module-level registries and two runs with equal inputs are bit-identical.
type Config struct {
	// NodeWidth is the horizontal extent of a node box and the width of the
	// per-level rail. Per-node Style.Width overrides it for text wrapping
	// only; rail spacing always uses NodeWidth.
	NodeWidth float64 `toml:"node_width"`

	// HGap is the horizontal gap between adjacent levels.
	HGap float64 `toml:"h_gap"`

	// ChildGap is the vertical gap between adjacent sibling subtrees.
	ChildGap float64 `toml:"child_gap"`

	// LineHeight is the height of one wrapped text line.
	LineHeight float64 `toml:"line_height"`

	// CharWidth is the average character width used by the greedy
	// word-wrap estimate. No font metrics are consulted.
	CharWidth float64 `toml:"char_width"`

	// HPadding and VPadding are the inner paddings of a node box.
	HPadding float64 `toml:"h_padding"`
	VPadding float64 `toml:"v_padding"`

	// FixedHeight, when positive, overrides text measurement and gives
	// every node the same height.
	FixedHeight float64 `toml:"fixed_height"`
}

// DefaultConfig returns the layout defaults used when no config file is
// supplied.
func DefaultConfig() Config {
	return Config{
		NodeWidth:  160,
		HGap:       48,
		ChildGap:   12,
		LineHeight: 18,
		CharWidth:  7.2,
		HPadding:   10,
		VPadding:   8,
	}
}

// LoadConfig reads a TOML config file and applies it on top of the
// defaults, so partial files are valid.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.NodeWidth <= 0:
		return fmt.Errorf("node_width must be positive, got %g", c.NodeWidth)
	case c.LineHeight <= 0:
		return fmt.Errorf("line_height must be positive, got %g", c.LineHeight)
	case c.CharWidth <= 0:
		return fmt.Errorf("char_width must be positive, got %g", c.CharWidth)
	case c.HGap < 0 || c.ChildGap < 0:
		return fmt.Errorf("gaps must not be negative")
	case c.HPadding < 0 || c.VPadding < 0:
		return fmt.Errorf("paddings must not be negative")
	case c.FixedHeight < 0:
		return fmt.Errorf("fixed_height must not be negative, got %g", c.FixedHeight)
	}
	return nil
}
