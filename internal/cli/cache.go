package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindwell/mindgrid/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layout results",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := openFileCache()
			if err != nil {
				return err
			}
			defer fc.Close()

			entries, _, err := fc.Size()
			if err != nil {
				return fmt.Errorf("inspect cache: %w", err)
			}
			if entries == 0 {
				printInfo("Cache is empty")
				return nil
			}

			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", entries)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache entry count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := openFileCache()
			if err != nil {
				return err
			}
			defer fc.Close()

			entries, bytes, err := fc.Size()
			if err != nil {
				return fmt.Errorf("inspect cache: %w", err)
			}
			printInfo("%d entries, %.1f KiB", entries, float64(bytes)/1024)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

func openFileCache() (*cache.FileCache, string, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, "", fmt.Errorf("get cache dir: %w", err)
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, "", fmt.Errorf("open cache: %w", err)
	}
	return store.(*cache.FileCache), dir, nil
}
