package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. The file cache
// shards entries into two-character subdirectories of JSON files; clear
// removes the entries and drops the emptied shards.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			entries, err := filepath.Glob(filepath.Join(dir, "*", "*.json"))
			if err != nil {
				return fmt.Errorf("scan cache dir: %w", err)
			}
			if len(entries) == 0 {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			for _, path := range entries {
				if os.Remove(path) == nil {
					count++
				}
			}

			// Drop the emptied shard directories; non-empty ones refuse
			// removal, which is fine.
			shards, _ := filepath.Glob(filepath.Join(dir, "*"))
			for _, shard := range shards {
				_ = os.Remove(shard)
			}

			printSuccess("Cleared %d cached layouts", count)
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
