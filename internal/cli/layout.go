package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orreryworks/orrery/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		configPath  string
		noCache     bool
		interactive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Compute a layout for a diagram document",
		Long: `Compute a layout for a diagram document.

The layout command takes a diagram.json file and computes positions for
every component, relation, and sequence event. The output is a
layout.json document that renderers consume. Embedded diagrams become
additional layers in the same document.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, configPath, noCache, interactive)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "component engine: basic (default), force, hierarchical")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed for the force engine")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "layout configuration file (TOML)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the engine interactively")

	return cmd
}

// runLayout loads the diagram, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output, configPath string, noCache, interactive bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	opts.Config = cfg

	if interactive {
		algorithm, err := pickAlgorithm(opts.Algorithm)
		if err != nil {
			return fmt.Errorf("pick engine: %w", err)
		}
		if algorithm == "" {
			printInfo("Cancelled")
			return nil
		}
		opts.Algorithm = algorithm
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Input = input
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
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

	data, err := pipeline.MarshalDocument(result.Document)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(result.Document.Layers), result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Serve", "orrery serve")

	return nil
}
