package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/recipebox/internal/config"
	"github.com/dgallion1/recipebox/internal/recipe"
)

// commandContext carries flags and lazily built dependencies shared by all commands.
type commandContext struct {
	configPath string
	verbose    bool

	engine *recipe.Engine
	log    *slog.Logger
}

func (c *commandContext) ensureEngine() (*recipe.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}
	opts, err := config.LoadEngine(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load engine config: %w", err)
	}
	c.engine = recipe.New(opts)
	c.logger().Debug("engine ready",
		"config", c.configPath,
		"max_denominator", opts.MaxDenominator,
		"divisors", fmt.Sprintf("%d..%d", opts.MinDivisor, opts.MaxDivisor),
	)
	return c.engine, nil
}

func (c *commandContext) logger() *slog.Logger {
	if c.log == nil {
		level := slog.LevelWarn
		if c.verbose {
			level = slog.LevelDebug
		}
		c.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return c.log
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "recipe",
		Short:         "Parse, scale and render recipe markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", os.Getenv("ENGINE_CONFIG"), "Engine options file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newParseCommand(ctx))
	rootCmd.AddCommand(newScaleCommand(ctx))
	rootCmd.AddCommand(newDivisorsCommand(ctx))
	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))

	return rootCmd
}

// readInput reads the named file, or stdin when the name is "-".
func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
