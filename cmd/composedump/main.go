package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/composer/ast"
	"github.com/Konsultn-Engineering/composer/compose"
	"github.com/Konsultn-Engineering/composer/shortcut"
)

// Options holds the flags for composedump.
type Options struct {
	Shortcuts    string
	Params       string
	Verbose      bool
	NoDefault    bool
	EscapeRegexp bool
}

func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "composedump",
		Short: "Compose a query tree from shortcut descriptors and params",
		Long: `Compose a query tree from shortcut descriptors and params.

Loads a YAML descriptor list, registers it on a fresh registry, applies
the YAML parameter object, and prints the composed tree as canonical JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Shortcuts, "shortcuts", "s", "", "YAML descriptor file (required)")
	cmd.Flags().StringVarP(&opts.Params, "params", "p", "", "YAML params file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().BoolVar(&opts.NoDefault, "no-default", false, "skip the default sub-filter")
	cmd.Flags().BoolVar(&opts.EscapeRegexp, "escape-regexp", false, "escape regexp pattern literals")
	_ = cmd.MarkFlagRequired("shortcuts")

	return cmd
}

func run(opts *Options, cmd *cobra.Command) error {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	descs, err := loadDescriptors(opts.Shortcuts)
	if err != nil {
		return err
	}
	params := &compose.Params{}
	if opts.Params != "" {
		params, err = loadParams(opts.Params)
		if err != nil {
			return err
		}
	}

	reg := compose.New(compose.WithLogger(logger))
	if opts.EscapeRegexp {
		reg.PostProcess(compose.EscapeRegexpPatterns)
	}
	if err := shortcut.Apply(reg, descs, shortcut.WithLogger(logger)); err != nil {
		return err
	}

	var applyOpts []compose.ApplyOption
	if opts.NoDefault {
		applyOpts = append(applyOpts, compose.WithoutDefaultSubquery())
	}
	tree, err := reg.Apply(cmd.Context(), params, applyOpts...)
	if err != nil {
		return err
	}

	out, err := ast.MarshalCanonical(tree)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func loadDescriptors(path string) ([]shortcut.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return shortcut.LoadDescriptors(f)
}

func loadParams(path string) (*compose.Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return shortcut.LoadParams(f)
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
