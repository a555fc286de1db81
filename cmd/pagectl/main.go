// Command pagectl inspects and splits paginated documents offline using the
// same format strategies as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/bookshelf/pkg/formats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(formats.New())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pagectl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(registry *formats.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pagectl",
		Short:        "Inspect and split paginated documents",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newCountCmd(registry),
		newSplitCmd(registry),
		newFormatsCmd(registry),
	)
	return cmd
}

func newCountCmd(registry *formats.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "count <file>",
		Short: "Print the page count of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			n, err := registry.Count(data, formats.FromFilename(args[0]))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newSplitCmd(registry *formats.Registry) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "split <file> <dir>",
		Short: "Write each page of a document to dir as {page}{ext}",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dir := args[0], args[1]

			data, err := os.ReadFile(src)
			if err != nil {
				return err
			}

			format := formats.FromFilename(src)
			pages, err := registry.Split(data, format)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if !force {
				entries, err := os.ReadDir(dir)
				if err != nil {
					return err
				}
				if len(entries) > 0 {
					return fmt.Errorf("%s is not empty; use --force to overwrite", dir)
				}
			}

			for i, page := range pages {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				path := filepath.Join(dir, fmt.Sprintf("%d%s", i+1, format))
				if err := os.WriteFile(path, page, 0644); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", len(pages), dir)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Write into a non-empty directory")
	return cmd
}

func newFormatsCmd(registry *formats.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List registered formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range registry.Formats() {
				mode := "count"
				if registry.Supported(f) {
					mode = "count, split"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", f, formats.ContentType(f), mode)
			}
			return nil
		},
	}
}
