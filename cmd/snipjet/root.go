package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tordmark/snipjet/inject"
	"github.com/tordmark/snipjet/registry"
)

const defaultRegistry = "https://raw.githubusercontent.com/tordmark/snipjet-registry/main/list.json"

var (
	flagRegistry string
	flagVerbose  bool
	flagTimeout  time.Duration
)

var (
	indexColor = color.New(color.FgCyan)
	nameColor  = color.New(color.Bold)
	dimColor   = color.New(color.Faint)
	errColor   = color.New(color.FgRed)
)

var rootCmd = &cobra.Command{
	Use:          "snipjet",
	Short:        "Fetch, search and inject Go snippets from a remote registry",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagRegistry, "registry", defaultRegistry,
		"URL of the registry list")
	pf.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	pf.DurationVar(&flagTimeout, "timeout", 30*time.Second,
		"network and snippet execution timeout")
	rootCmd.AddCommand(listCmd, searchCmd, downloadCmd, injectCmd)
}

func newLogger() *zap.Logger {
	if !flagVerbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// fetchList builds the client and downloads the registry list within the
// configured timeout.
func fetchList(ctx context.Context, log *zap.Logger) (*registry.Client, *registry.List, error) {
	c := registry.NewClient(flagRegistry, registry.WithLogger(log))
	list, err := c.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, list, nil
}

func printEntry(cmd *cobra.Command, i int, s registry.Script) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
		indexColor.Sprintf("[%d]", i), nameColor.Sprint(s.Name), s.Description)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all scripts in the registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
		defer cancel()
		_, list, err := fetchList(ctx, newLogger())
		if err != nil {
			return err
		}
		for i := 1; i <= list.Len(); i++ {
			s, err := list.At(i)
			if err != nil {
				dimColor.Fprintf(cmd.OutOrStdout(), "[%d] (invalid entry: %v)\n", i, err)
				continue
			}
			printEntry(cmd, i, s)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search script names and descriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
		defer cancel()
		_, list, err := fetchList(ctx, newLogger())
		if err != nil {
			return err
		}
		hits := list.Search(args[0])
		if len(hits) == 0 {
			dimColor.Fprintln(cmd.OutOrStdout(), "no matches")
			return nil
		}
		for _, h := range hits {
			printEntry(cmd, h.Index, h.Script)
		}
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <index>",
	Short: "Print the source of the script at the given 1-based index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
		defer cancel()
		src, _, err := downloadScript(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), src)
		return nil
	},
}

var injectCmd = &cobra.Command{
	Use:   "inject <index>",
	Short: "Download the script at the given index and run it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
		defer cancel()
		log := newLogger()
		src, s, err := downloadScript(ctx, args[0])
		if err != nil {
			return err
		}
		if err := inject.NewRunner(inject.WithLogger(log)).Run(ctx, src); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			nameColor.Sprint(s.Name), "done")
		return nil
	},
}

// downloadScript resolves a 1-based index argument and fetches the script
// body.
func downloadScript(ctx context.Context, arg string) (string, registry.Script, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return "", registry.Script{}, fmt.Errorf("index %q is not a number", arg)
	}
	c, list, err := fetchList(ctx, newLogger())
	if err != nil {
		return "", registry.Script{}, err
	}
	s, err := list.At(i)
	if err != nil {
		return "", registry.Script{}, err
	}
	src, err := c.Download(ctx, s)
	if err != nil {
		return "", registry.Script{}, err
	}
	return src, s, nil
}
