// Command kgview converts knowledge-graph exports into renderable
// node/link graphs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/siherrmann/kgview"
	"github.com/siherrmann/kgview/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errInvalidGraph makes check exit with 1 after printing its report.
var errInvalidGraph = errors.New("graph has integrity problems")

// cli is the state shared by all commands of one invocation.
type cli struct {
	configFile string
	verbose    bool

	config *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "kgview",
		Short: "Convert knowledge-graph exports into renderable graphs",
		Long: `Convert knowledge-graph exports into node/link graphs for force-directed
renderers.

Input is either a transport envelope ({"result":{"content":[...]}}) whose
text blocks hold the graph, or the {entities, relations} payload itself.
Relations to undefined entities are repaired with placeholder nodes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := newConfig(c.configFile)
			if err != nil {
				return err
			}
			if err := bindFlags(config, cmd.Flags(), "indent", "unknown-type", "placeholder-type", "placeholder-note"); err != nil {
				return err
			}

			level, err := logLevel(config, c.verbose)
			if err != nil {
				return err
			}

			c.config = config
			c.logger = helper.NewLogger(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "Config file (default ./kgview.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newConvertCmd(c))
	rootCmd.AddCommand(newCheckCmd(c))
	rootCmd.AddCommand(newImportCmd(c))

	return rootCmd
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err == nil {
		return
	}
	if !errors.Is(err, errInvalidGraph) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

// newKGView creates a KGView for the configured conversion settings.
func (c *cli) newKGView(source string) *kgview.KGView {
	return kgview.NewKGView(convertConfig(c.config, source), c.logger)
}

// readInput reads the named file, or stdin for "" and "-". Text that is
// not UTF-8 is decoded first.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", helper.NewError("read stdin", err)
		}
		input, err := helper.DecodeText(raw)
		if err != nil {
			return nil, "", helper.NewError("decode stdin", err)
		}
		return input, "stdin", nil
	}

	input, err := helper.ReadDecodedFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return input, args[0], nil
}
