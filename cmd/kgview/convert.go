package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/siherrmann/kgview/helper"
	"github.com/siherrmann/kgview/model"
	"github.com/siherrmann/kgview/sample"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	fallbackSample bool
	fromStore      bool
	focus          string
	hops           int
	source         string
}

func newConvertCmd(c *cli) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert a knowledge-graph export to a node/link graph",
		Long: `Convert a knowledge-graph export to a node/link graph and write it as JSON
to stdout.

Reads stdin when input is omitted or "-". Envelopes and bare payloads are
detected automatically.

Examples:
  kgview convert memory.json > graph.json
  kgview convert --fallback-sample broken.json
  kgview convert --from-store --focus gpxmapper --hops 2`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.fromStore && len(args) > 0 {
				return fmt.Errorf("cannot specify input with --from-store")
			}

			var graph *model.ConvertedGraph
			if opts.fromStore {
				dbConfig, err := helper.NewDatabaseConfiguration()
				if err != nil {
					return err
				}

				k := c.newKGView(sourceLabel(opts.source, "store"))
				if err := k.ConnectStore(dbConfig, false); err != nil {
					return err
				}
				defer k.Close()

				graph, err = k.ConvertSource(cmd.Context(), nil)
				if err != nil {
					return err
				}
			} else {
				input, name, err := readInput(cmd, args)
				if err != nil {
					return err
				}

				k := c.newKGView(sourceLabel(opts.source, name))
				if opts.fallbackSample {
					graph, err = k.ConvertWithFallback(input, sample.Envelope())
				} else {
					graph, err = k.ConvertAuto(input)
				}
				if err != nil {
					return err
				}
			}

			if opts.focus != "" {
				sub, err := c.newKGView(graph.Metadata.Source).Focus(graph, opts.focus, opts.hops)
				if err != nil {
					return err
				}
				graph = sub
			}

			return writeJSON(cmd, graph, c.config.GetInt("indent"))
		},
	}

	cmd.Flags().BoolVar(&opts.fallbackSample, "fallback-sample", false, "Convert the embedded sample if the input has no usable graph")
	cmd.Flags().BoolVar(&opts.fromStore, "from-store", false, "Read the graph from the Postgres store (DB_* environment)")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "Only output the neighborhood of this node id")
	cmd.Flags().IntVar(&opts.hops, "hops", 1, "Neighborhood radius for --focus")
	cmd.Flags().StringVar(&opts.source, "source", "", "Source label in the metadata (default input path)")
	cmd.Flags().Int("indent", 2, "JSON indentation in spaces, 0 for compact output")
	cmd.Flags().String("unknown-type", "", "Type of entities without entityType")
	cmd.Flags().String("placeholder-type", "", "Type of placeholder nodes")
	cmd.Flags().String("placeholder-note", "", "Observation of placeholder nodes")

	return cmd
}

func sourceLabel(override string, name string) string {
	if override != "" {
		return override
	}
	return name
}

func writeJSON(cmd *cobra.Command, value any, indent int) error {
	var b []byte
	var err error
	if indent > 0 {
		b, err = json.MarshalIndent(value, "", strings.Repeat(" ", indent))
	} else {
		b, err = json.Marshal(value)
	}
	if err != nil {
		return helper.NewError("marshal output", err)
	}

	b = append(b, '\n')
	_, err = cmd.OutOrStdout().Write(b)
	return err
}
