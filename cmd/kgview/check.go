package main

import (
	"github.com/spf13/cobra"
)

func newCheckCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [input]",
		Short: "Report dangling references and malformed records",
		Long: `Check a knowledge-graph export without repairing it and print an
integrity report as JSON to stdout.

Exits with 1 if a relation references an undefined entity, an entity id is
defined twice or a record had to be skipped.`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			report, err := c.newKGView(name).Check(input)
			if err != nil {
				return err
			}

			if err := writeJSON(cmd, report, c.config.GetInt("indent")); err != nil {
				return err
			}
			if !report.Valid {
				return errInvalidGraph
			}
			return nil
		},
	}

	cmd.Flags().Int("indent", 2, "JSON indentation in spaces, 0 for compact output")
	cmd.Flags().String("unknown-type", "", "Type of entities without entityType")

	return cmd
}
