package main

import (
	"github.com/siherrmann/kgview/helper"
	"github.com/spf13/cobra"
)

type importOptions struct {
	force bool
}

func newImportCmd(c *cli) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import [input]",
		Short: "Load a knowledge-graph export into the Postgres store",
		Long: `Load the entities and relations of a knowledge-graph export into the
Postgres store configured by DB_HOST, DB_PORT, DB_DATABASE, DB_USERNAME,
DB_PASSWORD, DB_SCHEMA and DB_SSLMODE (or a .env file).

Entities are merged by name, relations by from/to/type. Relations to
undefined entities are stored as they are.`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConfig, err := helper.NewDatabaseConfiguration()
			if err != nil {
				return err
			}

			input, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			k := c.newKGView(name)
			if err := k.ConnectStore(dbConfig, opts.force); err != nil {
				return err
			}
			defer k.Close()

			result, err := k.ImportPayload(cmd.Context(), input)
			if err != nil {
				return err
			}

			return writeJSON(cmd, result, c.config.GetInt("indent"))
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Reload the SQL functions")
	cmd.Flags().Int("indent", 2, "JSON indentation in spaces, 0 for compact output")

	return cmd
}
