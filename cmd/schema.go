package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema description used for SQL generation",
	Long: `Connect to the database, introspect its tables, and print the
schema description exactly as it is given to the model. Useful for checking
what the model sees before asking questions.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, session, err := connectAgent(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	description := a.Schema()
	if description.Fallback {
		fmt.Println("(introspection unavailable, showing built-in description)")
		fmt.Println()
	}

	fmt.Println(description.Text)

	return nil
}
