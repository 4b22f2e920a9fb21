package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wasii25/askdb/internal/errors"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Long: `Answer one natural-language question about the database and print
the answer.

Examples:
  askdb ask "how many students are enrolled?"
  askdb ask --verbose "which course has the highest enrollment?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New(errors.ErrTypeInput, "question must not be empty")
	}

	a, session, err := connectAgent(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	outcome := a.Process(ctx, question)

	if flagVerbose && outcome.SQL != "" {
		fmt.Printf("[%s in %s]\n", outcome.SQL, outcome.Elapsed.Round(time.Millisecond))
	}

	fmt.Println(outcome.Answer)

	return nil
}
