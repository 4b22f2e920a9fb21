package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasii25/askdb/internal/agent"
	"github.com/wasii25/askdb/internal/voice"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-and-answer session",
	Long: `Read questions from standard input one line at a time and answer
each. Say "exit", "quit", "bye", "goodbye", or "stop" to end the session.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, session, err := connectAgent(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Println("Ask me anything about the database. Say \"exit\" to quit.")

	source := voice.NewReaderSource(os.Stdin, os.Stdout, "You: ")
	sink := voice.NewWriterSink(os.Stdout)

	return agent.RunLoop(ctx, a, source, sink, agent.LoopOptions{
		ListenTimeout:  cfg.Voice.ListenTimeout,
		RetryOnSilence: true,
		Verbose:        flagVerbose,
	}, logger)
}
