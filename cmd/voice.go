package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wasii25/askdb/internal/agent"
	"github.com/wasii25/askdb/internal/errors"
	"github.com/wasii25/askdb/internal/voice"
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Start a spoken question-and-answer session",
	Long: `Listen for spoken questions through an external speech-to-text
helper and speak each answer through a text-to-speech helper. Answers are
also printed to the console.

The helpers are configured with ASKDB_LISTEN_COMMAND and
ASKDB_SPEAK_COMMAND. The listen helper must print the recognized text to
standard output; the speak helper reads the answer from standard input.`,
	Args: cobra.NoArgs,
	RunE: runVoice,
}

func init() {
	rootCmd.AddCommand(voiceCmd)
}

func runVoice(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if cfg.Voice.ListenCommand == "" {
		return errors.New(
			errors.ErrTypeConfig,
			"voice mode requires ASKDB_LISTEN_COMMAND to be set",
		)
	}

	a, session, err := connectAgent(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	source := voice.NewCommandSource(cfg.Voice.ListenCommand, logger)

	var sink voice.Sink = voice.NewWriterSink(os.Stdout)
	if cfg.Voice.SpeakCommand != "" {
		sink = voice.NewMultiSink(sink, voice.NewCommandSink(cfg.Voice.SpeakCommand, logger))
	}

	return agent.RunLoop(ctx, a, source, sink, agent.LoopOptions{
		ListenTimeout:  cfg.Voice.ListenTimeout,
		RetryOnSilence: cfg.Voice.RetryOnSilence,
		Verbose:        flagVerbose,
	}, logger)
}
