package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/chat"
)

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Run a single turn on a fresh session and print the transcript",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAsk(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("output", "o", "text", "transcript format: text or json")
}

func runAsk(cmd *cobra.Command, text string) {
	logger, config, err := setup()
	if err != nil {
		if logger == nil {
			log.Fatal(err)
		}
		logger.Fatal("starting", zap.Error(err))
	}
	defer logger.Sync()

	format, _ := cmd.Flags().GetString("output")
	if format != "text" && format != "json" {
		logger.Fatal("invalid output format", zap.String("output", format))
	}

	recorder := &chat.Recorder{}
	session, err := newSession(config, recorder, logger)
	if err != nil {
		logger.Fatal("creating a session", zap.Error(err))
	}

	if err := session.HandleTurn(context.Background(), text); err != nil {
		logger.Fatal("handling the turn", zap.Error(err))
	}

	// The greeting is only useful interactively.
	messages := recorder.Messages()[1:]

	out := cmd.OutOrStdout()
	if format == "json" {
		pretty, err := json.MarshalIndent(messages, "", "  ")
		if err != nil {
			logger.Fatal("encoding the transcript", zap.Error(err))
		}
		fmt.Fprintln(out, string(pretty))
		return
	}

	console := chat.NewConsole(out, false)
	for _, msg := range messages {
		console.Present(msg)
	}
}
