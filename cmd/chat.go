package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/chat"
	"github.com/spigell/jobchat/internal/conversation"
)

const (
	CommandExamples = "/examples"
	CommandReset    = "/reset"
	CommandProfile  = "/profile"
	CommandQuit     = "/quit"
	CommandHelp     = "/help"
	PromptBack      = "back"
)

var errExit = errors.New("exit requested")

// examples are canned first turns offered by /examples.
var examples = []string{
	"working-student near Gummersbach, radius 50 km, 18 hours, keywords project-management",
	"internship in Köln, 40 hours, logistics and supply chain",
	"either near Bonn, radius 25 km, 20 hours, quality management",
	"working student in Siegen, 15 hours, keywords sap or something like that",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Run: func(cmd *cobra.Command, _ []string) {
		runChat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("no-color", false, "disable colored output")
}

func runChat(cmd *cobra.Command) {
	logger, config, err := setup()
	if err != nil {
		if logger == nil {
			log.Fatal(err)
		}
		logger.Fatal("starting the chat", zap.Error(err))
	}
	defer logger.Sync()

	noColor, _ := cmd.Flags().GetBool("no-color")
	out := cmd.OutOrStdout()
	console := chat.NewConsole(out, !noColor)

	session, err := newSession(config, console, logger)
	if err != nil {
		logger.Fatal("creating a session", zap.Error(err))
	}

	logger.Info("starting the jobchat", zap.String("version", version), zap.String("session_id", session.ID()))
	fmt.Fprintf(out, "Commands: %s\n", strings.Join(commands(), ", "))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	input := promptui.Prompt{Label: "you"}
	for {
		line, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "input closed"))
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		if err := handleLine(ctx, strings.TrimSpace(line), session, out); err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "quit requested"))
				return
			}
			logger.Error("handling input", zap.Error(err))
		}

		if ctx.Err() != nil {
			logger.Info("exiting", zap.String("reason", "interrupted"))
			return
		}
	}
}

func commands() []string {
	return []string{CommandExamples, CommandReset, CommandProfile, CommandHelp, CommandQuit}
}

func handleLine(ctx context.Context, line string, session *conversation.Session, out io.Writer) error {
	switch line {
	case "":
		return nil
	case CommandQuit:
		return errExit
	case CommandHelp:
		_, err := fmt.Fprintf(out, "Commands: %s\n", strings.Join(commands(), ", "))
		return err
	case CommandReset:
		return session.Reset()
	case CommandProfile:
		pretty, err := json.MarshalIndent(session.Profile(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(pretty))
		return err
	case CommandExamples:
		selector := promptui.Select{
			Label: "Choose an example and press ENTER",
			Items: append(append([]string{}, examples...), PromptBack),
		}

		_, selected, err := selector.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}
		return session.HandleTurn(ctx, selected)
	default:
		return session.HandleTurn(ctx, line)
	}
}
