package main

import (
	"context"
	"os"

	"github.com/sandevgo/chatminder/internal/config"
	"github.com/sandevgo/chatminder/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "chatminder",
	Short: "ChatMinder — contextual memory and reminders for chats",
	Long:  `ChatMinder watches chat messages for commitments, remembers them, and nudges participants with reminders and suggested replies.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
