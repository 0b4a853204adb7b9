package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dictee",
		Short:        "Dictée fantôme: a French spelling bot for children",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		newServeCmd(),
		newWordsCmd(),
		newResetCmd(),
	)
	return root
}

// newLogger initializes the production logger
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
