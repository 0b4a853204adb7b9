package main

import (
	"context"
	"fmt"

	"dictee/internal/config"
	"dictee/internal/repository"
	"dictee/internal/storage"
	"dictee/internal/wordlist"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWordsCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Fetch the word list from the spreadsheet and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var cache repository.WordListCache
			if save {
				st, err := openStores(cfg, logger)
				if err != nil {
					return err
				}
				defer st.Close()
				cache = storage.New(st.kv)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout)
			defer cancel()

			provider := wordlist.NewProvider(wordlist.NewSheetsSource(cfg.WordsSheetURL, cfg.FetchTimeout), cache, logger)
			if err := provider.Fetch(ctx); err != nil {
				return fmt.Errorf("%s: %w", wordlist.ErrorMessage, err)
			}

			out := cmd.OutOrStdout()
			words := provider.Words()
			for _, w := range words {
				fmt.Fprintf(out, "%s\t%s\n", w.ID, w.Text)
			}
			logger.Info("Word list fetched", zap.Int("count", len(words)), zap.Bool("saved", save))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the list in the word list cache")
	return cmd
}
