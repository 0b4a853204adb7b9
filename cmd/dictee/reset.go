package main

import (
	"fmt"

	"dictee/internal/config"
	"dictee/internal/service"
	"dictee/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newResetCmd() *cobra.Command {
	var (
		userID int64
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase a child's progress",
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

			st, err := openStores(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			store := storage.New(st.kv)

			if all {
				if err := store.ClearAllData(userID); err != nil {
					return fmt.Errorf("failed to clear data: %w", err)
				}
			} else {
				service.NewProgressService(store, logger).ResetProgress(userID)
			}

			logger.Info("Progress reset", zap.Int64("user_id", userID), zap.Bool("all", all))
			fmt.Fprintf(cmd.OutOrStdout(), "progress of user %d erased\n", userID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Telegram user id")
	cmd.Flags().BoolVar(&all, "all", false, "also drop the cached word list")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
