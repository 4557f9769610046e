package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sanosuguru/go-venue-booking/internal/config"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "venue-booking",
		Short:         "会場と利用枠を管理する予約APIサーバー",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			logger.Init(config.Load().App.Env)
			return nil
		},
		// サブコマンドを省略した場合はサーバーを起動する
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Load())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "読み込む .env ファイル")

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func main() {
	err := newRootCmd().Execute()
	_ = logger.Sync()
	if err != nil {
		logger.Get().Sugar().Errorf("コマンドの実行に失敗しました: %v", err)
		os.Exit(1)
	}
}
