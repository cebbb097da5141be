// Package cli 實作 creditctl 指令列
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackyeh168/credit_ledger/src/internal/config"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// runtime 在子指令之間共用的旗標
type runtime struct {
	configPath string
	envFiles   []string
}

// run 載入設定、組裝 App，執行 fn 後關閉
func (rt *runtime) run(fn func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.Load(rt.configPath, rt.envFiles...)
		if err != nil {
			return err
		}
		app, err := newApp(cmd.Context(), *cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := app.Close(); err == nil {
				err = closeErr
			}
		}()
		return fn(cmd, app, args)
	}
}

// NewRootCommand 建立 creditctl 根指令
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "creditctl",
		Short: "Loyalty credit ledger",
		Long: `creditctl manages loyalty cards and the credits consumers collect on them.
Credits are issued per card, consumed oldest-first when a redemption
threshold is reached, and expire according to the card's policy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "credit_ledger.toml", "Path to TOML config file")
	root.PersistentFlags().StringSliceVar(&rt.envFiles, "env-file", []string{".env"}, "Env files loaded before CREDIT_LEDGER_* overrides")

	root.AddCommand(
		newMigrateCommand(rt),
		newCardCommand(rt),
		newCreditsCommand(rt),
		newRedeemCommand(rt),
		newBalanceCommand(rt),
		newStatsCommand(rt),
	)
	return root
}

// Execute 執行指令並返回程序結束碼
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode 依錯誤分類決定結束碼
func exitCode(err error) int {
	switch shared.KindOf(err) {
	case shared.KindValidation:
		return 2
	case shared.KindNotAvailable, shared.KindNotFound:
		return 3
	case shared.KindInsufficientCredits:
		return 4
	}
	return 1
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMigrateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, app *App, _ []string) error {
			if err := app.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		}),
	}
}
