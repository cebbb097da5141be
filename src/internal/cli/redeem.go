package cli

import (
	"github.com/spf13/cobra"

	"github.com/jackyeh168/credit_ledger/src/internal/application/redemption"
	"github.com/jackyeh168/credit_ledger/src/internal/application/reporting"
)

func newRedeemCommand(rt *runtime) *cobra.Command {
	var companyID, userID, cardID string
	cmd := &cobra.Command{
		Use:   "redeem",
		Short: "Redeem a card's reward, consuming the oldest eligible credits",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, app *App, _ []string) error {
			uc := redemption.NewRedeemUseCase(app.Cards, app.Credits, app.Tx, app.Capability, app.Clock, app.Publisher, app.Logger)
			result, err := uc.Execute(redemption.RedeemCommand{
				CompanyID: companyID,
				UserID:    userID,
				CardID:    cardID,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Redeeming company ID")
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&cardID, "card", "", "Card ID")
	for _, name := range []string{"company", "user", "card"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newBalanceCommand(rt *runtime) *cobra.Command {
	var userID, cardID string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a user's eligible, pending and expired credits on a card",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, app *App, _ []string) error {
			uc := redemption.NewGetCardBalanceUseCase(app.Cards, app.Credits, app.Clock)
			result, err := uc.Execute(redemption.GetCardBalanceQuery{UserID: userID, CardID: cardID})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&cardID, "card", "", "Card ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}

func newStatsCommand(rt *runtime) *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Weekly credits given, used and new clients for the last four weeks",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, app *App, _ []string) error {
			uc := reporting.NewCompanyDashboardUseCase(app.Credits, app.Clock, app.Logger)
			result, err := uc.Execute(reporting.CompanyDashboardQuery{CompanyID: companyID})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Company ID")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
