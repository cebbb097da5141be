package cli

import (
	"github.com/spf13/cobra"

	"github.com/jackyeh168/credit_ledger/src/internal/application/cards"
)

// cardFlags 建立與更新共用的卡片欄位
type cardFlags struct {
	companyID        string
	title            string
	creditsNeeded    int
	expirationAmount int
	expirationUnit   string
}

func (f *cardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.companyID, "company", "", "Owning company ID")
	cmd.Flags().StringVar(&f.title, "title", "", "Card title")
	cmd.Flags().IntVar(&f.creditsNeeded, "credits-needed", 0, "Credits required for one redemption")
	cmd.Flags().IntVar(&f.expirationAmount, "expiration-amount", 1, "Credit lifetime amount")
	cmd.Flags().StringVar(&f.expirationUnit, "expiration-unit", "month", "Credit lifetime unit (day|month|year)")
	_ = cmd.MarkFlagRequired("company")
}

func newCardCommand(rt *runtime) *cobra.Command {
	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Manage loyalty cards",
	}
	cardCmd.AddCommand(
		newCardCreateCommand(rt),
		newCardUpdateCommand(rt),
		newCardDeleteCommand(rt),
		newCardStatusCommand(rt),
		newCardListCommand(rt),
	)
	return cardCmd
}

// ─── card create ────────────────────────────────────────────────────────────

func newCardCreateCommand(rt *runtime) *cobra.Command {
	flags := &cardFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, app *App, _ []string) error {
			uc := cards.NewCreateCardUseCase(app.Cards, app.Tx, app.Clock, app.Logger)
			dto, err := uc.Execute(cards.CreateCardCommand{
				CompanyID:        flags.companyID,
				Title:            flags.title,
				CreditsNeeded:    flags.creditsNeeded,
				ExpirationAmount: flags.expirationAmount,
				ExpirationUnit:   flags.expirationUnit,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto)
		}),
	}
	flags.bind(cmd)
	return cmd
}

// ─── card update ────────────────────────────────────────────────────────────

func newCardUpdateCommand(rt *runtime) *cobra.Command {
	flags := &cardFlags{}
	cmd := &cobra.Command{
		Use:   "update CARD_ID",
		Short: "Update title, threshold and expiration policy of a card",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, app *App, args []string) error {
			uc := cards.NewUpdateCardUseCase(app.Cards, app.Tx, app.Capability, app.Clock, app.Logger)
			dto, err := uc.Execute(cards.UpdateCardCommand{
				CompanyID:        flags.companyID,
				CardID:           args[0],
				Title:            flags.title,
				CreditsNeeded:    flags.creditsNeeded,
				ExpirationAmount: flags.expirationAmount,
				ExpirationUnit:   flags.expirationUnit,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto)
		}),
	}
	flags.bind(cmd)
	return cmd
}

// ─── card delete ────────────────────────────────────────────────────────────

func newCardDeleteCommand(rt *runtime) *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "delete CARD_ID",
		Short: "Soft-delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, app *App, args []string) error {
			uc := cards.NewDeleteCardUseCase(app.Cards, app.Tx, app.Capability, app.Clock, app.Logger)
			return uc.Execute(cards.DeleteCardCommand{CompanyID: companyID, CardID: args[0]})
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Owning company ID")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

// ─── card status ────────────────────────────────────────────────────────────

func newCardStatusCommand(rt *runtime) *cobra.Command {
	var companyID, status string
	cmd := &cobra.Command{
		Use:   "status CARD_ID",
		Short: "Change card status (available|unavailable|pending)",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, app *App, args []string) error {
			uc := cards.NewUpdateCardUseCase(app.Cards, app.Tx, app.Capability, app.Clock, app.Logger)
			dto, err := uc.SetStatus(cards.SetCardStatusCommand{
				CompanyID: companyID,
				CardID:    args[0],
				Status:    status,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto)
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Owning company ID")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

// ─── card list ──────────────────────────────────────────────────────────────

func newCardListCommand(rt *runtime) *cobra.Command {
	var (
		companyID string
		all       bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards of a company",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, app *App, _ []string) error {
			uc := cards.NewListCardsUseCase(app.Cards)
			list, err := uc.Execute(cards.ListCardsQuery{CompanyID: companyID, IncludeExcluded: all})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Owning company ID")
	cmd.Flags().BoolVar(&all, "all", false, "Include deleted cards")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
