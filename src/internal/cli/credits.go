package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackyeh168/credit_ledger/src/internal/application/issuance"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

func newCreditsCommand(rt *runtime) *cobra.Command {
	creditsCmd := &cobra.Command{
		Use:   "credits",
		Short: "Issue and review credits",
	}
	creditsCmd.AddCommand(
		newCreditsIssueCommand(rt),
		newCreditsReviewCommand(rt, issuance.DecisionApprove, "Approve a pending credit"),
		newCreditsReviewCommand(rt, issuance.DecisionReject, "Reject a pending credit"),
		newCreditsExcludeCommand(rt),
	)
	return creditsCmd
}

// parseCardRequests 解析 CARD_ID 或 CARD_ID:QUANTITY
func parseCardRequests(raw []string) ([]issuance.CardRequest, error) {
	requests := make([]issuance.CardRequest, 0, len(raw))
	for _, item := range raw {
		cardID, qty, found := strings.Cut(item, ":")
		quantity := 1
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil {
				return nil, shared.ErrInvalidInput.WithContext(
					"input", item,
					"reason", fmt.Sprintf("invalid quantity %q", qty),
				)
			}
			quantity = n
		}
		requests = append(requests, issuance.CardRequest{CardID: cardID, Quantity: quantity})
	}
	return requests, nil
}

// ─── credits issue ──────────────────────────────────────────────────────────

func newCreditsIssueCommand(rt *runtime) *cobra.Command {
	var (
		companyID string
		userID    string
		cardArgs  []string
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue credits to a user",
		Long: `Issue credits on one or more cards. With --company the credits are granted
as available; without it they are self-service requests (quantity 1, pending).`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, app *App, _ []string) error {
			requests, err := parseCardRequests(cardArgs)
			if err != nil {
				return err
			}
			uc := issuance.NewIssueCreditsUseCase(app.Cards, app.Credits, app.Tx, app.Capability, app.Clock, app.Publisher, app.Logger)
			result, err := uc.Execute(issuance.IssueCreditsCommand{
				CompanyID: companyID,
				UserID:    userID,
				Requests:  requests,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Issuing company ID (omit for a self-service request)")
	cmd.Flags().StringVar(&userID, "user", "", "Receiving user ID")
	cmd.Flags().StringSliceVar(&cardArgs, "card", nil, "CARD_ID or CARD_ID:QUANTITY, repeatable")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}

// ─── credits approve / reject ───────────────────────────────────────────────

func newCreditsReviewCommand(rt *runtime, decision issuance.Decision, short string) *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   string(decision) + " CREDIT_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, app *App, args []string) error {
			uc := issuance.NewReviewCreditUseCase(app.Credits, app.Tx, app.Clock, app.Publisher, app.Logger)
			result, err := uc.Execute(issuance.ReviewCreditCommand{
				CompanyID: companyID,
				CreditID:  args[0],
				Decision:  decision,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Owning company ID")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

// ─── credits exclude ────────────────────────────────────────────────────────

func newCreditsExcludeCommand(rt *runtime) *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "exclude CREDIT_ID",
		Short: "Soft-delete a credit without changing its status",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, app *App, args []string) error {
			uc := issuance.NewExcludeCreditUseCase(app.Credits, app.Tx, app.Clock, app.Publisher, app.Logger)
			return uc.Execute(issuance.ExcludeCreditCommand{CompanyID: companyID, CreditID: args[0]})
		}),
	}
	cmd.Flags().StringVar(&companyID, "company", "", "Owning company ID")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
