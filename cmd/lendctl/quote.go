package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"microlend-engine/internal/domain/amortization"
	"microlend-engine/pkg/money"
)

func quoteCmd() *cobra.Command {
	var (
		principal string
		baseRate  string
		extraRate string
		payType   string
		count     int
		start     string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview a loan's interest and repayment schedule",
		Long: `Compute the schedule a loan with these terms would get, without touching a database.

Examples:
  lendctl quote --principal 100.00 --base-rate 30 --extra-rate 2 --count 3
  lendctl quote --principal 2500 --base-rate 15 --type once_off`,
		RunE: func(cmd *cobra.Command, args []string) error {
			major, err := decimal.NewFromString(principal)
			if err != nil {
				return fmt.Errorf("principal: %w", err)
			}
			minor, err := money.ToMinor(major)
			if err != nil {
				return fmt.Errorf("principal: %w", err)
			}
			base, err := decimal.NewFromString(baseRate)
			if err != nil {
				return fmt.Errorf("base-rate: %w", err)
			}
			extra, err := decimal.NewFromString(extraRate)
			if err != nil {
				return fmt.Errorf("extra-rate: %w", err)
			}
			startAt := time.Now().UTC()
			if start != "" {
				if startAt, err = time.Parse(time.DateOnly, start); err != nil {
					return fmt.Errorf("start: %w", err)
				}
			}

			q, err := amortization.Calculate(amortization.Terms{
				Principal:               minor,
				BaseRatePercent:         base,
				ExtraRatePerInstallment: extra,
				PaymentType:             amortization.PaymentType(payType),
				InstallmentCount:        count,
				StartDate:               startAt,
			}, amortization.DefaultMinPrincipal)
			if err != nil {
				return err
			}
			return printQuote(cmd, minor, q)
		},
	}
	cmd.Flags().StringVarP(&principal, "principal", "p", "", "principal in major units, e.g. 100.00")
	cmd.Flags().StringVar(&baseRate, "base-rate", "0", "base interest percent")
	cmd.Flags().StringVar(&extraRate, "extra-rate", "0", "extra percent per installment")
	cmd.Flags().StringVarP(&payType, "type", "t", string(amortization.Installments), "once_off or installments")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of installments")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("principal")
	return cmd
}

func printQuote(cmd *cobra.Command, principal int64, q amortization.Quote) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "principal      %s\n", money.FromMinor(principal))
	fmt.Fprintf(out, "interest       %s (%s%%)\n", money.FromMinor(q.InterestAmount), q.TotalInterestPercent.String())
	fmt.Fprintf(out, "total          %s\n\n", money.FromMinor(q.TotalAmount))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tDUE\tAMOUNT\tPRINCIPAL\tINTEREST")
	for _, r := range q.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.No, r.DueDate.Format(time.DateOnly),
			money.FromMinor(r.AmountDue), money.FromMinor(r.PrincipalComponent), money.FromMinor(r.InterestComponent))
	}
	return w.Flush()
}
