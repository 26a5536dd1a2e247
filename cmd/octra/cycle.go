package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/cycle"
	"github.com/hiepntnaa/octra-pre-client/internal/graceful"

	"github.com/spf13/cobra"
)

var cycleRecipient string

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one send, shield, private transfer, unshield and claim pass",
	Long: `Runs the automation cycle once. Steps are separated by a random pause
(CYCLE_DELAY_MIN_SECONDS..CYCLE_DELAY_MAX_SECONDS). The recipient is taken from
--recipient or picked at random from OCTRA_ADDRESS_LIST.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := cfg.CycleSettings()
		if err != nil {
			return err
		}

		session, err := openSession()
		if err != nil {
			return err
		}
		defer session.Close()

		recipient := cycleRecipient
		if recipient != "" {
			if err := crypto.ValidateAddress(recipient); err != nil {
				return err
			}
		} else {
			addresses, err := cycle.LoadAddressList(cfg.AddressListPath, logger)
			if err != nil {
				return err
			}
			recipient, err = cycle.PickRecipient(addresses, session.Rand, session.Address())
			if err != nil {
				return err
			}
		}

		ctx, cancel := graceful.WithCancelOnSignal(context.Background(), logger)
		defer cancel()

		report, runErr := cycle.New(session, settings).Run(ctx, recipient)
		printReport(cmd, report)
		return runErr
	},
}

func printReport(cmd *cobra.Command, report *cycle.Report) {
	if report == nil {
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "recipient\t%s\n", report.Recipient)
	for _, step := range report.Steps {
		amount := common.MicroToOCT(step.Amount)
		if step.Step == cycle.StepClaim {
			amount = fmt.Sprint(step.Amount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", step.Step, step.Outcome, amount, step.Detail)
	}
	fmt.Fprintf(w, "elapsed\t%s\n", report.Elapsed.Round(time.Second))
	w.Flush()
}

func init() {
	cycleCmd.Flags().StringVarP(&cycleRecipient, "recipient", "r", "", "Recipient address (default: random from the address list)")
	rootCmd.AddCommand(cycleCmd)
}
