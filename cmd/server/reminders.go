package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List every user's outstanding 1-to-1 debts",
	Long: `Reminders nets each user against all of their 1-to-1 relationships and
prints what they still owe, largest first, with the date the debt started.
Group balances are not included.`,
	RunE: runReminders,
}

func init() {
	rootCmd.AddCommand(remindersCmd)
}

func runReminders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Configure(cfg.Log.Level, cfg.Log.Format)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	reminders, err := service.NewLedgerService(store, logger).OutstandingDebts(cmd.Context())
	if err != nil {
		return err
	}
	return writeReminders(cmd.OutOrStdout(), reminders, cfg.Report.Currency)
}

func writeReminders(w io.Writer, reminders []service.Reminder, currency string) error {
	if len(reminders) == 0 {
		_, err := fmt.Fprintln(w, "Nobody owes anything.")
		return err
	}
	currency = strings.ToUpper(currency)
	for _, r := range reminders {
		if _, err := fmt.Fprintf(w, "%s <%s>\n", displayName(r.User.Name, r.User.ID), r.User.Email); err != nil {
			return err
		}
		for _, d := range r.Debts {
			line := fmt.Sprintf("  owes %s %s",
				displayName(d.Counterparty.Name, d.Counterparty.ID),
				money.NewFromFloat(d.Amount, currency).Display(),
			)
			if !d.Since.IsZero() {
				line += " since " + d.Since.Format("2006-01-02")
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
