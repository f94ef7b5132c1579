// Command expensectl lists and records expenses from a terminal.
//
//	expensectl list
//	expensectl add --amount 50 --description Coffee --group Roommates [--payer someone]
//	expensectl balances
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ivanoskov/splitease/internal/config"
	"github.com/ivanoskov/splitease/internal/logging"
	"github.com/ivanoskov/splitease/internal/model"
	"github.com/ivanoskov/splitease/internal/repository"
	"github.com/ivanoskov/splitease/internal/service"
	"github.com/ivanoskov/splitease/internal/store"
)

const usage = `usage: expensectl <command> [flags]

commands:
  list       show every expense, newest first
  add        record an expense
  balances   show the net balance per group
`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey, cfg.ExpensesTable)
	if err != nil {
		slog.Error("failed to create repository", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], service.NewExpenseTracker(repo, store.New()), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "expensectl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, tracker *service.ExpenseTracker, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "list":
		return runList(ctx, tracker, out)
	case "add":
		return runAdd(ctx, args[1:], tracker, out)
	case "balances":
		return runBalances(ctx, tracker, out)
	case "-h", "--help", "help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func runList(ctx context.Context, tracker *service.ExpenseTracker, out io.Writer) error {
	expenses, err := tracker.Expenses(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tGROUP\tDESCRIPTION\tAMOUNT\tPAID BY")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Group, e.Description, e.Amount.StringFixed(2), e.Payer)
	}
	return w.Flush()
}

func runAdd(ctx context.Context, args []string, tracker *service.ExpenseTracker, out io.Writer) error {
	var form model.Form
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&form.Amount, "amount", "a", "", "amount, e.g. 12.50")
	fs.StringVarP(&form.Description, "description", "d", "", "what it was for")
	fs.StringVarP(&form.Group, "group", "g", "", "group or person it is shared with")
	fs.StringVarP(&form.Payer, "payer", "p", "you", `who paid: "you" or "someone"`)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("add: %w\n%s", err, fs.FlagUsages())
	}

	expense, err := tracker.Submit(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s: $%s for %s (%s)\n", expense.ID, expense.Amount.StringFixed(2), expense.Description, expense.Group)
	return nil
}

func runBalances(ctx context.Context, tracker *service.ExpenseTracker, out io.Writer) error {
	balances, err := tracker.Balances(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tNET\tEXPENSES")
	for _, b := range balances {
		fmt.Fprintf(w, "%s\t%s\t%d\n", b.Group, b.Net.StringFixed(2), b.Expenses)
	}
	fmt.Fprintf(w, "TOTAL\t%s\t\n", service.Total(balances).StringFixed(2))
	return w.Flush()
}
