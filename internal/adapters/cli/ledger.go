package cli

import (
	"fmt"
	"io"

	"erp-core/internal/app"

	"github.com/spf13/cobra"
)

func (r *runner) accountsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "accounts", Aliases: []string{"acc"}, Short: "Manage the chart of accounts"}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := r.svc.ListAccounts(cmd.Context(), !all)
			if err != nil {
				return err
			}
			return r.emit(cmd, accounts, func(w io.Writer) { printAccounts(w, accounts) })
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive accounts")

	get := &cobra.Command{
		Use:   "get <code>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := r.svc.GetAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return r.emit(cmd, account, func(w io.Writer) { printAccount(w, account) })
		},
	}

	var req app.CreateAccountRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := r.svc.CreateAccount(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.emit(cmd, account, func(w io.Writer) { printAccount(w, account) })
		},
	}
	create.Flags().StringVar(&req.Code, "code", "", "account code (required)")
	create.Flags().StringVar(&req.Name, "name", "", "account name (required)")
	create.Flags().StringVar(&req.Type, "type", "", "asset, liability, equity, revenue or expense (required)")
	create.Flags().StringVar(&req.ParentCode, "parent", "", "code of the parent account")
	_ = create.MarkFlagRequired("code")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("type")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Install the default chart of accounts into an empty ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := r.svc.SeedChart(cmd.Context())
			if err != nil {
				return err
			}
			return r.emit(cmd, res, func(w io.Writer) {
				if res.Created == 0 {
					fmt.Fprintln(w, "Ledger already has accounts; nothing seeded.")
					return
				}
				fmt.Fprintf(w, "Seeded %d accounts.\n", res.Created)
			})
		},
	}

	cmd.AddCommand(list, get, create, seed)
	return cmd
}

func (r *runner) journalCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "journal", Aliases: []string{"je"}, Short: "Record and post journal entries"}

	var file string
	create := &cobra.Command{
		Use:   "create",
		Short: "Record an unposted entry from JSON (see: erp schema journal.create)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req app.CreateJournalEntryRequest
			if err := readRequest(cmd, file, &req); err != nil {
				return err
			}
			entry, err := r.svc.CreateJournalEntry(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.emit(cmd, entry, func(w io.Writer) { printJournalEntry(w, entry) })
		},
	}
	create.Flags().StringVarP(&file, "file", "f", "", "request file (default stdin)")

	post := &cobra.Command{
		Use:   "post <id>",
		Short: "Post an entry to account balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entry, err := r.svc.PostJournalEntry(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.emit(cmd, entry, func(w io.Writer) { printJournalEntry(w, entry) })
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an entry with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entry, err := r.svc.GetJournalEntry(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.emit(cmd, entry, func(w io.Writer) { printJournalEntry(w, entry) })
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := r.svc.ListJournalEntries(cmd.Context())
			if err != nil {
				return err
			}
			return r.emit(cmd, entries, func(w io.Writer) { printJournalEntries(w, entries) })
		},
	}

	cmd.AddCommand(create, post, get, list)
	return cmd
}

func (r *runner) reportCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "report", Short: "Financial reports"}

	tb := &cobra.Command{
		Use:     "tb",
		Aliases: []string{"trial-balance"},
		Short:   "Trial balance",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := r.svc.TrialBalance(cmd.Context())
			if err != nil {
				return err
			}
			return r.emit(cmd, report, func(w io.Writer) { printTrialBalance(w, report) })
		},
	}

	var plReq app.ProfitAndLossRequest
	pl := &cobra.Command{
		Use:     "pl",
		Aliases: []string{"profit-and-loss"},
		Short:   "Profit and loss from posted entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := r.svc.ProfitAndLoss(cmd.Context(), plReq)
			if err != nil {
				return err
			}
			return r.emit(cmd, report, func(w io.Writer) { printProfitAndLoss(w, report) })
		},
	}
	pl.Flags().StringVar(&plReq.From, "from", "", "first entry date, YYYY-MM-DD")
	pl.Flags().StringVar(&plReq.To, "to", "", "last entry date, YYYY-MM-DD")

	bs := &cobra.Command{
		Use:     "bs",
		Aliases: []string{"balance-sheet"},
		Short:   "Balance sheet",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := r.svc.BalanceSheet(cmd.Context())
			if err != nil {
				return err
			}
			return r.emit(cmd, report, func(w io.Writer) { printBalanceSheet(w, report) })
		},
	}

	cmd.AddCommand(tb, pl, bs)
	return cmd
}

func (r *runner) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Business summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := r.svc.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return r.emit(cmd, d, func(w io.Writer) { printDashboard(w, d) })
		},
	}
}
