// Package cli is the command-line adapter over app.ApplicationService.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"erp-core/internal/app"
	"erp-core/internal/core"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// MigrateFunc applies pending schema migrations and reports the resulting version.
type MigrateFunc func() (uint, error)

type runner struct {
	svc     app.ApplicationService
	migrate MigrateFunc
	asJSON  bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// migrate may be nil when the store migrates itself.
func NewRootCommand(svc app.ApplicationService, migrate MigrateFunc) *cobra.Command {
	r := &runner{svc: svc, migrate: migrate}

	rootCmd := &cobra.Command{
		Use:   "erp",
		Short: "Accounting, inventory and order management",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&r.asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		r.accountsCommand(),
		r.journalCommand(),
		r.reportCommand(),
		r.dashboardCommand(),
		r.contactsCommand(),
		r.productsCommand(),
		r.stockCommand(),
		r.salesCommand(),
		r.purchasesCommand(),
		r.invoicesCommand(),
		r.schemaCommand(),
		r.migrateCommand(),
	)
	return rootCmd
}

// emit prints v as JSON when --json is set, and calls table otherwise.
func (r *runner) emit(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if r.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table(w)
	return nil
}

// readRequest decodes a JSON request from the --file flag, or from stdin when the
// flag is empty or "-".
func readRequest(cmd *cobra.Command, path string, v any) error {
	var in io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON request: %v", core.ErrValidation, err)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", core.ErrValidation, arg)
	}
	return id, nil
}

func parseDecimal(flag, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: --%s %q is not a number", core.ErrValidation, flag, value)
	}
	return d, nil
}

func (r *runner) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [command]",
		Short: "Print the JSON Schema of a command's request, or list commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range app.CommandNames() {
					fmt.Fprintln(w, name)
				}
				return nil
			}
			raw, err := app.Schema(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(raw))
			return err
		},
	}
}

func (r *runner) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if r.migrate == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Store migrates its schema on open; nothing to do.")
				return nil
			}
			version, err := r.migrate()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema at version %d.\n", version)
			return nil
		},
	}
}
