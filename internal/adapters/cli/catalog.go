package cli

import (
	"fmt"
	"io"

	"erp-core/internal/app"

	"github.com/spf13/cobra"
)

// idCommand builds a subcommand that takes a single numeric id argument.
func idCommand(use, short string, run func(cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, id)
		},
	}
}

func (r *runner) contactsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "contacts", Short: "Manage customers and suppliers"}

	var req app.CreateContactRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := r.svc.CreateContact(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.emit(cmd, c, func(w io.Writer) {
				fmt.Fprintf(w, "Contact %d created: %s (%s)\n", c.ID, c.Name, c.Type)
			})
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "contact name (required)")
	create.Flags().StringVar(&req.Type, "type", "", "customer, supplier or both (default customer)")
	create.Flags().StringVar(&req.Email, "email", "", "email address")
	create.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	create.Flags().StringVar(&req.Address, "address", "", "postal address")
	_ = create.MarkFlagRequired("name")

	var contactType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List active contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := r.svc.ListContacts(cmd.Context(), contactType)
			if err != nil {
				return err
			}
			return r.emit(cmd, contacts, func(w io.Writer) { printContacts(w, contacts) })
		},
	}
	list.Flags().StringVar(&contactType, "type", "", "only customers or only suppliers")

	deactivate := idCommand("deactivate", "Deactivate a contact", func(cmd *cobra.Command, id int64) error {
		if err := r.svc.DeactivateContact(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Contact %d deactivated.\n", id)
		return nil
	})

	cmd.AddCommand(create, list, deactivate)
	return cmd
}

func (r *runner) productsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Manage the product catalog"}

	var req app.CreateProductRequest
	var price, cost, reorder string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.UnitPrice, err = parseDecimal("price", price); err != nil {
				return err
			}
			if req.CostPrice, err = parseDecimal("cost", cost); err != nil {
				return err
			}
			if req.ReorderLevel, err = parseDecimal("reorder", reorder); err != nil {
				return err
			}
			p, err := r.svc.CreateProduct(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.emit(cmd, p, func(w io.Writer) {
				fmt.Fprintf(w, "Product %d created: %s %s @ %s\n", p.ID, p.SKU, p.Name, p.UnitPrice.StringFixed(2))
			})
		},
	}
	create.Flags().StringVar(&req.SKU, "sku", "", "stock keeping unit (required)")
	create.Flags().StringVar(&req.Name, "name", "", "product name (required)")
	create.Flags().StringVar(&req.Description, "description", "", "description")
	create.Flags().StringVar(&req.Unit, "unit", "", "unit of measure (default each)")
	create.Flags().StringVar(&price, "price", "0", "unit sales price")
	create.Flags().StringVar(&cost, "cost", "0", "unit cost price")
	create.Flags().StringVar(&reorder, "reorder", "0", "reorder level")
	_ = create.MarkFlagRequired("sku")
	_ = create.MarkFlagRequired("name")

	get := idCommand("get", "Show one product", func(cmd *cobra.Command, id int64) error {
		p, err := r.svc.GetProduct(cmd.Context(), id)
		if err != nil {
			return err
		}
		return r.emit(cmd, p, func(w io.Writer) { printProduct(w, p) })
	})

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := r.svc.ListProducts(cmd.Context(), !all)
			if err != nil {
				return err
			}
			return r.emit(cmd, products, func(w io.Writer) { printProducts(w, "PRODUCTS", products) })
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive products")

	deactivate := idCommand("deactivate", "Deactivate a product", func(cmd *cobra.Command, id int64) error {
		if err := r.svc.DeactivateProduct(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product %d deactivated.\n", id)
		return nil
	})

	cmd.AddCommand(create, get, list, deactivate)
	return cmd
}

func (r *runner) stockCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Inventory movements and levels"}

	var req app.RecordMovementRequest
	var qty string
	move := &cobra.Command{
		Use:   "move",
		Short: "Record a stock movement (in, out, or adjustment to a counted level)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Quantity, err = parseDecimal("qty", qty); err != nil {
				return err
			}
			m, err := r.svc.RecordMovement(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.emit(cmd, m, func(w io.Writer) {
				fmt.Fprintf(w, "Movement %d recorded: %s %s of product %d\n", m.ID, m.Type, m.Quantity.String(), m.ProductID)
			})
		},
	}
	move.Flags().Int64Var(&req.ProductID, "product", 0, "product id (required)")
	move.Flags().StringVar(&req.Type, "type", "", "in, out or adjustment (required)")
	move.Flags().StringVar(&qty, "qty", "", "quantity; for adjustment, the counted stock level (required)")
	move.Flags().StringVar(&req.Reference, "ref", "", "reference")
	move.Flags().StringVar(&req.Notes, "notes", "", "notes")
	_ = move.MarkFlagRequired("product")
	_ = move.MarkFlagRequired("type")
	_ = move.MarkFlagRequired("qty")

	history := idCommand("history", "Movement history of a product", func(cmd *cobra.Command, id int64) error {
		res, err := r.svc.ListMovements(cmd.Context(), id)
		if err != nil {
			return err
		}
		return r.emit(cmd, res, func(w io.Writer) { printMovements(w, res) })
	})

	low := &cobra.Command{
		Use:   "low",
		Short: "Products at or below their reorder level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := r.svc.LowStock(cmd.Context())
			if err != nil {
				return err
			}
			return r.emit(cmd, products, func(w io.Writer) { printProducts(w, "LOW STOCK", products) })
		},
	}

	cmd.AddCommand(move, history, low)
	return cmd
}
