package cli

import (
	"io"

	"erp-core/internal/app"
	"erp-core/internal/core"

	"github.com/spf13/cobra"
)

func (r *runner) salesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "sales", Aliases: []string{"so"}, Short: "Sales order lifecycle"}
	show := func(cmd *cobra.Command, o *core.SalesOrder) error {
		return r.emit(cmd, o, func(w io.Writer) { printSalesOrder(w, o) })
	}

	var file string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a draft order from JSON (see: erp schema sales.create)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req app.SalesOrderRequest
			if err := readRequest(cmd, file, &req); err != nil {
				return err
			}
			o, err := r.svc.CreateSalesOrder(cmd.Context(), req)
			if err != nil {
				return err
			}
			return show(cmd, o)
		},
	}
	create.Flags().StringVarP(&file, "file", "f", "", "request file (default stdin)")

	var updateFile string
	update := idCommand("update", "Replace a draft order from JSON", func(cmd *cobra.Command, id int64) error {
		var req app.SalesOrderRequest
		if err := readRequest(cmd, updateFile, &req); err != nil {
			return err
		}
		o, err := r.svc.UpdateSalesOrder(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		return show(cmd, o)
	})
	update.Flags().StringVarP(&updateFile, "file", "f", "", "request file (default stdin)")

	confirm := idCommand("confirm", "Confirm a draft order", func(cmd *cobra.Command, id int64) error {
		o, err := r.svc.ConfirmSalesOrder(cmd.Context(), id)
		if err != nil {
			return err
		}
		return show(cmd, o)
	})

	cancel := idCommand("cancel", "Cancel an order", func(cmd *cobra.Command, id int64) error {
		o, err := r.svc.CancelSalesOrder(cmd.Context(), id)
		if err != nil {
			return err
		}
		return show(cmd, o)
	})

	var invReq app.InvoiceOrderRequest
	invoice := idCommand("invoice", "Invoice a confirmed order", func(cmd *cobra.Command, id int64) error {
		invReq.OrderID = id
		inv, err := r.svc.InvoiceSalesOrder(cmd.Context(), invReq)
		if err != nil {
			return err
		}
		return r.emit(cmd, inv, func(w io.Writer) { printInvoice(w, inv) })
	})
	invoice.Flags().StringVar(&invReq.DueDate, "due", "", "due date, YYYY-MM-DD")
	invoice.Flags().StringVar(&invReq.Notes, "notes", "", "invoice notes (default: the order's notes)")

	get := idCommand("get", "Show an order with its lines", func(cmd *cobra.Command, id int64) error {
		o, err := r.svc.GetSalesOrder(cmd.Context(), id)
		if err != nil {
			return err
		}
		return show(cmd, o)
	})

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := r.svc.ListSalesOrders(cmd.Context(), status)
			if err != nil {
				return err
			}
			return r.emit(cmd, orders, func(w io.Writer) { printSalesOrders(w, orders) })
		},
	}
	list.Flags().StringVar(&status, "status", "", "only orders in this status")

	cmd.AddCommand(create, update, confirm, cancel, invoice, get, list)
	return cmd
}

func (r *runner) purchasesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "purchases", Aliases: []string{"po"}, Short: "Purchase order lifecycle"}
	show := func(cmd *cobra.Command, o *core.PurchaseOrder) error {
		return r.emit(cmd, o, func(w io.Writer) { printPurchaseOrder(w, o) })
	}
	transition := func(use, short string, fn func(cmd *cobra.Command, id int64) (*core.PurchaseOrder, error)) *cobra.Command {
		return idCommand(use, short, func(cmd *cobra.Command, id int64) error {
			o, err := fn(cmd, id)
			if err != nil {
				return err
			}
			return show(cmd, o)
		})
	}

	var file string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a draft purchase order from JSON (see: erp schema purchase.create)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req app.PurchaseOrderRequest
			if err := readRequest(cmd, file, &req); err != nil {
				return err
			}
			o, err := r.svc.CreatePurchaseOrder(cmd.Context(), req)
			if err != nil {
				return err
			}
			return show(cmd, o)
		},
	}
	create.Flags().StringVarP(&file, "file", "f", "", "request file (default stdin)")

	var updateFile string
	update := transition("update", "Replace a draft purchase order from JSON", func(cmd *cobra.Command, id int64) (*core.PurchaseOrder, error) {
		var req app.PurchaseOrderRequest
		if err := readRequest(cmd, updateFile, &req); err != nil {
			return nil, err
		}
		return r.svc.UpdatePurchaseOrder(cmd.Context(), id, req)
	})
	update.Flags().StringVarP(&updateFile, "file", "f", "", "request file (default stdin)")

	confirm := transition("confirm", "Confirm a draft purchase order", func(cmd *cobra.Command, id int64) (*core.PurchaseOrder, error) {
		return r.svc.ConfirmPurchaseOrder(cmd.Context(), id)
	})
	receive := transition("receive", "Receive all lines into stock", func(cmd *cobra.Command, id int64) (*core.PurchaseOrder, error) {
		return r.svc.ReceivePurchaseOrder(cmd.Context(), id)
	})
	cancel := transition("cancel", "Cancel a purchase order", func(cmd *cobra.Command, id int64) (*core.PurchaseOrder, error) {
		return r.svc.CancelPurchaseOrder(cmd.Context(), id)
	})
	get := transition("get", "Show a purchase order with its lines", func(cmd *cobra.Command, id int64) (*core.PurchaseOrder, error) {
		return r.svc.GetPurchaseOrder(cmd.Context(), id)
	})

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List purchase orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := r.svc.ListPurchaseOrders(cmd.Context(), status)
			if err != nil {
				return err
			}
			return r.emit(cmd, orders, func(w io.Writer) { printPurchaseOrders(w, orders) })
		},
	}
	list.Flags().StringVar(&status, "status", "", "only orders in this status")

	cmd.AddCommand(create, update, confirm, receive, cancel, get, list)
	return cmd
}

func (r *runner) invoicesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "invoices", Aliases: []string{"inv"}, Short: "Customer invoices"}

	get := idCommand("get", "Show an invoice with its lines", func(cmd *cobra.Command, id int64) error {
		inv, err := r.svc.GetInvoice(cmd.Context(), id)
		if err != nil {
			return err
		}
		return r.emit(cmd, inv, func(w io.Writer) { printInvoice(w, inv) })
	})

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			invoices, err := r.svc.ListInvoices(cmd.Context(), status)
			if err != nil {
				return err
			}
			return r.emit(cmd, invoices, func(w io.Writer) { printInvoices(w, invoices) })
		},
	}
	list.Flags().StringVar(&status, "status", "", "only invoices in this status")

	pay := idCommand("pay", "Mark an invoice paid in full", func(cmd *cobra.Command, id int64) error {
		inv, err := r.svc.MarkInvoicePaid(cmd.Context(), id)
		if err != nil {
			return err
		}
		return r.emit(cmd, inv, func(w io.Writer) { printInvoice(w, inv) })
	})

	cmd.AddCommand(get, list, pay)
	return cmd
}
