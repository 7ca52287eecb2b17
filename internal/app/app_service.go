package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"erp-core/internal/core"
	"erp-core/internal/logging"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type appService struct {
	accounts  core.AccountRegistry
	ledger    *core.Ledger
	reports   core.ReportingService
	catalog   core.CatalogService
	inventory core.InventoryService
	orders    core.OrderService
	purchases core.PurchaseOrderService
	invoices  core.InvoiceService
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	accounts core.AccountRegistry,
	ledger *core.Ledger,
	reports core.ReportingService,
	catalog core.CatalogService,
	inventory core.InventoryService,
	orders core.OrderService,
	purchases core.PurchaseOrderService,
	invoices core.InvoiceService,
	logger *slog.Logger,
) ApplicationService {
	return &appService{
		accounts:  accounts,
		ledger:    ledger,
		reports:   reports,
		catalog:   catalog,
		inventory: inventory,
		orders:    orders,
		purchases: purchases,
		invoices:  invoices,
		validate:  newValidator(),
		logger:    logger,
	}
}

// New wires every core service over store.
func New(store core.Store, logger *slog.Logger) ApplicationService {
	inventory := core.NewInventoryService(store)
	return NewAppService(
		core.NewAccountRegistry(store),
		core.NewLedger(store),
		core.NewReportingService(store),
		core.NewCatalogService(store),
		inventory,
		core.NewOrderService(store),
		core.NewPurchaseOrderService(store, inventory),
		core.NewInvoiceService(store),
		logger,
	)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// check validates req against its struct tags and reports failures as validation errors.
func (s *appService) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", core.ErrValidation, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		field := strings.SplitN(fe.Namespace(), ".", 2)
		name := field[len(field)-1]
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s failed %s=%s", name, fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s failed %s", name, fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", core.ErrValidation, strings.Join(msgs, "; "))
}

// write runs one state-changing operation under its own op_id and logs the outcome.
func (s *appService) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	log := s.logger.With(slog.String("op", op), slog.String("op_id", uuid.NewString()))
	start := time.Now()
	err := fn(logging.WithLogger(ctx, log))
	if err != nil {
		log.Warn("operation failed",
			slog.String("class", core.Class(err)),
			slog.String("error", err.Error()),
			slog.Duration("latency", time.Since(start)))
		return err
	}
	log.Info("operation completed", slog.Duration("latency", time.Since(start)))
	return nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func orderDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return core.ParseDate(s)
}

func orderLines(reqs []OrderLineRequest) []core.OrderLineInput {
	lines := make([]core.OrderLineInput, len(reqs))
	for i, l := range reqs {
		lines[i] = core.OrderLineInput{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	return lines
}

// ── Accounts ──────────────────────────────────────────────────────────────────

func (s *appService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*core.Account, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	accountType, err := core.ParseAccountType(req.Type)
	if err != nil {
		return nil, err
	}
	var account *core.Account
	err = s.write(ctx, "account.create", func(ctx context.Context) error {
		var parentID *int64
		if req.ParentCode != "" {
			parent, err := s.accounts.GetAccountByCode(ctx, req.ParentCode)
			if err != nil {
				return err
			}
			parentID = &parent.ID
		}
		account, err = s.accounts.CreateAccount(ctx, req.Code, req.Name, accountType, parentID)
		return err
	})
	return account, err
}

func (s *appService) GetAccount(ctx context.Context, code string) (*core.Account, error) {
	return s.accounts.GetAccountByCode(ctx, code)
}

func (s *appService) ListAccounts(ctx context.Context, activeOnly bool) ([]core.Account, error) {
	return s.accounts.ListAccounts(ctx, activeOnly)
}

func (s *appService) SeedChart(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{Total: len(core.DefaultChart)}
	err := s.write(ctx, "account.seed", func(ctx context.Context) error {
		var err error
		result.Created, err = s.accounts.SeedDefaultChart(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ── Journal ───────────────────────────────────────────────────────────────────

func (s *appService) CreateJournalEntry(ctx context.Context, req CreateJournalEntryRequest) (*core.JournalEntry, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	entryDate, err := core.ParseDate(req.EntryDate)
	if err != nil {
		return nil, err
	}
	var entry *core.JournalEntry
	err = s.write(ctx, "journal.create", func(ctx context.Context) error {
		in := core.JournalEntryInput{
			EntryDate:   entryDate,
			Reference:   req.Reference,
			Description: req.Description,
			Lines:       make([]core.JournalLineInput, len(req.Lines)),
		}
		ids := make(map[string]int64)
		for i, l := range req.Lines {
			id, ok := ids[l.AccountCode]
			if !ok {
				account, err := s.accounts.GetAccountByCode(ctx, l.AccountCode)
				if err != nil {
					return fmt.Errorf("line %d: %w", i+1, err)
				}
				id = account.ID
				ids[l.AccountCode] = id
			}
			in.Lines[i] = core.JournalLineInput{AccountID: id, Debit: l.Debit, Credit: l.Credit, Description: l.Description}
		}
		var err error
		if entry, err = s.ledger.CreateEntry(ctx, in); err != nil {
			return err
		}
		logging.FromContext(ctx).Info("journal entry created", slog.Int64("entry_id", entry.ID), slog.Int("lines", len(entry.Lines)))
		return nil
	})
	return entry, err
}

func (s *appService) PostJournalEntry(ctx context.Context, entryID int64) (*core.JournalEntry, error) {
	var entry *core.JournalEntry
	err := s.write(ctx, "journal.post", func(ctx context.Context) error {
		var err error
		if entry, err = s.ledger.PostEntry(ctx, entryID); err != nil {
			return err
		}
		logging.FromContext(ctx).Info("journal entry posted", slog.Int64("entry_id", entry.ID))
		return nil
	})
	return entry, err
}

func (s *appService) GetJournalEntry(ctx context.Context, entryID int64) (*core.JournalEntry, error) {
	return s.ledger.GetEntry(ctx, entryID)
}

func (s *appService) ListJournalEntries(ctx context.Context) ([]core.JournalEntrySummary, error) {
	return s.ledger.ListEntries(ctx)
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) TrialBalance(ctx context.Context) (*core.TrialBalance, error) {
	return s.reports.TrialBalance(ctx)
}

func (s *appService) ProfitAndLoss(ctx context.Context, req ProfitAndLossRequest) (*core.PLReport, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	from, err := optionalDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := optionalDate(req.To)
	if err != nil {
		return nil, err
	}
	return s.reports.ProfitAndLoss(ctx, from, to)
}

func (s *appService) BalanceSheet(ctx context.Context) (*core.BSReport, error) {
	return s.reports.BalanceSheet(ctx)
}

func (s *appService) Dashboard(ctx context.Context) (*core.Dashboard, error) {
	return s.reports.Dashboard(ctx)
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *appService) CreateContact(ctx context.Context, req CreateContactRequest) (*core.Contact, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	var contact *core.Contact
	err := s.write(ctx, "contact.create", func(ctx context.Context) error {
		var err error
		contact, err = s.catalog.CreateContact(ctx, core.ContactInput{
			Name:    req.Name,
			Type:    core.ContactType(req.Type),
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		return err
	})
	return contact, err
}

func (s *appService) ListContacts(ctx context.Context, contactType string) ([]core.Contact, error) {
	filter := core.ContactType(contactType)
	if filter != "" && !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown contact type %q", core.ErrValidation, contactType)
	}
	return s.catalog.ListContacts(ctx, filter)
}

func (s *appService) DeactivateContact(ctx context.Context, contactID int64) error {
	return s.write(ctx, "contact.deactivate", func(ctx context.Context) error {
		return s.catalog.DeactivateContact(ctx, contactID)
	})
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*core.Product, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	var product *core.Product
	err := s.write(ctx, "product.create", func(ctx context.Context) error {
		var err error
		product, err = s.catalog.CreateProduct(ctx, core.ProductInput{
			SKU:          req.SKU,
			Name:         req.Name,
			Description:  req.Description,
			UnitPrice:    req.UnitPrice,
			CostPrice:    req.CostPrice,
			ReorderLevel: req.ReorderLevel,
			Unit:         req.Unit,
		})
		return err
	})
	return product, err
}

func (s *appService) GetProduct(ctx context.Context, productID int64) (*core.Product, error) {
	return s.catalog.GetProduct(ctx, productID)
}

func (s *appService) ListProducts(ctx context.Context, activeOnly bool) ([]core.Product, error) {
	return s.catalog.ListProducts(ctx, activeOnly)
}

func (s *appService) DeactivateProduct(ctx context.Context, productID int64) error {
	return s.write(ctx, "product.deactivate", func(ctx context.Context) error {
		return s.catalog.DeactivateProduct(ctx, productID)
	})
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*core.StockMovement, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	var movement *core.StockMovement
	err := s.write(ctx, "stock.move", func(ctx context.Context) error {
		var err error
		movement, err = s.inventory.RecordMovement(ctx, core.MovementInput{
			ProductID: req.ProductID,
			Type:      core.MovementType(req.Type),
			Quantity:  req.Quantity,
			Reference: req.Reference,
			Notes:     req.Notes,
		})
		return err
	})
	return movement, err
}

func (s *appService) ListMovements(ctx context.Context, productID int64) (*MovementListResult, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	movements, err := s.inventory.Movements(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &MovementListResult{Product: product, Movements: movements}, nil
}

func (s *appService) LowStock(ctx context.Context) ([]core.Product, error) {
	return s.inventory.LowStock(ctx)
}

// ── Sales orders ──────────────────────────────────────────────────────────────

func (s *appService) salesOrderInput(req SalesOrderRequest) (core.SalesOrderInput, error) {
	if err := s.check(req); err != nil {
		return core.SalesOrderInput{}, err
	}
	date, err := orderDate(req.OrderDate)
	if err != nil {
		return core.SalesOrderInput{}, err
	}
	return core.SalesOrderInput{
		CustomerID: req.CustomerID,
		OrderDate:  date,
		Notes:      req.Notes,
		Lines:      orderLines(req.Lines),
	}, nil
}

func (s *appService) CreateSalesOrder(ctx context.Context, req SalesOrderRequest) (*core.SalesOrder, error) {
	in, err := s.salesOrderInput(req)
	if err != nil {
		return nil, err
	}
	var order *core.SalesOrder
	err = s.write(ctx, "sales.create", func(ctx context.Context) error {
		if order, err = s.orders.CreateOrder(ctx, in); err != nil {
			return err
		}
		logging.FromContext(ctx).Info("sales order created", slog.Int64("id", order.ID), slog.String("number", order.OrderNumber))
		return nil
	})
	return order, err
}

func (s *appService) UpdateSalesOrder(ctx context.Context, orderID int64, req SalesOrderRequest) (*core.SalesOrder, error) {
	in, err := s.salesOrderInput(req)
	if err != nil {
		return nil, err
	}
	var order *core.SalesOrder
	err = s.write(ctx, "sales.update", func(ctx context.Context) error {
		order, err = s.orders.UpdateOrder(ctx, orderID, in)
		return err
	})
	return order, err
}

func (s *appService) ConfirmSalesOrder(ctx context.Context, orderID int64) (*core.SalesOrder, error) {
	var order *core.SalesOrder
	err := s.write(ctx, "sales.confirm", func(ctx context.Context) error {
		var err error
		order, err = s.orders.ConfirmOrder(ctx, orderID)
		return err
	})
	return order, err
}

func (s *appService) CancelSalesOrder(ctx context.Context, orderID int64) (*core.SalesOrder, error) {
	var order *core.SalesOrder
	err := s.write(ctx, "sales.cancel", func(ctx context.Context) error {
		var err error
		order, err = s.orders.CancelOrder(ctx, orderID)
		return err
	})
	return order, err
}

func (s *appService) InvoiceSalesOrder(ctx context.Context, req InvoiceOrderRequest) (*core.Invoice, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	dueDate, err := optionalDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	var invoice *core.Invoice
	err = s.write(ctx, "sales.invoice", func(ctx context.Context) error {
		if invoice, err = s.orders.CreateInvoice(ctx, req.OrderID, dueDate, req.Notes); err != nil {
			return err
		}
		logging.FromContext(ctx).Info("invoice created", slog.Int64("id", invoice.ID), slog.String("number", invoice.InvoiceNumber))
		return nil
	})
	return invoice, err
}

func (s *appService) GetSalesOrder(ctx context.Context, orderID int64) (*core.SalesOrder, error) {
	return s.orders.GetOrder(ctx, orderID)
}

func (s *appService) ListSalesOrders(ctx context.Context, status string) ([]core.SalesOrder, error) {
	st := core.SalesOrderStatus(status)
	if st != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown sales order status %q", core.ErrValidation, status)
	}
	return s.orders.GetOrders(ctx, st)
}

// ── Purchase orders ───────────────────────────────────────────────────────────

func (s *appService) purchaseOrderInput(req PurchaseOrderRequest) (core.PurchaseOrderInput, error) {
	if err := s.check(req); err != nil {
		return core.PurchaseOrderInput{}, err
	}
	date, err := orderDate(req.OrderDate)
	if err != nil {
		return core.PurchaseOrderInput{}, err
	}
	expected, err := optionalDate(req.ExpectedDate)
	if err != nil {
		return core.PurchaseOrderInput{}, err
	}
	return core.PurchaseOrderInput{
		SupplierID:   req.SupplierID,
		OrderDate:    date,
		ExpectedDate: expected,
		Notes:        req.Notes,
		Lines:        orderLines(req.Lines),
	}, nil
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*core.PurchaseOrder, error) {
	in, err := s.purchaseOrderInput(req)
	if err != nil {
		return nil, err
	}
	var po *core.PurchaseOrder
	err = s.write(ctx, "purchase.create", func(ctx context.Context) error {
		if po, err = s.purchases.CreatePurchaseOrder(ctx, in); err != nil {
			return err
		}
		logging.FromContext(ctx).Info("purchase order created", slog.Int64("id", po.ID), slog.String("number", po.PONumber))
		return nil
	})
	return po, err
}

func (s *appService) UpdatePurchaseOrder(ctx context.Context, poID int64, req PurchaseOrderRequest) (*core.PurchaseOrder, error) {
	in, err := s.purchaseOrderInput(req)
	if err != nil {
		return nil, err
	}
	var po *core.PurchaseOrder
	err = s.write(ctx, "purchase.update", func(ctx context.Context) error {
		po, err = s.purchases.UpdatePurchaseOrder(ctx, poID, in)
		return err
	})
	return po, err
}

func (s *appService) purchaseTransition(ctx context.Context, op string, poID int64,
	fn func(ctx context.Context, poID int64) (*core.PurchaseOrder, error)) (*core.PurchaseOrder, error) {
	var po *core.PurchaseOrder
	err := s.write(ctx, op, func(ctx context.Context) error {
		var err error
		po, err = fn(ctx, poID)
		return err
	})
	return po, err
}

func (s *appService) ConfirmPurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error) {
	return s.purchaseTransition(ctx, "purchase.confirm", poID, s.purchases.ConfirmPurchaseOrder)
}

func (s *appService) ReceivePurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error) {
	return s.purchaseTransition(ctx, "purchase.receive", poID, s.purchases.ReceivePurchaseOrder)
}

func (s *appService) CancelPurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error) {
	return s.purchaseTransition(ctx, "purchase.cancel", poID, s.purchases.CancelPurchaseOrder)
}

func (s *appService) GetPurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error) {
	return s.purchases.GetPurchaseOrder(ctx, poID)
}

func (s *appService) ListPurchaseOrders(ctx context.Context, status string) ([]core.PurchaseOrder, error) {
	st := core.PurchaseOrderStatus(status)
	if st != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown purchase order status %q", core.ErrValidation, status)
	}
	return s.purchases.GetPurchaseOrders(ctx, st)
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func (s *appService) GetInvoice(ctx context.Context, invoiceID int64) (*core.Invoice, error) {
	return s.invoices.GetInvoice(ctx, invoiceID)
}

func (s *appService) ListInvoices(ctx context.Context, status string) ([]core.Invoice, error) {
	st := core.InvoiceStatus(status)
	if st != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", core.ErrValidation, status)
	}
	return s.invoices.GetInvoices(ctx, st)
}

func (s *appService) MarkInvoicePaid(ctx context.Context, invoiceID int64) (*core.Invoice, error) {
	var invoice *core.Invoice
	err := s.write(ctx, "invoice.pay", func(ctx context.Context) error {
		var err error
		invoice, err = s.invoices.MarkPaid(ctx, invoiceID)
		return err
	})
	return invoice, err
}
