package core

// Event is an operation that may move a document to another status.
type Event string

const (
	EventEdit    Event = "edit"
	EventConfirm Event = "confirm"
	EventCancel  Event = "cancel"
	EventInvoice Event = "invoice"
	EventReceive Event = "receive"
	EventPay     Event = "pay"
)

// ── Sales orders ─────────────────────────────────────────────────────────────

type SalesOrderStatus string

const (
	SalesDraft     SalesOrderStatus = "draft"
	SalesConfirmed SalesOrderStatus = "confirmed"
	// SalesShipped is part of the state space but no operation enters it.
	SalesShipped   SalesOrderStatus = "shipped"
	SalesInvoiced  SalesOrderStatus = "invoiced"
	SalesCancelled SalesOrderStatus = "cancelled"
)

var SalesOrderStatuses = []SalesOrderStatus{SalesDraft, SalesConfirmed, SalesShipped, SalesInvoiced, SalesCancelled}

var salesOrderTransitions = map[SalesOrderStatus]map[Event]SalesOrderStatus{
	SalesDraft: {
		EventEdit:    SalesDraft,
		EventConfirm: SalesConfirmed,
		EventCancel:  SalesCancelled,
	},
	SalesConfirmed: {
		EventCancel:  SalesCancelled,
		EventInvoice: SalesInvoiced,
	},
	SalesShipped: {
		EventCancel:  SalesCancelled,
		EventInvoice: SalesInvoiced,
	},
	SalesInvoiced:  {},
	SalesCancelled: {},
}

func (s SalesOrderStatus) Valid() bool {
	_, ok := salesOrderTransitions[s]
	return ok
}

// Next returns the status reached by applying ev, and false when s does not accept ev.
func (s SalesOrderStatus) Next(ev Event) (SalesOrderStatus, bool) {
	next, ok := salesOrderTransitions[s][ev]
	return next, ok
}

// ── Purchase orders ──────────────────────────────────────────────────────────

type PurchaseOrderStatus string

const (
	PurchaseDraft     PurchaseOrderStatus = "draft"
	PurchaseConfirmed PurchaseOrderStatus = "confirmed"
	PurchaseReceived  PurchaseOrderStatus = "received"
	// PurchaseInvoiced is part of the state space but no operation enters it.
	PurchaseInvoiced  PurchaseOrderStatus = "invoiced"
	PurchaseCancelled PurchaseOrderStatus = "cancelled"
)

var PurchaseOrderStatuses = []PurchaseOrderStatus{PurchaseDraft, PurchaseConfirmed, PurchaseReceived, PurchaseInvoiced, PurchaseCancelled}

var purchaseOrderTransitions = map[PurchaseOrderStatus]map[Event]PurchaseOrderStatus{
	PurchaseDraft: {
		EventEdit:    PurchaseDraft,
		EventConfirm: PurchaseConfirmed,
		EventCancel:  PurchaseCancelled,
	},
	PurchaseConfirmed: {
		EventReceive: PurchaseReceived,
		EventCancel:  PurchaseCancelled,
	},
	PurchaseReceived:  {},
	PurchaseInvoiced:  {},
	PurchaseCancelled: {},
}

func (s PurchaseOrderStatus) Valid() bool {
	_, ok := purchaseOrderTransitions[s]
	return ok
}

func (s PurchaseOrderStatus) Next(ev Event) (PurchaseOrderStatus, bool) {
	next, ok := purchaseOrderTransitions[s][ev]
	return next, ok
}

// ── Invoices ─────────────────────────────────────────────────────────────────

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

var InvoiceStatuses = []InvoiceStatus{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled}

var invoiceTransitions = map[InvoiceStatus]map[Event]InvoiceStatus{
	InvoiceDraft:     {EventPay: InvoicePaid},
	InvoiceSent:      {EventPay: InvoicePaid},
	InvoiceOverdue:   {EventPay: InvoicePaid},
	InvoicePaid:      {},
	InvoiceCancelled: {},
}

func (s InvoiceStatus) Valid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

func (s InvoiceStatus) Next(ev Event) (InvoiceStatus, bool) {
	next, ok := invoiceTransitions[s][ev]
	return next, ok
}

// Pending reports whether the invoice still awaits payment for dashboard purposes.
func (s InvoiceStatus) Pending() bool {
	return s == InvoiceDraft || s == InvoiceSent
}
