package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductInput carries the catalog fields of a new product. Stock starts at zero.
type ProductInput struct {
	SKU          string
	Name         string
	Description  string
	UnitPrice    decimal.Decimal
	CostPrice    decimal.Decimal
	ReorderLevel decimal.Decimal
	Unit         string
}

type ContactInput struct {
	Name    string
	Type    ContactType
	Email   string
	Phone   string
	Address string
}

// CatalogService is the contact directory and product catalog the order lifecycles
// resolve counterparties and products against. Records are deactivated, never deleted.
type CatalogService interface {
	CreateContact(ctx context.Context, in ContactInput) (*Contact, error)
	GetContact(ctx context.Context, id int64) (*Contact, error)
	// ListContacts returns active contacts; a non-empty filter keeps customers
	// (ContactCustomer) or suppliers (ContactSupplier), counting ContactBoth as either.
	ListContacts(ctx context.Context, filter ContactType) ([]Contact, error)
	DeactivateContact(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]Product, error)
	DeactivateProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	store Store
}

func NewCatalogService(store Store) CatalogService {
	return &catalogService{store: store}
}

// ── Contacts ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	c := &Contact{
		Name:     strings.TrimSpace(in.Name),
		Type:     in.Type,
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
		IsActive: true,
	}
	if c.Name == "" {
		return nil, missing("name")
	}
	if c.Type == "" {
		c.Type = ContactCustomer
	}
	if !c.Type.Valid() {
		return nil, fmt.Errorf("%w: contact type %q", ErrValidation, c.Type)
	}
	if err := s.store.WithinTx(ctx, func(tx Tx) error { return tx.InsertContact(ctx, c) }); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) GetContact(ctx context.Context, id int64) (*Contact, error) {
	var c *Contact
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		c, err = tx.GetContact(ctx, id)
		return err
	})
	return c, err
}

func (s *catalogService) ListContacts(ctx context.Context, filter ContactType) ([]Contact, error) {
	var all []Contact
	if err := s.store.View(ctx, func(tx Tx) error {
		var err error
		all, err = tx.ListContacts(ctx, true)
		return err
	}); err != nil {
		return nil, err
	}

	contacts := []Contact{}
	for _, c := range all {
		switch filter {
		case ContactCustomer:
			if !c.Type.IsCustomer() {
				continue
			}
		case ContactSupplier:
			if !c.Type.IsSupplier() {
				continue
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (s *catalogService) DeactivateContact(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.GetContact(ctx, id); err != nil {
			return err
		}
		return tx.SetContactActive(ctx, id, false)
	})
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	p := &Product{
		SKU:          strings.TrimSpace(in.SKU),
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		UnitPrice:    in.UnitPrice,
		CostPrice:    in.CostPrice,
		StockQty:     decimal.Zero,
		ReorderLevel: in.ReorderLevel,
		Unit:         strings.TrimSpace(in.Unit),
		IsActive:     true,
	}
	if p.SKU == "" {
		return nil, missing("sku")
	}
	if p.Name == "" {
		return nil, missing("name")
	}
	if p.UnitPrice.IsNegative() || p.CostPrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", ErrInvalidAmount)
	}
	if p.ReorderLevel.IsNegative() {
		return nil, fmt.Errorf("%w: reorder level must not be negative", ErrInvalidQuantity)
	}
	if p.Unit == "" {
		p.Unit = "each"
	}

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		err := tx.InsertProduct(ctx, p)
		if errors.Is(err, ErrDuplicateSKU) {
			return fmt.Errorf("%w: %s", err, p.SKU)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p *Product
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		p, err = tx.GetProduct(ctx, id)
		return err
	})
	return p, err
}

func (s *catalogService) ListProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	var products []Product
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		products, err = tx.ListProducts(ctx, activeOnly)
		return err
	})
	return products, err
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.GetProduct(ctx, id); err != nil {
			return err
		}
		return tx.SetProductActive(ctx, id, false)
	})
}
