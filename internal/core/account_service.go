package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// AccountRegistry owns the chart of accounts. It never writes balances; those change
// only when the Ledger posts an entry.
type AccountRegistry interface {
	CreateAccount(ctx context.Context, code, name string, accountType AccountType, parentID *int64) (*Account, error)
	GetAccount(ctx context.Context, id int64) (*Account, error)
	GetAccountByCode(ctx context.Context, code string) (*Account, error)
	// ListAccounts returns accounts ordered by code.
	ListAccounts(ctx context.Context, activeOnly bool) ([]Account, error)
	// SeedDefaultChart inserts DefaultChart when no accounts exist and reports how many
	// accounts were created.
	SeedDefaultChart(ctx context.Context) (int, error)
}

type accountRegistry struct {
	store Store
}

func NewAccountRegistry(store Store) AccountRegistry {
	return &accountRegistry{store: store}
}

func (r *accountRegistry) CreateAccount(ctx context.Context, code, name string, accountType AccountType, parentID *int64) (*Account, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, missing("code")
	}
	if name == "" {
		return nil, missing("name")
	}
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, accountType)
	}

	a := &Account{Code: code, Name: name, Type: accountType, ParentID: parentID, IsActive: true}
	err := r.store.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.GetAccountByCode(ctx, code); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if parentID != nil {
			if _, err := tx.GetAccount(ctx, *parentID); err != nil {
				return fmt.Errorf("parent account: %w", err)
			}
		}
		return tx.InsertAccount(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRegistry) GetAccount(ctx context.Context, id int64) (*Account, error) {
	var a *Account
	err := r.store.View(ctx, func(tx Tx) error {
		var err error
		a, err = tx.GetAccount(ctx, id)
		return err
	})
	return a, err
}

func (r *accountRegistry) GetAccountByCode(ctx context.Context, code string) (*Account, error) {
	var a *Account
	err := r.store.View(ctx, func(tx Tx) error {
		var err error
		a, err = tx.GetAccountByCode(ctx, strings.TrimSpace(code))
		return err
	})
	return a, err
}

func (r *accountRegistry) ListAccounts(ctx context.Context, activeOnly bool) ([]Account, error) {
	var accounts []Account
	err := r.store.View(ctx, func(tx Tx) error {
		var err error
		accounts, err = tx.ListAccounts(ctx, activeOnly)
		return err
	})
	return accounts, err
}

func (r *accountRegistry) SeedDefaultChart(ctx context.Context) (int, error) {
	inserted := 0
	err := r.store.WithinTx(ctx, func(tx Tx) error {
		inserted = 0
		existing, err := tx.ListAccounts(ctx, false)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		for _, c := range DefaultChart {
			a := &Account{Code: c.Code, Name: c.Name, Type: c.Type, IsActive: true}
			if err := tx.InsertAccount(ctx, a); err != nil {
				return fmt.Errorf("failed to seed account %s: %w", c.Code, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
