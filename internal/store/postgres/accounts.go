package postgres

import (
	"context"
	"fmt"

	"erp-core/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = "id, code, name, account_type, parent_id, balance, active, created_at"

func scanAccount(row pgx.Row) (core.Account, error) {
	var a core.Account
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.Balance, &a.IsActive, &a.CreatedAt)
	return a, err
}

func (t *txStore) InsertAccount(ctx context.Context, a *core.Account) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO accounts (code, name, account_type, parent_id, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		a.Code, a.Name, string(a.Type), a.ParentID, a.IsActive).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "accounts_code_key") {
			return fmt.Errorf("%w: %s", core.ErrDuplicateCode, a.Code)
		}
		return fmt.Errorf("failed to insert account %s: %w", a.Code, err)
	}
	a.Balance = decimal.Zero
	return nil
}

func (t *txStore) GetAccount(ctx context.Context, id int64) (*core.Account, error) {
	a, err := scanAccount(t.tx.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, "account", id)
	}
	return &a, nil
}

func (t *txStore) GetAccountByCode(ctx context.Context, code string) (*core.Account, error) {
	a, err := scanAccount(t.tx.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE code = $1", code))
	if err != nil {
		return nil, notFound(err, "account", code)
	}
	return &a, nil
}

func (t *txStore) ListAccounts(ctx context.Context, activeOnly bool) ([]core.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts"
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY code"

	rows, err := t.tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []core.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
