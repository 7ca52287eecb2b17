package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"erp-core/internal/core"

	"github.com/shopspring/decimal"
)

const accountColumns = "id, code, name, account_type, parent_id, balance, active, created_at"

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var a core.Account
	var parent sql.NullInt64
	var createdAt string
	if err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &parent, &a.Balance, &a.IsActive, &createdAt); err != nil {
		return a, err
	}
	a.ParentID = intPtr(parent)
	a.CreatedAt = parseTimestamp(createdAt)
	return a, nil
}

func (t *txStore) InsertAccount(ctx context.Context, a *core.Account) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO accounts (code, name, account_type, parent_id, balance, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Code, a.Name, string(a.Type), nullInt(a.ParentID), decimal.Zero, a.IsActive, createdAt)
	if err != nil {
		if isUniqueViolation(err, "accounts.code") {
			return fmt.Errorf("%w: %s", core.ErrDuplicateCode, a.Code)
		}
		return fmt.Errorf("failed to insert account %s: %w", a.Code, err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	a.Balance = decimal.Zero
	a.CreatedAt = parseTimestamp(createdAt)
	return nil
}

func (t *txStore) GetAccount(ctx context.Context, id int64) (*core.Account, error) {
	a, err := scanAccount(t.tx.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err, "account", id)
	}
	return &a, nil
}

func (t *txStore) GetAccountByCode(ctx context.Context, code string) (*core.Account, error) {
	a, err := scanAccount(t.tx.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE code = ?", code))
	if err != nil {
		return nil, notFound(err, "account", code)
	}
	return &a, nil
}

func (t *txStore) ListAccounts(ctx context.Context, activeOnly bool) ([]core.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY code"

	rows, err := t.tx.QueryContext(ctx, query)
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
