package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
)

const expenseSelect = `
	SELECT e.id, e.group_id, e.description, e.amount, e.payer_id,
	       COALESCE(u.display_name, ''), e.occurred_at, e.created_at
	FROM expenses e
	LEFT JOIN users u ON u.id = e.payer_id
`

// CreateExpense validates and persists a new expense.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.OccurredAt == 0 {
		expense.OccurredAt = expense.CreatedAt
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var groupCount int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups WHERE id = ?", expense.GroupID).Scan(&groupCount); err != nil {
			return fmt.Errorf("failed to check group: %w", err)
		}
		if groupCount == 0 {
			return fmt.Errorf("group %s: %w", expense.GroupID, storage.ErrNotFound)
		}

		var payerName string
		err := tx.QueryRowContext(ctx, `
			SELECT u.display_name
			FROM group_members gm
			JOIN users u ON u.id = gm.user_id
			WHERE gm.group_id = ? AND gm.user_id = ?
		`, expense.GroupID, expense.PayerID).Scan(&payerName)
		if err == sql.ErrNoRows {
			return fmt.Errorf("payer %s: %w", expense.PayerID, storage.ErrPayerNotMember)
		}
		if err != nil {
			return fmt.Errorf("failed to resolve payer: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO expenses (id, group_id, description, amount, payer_id, occurred_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, expense.ID, expense.GroupID, expense.Description, expense.Amount,
			expense.PayerID, expense.OccurredAt, expense.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		expense.PayerName = payerName
		return nil
	})
}

// ListExpensesByGroup retrieves a group's expenses in chronological order.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		expenseSelect+`WHERE e.group_id = ? ORDER BY e.occurred_at, e.created_at, e.rowid`,
		groupID,
	)
}

// ListExpensesForUser retrieves the expenses of every group the user belongs to.
func (s *SQLiteStore) ListExpensesForUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		expenseSelect+`
		JOIN group_members gm ON gm.group_id = e.group_id
		WHERE gm.user_id = ?
		ORDER BY e.occurred_at, e.created_at, e.rowid`,
		userID,
	)
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.GroupID,
			&e.Description,
			&e.Amount,
			&e.PayerID,
			&e.PayerName,
			&e.OccurredAt,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
