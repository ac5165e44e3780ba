package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/store"
	"github.com/aussiebroadwan/records/pkg/idx"
)

const accountColumns = `id, cid, number, type, status, created_at, updated_at`

type accountsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func accountWhere(f domain.AccountFilter) *where {
	w := &where{}
	w.eq("cid", f.ClientID)
	w.eq("number", f.Number)
	w.eq("type", f.Type)
	w.eq("status", f.Status)
	return w
}

func (r *accountsRepo) Find(ctx context.Context, f domain.AccountFilter, limit int) ([]domain.Account, error) {
	w := accountWhere(f)
	lim, args := limitClause(limit, w.args)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts`+w.String()+` ORDER BY id`+lim, args...)
	if err != nil {
		return nil, store.Wrap("accounts.find", err)
	}
	defer rows.Close()

	accts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, store.Wrap("accounts.find", err)
		}
		accts = append(accts, a)
	}
	return accts, store.Wrap("accounts.find", rows.Err())
}

func (r *accountsRepo) FindOne(ctx context.Context, f domain.AccountFilter) (domain.Account, error) {
	w := accountWhere(f)
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts`+w.String()+` ORDER BY id LIMIT 1`, w.args...)

	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, store.Wrap("accounts.find_one", mapNotFound(err))
	}
	return a, nil
}

// CreateMany writes the whole batch in one transaction.
func (r *accountsRepo) CreateMany(ctx context.Context, accts []domain.Account) ([]domain.Account, error) {
	if len(accts) == 0 {
		return []domain.Account{}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.Wrap("accounts.create", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, store.Wrap("accounts.create", err)
	}
	defer stmt.Close()

	now := r.now()
	out := make([]domain.Account, len(accts))
	for i, a := range accts {
		if a.ID == "" {
			a.ID = idx.New().String()
		}
		a.Created, a.LastUpdated = now, now

		if _, err := stmt.ExecContext(ctx,
			a.ID,
			a.ClientID,
			a.Number,
			mapStringNull(a.Type),
			mapStringNull(a.Status),
			toMillis(a.Created),
			toMillis(a.LastUpdated),
		); err != nil {
			return nil, store.Wrap("accounts.create", mapConstraint(err))
		}
		out[i] = a
	}

	if err := tx.Commit(); err != nil {
		return nil, store.Wrap("accounts.create", err)
	}
	return out, nil
}

func (r *accountsRepo) UpdateOne(ctx context.Context, id string, p domain.AccountPatch) (domain.Account, error) {
	s := &setter{}
	s.set("type", p.Type)
	s.set("status", p.Status)
	s.sets = append(s.sets, "updated_at = ?")
	args := append(s.args, toMillis(r.now()), id)

	row := r.db.QueryRowContext(ctx,
		`UPDATE accounts SET `+strings.Join(s.sets, ", ")+` WHERE id = ? RETURNING `+accountColumns, args...)

	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, store.Wrap("accounts.update", mapNotFound(err))
	}
	return a, nil
}

func (r *accountsRepo) RemoveOne(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return 0, store.Wrap("accounts.remove", err)
	}
	n, err := res.RowsAffected()
	return n, store.Wrap("accounts.remove", err)
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		a                domain.Account
		typ, status      sql.NullString
		created, updated int64
	)
	if err := row.Scan(&a.ID, &a.ClientID, &a.Number, &typ, &status, &created, &updated); err != nil {
		return domain.Account{}, err
	}
	a.Type = mapNullString(typ)
	a.Status = mapNullString(status)
	a.Created = fromMillis(created)
	a.LastUpdated = fromMillis(updated)
	return a, nil
}
