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

const clientColumns = `id, name, address, postal_code, phone, email, dob, created_at, updated_at`

type clientsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func clientWhere(f domain.ClientFilter) *where {
	w := &where{}
	w.eq("id", f.ID)
	w.eq("name", f.Name)
	w.eq("address", f.Address)
	w.eq("postal_code", f.PostalCode)
	w.eq("phone", f.Phone)
	w.eq("email", f.Email)
	w.cmp("dob", "<=", f.BornOnOrBefore)
	w.cmp("dob", ">", f.BornAfter)
	return w
}

func (r *clientsRepo) Find(ctx context.Context, f domain.ClientFilter, limit int) ([]domain.Client, error) {
	w := clientWhere(f)
	lim, args := limitClause(limit, w.args)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients`+w.String()+` ORDER BY id`+lim, args...)
	if err != nil {
		return nil, store.Wrap("clients.find", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, store.Wrap("clients.find", err)
		}
		clients = append(clients, c)
	}
	return clients, store.Wrap("clients.find", rows.Err())
}

func (r *clientsRepo) FindOne(ctx context.Context, f domain.ClientFilter) (domain.Client, error) {
	w := clientWhere(f)
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients`+w.String()+` ORDER BY id LIMIT 1`, w.args...)

	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, store.Wrap("clients.find_one", mapNotFound(err))
	}
	return c, nil
}

func (r *clientsRepo) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.ID == "" {
		c.ID = idx.New().String()
	}
	now := r.now()
	c.Created, c.LastUpdated = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		mapStringNull(c.Name),
		mapStringNull(c.Address),
		mapStringNull(c.PostalCode),
		mapStringNull(c.Phone),
		mapStringNull(c.Email),
		mapStringNull(c.DOB),
		toMillis(c.Created),
		toMillis(c.LastUpdated),
	)
	if err != nil {
		return domain.Client{}, store.Wrap("clients.create", mapConstraint(err))
	}
	return c, nil
}

func (r *clientsRepo) UpdateOne(ctx context.Context, id string, p domain.ClientPatch) (domain.Client, error) {
	s := &setter{}
	s.set("name", p.Name)
	s.set("address", p.Address)
	s.set("postal_code", p.PostalCode)
	s.set("phone", p.Phone)
	s.set("email", p.Email)
	s.set("dob", p.DOB)
	s.sets = append(s.sets, "updated_at = ?")
	args := append(s.args, toMillis(r.now()), id)

	row := r.db.QueryRowContext(ctx,
		`UPDATE clients SET `+strings.Join(s.sets, ", ")+` WHERE id = ? RETURNING `+clientColumns, args...)

	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, store.Wrap("clients.update", mapNotFound(err))
	}
	return c, nil
}

func (r *clientsRepo) RemoveOne(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return 0, store.Wrap("clients.remove", err)
	}
	n, err := res.RowsAffected()
	return n, store.Wrap("clients.remove", err)
}

func (r *clientsRepo) RemoveByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	return store.Wrap("clients.remove_by_id", err)
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c                domain.Client
		created, updated int64
	)
	var name, address, postalCode, phone, email, dob sql.NullString
	if err := row.Scan(&c.ID, &name, &address, &postalCode, &phone, &email, &dob, &created, &updated); err != nil {
		return domain.Client{}, err
	}
	c.Name = mapNullString(name)
	c.Address = mapNullString(address)
	c.PostalCode = mapNullString(postalCode)
	c.Phone = mapNullString(phone)
	c.Email = mapNullString(email)
	c.DOB = mapNullString(dob)
	c.Created = fromMillis(created)
	c.LastUpdated = fromMillis(updated)
	return c, nil
}
