package postgres

import (
	"context"
	"database/sql"

	"github.com/cobo/bankd/internal/errs"
	"github.com/cobo/bankd/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row. A unique violation is mapped to the matching
// taken sentinel as a backstop behind the validation pipeline.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, name, surname, national_id, email, pwd_hash)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Name, u.Surname, u.NationalID, u.Email, u.PwdHash)
	return mapUnique(err)
}

// Update overwrites every mutable field wholesale. Returns ErrNotFound if the
// id does not exist.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `
UPDATE users
SET name=$2, surname=$3, national_id=$4, email=$5, pwd_hash=$6
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, u.ID, u.Name, u.Surname, u.NationalID, u.Email, u.PwdHash)
	if err != nil {
		return mapUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a user row. Returns ErrNotFound if the id does not exist.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM users WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// joinSelect flattens users against their accounts. Account columns start at
// a.id: rows with a NULL account id carry no account.
const joinSelect = `
SELECT u.id, u.name, u.surname, u.national_id, u.email, u.pwd_hash,
       a.id, a.account_number, a.balance, a.user_id
FROM users AS u
LEFT JOIN accounts AS a ON a.user_id = u.id`

// ListWithAccounts returns every user with accounts merged in, in join row
// order. Users without accounts get an empty (non-nil) slice.
func (r *UserRepo) ListWithAccounts(ctx context.Context) ([]model.UserWithAccounts, error) {
	rows, err := r.db.Pool.Query(ctx, joinSelect)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// GetByEmailWithAccounts loads a single user by email, with the same merge as
// ListWithAccounts so multiple accounts land on the one returned user.
func (r *UserRepo) GetByEmailWithAccounts(ctx context.Context, email string) (*model.UserWithAccounts, error) {
	rows, err := r.db.Pool.Query(ctx, joinSelect+`
WHERE u.email = $1`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errs.ErrNotFound
	}
	return &out[0], nil
}

// EmailInUse counts users holding the email, excluding selfID so an update
// does not collide with the record itself. Pass uuid.Nil on create.
func (r *UserRepo) EmailInUse(ctx context.Context, email string, selfID uuid.UUID) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE email=$1 AND id<>$2`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q, email, selfID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// NationalIDInUse counts users holding the national ID, excluding selfID.
func (r *UserRepo) NationalIDInUse(ctx context.Context, nationalID string, selfID uuid.UUID) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE national_id=$1 AND id<>$2`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q, nationalID, selfID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// collectUsers splits each joined row at the first account column and merges
// rows sharing a user id: the first occurrence establishes the user, every
// row with a non-NULL account id appends that account.
func collectUsers(rows pgx.Rows) ([]model.UserWithAccounts, error) {
	out := []model.UserWithAccounts{}
	seen := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			u       model.User
			accID   uuid.NullUUID
			accNum  sql.NullString
			balance sql.NullInt64
			ownerID uuid.NullUUID
		)
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Surname, &u.NationalID, &u.Email, &u.PwdHash,
			&accID, &accNum, &balance, &ownerID,
		); err != nil {
			return nil, err
		}
		idx, ok := seen[u.ID]
		if !ok {
			idx = len(out)
			seen[u.ID] = idx
			out = append(out, model.UserWithAccounts{User: u, Accounts: []model.Account{}})
		}
		if accID.Valid {
			out[idx].Accounts = append(out[idx].Accounts, model.Account{
				ID:            accID.UUID,
				AccountNumber: accNum.String,
				Balance:       balance.Int64,
				UserID:        ownerID.UUID,
			})
		}
	}
	return out, rows.Err()
}

// mapUnique converts unique-constraint violations into the user-facing
// sentinels; other errors pass through unchanged.
func mapUnique(err error) error {
	switch uniqueViolation(err) {
	case "users_email_key":
		return errs.ErrEmailTaken
	case "users_national_id_key":
		return errs.ErrNationalIDTaken
	}
	return err
}
