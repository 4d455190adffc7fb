package postgres

import (
	"context"
	"testing"

	"github.com/cobo/bankd/internal/errs"
	"github.com/cobo/bankd/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var joinCols = []string{
	"id", "name", "surname", "national_id", "email", "pwd_hash",
	"a_id", "account_number", "balance", "user_id",
}

func testUser() *model.User {
	return &model.User{
		ID:         uuid.Must(uuid.NewV4()),
		Name:       "Ana",
		Surname:    "Garcia",
		NationalID: "12345678Z",
		Email:      "ana@example.com",
		PwdHash:    []byte("h"),
	}
}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := testUser()

	// OK
	mock.ExpectExec(`INSERT INTO users \(id, name, surname, national_id, email, pwd_hash\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`).
		WithArgs(u.ID, u.Name, u.Surname, u.NationalID, u.Email, u.PwdHash).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, u))

	// Duplicate email
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Name, u.Surname, u.NationalID, u.Email, u.PwdHash).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	require.ErrorIs(t, r.Create(ctx, u), errs.ErrEmailTaken)

	// Duplicate national ID
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Name, u.Surname, u.NationalID, u.Email, u.PwdHash).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_national_id_key"})
	require.ErrorIs(t, r.Create(ctx, u), errs.ErrNationalIDTaken)
}

func TestUserRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := testUser()

	mock.ExpectExec(`UPDATE users SET name=\$2, surname=\$3, national_id=\$4, email=\$5, pwd_hash=\$6 WHERE id=\$1`).
		WithArgs(u.ID, u.Name, u.Surname, u.NationalID, u.Email, u.PwdHash).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.Update(ctx, u))

	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(u.ID, u.Name, u.Surname, u.NationalID, u.Email, u.PwdHash).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Update(ctx, u), errs.ErrNotFound)
}

func TestUserRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, id))

	mock.ExpectExec(`DELETE FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, id), errs.ErrNotFound)
}

func TestUserRepo_ListWithAccounts_MergesRowsByUserID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	u1 := uuid.Must(uuid.NewV4())
	u2 := uuid.Must(uuid.NewV4())
	a1 := uuid.Must(uuid.NewV4())
	a2 := uuid.Must(uuid.NewV4())

	rows := pgxmock.NewRows(joinCols).
		AddRow(u1, "Ana", "Garcia", "12345678Z", "ana@example.com", []byte("h"), a1, "ES01-0001", int64(125000), u1).
		AddRow(u1, "Ana", "Garcia", "12345678Z", "ana@example.com", []byte("h"), a2, "ES01-0002", int64(50), u1).
		AddRow(u2, "Bruno", "Diaz", "87654321K", "bruno@example.com", []byte("h"), nil, nil, nil, nil)
	mock.ExpectQuery(`LEFT JOIN accounts AS a ON a\.user_id = u\.id`).WillReturnRows(rows)

	got, err := r.ListWithAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, u1, got[0].ID)
	require.Len(t, got[0].Accounts, 2)
	require.Equal(t, "ES01-0001", got[0].Accounts[0].AccountNumber)
	require.Equal(t, int64(125000), got[0].Accounts[0].Balance)
	require.Equal(t, u1, got[0].Accounts[0].UserID)

	require.Equal(t, u2, got[1].ID)
	require.NotNil(t, got[1].Accounts)
	require.Empty(t, got[1].Accounts)
}

func TestUserRepo_ListWithAccounts_NullAccountRowAddsNothing(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	u1 := uuid.Must(uuid.NewV4())
	a1 := uuid.Must(uuid.NewV4())

	// Two rows for the same user, one carrying account data and one all-NULL
	// on the account side: exactly one account must come back.
	rows := pgxmock.NewRows(joinCols).
		AddRow(u1, "Ana", "Garcia", "12345678Z", "ana@example.com", []byte("h"), a1, "ES01-0001", int64(10), u1).
		AddRow(u1, "Ana", "Garcia", "12345678Z", "ana@example.com", []byte("h"), nil, nil, nil, nil)
	mock.ExpectQuery(`LEFT JOIN accounts AS a ON a\.user_id = u\.id`).WillReturnRows(rows)

	got, err := r.ListWithAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Accounts, 1)
	require.Equal(t, a1, got[0].Accounts[0].ID)
}

func TestUserRepo_GetByEmailWithAccounts(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	u1 := uuid.Must(uuid.NewV4())
	a1 := uuid.Must(uuid.NewV4())
	a2 := uuid.Must(uuid.NewV4())

	rows := pgxmock.NewRows(joinCols).
		AddRow(u1, "Ana", "Garcia", "12345678Z", "ana@example.com", []byte("h"), a1, "ES01-0001", int64(1), u1).
		AddRow(u1, "Ana", "Garcia", "12345678Z", "ana@example.com", []byte("h"), a2, "ES01-0002", int64(2), u1)
	mock.ExpectQuery(`WHERE u\.email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(rows)

	got, err := r.GetByEmailWithAccounts(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, u1, got.ID)
	require.Len(t, got.Accounts, 2)

	mock.ExpectQuery(`WHERE u\.email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows(joinCols))
	_, err = r.GetByEmailWithAccounts(ctx, "nobody@example.com")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_UniquenessProbes(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	self := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email=\$1 AND id<>\$2`).
		WithArgs("ana@example.com", self).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	taken, err := r.EmailInUse(ctx, "ana@example.com", self)
	require.NoError(t, err)
	require.True(t, taken)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE national_id=\$1 AND id<>\$2`).
		WithArgs("12345678Z", uuid.Nil).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	taken, err = r.NationalIDInUse(ctx, "12345678Z", uuid.Nil)
	require.NoError(t, err)
	require.False(t, taken)
}
