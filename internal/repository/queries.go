package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type User struct {
	ID                int64
	TelegramID        int64
	FirstName         string
	Username          string
	IsAdmin           bool
	WalletAddress     *string
	WalletConnectedAt pgtype.Timestamptz
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
}

const userColumns = `id, telegram_id, first_name, username, is_admin, wallet_address, wallet_connected_at, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.TelegramID,
		&u.FirstName,
		&u.Username,
		&u.IsAdmin,
		&u.WalletAddress,
		&u.WalletConnectedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const getUserByTelegramID = `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

func (q *Queries) GetUserByTelegramID(ctx context.Context, telegramID int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByTelegramID, telegramID))
}

type CreateUserParams struct {
	TelegramID int64
	FirstName  string
	Username   string
	IsAdmin    bool
}

const createUser = `
INSERT INTO users (telegram_id, first_name, username, is_admin)
VALUES ($1, $2, $3, $4)
ON CONFLICT (telegram_id) DO UPDATE SET updated_at = NOW()
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser, arg.TelegramID, arg.FirstName, arg.Username, arg.IsAdmin))
}

type UpdateUserInfoParams struct {
	ID        int64
	FirstName string
	Username  string
}

const updateUserInfo = `UPDATE users SET first_name = $2, username = $3, updated_at = NOW() WHERE id = $1`

func (q *Queries) UpdateUserInfo(ctx context.Context, arg UpdateUserInfoParams) error {
	_, err := q.db.Exec(ctx, updateUserInfo, arg.ID, arg.FirstName, arg.Username)
	return err
}

type SetWalletAddressParams struct {
	ID            int64
	WalletAddress *string
}

const setWalletAddress = `
UPDATE users
SET wallet_address = $2,
    wallet_connected_at = CASE WHEN $2::text IS NULL THEN NULL ELSE NOW() END,
    updated_at = NOW()
WHERE id = $1`

func (q *Queries) SetWalletAddress(ctx context.Context, arg SetWalletAddressParams) error {
	_, err := q.db.Exec(ctx, setWalletAddress, arg.ID, arg.WalletAddress)
	return err
}

const countConnectedWallets = `SELECT COUNT(*) FROM users WHERE wallet_address IS NOT NULL`

func (q *Queries) CountConnectedWallets(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countConnectedWallets).Scan(&n)
	return n, err
}

const countTotalUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountTotalUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countTotalUsers).Scan(&n)
	return n, err
}

const countUsersCreatedAfter = `SELECT COUNT(*) FROM users WHERE created_at >= $1`

func (q *Queries) CountUsersCreatedAfter(ctx context.Context, after pgtype.Timestamptz) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countUsersCreatedAfter, after).Scan(&n)
	return n, err
}

const checkAndIncrementRateLimit = `
INSERT INTO rate_limits (chat_id, window_start, count)
VALUES ($1, date_trunc('minute', NOW()), 1)
ON CONFLICT (chat_id) DO UPDATE SET
    count = CASE
        WHEN rate_limits.window_start = date_trunc('minute', NOW()) THEN rate_limits.count + 1
        ELSE 1
    END,
    window_start = date_trunc('minute', NOW())
RETURNING count`

// CheckAndIncrementRateLimit counts a request in the chat's current minute
// window and returns the new count.
func (q *Queries) CheckAndIncrementRateLimit(ctx context.Context, chatID int64) (int32, error) {
	var count int32
	err := q.db.QueryRow(ctx, checkAndIncrementRateLimit, chatID).Scan(&count)
	return count, err
}
