package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
)

// pgxPool abstracts the pgx pool so tests can substitute a mock.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type billRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Bills() repository.BillRepository {
	return &billRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            phone TEXT NOT NULL,
            address JSONB NOT NULL,
            account_number TEXT UNIQUE NOT NULL,
            meter_number TEXT UNIQUE NOT NULL,
            customer_type TEXT NOT NULL DEFAULT 'residential',
            role TEXT NOT NULL DEFAULT 'customer',
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            last_login TIMESTAMPTZ,
            preferences JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS bills (
            id UUID PRIMARY KEY,
            bill_number TEXT UNIQUE NOT NULL,
            user_id UUID NOT NULL REFERENCES users(id),
            account_number TEXT NOT NULL,
            period_start TIMESTAMPTZ NOT NULL,
            period_end TIMESTAMPTZ NOT NULL,
            due_date TIMESTAMPTZ NOT NULL,
            energy_usage DOUBLE PRECISION NOT NULL,
            rate DOUBLE PRECISION NOT NULL,
            energy_charge DOUBLE PRECISION NOT NULL,
            service_fee DOUBLE PRECISION NOT NULL,
            taxes DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_amount DOUBLE PRECISION NOT NULL,
            amount_due DOUBLE PRECISION NOT NULL,
            previous_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
            payments DOUBLE PRECISION NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            paid_at TIMESTAMPTZ,
            payment_method TEXT,
            meter_previous DOUBLE PRECISION NOT NULL DEFAULT 0,
            meter_current DOUBLE PRECISION NOT NULL DEFAULT 0,
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_users_created ON users(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_bills_user ON bills(user_id, due_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_bills_due ON bills(status, due_date)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

const userColumns = `id, first_name, last_name, email, password_hash, phone, address,
            account_number, meter_number, customer_type, role, is_active, is_verified,
            last_login, preferences, created_at, updated_at`

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u           model.User
		address     []byte
		preferences []byte
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone,
		&address, &u.AccountNumber, &u.MeterNumber, &u.CustomerType, &u.Role,
		&u.IsActive, &u.IsVerified, &u.LastLogin, &preferences, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &u.Address); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
	}
	if len(preferences) > 0 {
		if err := json.Unmarshal(preferences, &u.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	return &u, nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const query = `INSERT INTO users
            (id, first_name, last_name, email, password_hash, phone, address,
             account_number, meter_number, customer_type, role, is_active, is_verified, preferences)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING created_at, updated_at`

	address, err := json.Marshal(user.Address)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	preferences, err := json.Marshal(user.Preferences)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}

	stored := *user
	err = r.storage.pool.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Phone,
		address, user.AccountNumber, user.MeterNumber, user.CustomerType, user.Role,
		user.IsActive, user.IsVerified, preferences,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// A unique violation on the generated account or meter
			// number is retryable; only the email one is a duplicate
			// account.
			switch pgErr.ConstraintName {
			case "users_account_number_key", "users_meter_number_key":
				return nil, domainErrors.ErrNumberCollision
			}
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &stored, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	usr, err := scanUser(r.storage.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return usr, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	usr, err := scanUser(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return usr, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (*model.User, error) {
	query := `UPDATE users SET
            first_name = COALESCE($2, first_name),
            last_name = COALESCE($3, last_name),
            phone = COALESCE($4, phone),
            address = COALESCE($5, address),
            preferences = COALESCE($6, preferences),
            updated_at = NOW()
        WHERE id=$1
        RETURNING ` + userColumns

	var address, preferences []byte
	var err error
	if update.Address != nil {
		if address, err = json.Marshal(update.Address); err != nil {
			return nil, fmt.Errorf("encode address: %w", err)
		}
	}
	if update.Preferences != nil {
		if preferences, err = json.Marshal(update.Preferences); err != nil {
			return nil, fmt.Errorf("encode preferences: %w", err)
		}
	}

	usr, err := scanUser(r.storage.pool.QueryRow(ctx, query, id,
		update.FirstName, update.LastName, update.Phone, address, preferences))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return usr, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_login=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter repository.UserListFilter) ([]model.User, int, error) {
	where := ``
	args := []any{}
	if filter.Search != "" {
		where = `WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR account_number ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + where
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT `+userColumns+` FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.storage.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *usr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// --- BillRepository implementation ---

const billColumns = `id, bill_number, user_id, account_number, period_start, period_end, due_date,
            energy_usage, rate, energy_charge, service_fee, taxes, total_amount, amount_due,
            previous_balance, payments, status, paid_at, payment_method,
            meter_previous, meter_current, notes, created_at, updated_at`

func scanBill(row rowScanner) (*model.Bill, error) {
	var b model.Bill
	err := row.Scan(&b.ID, &b.BillNumber, &b.UserID, &b.AccountNumber,
		&b.BillingPeriod.Start, &b.BillingPeriod.End, &b.DueDate,
		&b.EnergyUsage, &b.Rate, &b.EnergyCharge, &b.ServiceFee, &b.Taxes,
		&b.TotalAmount, &b.AmountDue, &b.PreviousBalance, &b.Payments,
		&b.Status, &b.PaidAt, &b.PaymentMethod,
		&b.MeterReadings.Previous, &b.MeterReadings.Current, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) (*model.Bill, error) {
	const query = `INSERT INTO bills
            (id, bill_number, user_id, account_number, period_start, period_end, due_date,
             energy_usage, rate, energy_charge, service_fee, taxes, total_amount, amount_due,
             previous_balance, payments, status, meter_previous, meter_current, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
        RETURNING created_at, updated_at`

	stored := *bill
	err := r.storage.pool.QueryRow(ctx, query,
		bill.ID, bill.BillNumber, bill.UserID, bill.AccountNumber,
		bill.BillingPeriod.Start, bill.BillingPeriod.End, bill.DueDate,
		bill.EnergyUsage, bill.Rate, bill.EnergyCharge, bill.ServiceFee, bill.Taxes,
		bill.TotalAmount, bill.AmountDue, bill.PreviousBalance, bill.Payments,
		bill.Status, bill.MeterReadings.Previous, bill.MeterReadings.Current, bill.Notes,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &stored, nil
}

func (r *billRepository) GetByNumber(ctx context.Context, number string) (*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_number=$1`
	bill, err := scanBill(r.storage.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return bill, nil
}

func (r *billRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE user_id=$1 ORDER BY due_date DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *billRepository) OutstandingAmount(ctx context.Context, userID uuid.UUID) (float64, error) {
	const query = `SELECT COALESCE(SUM(amount_due), 0) FROM bills
                   WHERE user_id=$1 AND status IN ('pending', 'overdue')`
	var total float64
	if err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *billRepository) MonthlyUsage(ctx context.Context, userID uuid.UUID, months int) ([]model.UsagePoint, error) {
	const query = `SELECT to_char(period_end, 'YYYY-MM') AS month, SUM(energy_usage)
                   FROM bills
                   WHERE user_id=$1
                     AND period_end >= date_trunc('month', NOW()) - make_interval(months => $2)
                   GROUP BY month
                   ORDER BY month`
	rows, err := r.storage.pool.Query(ctx, query, userID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.UsagePoint
	for rows.Next() {
		var p model.UsagePoint
		if err := rows.Scan(&p.Month, &p.Usage); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *billRepository) MarkPaid(ctx context.Context, billID uuid.UUID, method model.PaymentMethod, paidAt time.Time) error {
	const query = `UPDATE bills SET status='paid', paid_at=$2, payment_method=$3, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, billID, paidAt, method)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *billRepository) SelectDueForReview(ctx context.Context, asOf time.Time, limit int) ([]model.Bill, error) {
	selectQuery := `SELECT ` + billColumns + `
                    FROM bills
                    WHERE status='pending' AND due_date < $1
                    ORDER BY due_date
                    LIMIT $2
                    FOR UPDATE SKIP LOCKED`

	var bills []model.Bill
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, asOf, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			bill, err := scanBill(rows)
			if err != nil {
				return err
			}
			bills = append(bills, *bill)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *billRepository) UpdateStatus(ctx context.Context, billID uuid.UUID, status model.BillStatus) error {
	const query = `UPDATE bills SET status=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, billID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
