package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bills").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_users_created ON users").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_bills_user ON bills").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_bills_due ON bills").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func sampleStoredUser() *model.User {
	return &model.User{
		ID:            uuid.New(),
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "jane@example.com",
		PasswordHash:  "hash",
		Phone:         "+12025550123",
		Address:       model.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62704", Country: "US"},
		AccountNumber: "ACC00000042",
		MeterNumber:   "MTRA1B2C3D4",
		CustomerType:  model.CustomerResidential,
		Role:          model.RoleCustomer,
		IsActive:      true,
		Preferences:   model.DefaultPreferences(),
	}
}

func userRow(t *testing.T, usr *model.User) *pgxmockv3.Rows {
	t.Helper()
	address, err := json.Marshal(usr.Address)
	if err != nil {
		t.Fatalf("marshal address: %v", err)
	}
	preferences, err := json.Marshal(usr.Preferences)
	if err != nil {
		t.Fatalf("marshal preferences: %v", err)
	}
	now := time.Now().UTC()
	return pgxmockv3.NewRows([]string{
		"id", "first_name", "last_name", "email", "password_hash", "phone", "address",
		"account_number", "meter_number", "customer_type", "role", "is_active", "is_verified",
		"last_login", "preferences", "created_at", "updated_at",
	}).AddRow(
		usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.PasswordHash, usr.Phone, address,
		usr.AccountNumber, usr.MeterNumber, usr.CustomerType, usr.Role, usr.IsActive, usr.IsVerified,
		usr.LastLogin, preferences, now, now,
	)
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("parse error", func(t *testing.T) {
		if _, err := New(context.Background(), ":://bad", logger); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("pool creation error", func(t *testing.T) {
		t.Cleanup(func() {
			newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
				return pgxpool.NewWithConfig(ctx, cfg)
			}
		})
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) {
			return nil, errors.New("connect failed")
		}
		if _, err := New(context.Background(), "postgres://localhost/gridbill", logger); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("schema init", func(t *testing.T) {
		mock, err := pgxmockv3.NewPool()
		if err != nil {
			t.Fatalf("mock pool: %v", err)
		}
		t.Cleanup(func() {
			newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
				return pgxpool.NewWithConfig(ctx, cfg)
			}
		})
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) {
			return mock, nil
		}
		expectSchema(mock)

		storage, err := New(context.Background(), "postgres://localhost/gridbill", logger)
		if err != nil {
			t.Fatalf("new storage: %v", err)
		}
		if storage.Users() == nil || storage.Bills() == nil {
			t.Fatal("expected repositories")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestUserRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	usr := sampleStoredUser()
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := storage.Users().Create(context.Background(), usr)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp from store")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := storage.Users().Create(context.Background(), sampleStoredUser())
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserRepositoryCreateNumberCollision(t *testing.T) {
	storage, mock := newMockStorage(t)

	for _, constraint := range []string{"users_account_number_key", "users_meter_number_key"} {
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraint})

		_, err := storage.Users().Create(context.Background(), sampleStoredUser())
		if !errors.Is(err, domainErrors.ErrNumberCollision) {
			t.Fatalf("%s: expected ErrNumberCollision, got %v", constraint, err)
		}
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			t.Fatalf("%s: number collision must not read as duplicate email", constraint)
		}
	}
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	storage, mock := newMockStorage(t)
	usr := sampleStoredUser()

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs(usr.Email).
		WillReturnRows(userRow(t, usr))

	got, err := storage.Users().GetByEmail(context.Background(), usr.Email)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != usr.ID {
		t.Fatalf("expected user %s, got %s", usr.ID, got.ID)
	}
	if got.Address.City != "Springfield" {
		t.Fatalf("expected decoded address, got %+v", got.Address)
	}
	if !got.Preferences.EmailNotifications {
		t.Fatal("expected decoded preferences")
	}
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("FROM users WHERE email").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Users().GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	usr := sampleStoredUser()

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(usr.ID).
		WillReturnRows(userRow(t, usr))

	got, err := storage.Users().GetByID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Email != usr.Email {
		t.Fatalf("unexpected user %q", got.Email)
	}
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	storage, mock := newMockStorage(t)
	usr := sampleStoredUser()
	usr.FirstName = "Janet"

	mock.ExpectQuery("UPDATE users SET").
		WillReturnRows(userRow(t, usr))

	first := "Janet"
	got, err := storage.Users().UpdateProfile(context.Background(), usr.ID, model.ProfileUpdate{FirstName: &first})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.FirstName != "Janet" {
		t.Fatalf("expected updated name, got %q", got.FirstName)
	}
}

func TestUserRepositoryUpdateProfileNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("UPDATE users SET").
		WillReturnError(pgx.ErrNoRows)

	first := "Janet"
	_, err := storage.Users().UpdateProfile(context.Background(), uuid.New(), model.ProfileUpdate{FirstName: &first})
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryUpdateLastLogin(t *testing.T) {
	storage, mock := newMockStorage(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET last_login").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := storage.Users().UpdateLastLogin(context.Background(), id, time.Now()); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	mock.ExpectExec("UPDATE users SET last_login").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := storage.Users().UpdateLastLogin(context.Background(), id, time.Now()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	usr := sampleStoredUser()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY created_at DESC LIMIT").
		WillReturnRows(userRow(t, usr))

	users, total, err := storage.Users().List(context.Background(), repository.UserListFilter{Page: 1, Limit: 10, Search: "jane"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(users) != 1 {
		t.Fatalf("expected one user, got %d/%d", len(users), total)
	}
}

func sampleStoredBill(userID uuid.UUID) *model.Bill {
	bill := &model.Bill{
		ID:            uuid.New(),
		BillNumber:    "BILL000000010001",
		UserID:        userID,
		AccountNumber: "ACC00000042",
		BillingPeriod: model.BillingPeriod{
			Start: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		},
		DueDate:     time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		EnergyUsage: 500,
		Rate:        0.12,
		ServiceFee:  10,
		Taxes:       5,
		Status:      model.BillStatusPending,
	}
	bill.ComputeTotals()
	return bill
}

func billRow(bill *model.Bill) *pgxmockv3.Rows {
	now := time.Now().UTC()
	return pgxmockv3.NewRows([]string{
		"id", "bill_number", "user_id", "account_number", "period_start", "period_end", "due_date",
		"energy_usage", "rate", "energy_charge", "service_fee", "taxes", "total_amount", "amount_due",
		"previous_balance", "payments", "status", "paid_at", "payment_method",
		"meter_previous", "meter_current", "notes", "created_at", "updated_at",
	}).AddRow(
		bill.ID, bill.BillNumber, bill.UserID, bill.AccountNumber,
		bill.BillingPeriod.Start, bill.BillingPeriod.End, bill.DueDate,
		bill.EnergyUsage, bill.Rate, bill.EnergyCharge, bill.ServiceFee, bill.Taxes,
		bill.TotalAmount, bill.AmountDue, bill.PreviousBalance, bill.Payments,
		bill.Status, bill.PaidAt, bill.PaymentMethod,
		bill.MeterReadings.Previous, bill.MeterReadings.Current, bill.Notes,
		now, now,
	)
}

func TestBillRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	bill := sampleStoredBill(uuid.New())
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO bills").
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := storage.Bills().Create(context.Background(), bill)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp from store")
	}
}

func TestBillRepositoryGetByNumber(t *testing.T) {
	storage, mock := newMockStorage(t)
	bill := sampleStoredBill(uuid.New())

	mock.ExpectQuery("FROM bills WHERE bill_number").
		WithArgs(bill.BillNumber).
		WillReturnRows(billRow(bill))

	got, err := storage.Bills().GetByNumber(context.Background(), bill.BillNumber)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != bill.ID || got.AmountDue != bill.AmountDue {
		t.Fatalf("unexpected bill %+v", got)
	}
}

func TestBillRepositoryGetByNumberNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("FROM bills WHERE bill_number").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Bills().GetByNumber(context.Background(), "BILL404")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBillRepositoryListByUser(t *testing.T) {
	storage, mock := newMockStorage(t)
	userID := uuid.New()
	bill := sampleStoredBill(userID)

	mock.ExpectQuery("FROM bills WHERE user_id").
		WithArgs(userID).
		WillReturnRows(billRow(bill))

	bills, err := storage.Bills().ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bills) != 1 || bills[0].BillNumber != bill.BillNumber {
		t.Fatalf("unexpected bills %+v", bills)
	}
}

func TestBillRepositoryOutstandingAmount(t *testing.T) {
	storage, mock := newMockStorage(t)
	userID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(userID).
		WillReturnRows(pgxmockv3.NewRows([]string{"sum"}).AddRow(123.45))

	total, err := storage.Bills().OutstandingAmount(context.Background(), userID)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if total != 123.45 {
		t.Fatalf("expected 123.45, got %v", total)
	}
}

func TestBillRepositoryMonthlyUsage(t *testing.T) {
	storage, mock := newMockStorage(t)
	userID := uuid.New()

	mock.ExpectQuery("SELECT to_char").
		WillReturnRows(pgxmockv3.NewRows([]string{"month", "sum"}).
			AddRow("2026-07", 480.0).
			AddRow("2026-08", 510.0))

	usage, err := storage.Bills().MonthlyUsage(context.Background(), userID, 12)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(usage) != 2 || usage[0].Month != "2026-07" || usage[1].Usage != 510 {
		t.Fatalf("unexpected usage %+v", usage)
	}
}

func TestBillRepositoryMarkPaid(t *testing.T) {
	storage, mock := newMockStorage(t)
	billID := uuid.New()

	mock.ExpectExec("UPDATE bills SET status='paid'").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := storage.Bills().MarkPaid(context.Background(), billID, model.PaymentCreditCard, time.Now()); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	mock.ExpectExec("UPDATE bills SET status='paid'").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := storage.Bills().MarkPaid(context.Background(), billID, model.PaymentCreditCard, time.Now()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBillRepositorySelectDueForReview(t *testing.T) {
	storage, mock := newMockStorage(t)
	bill := sampleStoredBill(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").
		WillReturnRows(billRow(bill))
	mock.ExpectCommit()

	bills, err := storage.Bills().SelectDueForReview(context.Background(), time.Now(), 10)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(bills) != 1 || bills[0].ID != bill.ID {
		t.Fatalf("unexpected bills %+v", bills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBillRepositoryUpdateStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	billID := uuid.New()

	mock.ExpectExec("UPDATE bills SET status").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := storage.Bills().UpdateStatus(context.Background(), billID, model.BillStatusOverdue); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	mock.ExpectExec("UPDATE bills SET status").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := storage.Bills().UpdateStatus(context.Background(), billID, model.BillStatusOverdue); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	storage := &Storage{pool: mock, logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}

	mock.ExpectPing()
	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected healthy store, got %v", err)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	if err := storage.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error from failing ping")
	}
}

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := storage.WithinTransaction(context.Background(), func(pgx.Tx) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
