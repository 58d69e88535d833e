package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"oddslens/src/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

func TestTransactionRecordRepositoryQueries(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&TransactionRecordRepository{}).WithDB(db)

	record := &model.TransactionRecord{
		WalletPubkey:   "7xKpV9dP2mNq",
		PositionPubkey: "posAbc",
		Action:         model.ActionClaim,
		Status:         model.TxStatusBuilt,
		CreatedAt:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "transaction_records" (`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "transaction_records" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.UpdateStatus(context.Background(), 1, model.TxStatusConfirmed, "sigXyz", 2, ""); err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "wallet_pubkey", "position_pubkey", "action", "signature", "attempts", "status", "message", "created_at"}).
		AddRow(1, record.WalletPubkey, record.PositionPubkey, record.Action, "sigXyz", 2, model.TxStatusConfirmed, "", record.CreatedAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transaction_records" WHERE wallet_pubkey = $1 ORDER BY id DESC LIMIT $2`)).
		WithArgs(record.WalletPubkey, 50).
		WillReturnRows(rows)

	records, err := repo.FindByWallet(context.Background(), record.WalletPubkey, 0)
	if err != nil {
		t.Fatalf("expected FindByWallet to succeed, got %v", err)
	}
	if len(records) != 1 || records[0].Signature != "sigXyz" {
		t.Fatalf("unexpected records: %+v", records)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestRepositoriesNoopWithoutDatabase(t *testing.T) {
	txRepo := &TransactionRecordRepository{}
	if err := txRepo.Create(context.Background(), &model.TransactionRecord{}); err != nil {
		t.Fatalf("create without a database must be a no-op, got %v", err)
	}
	records, err := txRepo.FindByWallet(context.Background(), "wallet", 10)
	if err != nil || records == nil {
		t.Fatalf("expected empty result, got %v err=%v", records, err)
	}

	excRepo := &ExceptionRepository{}
	if err := excRepo.Create(context.Background(), &model.Exception{}); err != nil {
		t.Fatalf("exception create without a database must be a no-op, got %v", err)
	}
}
