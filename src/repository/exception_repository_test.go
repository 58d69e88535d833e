package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestExceptionRepositoryFindLatest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&ExceptionRepository{}).WithDB(db)

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "origin", "operation", "message", "stack", "level", "context", "created_at"}).
		AddRow(2, "handler", "portfolio", "boom", "", "error", "", created).
		AddRow(1, "handler", "history", "earlier", "", "error", "", created)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "exceptions" ORDER BY id DESC LIMIT $1`)).
		WithArgs(20).
		WillReturnRows(rows)

	exceptions, err := repo.FindLatest(context.Background(), 0)
	if err != nil {
		t.Fatalf("expected FindLatest to succeed, got %v", err)
	}
	if len(exceptions) != 2 || exceptions[0].Message != "boom" {
		t.Fatalf("unexpected exceptions: %+v", exceptions)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestExceptionRepositoryFindLatestNoopWithoutDatabase(t *testing.T) {
	repo := &ExceptionRepository{}
	exceptions, err := repo.FindLatest(context.Background(), 10)
	if err != nil || exceptions == nil {
		t.Fatalf("expected empty result, got %v err=%v", exceptions, err)
	}
}
