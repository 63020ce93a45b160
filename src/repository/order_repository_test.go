package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"tradingplatform/src/model"
)

func orderRows(returned ...model.Order) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "reference", "symbol", "order_type", "order_style",
		"quantity", "limit_price", "status", "executed_at", "created_at", "updated_at",
	})
	for _, order := range returned {
		rows.AddRow(order.ID, order.Reference, order.Symbol, order.OrderType, order.OrderStyle,
			order.Quantity, order.LimitPrice, order.Status, order.ExecutedAt, order.CreatedAt, order.UpdatedAt)
	}
	return rows
}

func TestOrderRepositoryFindAll(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := (&OrderRepository{}).WithDB(mockDB)

	createdAt := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{ID: 1, Symbol: "AAPL", OrderType: "BUY", OrderStyle: "MARKET", Quantity: 10, Status: "EXECUTED", CreatedAt: createdAt, UpdatedAt: createdAt},
		{ID: 2, Symbol: "MSFT", OrderType: "SELL", OrderStyle: "LIMIT", Quantity: 5, Status: "PENDING", CreatedAt: createdAt.Add(time.Hour), UpdatedAt: createdAt.Add(time.Hour)},
	}

	t.Run("returns newest first", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" ORDER BY created_at DESC, id DESC`)).
			WillReturnRows(orderRows(orders[1], orders[0]))

		results, err := repo.FindAll(context.Background(), "")
		if err != nil {
			t.Fatalf("unexpected error listing orders: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(results))
		}
		if results[0].Symbol != "MSFT" || results[1].Symbol != "AAPL" {
			t.Fatalf("orders not returned in expected order: %+v", results)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE status = $1 ORDER BY created_at DESC, id DESC`)).
			WithArgs("PENDING").
			WillReturnRows(orderRows(orders[1]))

		results, err := repo.FindAll(context.Background(), "PENDING")
		if err != nil {
			t.Fatalf("unexpected error listing orders: %v", err)
		}
		if len(results) != 1 || results[0].Status != "PENDING" {
			t.Fatalf("unexpected orders returned: %+v", results)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := (&OrderRepository{}).WithDB(mockDB)

	t.Run("cancellation refreshes updated timestamp only", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1,"updated_at"=$2 WHERE id = $3`)).
			WithArgs("CANCELLED", sqlmock.AnyArg(), uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.UpdateStatus(context.Background(), 7, "CANCELLED"); err != nil {
			t.Fatalf("unexpected error updating status: %v", err)
		}
	})

	t.Run("execution stamps executed_at", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "executed_at"=$1,"status"=$2,"updated_at"=$3 WHERE id = $4`)).
			WithArgs(sqlmock.AnyArg(), "EXECUTED", sqlmock.AnyArg(), uint(8)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.UpdateStatus(context.Background(), 8, "EXECUTED"); err != nil {
			t.Fatalf("unexpected error updating status: %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
