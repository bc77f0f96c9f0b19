package leave

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func repoOnTx(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	return NewRepository(nil).WithTx(tx), mock, func() { db.Close() }
}

func TestDebitBalanceGuardsAgainstOverdraw(t *testing.T) {
	repo, mock, closeDB := repoOnTx(t)
	defer closeDB()

	// The row holds exactly one debit's worth. The first UPDATE matches
	// the balance >= amount guard; the second finds no qualifying row.
	mock.ExpectExec("UPDATE leave_balances").
		WithArgs("tenant-1", "emp-1", "type-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE leave_balances").
		WithArgs("tenant-1", "emp-1", "type-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DebitBalance(context.Background(), "tenant-1", "emp-1", "type-1", 3)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DebitBalance(context.Background(), "tenant-1", "emp-1", "type-1", 3)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitBalanceReportsInsufficientWithoutError(t *testing.T) {
	repo, mock, closeDB := repoOnTx(t)
	defer closeDB()

	mock.ExpectExec("UPDATE leave_balances").
		WithArgs("tenant-1", "emp-1", "type-1", 20).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DebitBalance(context.Background(), "tenant-1", "emp-1", "type-1", 20)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionRequestIsOneShot(t *testing.T) {
	repo, mock, closeDB := repoOnTx(t)
	defer closeDB()

	approver := uuid.New()
	lr := &LeaveRequest{
		ID:         uuid.New(),
		TenantID:   uuid.New(),
		Status:     StatusApproved,
		ApprovedBy: &approver,
	}

	mock.ExpectExec("UPDATE leave_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE leave_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := repo.TransitionRequest(context.Background(), lr)
	assert.NoError(t, err)
	assert.True(t, moved)

	// Same request again: the status = PENDING guard no longer matches.
	moved, err = repo.TransitionRequest(context.Background(), lr)
	assert.NoError(t, err)
	assert.False(t, moved)

	assert.NoError(t, mock.ExpectationsWereMet())
}
