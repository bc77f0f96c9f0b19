package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxCreate(t *testing.T) {
	t.Run("uses the transaction when one is set", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO outbox_events").
			WithArgs("ob-1", "req-1", "leave_request", "agg-1", "leave_requested",
				"hr.leave.notification.v1", []byte(`{}`), OutboxStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(context.Background(), nil)
		assert.NoError(t, err)

		repo := NewOutboxRepository(db).WithTx(tx)
		err = repo.Create(context.Background(), OutboxEvent{
			ID:            "ob-1",
			RequestID:     "req-1",
			AggregateType: "leave_request",
			AggregateID:   "agg-1",
			EventType:     "leave_requested",
			Topic:         "hr.leave.notification.v1",
			Payload:       []byte(`{}`),
			Status:        OutboxStatusPending,
		})
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow("ob-1", "leave_request", "agg-1", "leave_requested",
		"hr.leave.notification.v1", []byte(`{}`), OutboxStatusPending, 0, now)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(OutboxStatusPending, OutboxStatusFailed, 50).
		WillReturnRows(rows)

	repo := NewOutboxRepository(db)
	events, err := repo.ListPending(context.Background(), 50)

	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "ob-1", events[0].ID)
		assert.Equal(t, "leave_requested", events[0].EventType)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("ob-1", OutboxStatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewOutboxRepository(db)
	err = repo.MarkFailed(context.Background(), "ob-1", "broker unreachable")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := OutboxEvent{
		ID:      "ob-1",
		Topic:   "hr.leave.notification.v1",
		Payload: []byte(`{}`),
		Status:  OutboxStatusPending,
	}

	assert.NoError(t, ValidateOutboxEvent(valid))

	missingTopic := valid
	missingTopic.Topic = ""
	assert.Error(t, ValidateOutboxEvent(missingTopic))

	badStatus := valid
	badStatus.Status = "unknown"
	assert.Error(t, ValidateOutboxEvent(badStatus))
}
