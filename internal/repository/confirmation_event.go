package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

const confirmationEventColumns = `id, order_id, operation_number, operation_status,
	outcome, diagnostic, remote_addr, payload, created_at`

type ConfirmationEventRepository struct {
	db *sql.DB
}

func NewConfirmationEventRepository(db *sql.DB) *ConfirmationEventRepository {
	return &ConfirmationEventRepository{db: db}
}

func (r *ConfirmationEventRepository) Create(ctx context.Context, event *domain.ConfirmationEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO confirmation_events (
			id, order_id, operation_number, operation_status, outcome, diagnostic, remote_addr, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.OrderID, event.OperationNumber, event.OperationStatus,
		event.Outcome, event.Diagnostic, event.RemoteAddr, string(event.Payload), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ConfirmationEventRepository) GetByOrderID(ctx context.Context, orderID int64) ([]domain.ConfirmationEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+confirmationEventColumns+` FROM confirmation_events
		WHERE order_id = $1 ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByOrderID: %w", err)
	}
	defer rows.Close()

	var events []domain.ConfirmationEvent
	for rows.Next() {
		e, err := scanConfirmationEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByOrderID: scan: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByOrderID: rows: %w", err)
	}
	return events, nil
}

func scanConfirmationEvent(s scanner) (*domain.ConfirmationEvent, error) {
	var e domain.ConfirmationEvent
	var payload []byte
	err := s.Scan(
		&e.ID, &e.OrderID, &e.OperationNumber, &e.OperationStatus,
		&e.Outcome, &e.Diagnostic, &e.RemoteAddr, &payload, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Payload = payload
	return &e, nil
}
