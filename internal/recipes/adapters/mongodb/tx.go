package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxManager выполняет функции в транзакции MongoDB.
// Транзакции требуют replica set; при enabled=false fn выполняется без сессии.
type TxManager struct {
	client  *mongo.Client
	enabled bool
}

// NewTxManager создает новый менеджер транзакций.
func NewTxManager(client *mongo.Client, enabled bool) *TxManager {
	return &TxManager{client: client, enabled: enabled}
}

// WithinTx выполняет fn в транзакции сессии. Вложенный вызов использует текущую сессию.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.enabled || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
