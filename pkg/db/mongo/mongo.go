// Package mongo предоставляет подключение к MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"recetario/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogConnecting = "connecting to MongoDB"
	LogConnected  = "successfully connected to MongoDB"
	LogClosing    = "closing MongoDB client"
)

// Константы для сообщений об ошибках.
const (
	ErrConnect    = "failed to connect to MongoDB"
	ErrPing       = "failed to ping MongoDB"
	ErrDisconnect = "failed to disconnect from MongoDB"
)

// Database представляет соединение с базой данных MongoDB.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// New подключается к MongoDB по uri и проверяет доступность primary.
func New(ctx context.Context, uri, database string, timeout time.Duration) (*Database, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogConnecting, zap.String("database", database))

	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetConnectTimeout(timeout).SetServerSelectionTimeout(timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Error(ctx, ErrConnect, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrConnect, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		log.Error(ctx, ErrPing, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrPing, err)
	}

	log.Info(ctx, LogConnected)

	return &Database{client: client, db: client.Database(database)}, nil
}

// Client возвращает клиент MongoDB.
func (d *Database) Client() *mongo.Client {
	return d.client
}

// DB возвращает рабочую базу данных.
func (d *Database) DB() *mongo.Database {
	return d.db
}

// Ping проверяет доступность сервера.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%s: %w", ErrPing, err)
	}
	return nil
}

// Close отключает клиент.
func (d *Database) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogClosing)
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrDisconnect, err)
	}
	return nil
}
