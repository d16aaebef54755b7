package tool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// PostgresGateway serves backend lookups from Postgres through bun. Schema
// mirrors the flat record shape: one row per identifier.
type PostgresGateway struct {
	db      *bun.DB
	timeout time.Duration
}

var _ contractx.Gateway = (*PostgresGateway)(nil)

type orderRow struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID          string `bun:"order_id,pk"`
	Status           string `bun:"status"`
	ExpectedDelivery string `bun:"expected_delivery"`
	DelayReason      string `bun:"delay_reason"`
	LastUpdated      string `bun:"last_updated"`
}

type refundRow struct {
	bun.BaseModel `bun:"table:refunds"`

	OrderID     string `bun:"order_id,pk"`
	Status      string `bun:"status"`
	Amount      string `bun:"amount"`
	ProcessedAt string `bun:"processed_at"`
}

type inventoryRow struct {
	bun.BaseModel `bun:"table:inventory"`

	ProductID   string `bun:"product_id,pk"`
	InStock     bool   `bun:"in_stock"`
	Quantity    int    `bun:"quantity"`
	RestockDate string `bun:"restock_date"`
}

func NewPostgresGateway(cfg PostgresConfig) (*PostgresGateway, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresGateway{db: db, timeout: timeout}, nil
}

func (g *PostgresGateway) Close() error {
	return g.db.Close()
}

func (g *PostgresGateway) LookupOrder(ctx context.Context, orderID string) (contractx.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var row orderRow
	err := g.db.NewSelect().Model(&row).Where("order_id = ?", orderID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapLookupErr(err, orderID)
	}
	return contractx.Record{
		"order_id":          row.OrderID,
		"status":            row.Status,
		"expected_delivery": row.ExpectedDelivery,
		"delay_reason":      row.DelayReason,
		"last_updated":      row.LastUpdated,
	}, nil
}

func (g *PostgresGateway) LookupRefund(ctx context.Context, orderID string) (contractx.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var row refundRow
	err := g.db.NewSelect().Model(&row).Where("order_id = ?", orderID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapLookupErr(err, orderID)
	}
	return contractx.Record{
		"order_id":      row.OrderID,
		"refund_status": row.Status,
		"refund_amount": row.Amount,
		"processed_at":  row.ProcessedAt,
	}, nil
}

func (g *PostgresGateway) LookupInventory(ctx context.Context, productID string) (contractx.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var row inventoryRow
	err := g.db.NewSelect().Model(&row).Where("product_id = ?", productID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapLookupErr(err, productID)
	}
	return contractx.Record{
		"product_id":   row.ProductID,
		"in_stock":     fmt.Sprintf("%t", row.InStock),
		"quantity":     fmt.Sprintf("%d", row.Quantity),
		"restock_date": row.RestockDate,
	}, nil
}

func wrapLookupErr(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%s", contractx.ErrNotFound, id)
	}
	return fmt.Errorf("%w: %v", contractx.ErrBackendUnavailable, err)
}
