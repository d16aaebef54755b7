package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

// FileGateway serves order, refund, and inventory lookups from JSON documents
// on disk. Each file is a map from identifier to a flat record. Lookups are
// pure reads, which keeps the orchestrator's correction re-run safe.
type FileGateway struct {
	dir string

	once    sync.Once
	loadErr error

	orders    map[string]contractx.Record
	refunds   map[string]contractx.Record
	inventory map[string]contractx.Record
}

type FileGatewayConfig struct {
	Dir string `envconfig:"DIR" split_words:"true" default:"./data"`
}

var _ contractx.Gateway = (*FileGateway)(nil)

func NewFileGateway(cfg FileGatewayConfig) (*FileGateway, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("gateway data dir is required")
	}
	return &FileGateway{dir: dir}, nil
}

func (g *FileGateway) LookupOrder(ctx context.Context, orderID string) (contractx.Record, error) {
	return g.lookup(ctx, func() map[string]contractx.Record { return g.orders }, orderID)
}

func (g *FileGateway) LookupRefund(ctx context.Context, orderID string) (contractx.Record, error) {
	return g.lookup(ctx, func() map[string]contractx.Record { return g.refunds }, orderID)
}

func (g *FileGateway) LookupInventory(ctx context.Context, productID string) (contractx.Record, error) {
	return g.lookup(ctx, func() map[string]contractx.Record { return g.inventory }, productID)
}

func (g *FileGateway) lookup(_ context.Context, table func() map[string]contractx.Record, id string) (contractx.Record, error) {
	g.once.Do(g.loadAll)
	if g.loadErr != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrBackendUnavailable, g.loadErr)
	}
	rec, ok := table()[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", contractx.ErrNotFound, id)
	}
	return rec, nil
}

func (g *FileGateway) loadAll() {
	var err error
	if g.orders, err = loadRecords(filepath.Join(g.dir, "orders.json")); err != nil {
		g.loadErr = err
		return
	}
	if g.refunds, err = loadRecords(filepath.Join(g.dir, "refunds.json")); err != nil {
		g.loadErr = err
		return
	}
	if g.inventory, err = loadRecords(filepath.Join(g.dir, "inventory.json")); err != nil {
		g.loadErr = err
	}
}

func loadRecords(path string) (map[string]contractx.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]contractx.Record{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var parsed map[string]map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	out := make(map[string]contractx.Record, len(parsed))
	for id, fields := range parsed {
		rec := make(contractx.Record, len(fields))
		for k, v := range fields {
			rec[k] = scalarString(v)
		}
		out[id] = rec
	}
	return out, nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
