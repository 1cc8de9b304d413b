package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"docdb-explorer/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInterface_Contract(t *testing.T) {
	var _ Logger = NewLogger()
	var _ Logger = NewLoggerWithConfig("info", "json")
	var _ Logger = NewZapLogger("debug", false)
}

func TestLogrusLogger_ContextFields(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	var buf bytes.Buffer
	log := NewLogrusLogger(&buf)

	ctx := context.WithValue(context.Background(), contextkeys.RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, contextkeys.CollectionLinkKey, "dbs/db1/colls/c1")
	log.WithContext(ctx).Info("loaded page")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded page", entry["message"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "dbs/db1/colls/c1", entry["collection_link"])
}

func TestLogrusLogger_WithComponent(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	var buf bytes.Buffer
	NewLogrusLogger(&buf).WithComponent("tree").WithFields(map[string]interface{}{"page": 2}).Info("x")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tree", entry["component"])
	assert.EqualValues(t, 2, entry["page"])
}

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	ctx := context.WithValue(context.Background(), contextkeys.OperationKey, "delete")
	log.WithContext(ctx).WithComponent("tree").Debugf("deleting %s", "c1")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "deleting c1", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "delete", fields["operation"])
	assert.Equal(t, "tree", fields["component"])
}
