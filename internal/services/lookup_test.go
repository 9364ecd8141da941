package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-import-platform/internal/config"
	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/models"
)

type lookupFixture struct {
	service    LookupService
	client     *erp.Client
	classCalls int64
}

func newLookupFixture(t *testing.T) *lookupFixture {
	t.Helper()
	f := &lookupFixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/entity/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: ".ASPXAUTH", Value: "token"})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/entity/Default/24.200.001/ItemClass", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.classCalls, 1)
		w.Write([]byte(`[
			{"ClassID":{"value":"STOCK"}},
			{"ClassID":{"value":"  SERVICE  "}},
			{"ClassID":{"value":""}},
			{"Description":{"value":"no key here"}}
		]`))
	})
	mux.HandleFunc("/entity/Default/24.200.001/TaxCategory", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"exceptionMessage":"TaxCategory is not available"}`, http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
		ERP: config.ERPConfig{
			APIVersion:       "24.200.001",
			RequestTimeout:   2,
			MaxRetries:       1,
			RetryBaseDelayMs: 1,
		},
		Import: config.ImportConfig{LookupCacheTTL: 60},
	}
	log := logger.NewLogger(cfg)

	conn := &models.Connection{ID: "conn-1", InstanceURL: server.URL, APIVersion: "24.200.001"}
	f.client = erp.NewFactory(cfg, log).ClientFor(conn, models.Credentials{Username: "admin", Password: "secret"})
	f.service = NewLookupService(cfg, nil, log)
	return f
}

func itemClassRequirement() models.LookupRequirement {
	return models.LookupRequirement{Name: "itemClass", Entity: "ItemClass", KeyField: "ClassID", Label: "Item Classes"}
}

func TestFetchLookupDataCollectsKeys(t *testing.T) {
	f := newLookupFixture(t)

	result := f.service.FetchLookupData(context.Background(), f.client, []models.LookupRequirement{itemClassRequirement()}, nil)
	require.NotNil(t, result)
	assert.Empty(t, result.Warnings)

	keys := result.Lookups["itemClass"]
	require.NotNil(t, keys)
	assert.Len(t, keys, 2, "blank and missing keys are dropped")
	assert.Contains(t, keys, "STOCK")
	assert.Contains(t, keys, "SERVICE", "keys are trimmed")
}

func TestFetchLookupDataDegradesOnFailure(t *testing.T) {
	f := newLookupFixture(t)
	requirements := []models.LookupRequirement{
		{Name: "taxCategory", Entity: "TaxCategory", KeyField: "TaxCategoryID", Label: "Tax Categories"},
		itemClassRequirement(),
	}

	result := f.service.FetchLookupData(context.Background(), f.client, requirements, nil)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Failed to fetch Tax Categories")
	assert.Contains(t, result.Warnings[0], "Lookup validation will be skipped")

	failed, ok := result.Lookups["taxCategory"]
	require.True(t, ok, "failed requirement still yields an entry")
	assert.Empty(t, failed, "empty set disables validation for the field")

	assert.Len(t, result.Lookups["itemClass"], 2, "later requirements still fetched")
}

func TestFetchLookupDataReportsProgress(t *testing.T) {
	f := newLookupFixture(t)
	requirements := []models.LookupRequirement{itemClassRequirement()}

	var updates []LookupProgress
	f.service.FetchLookupData(context.Background(), f.client, requirements, func(p LookupProgress) {
		updates = append(updates, p)
	})

	require.Len(t, updates, 2)
	assert.Equal(t, LookupProgress{Completed: 0, Total: 1, Current: "Item Classes"}, updates[0])
	assert.Equal(t, LookupProgress{Completed: 1, Total: 1, Current: "Done"}, updates[1])
}

func TestFetchLookupDataNoRequirements(t *testing.T) {
	f := newLookupFixture(t)

	result := f.service.FetchLookupData(context.Background(), f.client, nil, nil)
	require.NotNil(t, result)
	assert.Empty(t, result.Lookups)
	assert.Empty(t, result.Warnings)
	assert.Zero(t, atomic.LoadInt64(&f.classCalls))
}

// fakeLookupInstance is one ERP instance serving a fixed item class list
type fakeLookupInstance struct {
	server *httptest.Server
	calls  int64
}

func newFakeLookupInstance(t *testing.T, classIDs ...string) *fakeLookupInstance {
	t.Helper()
	inst := &fakeLookupInstance{}

	mux := http.NewServeMux()
	mux.HandleFunc("/entity/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: ".ASPXAUTH", Value: "token"})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/entity/Default/24.200.001/ItemClass", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&inst.calls, 1)
		parts := make([]string, len(classIDs))
		for i, id := range classIDs {
			parts[i] = `{"ClassID":{"value":"` + id + `"}}`
		}
		w.Write([]byte("[" + strings.Join(parts, ",") + "]"))
	})
	inst.server = httptest.NewServer(mux)
	t.Cleanup(inst.server.Close)
	return inst
}

func TestFetchLookupDataCachesPerInstance(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
		ERP: config.ERPConfig{
			APIVersion:       "24.200.001",
			RequestTimeout:   2,
			MaxRetries:       1,
			RetryBaseDelayMs: 1,
		},
		Import: config.ImportConfig{LookupCacheTTL: 60},
	}
	log := logger.NewLogger(cfg)
	factory := erp.NewFactory(cfg, log)
	service := NewLookupService(cfg, rdb, log)

	instanceA := newFakeLookupInstance(t, "A-ONLY")
	instanceB := newFakeLookupInstance(t, "B-ONLY")
	creds := models.Credentials{Username: "admin", Password: "secret"}
	clientA := factory.ClientFor(&models.Connection{ID: "conn-a", InstanceURL: instanceA.server.URL, APIVersion: "24.200.001"}, creds)
	clientB := factory.ClientFor(&models.Connection{ID: "conn-b", InstanceURL: instanceB.server.URL, APIVersion: "24.200.001"}, creds)

	requirements := []models.LookupRequirement{itemClassRequirement()}
	ctx := context.Background()

	first := service.FetchLookupData(ctx, clientA, requirements, nil)
	assert.Contains(t, first.Lookups["itemClass"], "A-ONLY")

	cached := service.FetchLookupData(ctx, clientA, requirements, nil)
	assert.Contains(t, cached.Lookups["itemClass"], "A-ONLY")
	assert.Equal(t, int64(1), atomic.LoadInt64(&instanceA.calls), "second fetch is served from cache")

	other := service.FetchLookupData(ctx, clientB, requirements, nil)
	assert.Contains(t, other.Lookups["itemClass"], "B-ONLY")
	assert.NotContains(t, other.Lookups["itemClass"], "A-ONLY", "cache entries are per instance")
	assert.Equal(t, int64(1), atomic.LoadInt64(&instanceB.calls))
}

func TestWriteRowLogsCSV(t *testing.T) {
	logs := []*models.ImportRowLog{
		{RowNumber: 1, KeyValue: "SKU-001", Status: models.RowLogSuccess, Operation: models.OperationCreated},
		{RowNumber: 2, KeyValue: "SKU-002", Status: models.RowLogFailed, ErrorMessage: "Item class 'BAD' does not exist"},
	}

	var buf strings.Builder
	require.NoError(t, WriteRowLogsCSV(&buf, logs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Row,Key,Status,Operation,Error", lines[0])
	assert.Equal(t, "1,SKU-001,success,created,", lines[1])
	assert.Equal(t, "2,SKU-002,failed,,Item class 'BAD' does not exist", lines[2])
}
