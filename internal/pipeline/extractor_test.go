package pipeline

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/daktela-extract/pkg/client"
	"github.com/ajitpratap0/daktela-extract/pkg/config"
	"github.com/ajitpratap0/daktela-extract/pkg/errors"
	"github.com/ajitpratap0/daktela-extract/pkg/sink"
	"github.com/ajitpratap0/daktela-extract/pkg/tablespec"
	"github.com/ajitpratap0/daktela-extract/pkg/transform"
)

func writeEnvelope(w http.ResponseWriter, records []map[string]interface{}, total int) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"result": map[string]interface{}{"data": records, "total": total},
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func column(t *testing.T, records [][]string, name string) int {
	t.Helper()
	for i, col := range records[0] {
		if col == name {
			return i
		}
	}
	t.Fatalf("column %q not found in header %v", name, records[0])
	return -1
}

func newExtractor(t *testing.T, server *httptest.Server, cfg *config.Config, outDir string) *Extractor {
	t.Helper()
	cl := client.New(client.Config{
		BaseURL:  server.URL,
		Username: cfg.Username,
		Password: cfg.Password,
		Retry:    client.DefaultRetryPolicy().WithDelay(time.Millisecond, 5*time.Millisecond),
	})
	ex, err := New(cfg, tablespec.Default(), cl, sink.NewCSVSink(outDir, "testsrv", false))
	require.NoError(t, err)
	return ex
}

func TestRunExtractsParentAndChildTables(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v6/login.json":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"result": map[string]interface{}{"accessToken": "tok"},
			})
		case "/api/v6/activities.json":
			assert.Contains(t, r.URL.Query().Get("filter"), "edited[gte]=")
			assert.Contains(t, r.URL.Query().Get("filter"), "edited[lt]=")
			writeEnvelope(w, []map[string]interface{}{
				{"name": "act1", "title": "Call One", "queue": map[string]interface{}{"name": "q1"}},
				{"name": "act2", "title": "Call Two"},
			}, 2)
		case "/api/v6/activities/act1/email.json":
			writeEnvelope(w, []map[string]interface{}{
				{"name": "em1", "subject": "Hello"},
			}, 1)
		case "/api/v6/activities/act2/email.json":
			writeEnvelope(w, nil, 0)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	outDir := t.TempDir()
	cfg := &config.Config{
		Username: "user", Password: "pass", Server: "testsrv",
		From: "-1", To: "0",
		Tables: "activities,activities_email",
	}

	ex := newExtractor(t, server, cfg, outDir)
	require.NoError(t, ex.Run(context.Background()))

	activities := readCSV(t, filepath.Join(outDir, "testsrv_activities.csv"))
	require.Len(t, activities, 3)
	nameCol := column(t, activities, "name")
	idCol := column(t, activities, "id")
	assert.Equal(t, "testsrv_act1", activities[1][nameCol])
	assert.Equal(t, transform.CompoundKey("testsrv_act1"), activities[1][idCol])
	assert.Equal(t, "testsrv", activities[1][column(t, activities, "server")])
	assert.Equal(t, "testsrv_q1", activities[1][column(t, activities, "queue_name")])

	emails := readCSV(t, filepath.Join(outDir, "testsrv_activities_email.csv"))
	require.Len(t, emails, 2)
	fkCol := column(t, emails, "activities_id")
	// The child foreign key is the parent's compound id, not its raw name.
	assert.Equal(t, activities[1][idCol], emails[1][fkCol])
	assert.Equal(t, "testsrv_em1", emails[1][column(t, emails, "name")])
	assert.Equal(t, "Hello", emails[1][column(t, emails, "subject")])

	// Both tables carry manifests.
	_, err := os.Stat(filepath.Join(outDir, "testsrv_activities.csv.manifest"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "testsrv_activities_email.csv.manifest"))
	require.NoError(t, err)
}

func TestRunExtractsCustomEntityGenerically(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v6/login.json":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"result": map[string]interface{}{"accessToken": "tok"},
			})
		case "/api/v6/foobar_custom.json":
			// Custom entities are not date filtered.
			assert.Empty(t, r.URL.Query().Get("filter"))
			writeEnvelope(w, []map[string]interface{}{
				{"name": "c1", "custom_field": "value"},
			}, 1)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	outDir := t.TempDir()
	cfg := &config.Config{
		Username: "user", Password: "pass", Server: "testsrv",
		From: "-1", To: "0",
		Tables: "foobar_custom",
	}

	ex := newExtractor(t, server, cfg, outDir)
	require.NoError(t, ex.Run(context.Background()))

	records := readCSV(t, filepath.Join(outDir, "testsrv_foobar_custom.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, "testsrv_c1", records[1][column(t, records, "name")])
	assert.Equal(t, transform.CompoundKey("testsrv_c1"), records[1][column(t, records, "id")])
	assert.Equal(t, "value", records[1][column(t, records, "custom_field")])
}

func TestRunInvalidWindowFailsBeforeAnyRequest(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	cfg := &config.Config{
		Username: "user", Password: "pass", Server: "testsrv",
		From: "0", To: "0",
		Tables: "activities",
	}

	ex := newExtractor(t, server, cfg, t.TempDir())
	err := ex.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestRunUnknownTableNameFailsBeforeAnyRequest(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	cfg := &config.Config{
		Username: "user", Password: "pass", Server: "testsrv",
		From: "-1", To: "0",
		Tables: "not a valid name!",
	}

	ex := newExtractor(t, server, cfg, t.TempDir())
	err := ex.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestRunChildSkippedWhenParentHasNoRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v6/login.json":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"result": map[string]interface{}{"accessToken": "tok"},
			})
		case "/api/v6/activities.json":
			writeEnvelope(w, nil, 0)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	outDir := t.TempDir()
	cfg := &config.Config{
		Username: "user", Password: "pass", Server: "testsrv",
		From: "-1", To: "0",
		Tables: "activities_email",
	}

	ex := newExtractor(t, server, cfg, outDir)
	require.NoError(t, ex.Run(context.Background()))

	// Empty parent leaves no artifacts for either table.
	_, err := os.Stat(filepath.Join(outDir, "testsrv_activities.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outDir, "testsrv_activities_email.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunAuthFailureAborts(t *testing.T) {
	var dataRequests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v6/login.json" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		atomic.AddInt32(&dataRequests, 1)
	}))
	defer server.Close()

	cfg := &config.Config{
		Username: "user", Password: "wrong", Server: "testsrv",
		From: "-1", To: "0",
		Tables: "activities",
	}

	ex := newExtractor(t, server, cfg, t.TempDir())
	err := ex.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
	assert.Equal(t, int32(0), atomic.LoadInt32(&dataRequests))
}

func TestRunIncrementalModeMarksManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v6/login.json":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"result": map[string]interface{}{"accessToken": "tok"},
			})
		case "/api/v6/statuses.json":
			writeEnvelope(w, []map[string]interface{}{{"name": "s1", "title": "Open"}}, 1)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	outDir := t.TempDir()
	cfg := &config.Config{
		Username: "user", Password: "pass", Server: "testsrv",
		From: "-1", To: "0",
		Tables:      "statuses",
		Incremental: true,
	}

	ex := newExtractor(t, server, cfg, outDir)
	require.NoError(t, ex.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(outDir, "testsrv_statuses.csv.manifest"))
	require.NoError(t, err)
	var manifest sink.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.True(t, manifest.Incremental)
	assert.Equal(t, []string{"server", "id"}, manifest.PrimaryKey)
}
