package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportBody and clientBody mirror the JSON responses; values decode loosely.
type reportBody struct {
	RunID   string            `json:"run_id"`
	Summary reconcile.Summary `json:"summary"`
	Entries []map[string]any  `json:"entries"`
	Issues  []models.Issue    `json:"issues"`
}

type clientBody struct {
	ClientID int64            `json:"client_id"`
	Status   string           `json:"status"`
	Entries  []map[string]any `json:"entries"`
}

func setupTestApp(t *testing.T) (*fiber.App, *fixture) {
	f := newFixture(t, 0)
	app := fiber.New()
	NewHandler(f.service).RegisterRoutes(app)
	return app, f
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestHandleReconcile(t *testing.T) {
	app, f := setupTestApp(t)
	f.write(t, f.source, row100Active, row101)
	f.write(t, f.target, row100Inactive, "101,Alan Turing,alan@example.com,555-0101,Pending Review,2021-06-23,abc")

	resp, err := app.Test(httptest.NewRequest("GET", "/reconcile", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body reportBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, 2, body.Summary.TotalKeys)
	assert.Equal(t, 2, body.Summary.MismatchedKeys)
	require.Len(t, body.Entries, 2)
	assert.Equal(t, float64(100), body.Entries[0]["client_id"])
	assert.Equal(t, "Active", body.Entries[0]["source_value"])
	assert.Equal(t, "Inactive", body.Entries[0]["target_value"])
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "target", body.Issues[0].Side)
	assert.Equal(t, "lifetime_value", body.Issues[0].Field)
}

func TestHandleReconcile_Errors(t *testing.T) {
	app, f := setupTestApp(t)
	f.write(t, f.source, row100Active)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"MissingTarget", "/reconcile", fiber.StatusNotFound},
		{"BadLocation", "/reconcile?target=ftp://x/y", fiber.StatusBadRequest},
		{"BadPolicy", "/reconcile?duplicates=merge", fiber.StatusBadRequest},
		{"NoStorage", "/reconcile?target=s3://bucket/target.csv", fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleReconcile_CachedLocationsOutliveRequest(t *testing.T) {
	f := newFixture(t, time.Hour)
	app := fiber.New()
	NewHandler(f.service).RegisterRoutes(app)
	f.write(t, f.source, row100Active)
	f.write(t, f.target, row100Inactive)

	first := "/reconcile?source=" + url.QueryEscape(f.source) + "&target=" + url.QueryEscape(f.target)
	resp, err := app.Test(httptest.NewRequest("GET", first, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	// A second request with equally long values reuses the request buffers.
	second := "/reconcile?source=" + url.QueryEscape(f.target) + "&target=" + url.QueryEscape(f.source)
	resp, err = app.Test(httptest.NewRequest("GET", second, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	pair, err := f.service.cache.Get(context.Background(), cacheKey(f.source, f.target), func(ctx context.Context) (reconcile.Dataset[models.Client], reconcile.Dataset[models.Client], error) {
		return reconcile.Dataset[models.Client]{}, reconcile.Dataset[models.Client]{}, errors.New("pair should be cached")
	})
	require.NoError(t, err)
	assert.Equal(t, f.source, pair.Source.Location)
	assert.Equal(t, f.target, pair.Target.Location)
}

func TestHandleReconcile_MissingSource(t *testing.T) {
	app, f := setupTestApp(t)
	f.write(t, f.source, row100Active)
	f.write(t, f.target, row100Active)

	resp, err := app.Test(httptest.NewRequest("GET", "/reconcile?target="+f.source+"&source="+f.dir+"/nope.csv", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleReconcileClient(t *testing.T) {
	app, f := setupTestApp(t)
	f.write(t, f.source, row100Active, row101)
	f.write(t, f.target, row100Inactive, row101)

	tests := []struct {
		name       string
		path       string
		wantCode   int
		wantStatus string
		wantLen    int
	}{
		{"Differs", "/reconcile/clients/100", 200, models.ClientStatusDiffers, 1},
		{"Matched", "/reconcile/clients/101", 200, models.ClientStatusMatched, 0},
		{"NotFound", "/reconcile/clients/999", 404, models.ClientStatusNotPresent, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			var body clientBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Len(t, body.Entries, tt.wantLen)
		})
	}

	t.Run("BadID", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/reconcile/clients/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleUpload(t *testing.T) {
	app, _ := setupTestApp(t)

	t.Run("Report", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"source": csvOf(row100Active),
			"target": csvOf(row100Inactive),
		})
		req := httptest.NewRequest("POST", "/reconcile/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "client_id,discrepancy_type,field,source_value,target_value\n100,Value Mismatch,account_status,Active,Inactive\n", string(data))
	})

	t.Run("NoDiscrepancies", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"source": csvOf(row100Active),
			"target": csvOf(row100Active),
		})
		req := httptest.NewRequest("POST", "/reconcile/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("MissingTarget", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"source": csvOf(row100Active),
		})
		req := httptest.NewRequest("POST", "/reconcile/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("SchemaMismatch", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"source": csvOf(row100Active),
			"target": "client_id,name\n100,Ada\n",
		})
		req := httptest.NewRequest("POST", "/reconcile/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}
