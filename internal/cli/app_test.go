package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/internal/config"
	"github.com/jengzang/meteorites-backend-go/internal/dataset"
	"github.com/jengzang/meteorites-backend-go/internal/logger"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleRecords() []models.RawMeteorite {
	return []models.RawMeteorite{
		{SourceKey: "meteorite_1", ID: "1", Name: "Aachen", RecClass: "L5", Mass: "21", Fall: "Fell", Year: "1880", Latitude: "50.775", Longitude: "6.08333"},
		{SourceKey: "meteorite_2", ID: "2", Name: "Aarhus", RecClass: "H6", Mass: "720", Fall: "Fell", Year: "1951", Latitude: "56.18333", Longitude: "10.23333"},
	}
}

func writeJSONDataset(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, dataset.Encode(&buf, sampleRecords()))
	path := filepath.Join(t.TempDir(), "meteorites.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func appConfig(t *testing.T, datasetPath string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.HashKey = "salt"
	cfg.Dataset.Path = datasetPath
	cfg.RateLimit.SQLitePath = filepath.Join(t.TempDir(), "ratelimit.db")
	return cfg
}

func serve(app *App, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.1")
	app.Router.ServeHTTP(w, req)
	return w
}

func TestNewAppServesDataset(t *testing.T) {
	for _, store := range []string{"memory", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg := appConfig(t, writeJSONDataset(t))
			cfg.RateLimit.Store = store
			app, err := NewApp(ctx, cfg, logger.Discard())
			require.NoError(t, err)
			defer app.Close()

			assert.True(t, app.Catalog.Ready())

			w := serve(app, "/get?id=2")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Aarhus")

			w = serve(app, "/stats")
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		})
	}
}

func TestNewAppWithoutDataset(t *testing.T) {
	cfg := appConfig(t, filepath.Join(t.TempDir(), "missing.json"))
	app, err := NewApp(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer app.Close()

	assert.False(t, app.Catalog.Ready())
	w := serve(app, "/stats")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewAppRejectsUnknownBackends(t *testing.T) {
	cfg := appConfig(t, writeJSONDataset(t))
	cfg.RateLimit.Store = "redis"
	_, err := NewApp(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)

	cfg = appConfig(t, writeJSONDataset(t))
	cfg.Dataset.Source = "ftp"
	_, err = NewApp(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
}

const compileCSV = "name,id,nametype,recclass,mass (g),fall,year,reclat,reclong,GeoLocation\n" +
	`Aachen,1,Valid,L5,21,Fell,1880,50.775000,6.083330,"(50.775, 6.08333)"` + "\n" +
	`Aarhus,2,Valid,H6,720,Fell,1951,56.183330,10.233330,"(56.18333, 10.23333)"` + "\n"

func TestCompileFormats(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "landings.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(compileCSV), 0o644))

	tests := []struct {
		out    string
		format string
		source dataset.Source
	}{
		{out: "plain/meteorites.json", format: "json"},
		{out: "meteorites.json.gz", format: "gzip"},
		{out: "meteorites.json.zst", format: "zstd"},
		{out: "meteorites.db", format: "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out := filepath.Join(dir, tt.out)
			assert.Equal(t, tt.format, formatFromPath(out))

			rootCmd.SetArgs([]string{"compile", csvPath, "--out", out})
			require.NoError(t, rootCmd.Execute())

			var src dataset.Source = &dataset.FileSource{Path: out}
			if tt.format == "sqlite" {
				src = &dataset.SQLiteSource{Path: out, Table: "meteorites"}
			}
			records, err := src.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 2)

			names := []string{records[0].Name, records[1].Name}
			assert.ElementsMatch(t, []string{"Aachen", "Aarhus"}, names)
			for _, r := range records {
				assert.True(t, strings.HasPrefix(r.SourceKey, "meteorite_"))
			}
		})
	}
}

func TestVersionAndToken(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "meteorites dev\n", out.String())

	t.Setenv("METEORITES_JWT_SECRET", "s3cret")
	out.Reset()
	rootCmd.SetArgs([]string{"token", "--subject", "dashboard", "--ttl", "1h"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out.String()), "."))
}
