package e2e

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-venue-booking/internal/api/router"
	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/infrastructure/memory"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo      *echo.Echo
	Venues    *memory.VenueRepository
	Timeslots *memory.TimeslotRepository
	Dir       string
}

// NewTestServer はスナップショット付きのインメモリストアでサーバーを作成
// dir が空の場合は一時ディレクトリを使う
func NewTestServer(t *testing.T, dir string) *TestServer {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}

	venues, err := memory.LoadVenueRepository(filepath.Join(dir, "venues.json"))
	require.NoError(t, err)
	timeslots, err := memory.LoadTimeslotRepository(filepath.Join(dir, "timeslots.json"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	require.NoError(t, m.RegisterStoredRecords("venue", venues.Len))
	require.NoError(t, m.RegisterStoredRecords("timeslot", timeslots.Len))

	locker := application.NewLocalVenueLocker()
	e := router.New(router.Deps{
		VenueService:    application.NewVenueService(venues, timeslots, locker, nil, m),
		TimeslotService: application.NewTimeslotService(timeslots, venues, locker, m),
		Metrics:         m,
		Gatherer:        reg,
	})

	return &TestServer{Echo: e, Venues: venues, Timeslots: timeslots, Dir: dir}
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		switch b := body.(type) {
		case string:
			reqBody = []byte(b)
		default:
			reqBody, _ = json.Marshal(b)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// decode はレスポンスボディをデコードする
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
