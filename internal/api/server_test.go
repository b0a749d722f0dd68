package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/auth"
	"github.com/secretmenu/secretmenu-server/internal/backup"
	"github.com/secretmenu/secretmenu-server/internal/billing"
	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/service"
	"github.com/secretmenu/secretmenu-server/internal/store"
	"github.com/secretmenu/secretmenu-server/internal/store/sqlite"
)

const testPairingCode = "424242"

// testPhotoLimit turns on the optional free photo limit so its 402 path is
// reachable over HTTP.
const testPhotoLimit = 3

// testServer bundles a fully wired server with the collaborators tests poke at.
type testServer struct {
	*Server
	premium *premium.Manager
	token   string
}

// setupTestServer wires every service against temp storage and pairs one
// device.
func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	entities, err := sqlite.Open(filepath.Join(dir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = entities.Close() })

	prefs, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = prefs.Close() })

	pm := premium.NewManager(prefs, premium.Options{
		FreePlaceLimit: domain.DefaultFreePlaceLimit,
		FreeOrderLimit: domain.DefaultFreeOrderLimit,
		FreePhotoLimit: testPhotoLimit,
		Location:       time.UTC,
	})
	require.NoError(t, pm.Load(ctx))

	storage, err := images.NewStorage(dir)
	require.NoError(t, err)
	photos := images.NewProcessor(storage, nil)

	data := service.NewDataService(entities, pm, service.DataOptions{
		DuplicatePlacePolicy: service.DuplicateReport,
		Photos:               photos,
	})

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	code, err := auth.NewPairingCode(testPairingCode)
	require.NoError(t, err)

	services := &Services{
		Data:     data,
		Tags:     service.NewTagService(entities, pm, nil, nil),
		Purchase: service.NewPurchaseService(pm, billing.NewSimulatedPurchaser(), nil),
		Unlock:   service.NewUnlockService(pm, billing.NewSimulatedAds(true), nil),
		Settings: service.NewSettingsService(prefs, pm, nil),
		Export: service.NewExportService(pm,
			backup.NewExporter(entities, storage, "test", nil),
			backup.NewRestorer(entities, storage, nil),
			nil, nil),
		Debug: service.NewDebugService(service.DebugDeps{
			Data:     data,
			Entities: entities,
			Prefs:    prefs,
			Premium:  pm,
			Photos:   storage,
		}),
		Devices: service.NewDeviceService(prefs, tokens, code, nil, nil),
		Photos:  storage,
		Health: map[string]Pinger{
			"database":    entities,
			"preferences": prefs,
		},
	}

	if opts.Version == "" {
		opts.Version = "test"
	}
	srv := NewServer(services, opts, nil)
	t.Cleanup(srv.Close)

	res, err := services.Devices.Pair(ctx, service.PairRequest{Code: testPairingCode, Name: "Test Phone"})
	require.NoError(t, err)

	return &testServer{Server: srv, premium: pm, token: res.Token}
}

// envelope is the decoded response wrapper.
type envelope struct {
	Version int             `json:"v"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// do sends a request through the router. body may be nil, a []byte sent
// as-is, or any value encoded as JSON.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	contentType := "application/json"
	switch b := body.(type) {
	case nil:
	case *multipartBody:
		r = &b.buf
		contentType = b.contentType
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)
	return w
}

// authed sends a request with the paired device's token.
func (ts *testServer) authed(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, method, path, body, "Authorization", "Bearer "+ts.token)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// decodeData checks for a successful envelope and decodes its data into out.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, "expected success, got %s: %s", env.Code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

type multipartBody struct {
	buf         bytes.Buffer
	contentType string
}

func newMultipart(t *testing.T, field, filename string, data []byte) *multipartBody {
	t.Helper()
	mb := &multipartBody{}
	mw := multipart.NewWriter(&mb.buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	mb.contentType = mw.FormDataContentType()
	return mb
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := range 16 {
		for y := range 16 {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: 80, B: uint8(y * 16), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func (ts *testServer) createPlace(t *testing.T, name string) PlaceResponse {
	t.Helper()
	w := ts.authed(t, http.MethodPost, "/api/v1/places", CreatePlaceRequest{Name: name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p PlaceResponse
	decodeData(t, w, &p)
	return p
}

func (ts *testServer) createOrder(t *testing.T, placeID, title string, tags ...string) OrderResponse {
	t.Helper()
	w := ts.authed(t, http.MethodPost, "/api/v1/orders", CreateOrderRequest{PlaceID: placeID, Title: title, Tags: tags})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var o OrderResponse
	decodeData(t, w, &o)
	return o
}
