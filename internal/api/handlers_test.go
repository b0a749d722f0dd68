package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/service"
)

func TestHealthCheck_IsPublic(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	decodeData(t, w, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Contains(t, health.Components, "database")
	assert.Contains(t, health.Components, "preferences")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for _, path := range []string{
		"/api/v1/places",
		"/api/v1/orders",
		"/api/v1/tags",
		"/api/v1/premium",
		"/api/v1/export",
	} {
		t.Run(path, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, "UNAUTHORIZED", env.Code)
		})
	}
}

func TestProtectedRoutes_RejectGarbageToken(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, http.MethodGet, "/api/v1/places", nil, "Authorization", "Bearer v4.local.nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPairDevice(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, http.MethodPost, "/api/v1/devices", PairDeviceRequest{Code: testPairingCode, Name: "Tablet"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var paired PairDeviceResponse
	decodeData(t, w, &paired)
	assert.NotEmpty(t, paired.Token)
	assert.Equal(t, "Tablet", paired.Device.Name)

	w = ts.do(t, http.MethodGet, "/api/v1/devices", nil, "Authorization", "Bearer "+paired.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var list ListDevicesResponse
	decodeData(t, w, &list)
	require.Len(t, list.Devices, 2)

	var current int
	for _, d := range list.Devices {
		if d.Current {
			current++
			assert.Equal(t, paired.Device.ID, d.ID)
		}
	}
	assert.Equal(t, 1, current)
}

func TestPairDevice_WrongCode(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, http.MethodPost, "/api/v1/devices", PairDeviceRequest{Code: "000000", Name: "Tablet"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, w).Code)
}

func TestPairDevice_RateLimited(t *testing.T) {
	ts := setupTestServer(t, Options{PairingPerMinute: 1, PairingBurst: 2})

	for range 2 {
		w := ts.do(t, http.MethodPost, "/api/v1/devices", PairDeviceRequest{Code: "000000", Name: "Tablet"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := ts.do(t, http.MethodPost, "/api/v1/devices", PairDeviceRequest{Code: testPairingCode, Name: "Tablet"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeEnvelope(t, w).Code)
}

func TestRevokeDevice_InvalidatesToken(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, http.MethodPost, "/api/v1/devices", PairDeviceRequest{Code: testPairingCode, Name: "Old Phone"})
	require.Equal(t, http.StatusCreated, w.Code)
	var paired PairDeviceResponse
	decodeData(t, w, &paired)

	w = ts.authed(t, http.MethodDelete, "/api/v1/devices/"+paired.Device.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/v1/places", nil, "Authorization", "Bearer "+paired.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePlace_LimitAndDuplicate(t *testing.T) {
	ts := setupTestServer(t, Options{})

	first := ts.createPlace(t, "Blue Bottle")
	assert.NotEmpty(t, first.ID)

	w := ts.authed(t, http.MethodPost, "/api/v1/places", CreatePlaceRequest{Name: "  blue bottle "})
	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "ALREADY_EXISTS", env.Code)
	assert.Contains(t, string(env.Details), first.ID)

	ts.createPlace(t, "Tartine")
	ts.createPlace(t, "Zuni Cafe")

	w = ts.authed(t, http.MethodPost, "/api/v1/places", CreatePlaceRequest{Name: "Four Barrel"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "LIMIT_REACHED", decodeEnvelope(t, w).Code)

	w = ts.authed(t, http.MethodGet, "/api/v1/places", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListPlacesResponse
	decodeData(t, w, &list)
	assert.Len(t, list.Places, 3)
}

func TestCreatePlace_BlankNameIsValidationError(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodPost, "/api/v1/places", CreatePlaceRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope(t, w).Code)
}

func TestSuggestPlaces(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodGet, "/api/v1/places/suggestions?q=starb", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res SuggestPlacesResponse
	decodeData(t, w, &res)
	require.NotEmpty(t, res.Places)
	assert.Equal(t, "Starbucks", res.Places[0].Name)

	w = ts.authed(t, http.MethodGet, "/api/v1/places/suggestions?q=zzzzqqq", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &res)
	assert.NotNil(t, res.Places)
	assert.Empty(t, res.Places)
}

func TestOrders_CRUDAndLimit(t *testing.T) {
	ts := setupTestServer(t, Options{})
	place := ts.createPlace(t, "Blue Bottle")

	order := ts.createOrder(t, place.ID, "Oat Latte", "coffee")
	assert.Equal(t, place.ID, order.PlaceID)
	assert.Equal(t, []string{"coffee"}, order.Tags)

	title := "Iced Oat Latte"
	w := ts.authed(t, http.MethodPatch, "/api/v1/orders/"+order.ID, UpdateOrderRequest{Title: &title})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated OrderResponse
	decodeData(t, w, &updated)
	assert.Equal(t, "Iced Oat Latte", updated.Title)

	for i := range 4 {
		ts.createOrder(t, place.ID, "Extra "+string(rune('A'+i)))
	}
	w = ts.authed(t, http.MethodPost, "/api/v1/orders", CreateOrderRequest{PlaceID: place.ID, Title: "One too many"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "LIMIT_REACHED", decodeEnvelope(t, w).Code)

	w = ts.authed(t, http.MethodGet, "/api/v1/places/"+place.ID+"/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListOrdersResponse
	decodeData(t, w, &list)
	assert.Len(t, list.Orders, 5)

	w = ts.authed(t, http.MethodDelete, "/api/v1/orders/"+order.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.authed(t, http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w).Code)
}

func TestCreateOrder_UnknownPlace(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodPost, "/api/v1/orders", CreateOrderRequest{PlaceID: "place-missing", Title: "Latte"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePlace_CascadesOrders(t *testing.T) {
	ts := setupTestServer(t, Options{})
	place := ts.createPlace(t, "Tartine")
	order := ts.createOrder(t, place.ID, "Morning Bun")

	w := ts.authed(t, http.MethodDelete, "/api/v1/places/"+place.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.authed(t, http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrders_FilterByTags(t *testing.T) {
	ts := setupTestServer(t, Options{})
	place := ts.createPlace(t, "Blue Bottle")
	ts.createOrder(t, place.ID, "Latte", "Coffee")
	ts.createOrder(t, place.ID, "Croissant", "Pastry")

	w := ts.authed(t, http.MethodGet, "/api/v1/orders?tags=coffee", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list ListOrdersResponse
	decodeData(t, w, &list)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "Latte", list.Orders[0].Title)
}

func TestTags_CRUD(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodPost, "/api/v1/tags", TagRequest{Name: "Coffee", Color: "#FF8800"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tag TagResponse
	decodeData(t, w, &tag)
	assert.Equal(t, "Coffee", tag.Name)
	assert.Empty(t, tag.Color, "free accounts cannot color tags")

	w = ts.authed(t, http.MethodPost, "/api/v1/tags", TagRequest{Name: "coffee"})
	assert.Equal(t, http.StatusConflict, w.Code)

	place := ts.createPlace(t, "Blue Bottle")
	ts.createOrder(t, place.ID, "Latte", "coffee")

	w = ts.authed(t, http.MethodGet, "/api/v1/tags/"+tag.ID+"/orders", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tagged ListOrdersResponse
	decodeData(t, w, &tagged)
	assert.Len(t, tagged.Orders, 1)

	w = ts.authed(t, http.MethodPut, "/api/v1/tags/"+tag.ID, TagRequest{Name: "Espresso"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &tag)
	assert.Equal(t, "Espresso", tag.Name)

	w = ts.authed(t, http.MethodDelete, "/api/v1/tags/"+tag.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.authed(t, http.MethodGet, "/api/v1/tags", nil)
	var list ListTagsResponse
	decodeData(t, w, &list)
	assert.Empty(t, list.Tags)
}

func TestPremium_PurchaseLiftsLimits(t *testing.T) {
	ts := setupTestServer(t, Options{})
	for _, name := range []string{"A", "B", "C"} {
		ts.createPlace(t, name)
	}

	w := ts.authed(t, http.MethodPost, "/api/v1/premium/purchase", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var purchased PurchaseResponse
	decodeData(t, w, &purchased)
	assert.True(t, purchased.Purchased)
	assert.True(t, purchased.Status.State.IsPremiumUser)
	assert.True(t, purchased.Status.Capabilities.UnlimitedPlaces)

	ts.createPlace(t, "D")
}

func TestPremium_WatchAdGrantsBonusOncePerDay(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodGet, "/api/v1/premium/unlock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status service.UnlockStatus
	decodeData(t, w, &status)
	assert.True(t, status.CanUnlock)

	w = ts.authed(t, http.MethodPost, "/api/v1/premium/unlock", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res UnlockResponse
	decodeData(t, w, &res)
	assert.Equal(t, service.UnlockGranted, res.Outcome)
	assert.Equal(t, 6, res.Status.TotalOrderLimit)

	w = ts.authed(t, http.MethodPost, "/api/v1/premium/unlock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &res)
	assert.Equal(t, service.UnlockNotEligible, res.Outcome)
	assert.Equal(t, 6, res.Status.TotalOrderLimit)
}

func TestSettings_ThemeRequiresPremium(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodPut, "/api/v1/settings/theme", SetThemeRequest{Theme: "dark"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())

	require.NoError(t, ts.premium.SetPremium(t.Context(), true))

	w = ts.authed(t, http.MethodPut, "/api/v1/settings/theme", SetThemeRequest{Theme: "dark"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var theme service.ThemeState
	decodeData(t, w, &theme)
	assert.Equal(t, "dark", string(theme.Effective))

	w = ts.authed(t, http.MethodPut, "/api/v1/settings/theme", SetThemeRequest{Theme: "neon"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSettings_OnboardingFlow(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodPost, "/api/v1/settings/onboarding/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.authed(t, http.MethodPost, "/api/v1/settings/onboarding/tutorial/skip", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.authed(t, http.MethodGet, "/api/v1/settings/onboarding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		HasCompletedOnboarding bool `json:"has_completed_onboarding"`
		HasCompletedTutorial   bool `json:"has_completed_tutorial"`
	}
	decodeData(t, w, &state)
	assert.True(t, state.HasCompletedOnboarding)
	assert.True(t, state.HasCompletedTutorial)
}

func TestSearch_UnavailableWithoutIndex(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.authed(t, http.MethodGet, "/api/v1/search?q=latte", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "UNAVAILABLE", decodeEnvelope(t, w).Code)
}

func TestDebugRoutes_OnlyWhenEnabled(t *testing.T) {
	ts := setupTestServer(t, Options{})
	w := ts.authed(t, http.MethodGet, "/api/v1/debug/status", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ts = setupTestServer(t, Options{EnableDebug: true})
	w = ts.authed(t, http.MethodPost, "/api/v1/debug/seed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var seeded SeedResponse
	decodeData(t, w, &seeded)
	assert.Len(t, seeded.Places, 2)
	assert.Len(t, seeded.Orders, 2)

	w = ts.authed(t, http.MethodPost, "/api/v1/debug/toggle-premium", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ts.premium.IsPremium())

	w = ts.authed(t, http.MethodPost, "/api/v1/debug/reset", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, ts.premium.IsPremium())

	w = ts.authed(t, http.MethodGet, "/api/v1/debug/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st service.DebugStatus
	decodeData(t, w, &st)
	assert.Zero(t, st.Counts.Places)
}
