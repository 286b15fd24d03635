package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPassThroughMiddlewareMap() *MiddlewareMap {
	return &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
}

func newNoopBookStorage() *MockBookStorage {
	return &MockBookStorage{
		AddFunc: func(ctx context.Context, book Book) (string, error) {
			return testBookID, nil
		},
		GetOneFunc: func(ctx context.Context, id string) (StoredBook, error) {
			return StoredBook{ID: id}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, book Book) error {
			return nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return nil
		},
		GetAllFunc: func(ctx context.Context) ([]StoredBook, error) {
			return []StoredBook{}, nil
		},
		SearchFunc: func(ctx context.Context, filter BookFilter) ([]StoredBook, error) {
			return []StoredBook{}, nil
		},
		StatisticsFunc: func(ctx context.Context, limit int) (BookStatistics, error) {
			return ComputeStatistics(nil, limit), nil
		},
	}
}

// TestSetupBookRoutes ensures all expected book endpoints are implemented.
func TestSetupBookRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"index endpoint",
			httptest.NewRequest(http.MethodGet, "/", nil),
			true,
		},
		{
			"status endpoint",
			httptest.NewRequest(http.MethodGet, "/status", nil),
			true,
		},
		{
			"create book endpoint",
			httptest.NewRequest(http.MethodPost, "/books", nil),
			true,
		},
		{
			"fetch all books endpoint",
			httptest.NewRequest(http.MethodGet, "/books", nil),
			true,
		},
		{
			"fetch all books endpoint with slash",
			httptest.NewRequest(http.MethodGet, "/books/", nil),
			true,
		},
		{
			"fetch single book endpoint",
			httptest.NewRequest(http.MethodGet, "/books/"+testBookID, nil),
			true,
		},
		{
			"update book endpoint",
			httptest.NewRequest(http.MethodPut, "/books/"+testBookID, nil),
			true,
		},
		{
			"delete book endpoint",
			httptest.NewRequest(http.MethodDelete, "/books/"+testBookID, nil),
			true,
		},
		{
			"search books endpoint",
			httptest.NewRequest(http.MethodGet, "/search?title=go", nil),
			true,
		},
		{
			"books statistics endpoint",
			httptest.NewRequest(http.MethodGet, "/aggregation/stats", nil),
			true,
		},
		{
			"invalid aggregation endpoint",
			httptest.NewRequest(http.MethodGet, "/aggregation", nil),
			false,
		},
		{
			"versioned books endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/books", nil),
			false,
		},
	}

	api := newTestAPIHandler(&Config{}, newNoopBookStorage(), NewMockUIDHandler("abc", true))
	router := httprouter.New()
	api.SetupBookRoutes(router, newPassThroughMiddlewareMap())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupOpsRoutes ensures all expected operations endpoints are implemented.
func TestSetupOpsRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"fetch configs endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"fetch stats endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/stats", nil),
			true,
		},
		{
			"maintenance mode endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/maintenance", nil),
			true,
		},
		{
			"metrics endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/metrics", nil),
			true,
		},
		{
			"memory stats endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/debug/vars", nil),
			true,
		},
		{
			"invalid ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops", nil),
			false,
		},
		{
			"unknown ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/unknown", nil),
			false,
		},
		{
			"disabled profiler endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
	}

	config := &Config{ProfilerEndpointsEnable: false}
	api := newTestAPIHandler(config, newNoopBookStorage(), NewMockUIDHandler("abc", true))
	router := httprouter.New()
	api.SetupOpsRoutes(router, newPassThroughMiddlewareMap())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutes ensures all expected endpoints are implemented.
func TestSetupRoutes(t *testing.T) {
	testCases := []struct {
		name               string
		OpsEndpointsEnable bool
		request            *http.Request
		implemented        bool
	}{
		{
			"ops disable:fetch configs endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			false,
		},
		{
			"ops enable:fetch configs endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"ops enable:disabled profiler endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
		{
			"ops disable:create book endpoint",
			false,
			httptest.NewRequest(http.MethodPost, "/books", nil),
			true,
		},
		{
			"ops enable:create book endpoint",
			true,
			httptest.NewRequest(http.MethodPost, "/books", nil),
			true,
		},
		{
			"swagger endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil),
			true,
		},
		{
			"invalid ops endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/", nil),
			false,
		},
		{
			"invalid book endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/x/books/", nil),
			false,
		},
	}

	config := &Config{OpsEndpointsEnable: false, ProfilerEndpointsEnable: false}
	api := newTestAPIHandler(config, newNoopBookStorage(), NewMockUIDHandler("abc", true))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()
			config.OpsEndpointsEnable = tc.OpsEndpointsEnable
			api.SetupRoutes(router, newPassThroughMiddlewareMap())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutes_NotFound ensures exact status code and json response body when a user requests an inexistant route.
func TestSetupRoutes_NotFound(t *testing.T) {
	api := newTestAPIHandler(&Config{}, nil, NewMockUIDHandler("abc", true))
	router := httprouter.New()
	api.SetupRoutes(router, newPassThroughMiddlewareMap())
	r := httptest.NewRequest(http.MethodGet, "/x/books/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	assert.Equal(t, "r:abc", res.Header.Get(RequestIDHeader))
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	expected := `{"detail":"route does not exist", "path":"GET /x/books/"}`
	assert.JSONEq(t, expected, string(data))
}

// TestSetupRoutes_FullChain drives requests through the production middlewares stacks.
func TestSetupRoutes_FullChain(t *testing.T) {
	api := newTestAPIHandler(&Config{OpsEndpointsEnable: true}, newNoopBookStorage(), NewMockUIDHandler("abc", true))
	pub, ops := api.MiddlewaresStacks()
	router := api.SetupRoutes(httprouter.New(), &MiddlewareMap{public: pub.Chain, ops: ops.Chain})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/"+testBookID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r:abc", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ops/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/books/:id",status="200"} 1`)
}
