package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentimentExporter/internal/domain"
)

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestJSONAPIAdapterAlternativeShape(t *testing.T) {
	t.Parallel()

	server := serveJSON(t, `{"name":"Fear and Greed Index","data":[
		{"value":"65","value_classification":"Greed","timestamp":"1700000000"},
		{"value":"20","value_classification":"Extreme Fear","timestamp":"1705000000","time_until_update":null}
	]}`)

	adapter, err := NewJSONAPIAdapter(JSONAPIConfig{Name: "alternative", URL: server.URL, Records: "data"}, nil, nil)
	require.NoError(t, err)

	table, err := adapter.FetchRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1705000000", table.Rows[1]["timestamp"])
	assert.Equal(t, "Extreme Fear", table.Rows[1]["value_classification"])
	assert.Equal(t, []string{"timestamp", "value", "value_classification", "time_until_update"}, table.Columns)
}

func TestJSONAPIAdapterCNNShape(t *testing.T) {
	t.Parallel()

	server := serveJSON(t, `{"fear_and_greed":{"score":50},"fear_and_greed_historical":{"timestamp":1,"data":[
		{"x":1700006400000.0,"y":62.2857142857143,"rating":"greed"},
		{"x":1700092800000,"y":58,"rating":"greed"}
	]}}`)

	adapter, err := NewJSONAPIAdapter(JSONAPIConfig{Name: "cnn", URL: server.URL, Records: "fear_and_greed_historical.data"}, nil, nil)
	require.NoError(t, err)

	table, err := adapter.FetchRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1700006400000.0", table.Rows[0]["x"])
	assert.Equal(t, "62.2857142857143", table.Rows[0]["y"])
	assert.Equal(t, "58", table.Rows[1]["y"])
}

func TestJSONAPIAdapterFlatArray(t *testing.T) {
	t.Parallel()

	server := serveJSON(t, `[{"value":"1","value_classification":"Extreme Fear","timestamp":"1"}]`)
	adapter, err := NewJSONAPIAdapter(JSONAPIConfig{Name: "flat", URL: server.URL}, nil, nil)
	require.NoError(t, err)

	table, err := adapter.FetchRaw(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestJSONAPIAdapterSchemaErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body    string
		records string
	}{
		"invalid json":     {`{"data":`, "data"},
		"missing path":     {`{"other":[]}`, "data"},
		"not an array":     {`{"data":{"value":1}}`, "data"},
		"walk into array":  {`{"data":[]}`, "data.inner"},
		"scalar element":   {`{"data":[1,2]}`, "data"},
		"trailing garbage": {`{"data":[{"value":"65","timestamp":"1700000000"}]} <html>oops`, "data"},
		"concatenated":     {`{"data":[]}{"data":[]}`, "data"},
	}

	for name, tc := range cases {
		server := serveJSON(t, tc.body)
		adapter, err := NewJSONAPIAdapter(JSONAPIConfig{Name: "alt", URL: server.URL, Records: tc.records}, nil, nil)
		require.NoError(t, err)

		_, err = adapter.FetchRaw(context.Background())
		var srcErr *domain.SourceError
		require.True(t, errors.As(err, &srcErr), name)
		assert.Equal(t, domain.SourceSchema, srcErr.Kind, name)
	}
}

func TestDecodeRecordsAllowsTrailingWhitespace(t *testing.T) {
	t.Parallel()

	table, err := decodeRecords([]byte("{\"data\":[{\"value\":\"65\"}]}\n\t "), "data")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestJSONAPIAdapterNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	adapter, err := NewJSONAPIAdapter(JSONAPIConfig{Name: "alt", URL: url, Records: "data"}, nil, nil)
	require.NoError(t, err)

	_, err = adapter.FetchRaw(context.Background())
	var srcErr *domain.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, domain.SourceNetwork, srcErr.Kind)
	assert.True(t, domain.Retryable(err))
}

func TestJSONAPIAdapterHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer server.Close()

	adapter, err := NewJSONAPIAdapter(JSONAPIConfig{Name: "alt", URL: server.URL, Records: "data"}, nil, nil)
	require.NoError(t, err)

	_, err = adapter.FetchRaw(context.Background())
	var srcErr *domain.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, domain.SourceHTTP, srcErr.Kind)
	assert.Equal(t, http.StatusTeapot, srcErr.Status)
	assert.False(t, domain.Retryable(err))
}

func TestJSONAPIAdapterClientTimeoutIsNetwork(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	adapter, err := NewJSONAPIAdapter(JSONAPIConfig{Name: "slow", URL: server.URL}, NewClient(20*time.Millisecond, ""), nil)
	require.NoError(t, err)

	_, err = adapter.FetchRaw(context.Background())
	var srcErr *domain.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, domain.SourceNetwork, srcErr.Kind)
	assert.True(t, domain.Retryable(err))
}
