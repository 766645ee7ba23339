package sap

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleBatchBody = "--batch_1d12-afbf-e3c7\r\n" +
	"Content-Type: application/http\r\n" +
	"Content-Transfer-Encoding: binary\r\n" +
	"\r\n" +
	"HTTP/1.1 200 OK\r\n" +
	"Content-Type: application/json\r\n" +
	"content-length: 27\r\n" +
	"\r\n" +
	`{"d":{"results":[{"x":1}]}}` + "\r\n" +
	"--batch_1d12-afbf-e3c7--\r\n"

func TestUnwrapBatch(t *testing.T) {
	payload, err := unwrapBatch(sampleBatchBody)
	require.NoError(t, err)
	require.JSONEq(t, `{"d":{"results":[{"x":1}]}}`, string(payload))
}

func TestUnwrapBatchMalformed(t *testing.T) {
	_, err := unwrapBatch("not a batch response")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestIsEmptyResult(t *testing.T) {
	require.True(t, isEmptyResult([]byte(`{"d": {"results": []}}`)))
	require.False(t, isEmptyResult([]byte(`{"d":{"results":[{"x":1}]}}`)))
	require.False(t, isEmptyResult([]byte(`{"d":{"Building":"טאוב"}}`)))
}

func TestBatchEnvelope(t *testing.T) {
	envelope := batchEnvelope("SemesterSet?sap-client=700")
	require.Contains(t, envelope, "GET SemesterSet?sap-client=700 HTTP/1.1\r\n")
	require.True(t, strings.HasSuffix(envelope, "--"+batchBoundary+"--\r\n"))
	// every line break must be CRLF
	require.NotContains(t, strings.ReplaceAll(envelope, "\r\n", ""), "\n")
}

func newTestServer(t *testing.T, status int, body string) *Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	client := NewClient()
	client.url = server.URL
	return client
}

func TestClientSend(t *testing.T) {
	client := newTestServer(t, http.StatusAccepted, sampleBatchBody)

	payload, err := client.Send("SmObjectSet?sap-client=700", false)
	require.NoError(t, err)
	require.JSONEq(t, `{"d":{"results":[{"x":1}]}}`, string(payload))
}

func TestClientSendBadStatus(t *testing.T) {
	client := newTestServer(t, http.StatusForbidden, "denied")

	_, err := client.Send("SmObjectSet?sap-client=700", false)
	var badStatus BadStatusError
	require.ErrorAs(t, err, &badStatus)
	require.Equal(t, http.StatusForbidden, badStatus.Status)
}

func TestClientSendEmptyResult(t *testing.T) {
	body := strings.Replace(sampleBatchBody, `{"d":{"results":[{"x":1}]}}`, `{"d":{"results":[]}}`, 1)

	client := newTestServer(t, http.StatusAccepted, body)
	_, err := client.Send("SmObjectSet?sap-client=700", false)
	require.ErrorIs(t, err, ErrEmptyResult)

	// the same payload is fine when the caller allows it
	client = newTestServer(t, http.StatusAccepted, body)
	payload, err := client.Send("SmObjectSet?sap-client=700", true)
	require.NoError(t, err)
	require.JSONEq(t, `{"d":{"results":[]}}`, string(payload))
}
