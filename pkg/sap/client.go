package sap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const batchURL = "https://portalex.technion.ac.il/sap/opu/odata/sap/Z_CM_EV_CDIR_DATA_SRV/$batch?sap-client=700"

const batchBoundary = "batch_1d12-afbf-e3c7"

// QuerySource issues a single OData query against the catalog service and
// returns the decoded JSON payload. When allowEmpty is false, a canonical
// empty result set is reported as ErrEmptyResult.
type QuerySource interface {
	Send(query string, allowEmpty bool) (json.RawMessage, error)
}

// Client sends queries to the SAP portal wrapped in a multipart/mixed
// batch envelope, one inner GET per call.
type Client struct {
	http *resty.Client
	url  string
}

func NewClient() *Client {
	client := resty.New().
		SetTimeout(60 * time.Second).
		SetHeaders(map[string]string{
			"Content-Type":             "multipart/mixed;boundary=" + batchBoundary,
			"Accept":                   "multipart/mixed",
			"Accept-Language":          "he",
			"DataServiceVersion":       "2.0",
			"MaxDataServiceVersion":    "2.0",
			"sap-contextid-accept":     "header",
			"sap-cancel-on-close":      "true",
			"X-Requested-With":         "X",
			"Origin":                   "https://portalex.technion.ac.il",
			"Referer":                  "https://portalex.technion.ac.il/ovv/",
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		})
	return &Client{http: client, url: batchURL}
}

func (c *Client) Send(query string, allowEmpty bool) (json.RawMessage, error) {
	res, err := c.http.R().
		SetBody(batchEnvelope(query)).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to send query: %v", err)
	}
	if res.StatusCode() != http.StatusAccepted {
		return nil, BadStatusError{Status: res.StatusCode()}
	}

	payload, err := unwrapBatch(res.String())
	if err != nil {
		return nil, err
	}
	if !allowEmpty && isEmptyResult(payload) {
		return nil, ErrEmptyResult
	}
	return payload, nil
}

// batchEnvelope wraps a single GET request in the multipart body the
// $batch endpoint expects. Lines must be CRLF-terminated.
func batchEnvelope(query string) string {
	body := fmt.Sprintf(`
--%[1]s
Content-Type: application/http
Content-Transfer-Encoding: binary

GET %[2]s HTTP/1.1
sap-cancel-on-close: true
X-Requested-With: X
sap-contextid-accept: header
Accept: application/json
Accept-Language: he
DataServiceVersion: 2.0
MaxDataServiceVersion: 2.0


--%[1]s--
`, batchBoundary, query)
	return strings.ReplaceAll(body, "\n", "\r\n")
}

// unwrapBatch extracts the JSON payload from a multipart batch response.
// The body splits on blank lines into exactly three chunks: the outer
// headers, the inner response headers, and the inner body whose first
// line is the JSON document.
func unwrapBatch(body string) (json.RawMessage, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	chunks := strings.Split(normalized, "\n\n")
	if len(chunks) != 3 {
		return nil, fmt.Errorf("%w: got %d chunks", ErrMalformedResponse, len(chunks))
	}
	payload, _, _ := strings.Cut(chunks[2], "\n")
	if !json.Valid([]byte(payload)) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedResponse)
	}
	return json.RawMessage(payload), nil
}

func isEmptyResult(payload json.RawMessage) bool {
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return false
	}
	return compact.String() == `{"d":{"results":[]}}`
}
