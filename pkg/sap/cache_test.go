package sap

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingSource struct {
	response json.RawMessage
	err      error
	calls    int
}

func (s *countingSource) Send(query string, allowEmpty bool) (json.RawMessage, error) {
	s.calls++
	return s.response, s.err
}

func TestCacheRoundTrip(t *testing.T) {
	upstream := &countingSource{response: json.RawMessage(`{"d":{"results":[{"Otjid":"SM1"}]}}`)}
	cache := NewCache(t.TempDir(), upstream)

	first, err := cache.Send("SmObjectSet?sap-client=700", false)
	require.NoError(t, err)
	second, err := cache.Send("SmObjectSet?sap-client=700", false)
	require.NoError(t, err)

	require.Equal(t, 1, upstream.calls)
	require.Equal(t, []byte(first), []byte(second))
}

func TestCacheMissesDistinctQueries(t *testing.T) {
	upstream := &countingSource{response: json.RawMessage(`{"d":{"results":[{}]}}`)}
	cache := NewCache(t.TempDir(), upstream)

	_, err := cache.Send("SemesterSet?sap-client=700", false)
	require.NoError(t, err)
	_, err = cache.Send("SmObjectSet?sap-client=700", false)
	require.NoError(t, err)

	require.Equal(t, 2, upstream.calls)
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	upstream := &countingSource{err: errors.New("boom")}
	dir := t.TempDir()
	cache := NewCache(dir, upstream)

	_, err := cache.Send("SmObjectSet?sap-client=700", false)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCacheFileName(t *testing.T) {
	cache := NewCache("/tmp/cache", nil)

	// unsafe characters are replaced and the name is truncated, with a
	// hash suffix so truncated keys can't collide
	long := "SmObjectSet?sap-client=700&$filter=" + strings.Repeat("a", 100)
	name := filepath.Base(cache.file(long))
	require.NotContains(t, name, "?")
	require.NotContains(t, name, "*")
	require.Len(t, name, 64+1+8+len(".json"))

	other := filepath.Base(cache.file(long + "b"))
	require.NotEqual(t, name, other)
	require.Equal(t, name[:64], other[:64])
}
