package sap

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Cache memoizes query responses on disk. Wrap a QuerySource with it and
// callers stay unaware whether caching is active; without a cache
// directory configured, construct the Client directly instead.
type Cache struct {
	dir    string
	source QuerySource
}

func NewCache(dir string, source QuerySource) *Cache {
	return &Cache{dir: dir, source: source}
}

func (c *Cache) Send(query string, allowEmpty bool) (json.RawMessage, error) {
	path := c.file(query)
	if data, err := os.ReadFile(path); err == nil {
		return json.RawMessage(data), nil
	}

	result, err := c.source.Send(query, allowEmpty)
	if err != nil {
		return nil, err
	}

	// The directory is created lazily on the first write; a failed write
	// only costs us a cache miss next time.
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		log.Println("Warning: unable to create cache directory:", err)
		return result, nil
	}
	if err := os.WriteFile(path, result, 0644); err != nil {
		log.Println("Warning: unable to write cache file:", err)
	}
	return result, nil
}

// file derives the cache file name from the query: a filesystem-safe
// truncation of the query text plus a short content hash, so queries
// sharing the same first 64 characters don't collide.
func (c *Cache) file(query string) string {
	name := unsafeChars.ReplaceAllString(query, "_")
	if len(name) > 64 {
		name = name[:64]
	}
	sum := sha256.Sum256([]byte(query))
	hash := hex.EncodeToString(sum[:])[:8]
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.json", name, hash))
}
