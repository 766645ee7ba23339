package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sapfetch/sapfetch/pkg/sap"
)

// buildingAliases rewrites the portal's verbose building names to the
// display names students actually use. The first matching prefix wins.
var buildingAliases = []struct{ prefix, name string }{
	{"בנין אולמן", "אולמן"},
	{"בנין בורוביץ הנדסה אזרחית", "בורוביץ הנדסה אזרחית"},
	{"בנין דן קהאן", "דן קהאן"},
	{"בנין הנ' אוירונאוטית", "הנ' אוירונאוטית"},
	{"בנין זיסאפל", "זיסאפל"},
	{"בנין להנדסת חמרים", "הנדסת חמרים"},
	{"בנין ליידי דייוס", "ליידי דייוס"},
	{"בנין למדעי המחשב", "מדעי המחשב"},
	{"בנין ע'ש אמדו", "אמדו"},
	{"בנין ע'ש טאוב", "טאוב"},
	{"בנין ע'ש סגו", "סגו"},
	{"בנין פישבך", "פישבך"},
	{"בנין פקולטה לרפואה", "פקולטה לרפואה"},
	{"בניין ננו-אלקטרוניקה", "ננו-אלקטרוניקה"},
	{"בניין ספורט", "ספורט"},
}

var collapseSpaces = regexp.MustCompile(`\s+`)

type buildingKey struct {
	year, semester int
	roomID         string
}

// BuildingResolver resolves room identifiers to normalized building
// names. Lookups are memoized for the lifetime of the resolver; the key
// space is bounded by the rooms in use during one term, so the cache
// never needs eviction. Not safe for concurrent use.
type BuildingResolver struct {
	source sap.QuerySource
	cache  map[buildingKey]string
}

func NewBuildingResolver(source sap.QuerySource) *BuildingResolver {
	return &BuildingResolver{source: source, cache: make(map[buildingKey]string)}
}

// Resolve returns the building name for a room, or "" when the room is
// unknown or the lookup fails. It never reports an error.
func (r *BuildingResolver) Resolve(year, semester int, roomID string) string {
	if roomID == "" {
		return ""
	}
	key := buildingKey{year, semester, roomID}
	if name, ok := r.cache[key]; ok {
		return name
	}
	name := r.lookup(year, semester, roomID)
	r.cache[key] = name
	return name
}

func (r *BuildingResolver) lookup(year, semester int, roomID string) string {
	params := url.Values{}
	params.Set("sap-client", "700")
	params.Set("$select", "Building")
	query := fmt.Sprintf("GObjectSet(Otjid='%s',Peryr='%d',Perid='%d')?%s",
		url.QueryEscape(roomID), year, semester, params.Encode())

	raw, err := r.source.Send(query, false)
	if err != nil {
		return ""
	}
	var payload struct {
		D struct {
			Building string `json:"Building"`
		} `json:"d"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	building := collapseSpaces.ReplaceAllString(strings.TrimSpace(payload.D.Building), " ")
	if building == "" {
		return ""
	}
	for _, alias := range buildingAliases {
		if strings.HasPrefix(building, alias.prefix) {
			return alias.name + building[len(alias.prefix):]
		}
	}
	return building
}
