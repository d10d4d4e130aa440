package memory

import (
	"sort"
	"strings"

	"github.com/mmcloughlin/geohash"
	"github.com/zatekoja/mechanicfinder/pkg/geo"
)

// indexPrecision is the geohash length stored per mechanic (about 3.7cm).
const indexPrecision = 12

type indexEntry struct {
	hash string
	id   string
}

// geoIndex keeps mechanic ids sorted by full-precision geohash so that every
// point inside a cell is found by one prefix range scan.
type geoIndex struct {
	entries []indexEntry
	hashes  map[string]string
}

func newGeoIndex() *geoIndex {
	return &geoIndex{hashes: make(map[string]string)}
}

// set replaces the entry for id. A nil point removes it.
func (g *geoIndex) set(id string, p *geo.Point) {
	g.remove(id)
	if p == nil {
		return
	}

	h := geohash.EncodeWithPrecision(p.Latitude, p.Longitude, indexPrecision)
	i := sort.Search(len(g.entries), func(i int) bool {
		e := g.entries[i]
		return e.hash > h || (e.hash == h && e.id >= id)
	})
	g.entries = append(g.entries, indexEntry{})
	copy(g.entries[i+1:], g.entries[i:])
	g.entries[i] = indexEntry{hash: h, id: id}
	g.hashes[id] = h
}

func (g *geoIndex) remove(id string) {
	h, ok := g.hashes[id]
	if !ok {
		return
	}
	delete(g.hashes, id)

	i := sort.Search(len(g.entries), func(i int) bool {
		e := g.entries[i]
		return e.hash > h || (e.hash == h && e.id >= id)
	})
	if i < len(g.entries) && g.entries[i].id == id {
		g.entries = append(g.entries[:i], g.entries[i+1:]...)
	}
}

// candidates returns ids of indexed points that may lie within radiusMeters
// of center. The result is a superset; callers filter by exact distance.
// ok is false when the circle cannot be covered by a 3x3 block of cells,
// in which case the caller must scan every indexed point.
func (g *geoIndex) candidates(center geo.Point, radiusMeters float64) (ids []string, ok bool) {
	box, ok := geo.Around(center, radiusMeters)
	if !ok {
		return nil, false
	}

	precision := coveringPrecision(box.Height()/2, box.Width()/2)
	if precision == 0 {
		return nil, false
	}

	cellHash := geohash.EncodeWithPrecision(center.Latitude, center.Longitude, precision)
	cell := geohash.BoundingBox(cellHash)
	cellHeight := cell.MaxLat - cell.MinLat
	cellWidth := cell.MaxLng - cell.MinLng
	// The neighbour block must not cross a pole or the antimeridian.
	if cell.MaxLat+cellHeight > 90 || cell.MinLat-cellHeight < -90 ||
		cell.MaxLng+cellWidth > 180 || cell.MinLng-cellWidth < -180 {
		return nil, false
	}

	prefixes := map[string]struct{}{cellHash: {}}
	for _, n := range geohash.Neighbors(cellHash) {
		prefixes[n] = struct{}{}
	}

	for prefix := range prefixes {
		ids = append(ids, g.scanPrefix(prefix)...)
	}
	return ids, true
}

func (g *geoIndex) scanPrefix(prefix string) []string {
	var ids []string
	i := sort.Search(len(g.entries), func(i int) bool { return g.entries[i].hash >= prefix })
	for ; i < len(g.entries) && strings.HasPrefix(g.entries[i].hash, prefix); i++ {
		ids = append(ids, g.entries[i].id)
	}
	return ids
}

// all returns every indexed id
func (g *geoIndex) all() []string {
	ids := make([]string, len(g.entries))
	for i, e := range g.entries {
		ids[i] = e.id
	}
	return ids
}

// coveringPrecision returns the longest geohash length whose cells are at
// least halfHeight tall and halfWidth wide, or 0 if no length qualifies.
func coveringPrecision(halfHeight, halfWidth float64) uint {
	for p := uint(indexPrecision); p > 0; p-- {
		h, w := cellSize(p)
		if h >= halfHeight && w >= halfWidth {
			return p
		}
	}
	return 0
}

// cellSize returns the height and width in degrees of a geohash cell.
func cellSize(precision uint) (height, width float64) {
	bits := 5 * precision
	lngBits := (bits + 1) / 2
	latBits := bits / 2
	return 180 / float64(uint64(1)<<latBits), 360 / float64(uint64(1)<<lngBits)
}
