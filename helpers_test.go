package neogeosync_test

import (
	"sync"

	"github.com/paulmach/orb"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

var testMapper = neogeosync.IdentityMapper{
	IdentifierProperty: "gml:identifier",
	FeatureIDProperty:  "gml:id",
}

// geoNode builds a node carrying a geo identifier and a feature id derived from it.
func geoNode(id, geo string) *models.GraphNode {
	props := map[string]interface{}{"name": id}
	if geo != "" {
		props["gml:identifier"] = geo
		props["gml:id"] = "ProtectedSite." + geo
	}
	return &models.GraphNode{ID: id, Labels: []string{"ProtectedSite"}, Properties: props}
}

func edge(id, source, target string) *models.Edge {
	return &models.Edge{ID: id, Source: source, Target: target, Type: "BORDERS"}
}

// staticSource is a FeatureSource answering from a fixed map and recording load requests.
type staticSource struct {
	mu        sync.Mutex
	features  map[neogeosync.GeoIdentifier]*models.Feature
	requested []neogeosync.GeoIdentifier
}

func newStaticSource(ids ...string) *staticSource {
	s := &staticSource{features: make(map[neogeosync.GeoIdentifier]*models.Feature)}
	for _, id := range ids {
		s.features[neogeosync.GeoIdentifier(id)] = &models.Feature{Identifier: id, Geometry: orb.Point{0, 0}}
	}
	return s
}

func (s *staticSource) GetOrLoad(ids []neogeosync.GeoIdentifier, _ string, _ neogeosync.LoadedFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.features[id]; !ok {
			s.requested = append(s.requested, id)
		}
	}
}

func (s *staticSource) Get(id neogeosync.GeoIdentifier) (*models.Feature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.features[id]
	return f, ok
}

func (s *staticSource) Store(id neogeosync.GeoIdentifier, f *models.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[id] = f
}

func (s *staticSource) requests() []neogeosync.GeoIdentifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]neogeosync.GeoIdentifier(nil), s.requested...)
}

func identifiers(ids ...string) []neogeosync.GeoIdentifier {
	out := make([]neogeosync.GeoIdentifier, len(ids))
	for i, id := range ids {
		out[i] = neogeosync.GeoIdentifier(id)
	}
	return out
}
