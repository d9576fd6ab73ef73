package neogeosync

import "github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"

// FeatureSource is the part of the feature cache the reconcilers read through.
type FeatureSource interface {
	GetOrLoad(ids []GeoIdentifier, target string, onLoaded LoadedFunc)
	Get(id GeoIdentifier) (*models.Feature, bool)
	Store(id GeoIdentifier, feature *models.Feature)
}

var _ FeatureSource = (*FeatureCache)(nil)

// VisibleSet is the map's working set of displayed, non-highlighted features.
// It is a projection of the graph's node set onto the cache and is only mutated by
// VectorLayerReconciler.
type VisibleSet struct {
	byID     map[GeoIdentifier]*models.Feature
	order    []GeoIdentifier
	features []*models.Feature
}

// NewVisibleSet returns an empty set.
func NewVisibleSet() *VisibleSet {
	return &VisibleSet{byID: make(map[GeoIdentifier]*models.Feature)}
}

// Has reports whether id is displayed.
func (s *VisibleSet) Has(id GeoIdentifier) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of displayed features.
func (s *VisibleSet) Len() int {
	return len(s.order)
}

// Identifiers returns the displayed identifiers in insertion order.
func (s *VisibleSet) Identifiers() []GeoIdentifier {
	return append([]GeoIdentifier(nil), s.order...)
}

// Features returns the displayed features in insertion order.
func (s *VisibleSet) Features() []*models.Feature {
	return append([]*models.Feature(nil), s.features...)
}

func (s *VisibleSet) add(id GeoIdentifier, f *models.Feature) {
	if s.Has(id) {
		return
	}
	s.byID[id] = f
	s.order = append(s.order, id)
	s.features = append(s.features, f)
}

func (s *VisibleSet) clear() {
	s.byID = make(map[GeoIdentifier]*models.Feature)
	s.order = nil
	s.features = nil
}

// VectorSyncResult describes what one Sync pass changed.
type VectorSyncResult struct {
	// Desired is the number of distinct identifiers carried by the graph's nodes.
	Desired int
	// Removed lists displayed identifiers no longer carried by any node.
	Removed []GeoIdentifier
	// Added lists identifiers put into the set during this pass, including
	// retained ones re-added after a bulk clear.
	Added []GeoIdentifier
	// Cleared is set when the pass rebuilt the set from scratch.
	Cleared bool
}

// Changed reports whether the pass modified the set.
func (r VectorSyncResult) Changed() bool {
	return r.Cleared || len(r.Added) > 0
}

// VectorLayerReconciler keeps a VisibleSet equal to the geo identifiers of the graph's
// nodes that the cache has resolved.
type VectorLayerReconciler struct {
	Mapper IdentityMapper
	// Target is the map's reference system; features are loaded into it.
	Target string
	// OnLoaded is handed to the cache for identifiers this pass starts loading.
	// It should schedule another Sync rather than touch the set directly.
	OnLoaded LoadedFunc
}

// Sync reconciles visible against nodes.
//
// Missing features are requested from cache as a side effect; they show up on a later
// pass once OnLoaded fired. When anything has to be removed the whole set is cleared
// and every desired feature the cache holds is re-added in the same pass, so retained
// entries never disappear and nothing is added twice.
func (r VectorLayerReconciler) Sync(nodes []*models.GraphNode, cache FeatureSource, visible *VisibleSet) VectorSyncResult {
	desired := r.Mapper.DesiredIdentifiers(nodes)
	cache.GetOrLoad(desired, r.Target, r.OnLoaded)

	want := make(map[GeoIdentifier]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
	}

	res := VectorSyncResult{Desired: len(desired)}
	for _, id := range visible.order {
		if _, ok := want[id]; !ok {
			res.Removed = append(res.Removed, id)
		}
	}
	if len(res.Removed) > 0 {
		visible.clear()
		res.Cleared = true
	}

	for _, id := range desired {
		if visible.Has(id) {
			continue
		}
		if f, ok := cache.Get(id); ok {
			visible.add(id, f)
			res.Added = append(res.Added, id)
		}
	}
	return res
}

// Clear empties visible, e.g. when the map stops following the graph.
func (r VectorLayerReconciler) Clear(visible *VisibleSet) {
	visible.clear()
}
