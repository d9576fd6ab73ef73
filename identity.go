package neogeosync

import "github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"

// IdentityMapper converts between graph-node identity and geographic-feature identity.
// A node is joined to a feature through a string property holding the feature's
// GeoIdentifier; map clicks report the shorter feature id, which nodes carry as well.
//
// Absent results are ordinary outcomes (the node has no geo property, or nothing
// matches), never errors.
type IdentityMapper struct {
	// IdentifierProperty holds the GeoIdentifier (gml:identifier).
	IdentifierProperty string
	// FeatureIDProperty holds the feature id reported on map clicks (gml:id).
	FeatureIDProperty string
}

// GeoIdentifierOf returns the GeoIdentifier stored on node, if any.
func (m IdentityMapper) GeoIdentifierOf(node *models.GraphNode) (GeoIdentifier, bool) {
	s, ok := node.StringProperty(m.IdentifierProperty)
	return GeoIdentifier(s), ok
}

// NodeForGeoIdentifier scans nodes for the first one carrying id.
// A linear scan is fine here since node sets are bounded by the viewport.
func (m IdentityMapper) NodeForGeoIdentifier(id GeoIdentifier, nodes []*models.GraphNode) (*models.GraphNode, bool) {
	if id == "" {
		return nil, false
	}
	for _, n := range nodes {
		if got, ok := m.GeoIdentifierOf(n); ok && got == id {
			return n, true
		}
	}
	return nil, false
}

// NodeForFeatureID scans nodes for the first one whose feature id property equals fid.
func (m IdentityMapper) NodeForFeatureID(fid string, nodes []*models.GraphNode) (*models.GraphNode, bool) {
	if fid == "" || m.FeatureIDProperty == "" {
		return nil, false
	}
	for _, n := range nodes {
		if got, ok := n.StringProperty(m.FeatureIDProperty); ok && got == fid {
			return n, true
		}
	}
	return nil, false
}

// DesiredIdentifiers returns the distinct GeoIdentifiers of nodes in first-seen order.
func (m IdentityMapper) DesiredIdentifiers(nodes []*models.GraphNode) []GeoIdentifier {
	seen := make(map[GeoIdentifier]struct{}, len(nodes))
	ids := make([]GeoIdentifier, 0, len(nodes))
	for _, n := range nodes {
		id, ok := m.GeoIdentifierOf(n)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
