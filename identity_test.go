package neogeosync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

func TestIdentityMapper_GeoIdentifierOf(t *testing.T) {
	id, ok := testMapper.GeoIdentifierOf(geoNode("n1", "G1"))
	assert.True(t, ok)
	assert.Equal(t, neogeosync.GeoIdentifier("G1"), id)

	_, ok = testMapper.GeoIdentifierOf(geoNode("n2", ""))
	assert.False(t, ok)

	numeric := &models.GraphNode{ID: "n3", Properties: map[string]interface{}{"gml:identifier": 42}}
	_, ok = testMapper.GeoIdentifierOf(numeric)
	assert.False(t, ok, "only string properties carry identifiers")
}

func TestIdentityMapper_Lookups(t *testing.T) {
	nodes := []*models.GraphNode{geoNode("n1", "G1"), geoNode("n2", ""), geoNode("n3", "G3"), geoNode("n4", "G1")}

	n, ok := testMapper.NodeForGeoIdentifier("G1", nodes)
	assert.True(t, ok)
	assert.Equal(t, "n1", n.ID, "first node wins on duplicate identifiers")

	_, ok = testMapper.NodeForGeoIdentifier("", nodes)
	assert.False(t, ok)
	_, ok = testMapper.NodeForGeoIdentifier("G9", nodes)
	assert.False(t, ok)

	n, ok = testMapper.NodeForFeatureID("ProtectedSite.G3", nodes)
	assert.True(t, ok)
	assert.Equal(t, "n3", n.ID)

	_, ok = neogeosync.IdentityMapper{IdentifierProperty: "gml:identifier"}.NodeForFeatureID("ProtectedSite.G3", nodes)
	assert.False(t, ok, "no feature id property configured")
}

func TestIdentityMapper_DesiredIdentifiers(t *testing.T) {
	nodes := []*models.GraphNode{geoNode("n1", "G2"), geoNode("n2", ""), geoNode("n3", "G1"), geoNode("n4", "G2")}
	assert.Equal(t, identifiers("G2", "G1"), testMapper.DesiredIdentifiers(nodes))
	assert.Empty(t, testMapper.DesiredIdentifiers(nil))
}
