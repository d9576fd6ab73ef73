package neogeosync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/mocks"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

type capturedQuery struct {
	query  string
	params map[string]any
}

func (c *capturedQuery) String() string {
	return rendered(c.query, c.params)
}

// expectRun expects one Run call, records it and answers with result.
func expectRun(runner *mocks.MockDBRunner, result *neo4j.EagerResult, err error) *capturedQuery {
	captured := &capturedQuery{}
	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q string, p map[string]any) (*neo4j.EagerResult, error) {
			captured.query, captured.params = q, p
			return result, err
		})
	return captured
}

func newSiteRepo(t *testing.T) (*neogeosync.GeoRepository[protectedSite], *mocks.MockDBRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockDBRunner(ctrl)
	repo, err := neogeosync.NewGeoRepository[protectedSite](runner)
	require.NoError(t, err)
	return repo, runner
}

func TestGeoRepository_Save(t *testing.T) {
	repo, runner := newSiteRepo(t)
	captured := expectRun(runner, eager([]string{"n"}), nil)

	site := &protectedSite{ID: "https://example.org/site/7", FID: "ProtectedSite.7", Name: "Moorland", MinX: 1.5}
	require.NoError(t, repo.Save(context.Background(), site))

	assert.Contains(t, captured.query, "MERGE")
	assert.Contains(t, captured.query, "ProtectedSite")
	all := captured.String()
	assert.Contains(t, all, "https://example.org/site/7")
	assert.Contains(t, all, "Moorland")
	assert.Contains(t, all, "ProtectedSite.7")
}

func TestGeoRepository_SaveWithoutIdentifier(t *testing.T) {
	repo, _ := newSiteRepo(t)
	err := repo.Save(context.Background(), &protectedSite{Name: "anonymous"})
	assert.ErrorIs(t, err, neogeosync.ErrInvalidIdentifier)
}

func TestGeoRepository_SaveQueryFailure(t *testing.T) {
	repo, runner := newSiteRepo(t)
	boom := errors.New("write conflict")
	expectRun(runner, nil, boom)

	err := repo.Save(context.Background(), &protectedSite{ID: "G1"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), neogeosync.ErrQueryFailed.Error())
}

func TestGeoRepository_FindByGeoIdentifier(t *testing.T) {
	repo, runner := newSiteRepo(t)
	node := dbNode("4:x:1", map[string]any{
		"gml:identifier": "G1",
		"gml:id":         "ProtectedSite.1",
		"name":           "Heath",
		"x_min":          "1.5",
		"y_min":          int64(2),
		"x_max":          3.25,
		"y_max":          float64(4),
		"area":           int64(1200),
	})
	captured := expectRun(runner, eager([]string{"n"}, []any{node}), nil)

	site, err := repo.FindByGeoIdentifier(context.Background(), "G1")
	require.NoError(t, err)
	assert.Contains(t, captured.String(), "G1")

	assert.Equal(t, "G1", site.ID)
	assert.Equal(t, "ProtectedSite.1", site.FID)
	assert.Equal(t, "Heath", site.Name)
	assert.Equal(t, int64(1200), site.Area)
	assert.Equal(t, 1.5, site.MinX)
	assert.Equal(t, 2.0, site.MinY)
	assert.Equal(t, 3.25, site.MaxX)
	assert.Equal(t, 4.0, site.MaxY)
}

func TestGeoRepository_FindByGeoIdentifierNotFound(t *testing.T) {
	repo, runner := newSiteRepo(t)
	expectRun(runner, eager([]string{"n"}), nil)

	site, err := repo.FindByGeoIdentifier(context.Background(), "missing")
	assert.Nil(t, site)
	assert.ErrorIs(t, err, neogeosync.ErrNotFound)
}

func TestGeoRepository_FindByGeoIdentifierWrongReturn(t *testing.T) {
	repo, runner := newSiteRepo(t)
	expectRun(runner, eager([]string{"n"}, []any{"not a node"}), nil)

	_, err := repo.FindByGeoIdentifier(context.Background(), "G1")
	assert.Error(t, err)
}

func TestGeoRepository_FindInBounds(t *testing.T) {
	repo, runner := newSiteRepo(t)
	captured := expectRun(runner, eager([]string{"n"},
		[]any{dbNode("a", map[string]any{"gml:identifier": "G1", "x_min": 0.0, "y_min": 0.0, "x_max": 2.0, "y_max": 2.0})},
		[]any{dbNode("b", map[string]any{"gml:identifier": "G2", "x_min": 1.0, "y_min": 1.0, "x_max": 5.0, "y_max": 5.0})},
	), nil)

	sites, err := repo.FindInBounds(context.Background(), models.BBox{MinX: 1, MinY: 1, MaxX: 3, MaxY: 3})
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "G1", sites[0].ID)
	assert.Equal(t, "G2", sites[1].ID)
	assert.Equal(t, 5.0, sites[1].MaxX)

	assert.Contains(t, captured.query, "MATCH (n:`ProtectedSite`)")
	assert.Contains(t, captured.query, "toFloat(n.`x_max`) >= $minX")
	assert.Equal(t, map[string]any{"minX": 1.0, "minY": 1.0, "maxX": 3.0, "maxY": 3.0}, captured.params)
}

func TestGeoRepository_FindInBoundsInvalid(t *testing.T) {
	repo, _ := newSiteRepo(t)
	_, err := repo.FindInBounds(context.Background(), models.BBox{MinX: 3, MaxX: 1})
	assert.ErrorIs(t, err, neogeosync.ErrInvalidBounds)
}

func TestGeoRepository_SaveBounds(t *testing.T) {
	repo, runner := newSiteRepo(t)
	captured := expectRun(runner, eager([]string{"n"}, []any{dbNode("a", nil)}), nil)

	err := repo.SaveBounds(context.Background(), "G1", models.BBox{MinX: 1.25, MinY: 2.5, MaxX: 3.75, MaxY: 4.5})
	require.NoError(t, err)

	assert.Contains(t, captured.query, "SET")
	assert.Contains(t, captured.query, "`gml:identifier`")
	assert.NotContains(t, captured.query, "`gml:id`:")
	for _, prop := range []string{"x_min", "y_min", "x_max", "y_max"} {
		assert.Contains(t, captured.query, prop)
	}
	all := captured.String()
	for _, v := range []string{"G1", "1.25", "2.5", "3.75", "4.5"} {
		assert.Contains(t, all, v)
	}
}

func TestGeoRepository_SaveBoundsErrors(t *testing.T) {
	t.Run("invalid bounds", func(t *testing.T) {
		repo, _ := newSiteRepo(t)
		err := repo.SaveBounds(context.Background(), "G1", models.BBox{MinX: 2, MaxX: 1})
		assert.ErrorIs(t, err, neogeosync.ErrInvalidBounds)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		repo, runner := newSiteRepo(t)
		expectRun(runner, eager([]string{"n"}), nil)
		err := repo.SaveBounds(context.Background(), "missing", models.BBox{MaxX: 1, MaxY: 1})
		assert.ErrorIs(t, err, neogeosync.ErrNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		repo, runner := newSiteRepo(t)
		boom := errors.New("timeout")
		expectRun(runner, nil, boom)
		err := repo.SaveBounds(context.Background(), "G1", models.BBox{MaxX: 1, MaxY: 1})
		assert.ErrorIs(t, err, boom)
	})
}

func TestGeoRepository_SaveFeatureBounds(t *testing.T) {
	repo, runner := newSiteRepo(t)
	captured := expectRun(runner, eager([]string{"n"}, []any{dbNode("a", nil)}), nil)

	feature := &models.Feature{
		Identifier: "G9",
		Geometry:   orb.Polygon{{{6, 50}, {8, 50}, {8, 51.5}, {6, 51.5}, {6, 50}}},
	}
	b, err := repo.SaveFeatureBounds(context.Background(), feature)
	require.NoError(t, err)
	assert.Equal(t, models.BBox{MinX: 6, MinY: 50, MaxX: 8, MaxY: 51.5}, b)
	assert.Contains(t, captured.String(), "G9")
	assert.Contains(t, captured.String(), "51.5")
}

func TestGeoRepository_SaveFeatureBoundsInvalid(t *testing.T) {
	repo, _ := newSiteRepo(t)
	ctx := context.Background()

	_, err := repo.SaveFeatureBounds(ctx, nil)
	assert.ErrorIs(t, err, neogeosync.ErrInvalidIdentifier)

	_, err = repo.SaveFeatureBounds(ctx, &models.Feature{Geometry: orb.Point{1, 1}})
	assert.ErrorIs(t, err, neogeosync.ErrInvalidIdentifier)

	_, err = repo.SaveFeatureBounds(ctx, &models.Feature{Identifier: "G1"})
	assert.ErrorIs(t, err, neogeosync.ErrInvalidBounds)
}

func TestGeoRepository_Delete(t *testing.T) {
	repo, runner := newSiteRepo(t)
	captured := expectRun(runner, eager(nil), nil)

	require.NoError(t, repo.Delete(context.Background(), "G1"))
	assert.Contains(t, captured.query, "DETACH DELETE")
	assert.Contains(t, captured.String(), "G1")
}

func TestGeoRepository_CountInGraph(t *testing.T) {
	repo, runner := newSiteRepo(t)
	runner.EXPECT().
		Run(gomock.Any(), "MATCH (n:`ProtectedSite`) RETURN count(n) AS total", gomock.Nil()).
		Return(eager([]string{"total"}, []any{int64(3)}), nil)

	n, err := repo.CountInGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
