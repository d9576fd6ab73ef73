package commands

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// bboxResult is one line of bbox output.
type bboxResult struct {
	id     neogeosync.GeoIdentifier
	bounds models.BBox
	err    error
}

func (c *CLI) newBBoxCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "bbox <identifier>...",
		Short: "Fetch features and write their bounding boxes onto the matching nodes",
		Long: "For every geo identifier, the feature is fetched from its URL, its bounding box is\n" +
			"computed in the bounds.crs reference system (the feature's own when unset) and stored on\n" +
			"the node carrying the identifier, so that bounds queries can find it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fetcher := c.backend.NewFetcher(c.cfg, c.logger)

			var gm *neogeosync.GraphManager
			if !dryRun {
				m, closeFn, err := c.openManager(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = closeFn(ctx) }()
				gm = m
			}

			results := c.writeBounds(ctx, fetcher, gm, args)

			var failed int
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.err != nil {
					failed++
					_, _ = fmt.Fprintf(out, "%s\terror\n", r.id)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s\t%s\n", r.id, r.bounds.String())
			}
			if failed > 0 {
				return zerr.With(zerr.With(zerr.New("bounding box write-back failed"), "failed", failed), "total", len(results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the bounding boxes without writing them")
	return cmd
}

// writeBounds processes ids with at most features.parallelism requests in flight.
// A failing identifier is logged and reported; it does not stop the others. gm may
// be nil for a dry run.
func (c *CLI) writeBounds(ctx context.Context, fetcher neogeosync.FeatureFetcher, gm *neogeosync.GraphManager, ids []string) []bboxResult {
	results := make([]bboxResult, len(ids))
	var written atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Features.Parallelism)
	for i, raw := range ids {
		id := neogeosync.GeoIdentifier(raw)
		g.Go(func() error {
			results[i] = bboxResult{id: id}
			b, err := c.boundsOf(gctx, fetcher, id)
			if err == nil && gm != nil {
				err = gm.SaveBounds(gctx, c.cfg.QueryBuilder(), c.cfg.Mapper(), id, b)
			}
			if err != nil {
				zerr.Log(gctx, c.logger, err)
				results[i].err = err
				return nil
			}
			results[i].bounds = b
			written.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Info("bounding boxes processed", "total", len(ids), "ok", written.Load())
	return results
}

func (c *CLI) boundsOf(ctx context.Context, fetcher neogeosync.FeatureFetcher, id neogeosync.GeoIdentifier) (models.BBox, error) {
	feature, err := fetcher.FetchFeature(ctx, id)
	if err != nil {
		return models.BBox{}, err
	}
	if target := c.cfg.Bounds.CRS; target != "" && feature.CRS != "" && feature.Geometry != nil {
		g, err := c.reproj.Reproject(feature.Geometry, feature.CRS, target)
		if err != nil {
			return models.BBox{}, zerr.With(err, "identifier", string(id))
		}
		reprojected := *feature
		reprojected.Geometry, reprojected.CRS = g, target
		feature = &reprojected
	}
	b, ok := feature.BBox()
	if !ok {
		return models.BBox{}, zerr.With(zerr.Wrap(neogeosync.ErrInvalidBounds, "feature has no geometry"), "identifier", string(id))
	}
	return b, nil
}
