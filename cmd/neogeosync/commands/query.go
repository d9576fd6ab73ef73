package commands

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

func (c *CLI) newQueryCmd() *cobra.Command {
	var (
		bbox  string
		label string
		zoom  float64
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the graph of nodes whose bounding box overlaps a viewport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bounds, err := parseBBox(bbox)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("zoom") && zoom < c.cfg.Sync.DetailZoom {
				return zerr.With(zerr.With(zerr.New("zoom is below the detail level"), "zoom", zoom),
					"detail_zoom", c.cfg.Sync.DetailZoom)
			}

			query, params, err := c.cfg.QueryBuilder().Build(bounds, label)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			gm, closeFn, err := c.openManager(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn(ctx) }()

			graph, err := gm.RunGraph(ctx, query, params)
			if err != nil {
				return err
			}
			c.logger.Info("bounds query finished", "bounds", bounds.String(),
				"nodes", len(graph.Nodes), "relationships", len(graph.Edges))

			out, err := json.MarshalIndent(graph, "", "  ")
			if err != nil {
				return zerr.Wrap(err, "could not encode graph")
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}

	cmd.Flags().StringVar(&bbox, "bbox", "", "Viewport as minX,minY,maxX,maxY")
	cmd.Flags().StringVar(&label, "label", "", "Restrict matched nodes to a label (overrides bounds.label)")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "Map zoom; queries below sync.detail_zoom are refused")
	_ = cmd.MarkFlagRequired("bbox")
	return cmd
}

// parseBBox reads "minX,minY,maxX,maxY".
func parseBBox(s string) (models.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.BBox{}, zerr.With(zerr.Wrap(neogeosync.ErrInvalidBounds, "expected minX,minY,maxX,maxY"), "bbox", s)
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.BBox{}, zerr.With(zerr.Wrap(neogeosync.ErrInvalidBounds, "coordinate is not a number"), "bbox", s)
		}
		vals[i] = v
	}
	b := models.BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if !b.Valid() {
		return models.BBox{}, zerr.With(zerr.Wrap(neogeosync.ErrInvalidBounds, "min exceeds max"), "bbox", s)
	}
	return b, nil
}
