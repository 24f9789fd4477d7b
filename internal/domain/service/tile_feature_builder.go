package service

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/model"
	"github.com/Gabrielunor/coordinator-backend/internal/domain/repository"
)

// TileFeatureBuilder turns resolved tiles into GeoJSON features. Geometry is
// reprojected corner by corner because straight planar edges are not
// straight in lon/lat space.
type TileFeatureBuilder struct {
	projector repository.CoordinateProjector
}

// NewTileFeatureBuilder creates a builder on top of a projector.
func NewTileFeatureBuilder(projector repository.CoordinateProjector) *TileFeatureBuilder {
	return &TileFeatureBuilder{projector: projector}
}

// Build assembles the GeoJSON feature for a tile: a lon/lat polygon of the
// tile footprint plus the full set of index properties.
func (b *TileFeatureBuilder) Build(tile *model.Tile) (*geojson.Feature, error) {
	corners := [4]orb.Point{
		{tile.BBox.Min.X(), tile.BBox.Min.Y()},
		{tile.BBox.Max.X(), tile.BBox.Min.Y()},
		{tile.BBox.Max.X(), tile.BBox.Max.Y()},
		{tile.BBox.Min.X(), tile.BBox.Max.Y()},
	}
	ring := make(orb.Ring, 0, len(corners)+1)
	for _, corner := range corners {
		lon, lat, err := b.projector.PlanarToGlobal(corner.X(), corner.Y())
		if err != nil {
			return nil, fmt.Errorf("reproject corner of tile %s: %w", tile.ID, err)
		}
		ring = append(ring, orb.Point{lon, lat})
	}
	ring = append(ring, ring[0])

	center := tile.Center()
	centerLon, centerLat, err := b.projector.PlanarToGlobal(center.X(), center.Y())
	if err != nil {
		return nil, fmt.Errorf("reproject center of tile %s: %w", tile.ID, err)
	}

	feature := geojson.NewFeature(orb.Polygon{ring})
	feature.ID = tile.ID
	feature.Properties = geojson.Properties{
		"id":         tile.ID,
		"level":      tile.Level,
		"center_x":   center.X(),
		"center_y":   center.Y(),
		"center_lon": centerLon,
		"center_lat": centerLat,
		"tile_size":  tile.BBox.Max.X() - tile.BBox.Min.X(),
		"bbox": map[string]float64{
			"x_min": tile.BBox.Min.X(),
			"y_min": tile.BBox.Min.Y(),
			"x_max": tile.BBox.Max.X(),
			"y_max": tile.BBox.Max.Y(),
		},
		"grid_cell": map[string]int{
			"col": tile.GridCell.Col,
			"row": tile.GridCell.Row,
		},
		"normalized_cell": map[string]int{
			"col": tile.NormalizedCell.Col,
			"row": tile.NormalizedCell.Row,
		},
		"hilbert_distance": tile.HilbertDistance,
	}
	return feature, nil
}
