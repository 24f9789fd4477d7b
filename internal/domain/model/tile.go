package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Cell addresses a tile by column (easting axis) and row (northing axis).
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Tile is one resolved tile of the grid. GridCell carries the absolute
// indices (negative west and south of the marco zero cell), NormalizedCell
// the zero-based indices used on the space-filling curve.
type Tile struct {
	ID              string
	Level           int
	BBox            orb.Bound
	GridCell        Cell
	NormalizedCell  Cell
	HilbertDistance int64
}

// Center is the planar midpoint of the tile.
func (t *Tile) Center() orb.Point {
	return t.BBox.Center()
}

// TileLookup pairs the resolved identifier with its assembled feature, the
// shape the coordinate lookup endpoint answers with.
type TileLookup struct {
	TileID  string           `json:"tile_id"`
	Feature *geojson.Feature `json:"feature"`
}
