package model

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/paulmach/orb"
)

// TileSizeForLevel returns the tile edge length in meters for a resolution
// level. Level 0 starts at BaseTileSize and every level halves it until the
// edge would drop below MinTileSize; from there on all deeper levels return
// MinTileSize, so the function is not strictly decreasing past that point.
func TileSizeForLevel(level int) (float64, error) {
	if level < 0 {
		return 0, fmt.Errorf("%w: level %d", ErrInvalidLevel, level)
	}
	size := math.Ldexp(BaseTileSize, -level)
	if size < MinTileSize {
		return MinTileSize, nil
	}
	return size, nil
}

// TileGrid is the per-level grid geometry: the tile edge and the inclusive
// cell-index bounds that cover the area rectangle. It is a pure function of
// the level and the grid constants, computed once per level and then shared
// read-only.
type TileGrid struct {
	Level    int
	TileSize float64
	MinCol   int
	MinRow   int
	MaxCol   int
	MaxRow   int
}

// NewTileGrid computes the grid for a level. The grid origin is shifted by
// half a tile so the marco zero marker sits at the center of cell (0,0), then
// the minimal cell range covering the area rectangle is taken. Tiles on the
// max edges may stick out past the area; that keeps coverage complete.
func NewTileGrid(level int) (*TileGrid, error) {
	size, err := TileSizeForLevel(level)
	if err != nil {
		return nil, err
	}
	ox := MarcoZeroX - size/2
	oy := MarcoZeroY - size/2
	return &TileGrid{
		Level:    level,
		TileSize: size,
		MinCol:   int(math.Floor((AreaXMin - ox) / size)),
		MinRow:   int(math.Floor((AreaYMin - oy) / size)),
		MaxCol:   int(math.Ceil((AreaXMax-ox)/size)) - 1,
		MaxRow:   int(math.Ceil((AreaYMax-oy)/size)) - 1,
	}, nil
}

// OriginX is the easting of the left edge of column 0.
func (g *TileGrid) OriginX() float64 { return MarcoZeroX - g.TileSize/2 }

// OriginY is the northing of the bottom edge of row 0.
func (g *TileGrid) OriginY() float64 { return MarcoZeroY - g.TileSize/2 }

// Width is the number of columns in the grid.
func (g *TileGrid) Width() int { return g.MaxCol - g.MinCol + 1 }

// Height is the number of rows in the grid.
func (g *TileGrid) Height() int { return g.MaxRow - g.MinRow + 1 }

// CurveOrder is the smallest p such that a 2^p square covers both grid
// dimensions, with a floor of 1.
func (g *TileGrid) CurveOrder() int {
	maxDim := g.Width()
	if g.Height() > maxDim {
		maxDim = g.Height()
	}
	if maxDim <= 1 {
		return 1
	}
	return bits.Len(uint(maxDim - 1))
}

// CurveSide is the edge of the square curve domain, 2^CurveOrder.
func (g *TileGrid) CurveSide() int { return 1 << g.CurveOrder() }

// CurveCapacity is the number of positions on the curve, 4^CurveOrder. Only
// distances below it can decode to a cell, and only a Width×Height subset of
// those map to real tiles.
func (g *TileGrid) CurveCapacity() int64 {
	side := int64(g.CurveSide())
	return side * side
}

// TileCount is the number of real tiles at this level.
func (g *TileGrid) TileCount() int64 {
	return int64(g.Width()) * int64(g.Height())
}

// CellBound is the planar bounding box of the tile at an absolute grid cell.
func (g *TileGrid) CellBound(cell Cell) orb.Bound {
	xMin := g.OriginX() + float64(cell.Col)*g.TileSize
	yMin := g.OriginY() + float64(cell.Row)*g.TileSize
	return orb.Bound{
		Min: orb.Point{xMin, yMin},
		Max: orb.Point{xMin + g.TileSize, yMin + g.TileSize},
	}
}

// CellAt is the absolute grid cell containing a planar coordinate. Cells are
// half-open on their max edges, so a point exactly on a shared edge belongs
// to the cell on the greater side.
func (g *TileGrid) CellAt(x, y float64) Cell {
	return Cell{
		Col: int(math.Floor((x - g.OriginX()) / g.TileSize)),
		Row: int(math.Floor((y - g.OriginY()) / g.TileSize)),
	}
}

// Normalize shifts an absolute cell so the grid minimum becomes (0,0).
func (g *TileGrid) Normalize(cell Cell) Cell {
	return Cell{Col: cell.Col - g.MinCol, Row: cell.Row - g.MinRow}
}

// Denormalize is the inverse of Normalize.
func (g *TileGrid) Denormalize(cell Cell) Cell {
	return Cell{Col: cell.Col + g.MinCol, Row: cell.Row + g.MinRow}
}

// ContainsNormalized reports whether a normalized cell falls inside the real
// grid rectangle rather than in the curve-domain padding around it.
func (g *TileGrid) ContainsNormalized(cell Cell) bool {
	return cell.Col >= 0 && cell.Row >= 0 && cell.Col < g.Width() && cell.Row < g.Height()
}

// LevelInfo is the API-facing summary of a level's grid geometry.
type LevelInfo struct {
	Level         int     `json:"level"`
	TileSize      float64 `json:"tile_size"`
	MinCol        int     `json:"min_col"`
	MinRow        int     `json:"min_row"`
	MaxCol        int     `json:"max_col"`
	MaxRow        int     `json:"max_row"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	CurveOrder    int     `json:"curve_order"`
	CurveCapacity int64   `json:"curve_capacity"`
	TileCount     int64   `json:"tile_count"`
}

// Describe summarizes the grid for API consumers.
func (g *TileGrid) Describe() LevelInfo {
	return LevelInfo{
		Level:         g.Level,
		TileSize:      g.TileSize,
		MinCol:        g.MinCol,
		MinRow:        g.MinRow,
		MaxCol:        g.MaxCol,
		MaxRow:        g.MaxRow,
		Width:         g.Width(),
		Height:        g.Height(),
		CurveOrder:    g.CurveOrder(),
		CurveCapacity: g.CurveCapacity(),
		TileCount:     g.TileCount(),
	}
}
