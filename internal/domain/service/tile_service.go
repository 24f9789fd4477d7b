package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/helper"
	"github.com/Gabrielunor/coordinator-backend/internal/domain/model"
	"github.com/Gabrielunor/coordinator-backend/internal/domain/repository"
)

// TileService is the indexing engine: it ties the per-level grid geometry to
// the space-filling curve and answers every tile resolution the API exposes.
type TileService interface {
	// GridForLevel returns the cached grid geometry of a level.
	GridForLevel(level int) (*model.TileGrid, error)
	// ResolveByID resolves a base 36 identifier into its tile. The returned
	// tile carries the canonical spelling of the identifier.
	ResolveByID(level int, tileID string) (*model.Tile, error)
	// ResolveByCoordinate resolves the tile containing a planar coordinate.
	// Containment is decided by the cell, so a coordinate on the overhang of
	// a boundary tile still resolves.
	ResolveByCoordinate(level int, x, y float64) (*model.Tile, error)
	// GenerateLevel materializes every tile of a level ordered by curve
	// distance.
	GenerateLevel(level int) ([]*model.Tile, error)
}

type levelContext struct {
	grid  *model.TileGrid
	curve repository.SpaceFillingCurve
}

type tileService struct {
	curves repository.SpaceFillingCurveProvider

	mu     sync.RWMutex
	levels map[int]*levelContext
}

// NewTileService creates the engine backed by the given curve provider.
func NewTileService(curves repository.SpaceFillingCurveProvider) TileService {
	return &tileService{
		curves: curves,
		levels: make(map[int]*levelContext),
	}
}

// levelFor returns the grid and curve for a level, building them on first
// use. Contexts are write-once, so readers share them without copying.
func (s *tileService) levelFor(level int) (*levelContext, error) {
	s.mu.RLock()
	lc, ok := s.levels[level]
	s.mu.RUnlock()
	if ok {
		return lc, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if lc, ok := s.levels[level]; ok {
		return lc, nil
	}
	grid, err := model.NewTileGrid(level)
	if err != nil {
		return nil, err
	}
	curve, err := s.curves.CurveForOrder(grid.CurveOrder())
	if err != nil {
		return nil, fmt.Errorf("curve for level %d: %w", level, err)
	}
	lc = &levelContext{grid: grid, curve: curve}
	s.levels[level] = lc
	return lc, nil
}

func (s *tileService) GridForLevel(level int) (*model.TileGrid, error) {
	lc, err := s.levelFor(level)
	if err != nil {
		return nil, err
	}
	return lc.grid, nil
}

func (s *tileService) ResolveByID(level int, tileID string) (*model.Tile, error) {
	lc, err := s.levelFor(level)
	if err != nil {
		return nil, err
	}
	distance, err := helper.DecodeBase36(tileID)
	if err != nil {
		return nil, err
	}
	if distance >= lc.grid.CurveCapacity() {
		return nil, fmt.Errorf("%w: distance %d exceeds curve capacity %d at level %d",
			model.ErrIdentifierOutOfRange, distance, lc.grid.CurveCapacity(), level)
	}
	col, row, err := lc.curve.DistanceToPoint(distance)
	if err != nil {
		return nil, fmt.Errorf("identifier %q at level %d: %w", tileID, level, err)
	}
	normalized := model.Cell{Col: col, Row: row}
	if !lc.grid.ContainsNormalized(normalized) {
		return nil, fmt.Errorf("%w: identifier %q lands on the curve padding at level %d",
			model.ErrUnmappedTile, tileID, level)
	}
	return s.buildTile(lc, normalized, distance)
}

func (s *tileService) ResolveByCoordinate(level int, x, y float64) (*model.Tile, error) {
	lc, err := s.levelFor(level)
	if err != nil {
		return nil, err
	}
	normalized := lc.grid.Normalize(lc.grid.CellAt(x, y))
	if !lc.grid.ContainsNormalized(normalized) {
		return nil, fmt.Errorf("%w: (%v, %v)", model.ErrCoordinateOutOfArea, x, y)
	}
	distance, err := lc.curve.PointToDistance(normalized.Col, normalized.Row)
	if err != nil {
		return nil, fmt.Errorf("coordinate (%v, %v) at level %d: %w", x, y, level, err)
	}
	return s.buildTile(lc, normalized, distance)
}

func (s *tileService) GenerateLevel(level int) ([]*model.Tile, error) {
	lc, err := s.levelFor(level)
	if err != nil {
		return nil, err
	}
	tiles := make([]*model.Tile, 0, lc.grid.TileCount())
	for row := 0; row < lc.grid.Height(); row++ {
		for col := 0; col < lc.grid.Width(); col++ {
			normalized := model.Cell{Col: col, Row: row}
			distance, err := lc.curve.PointToDistance(col, row)
			if err != nil {
				return nil, fmt.Errorf("cell (%d, %d) at level %d: %w", col, row, level, err)
			}
			tile, err := s.buildTile(lc, normalized, distance)
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, tile)
		}
	}
	sort.Slice(tiles, func(i, j int) bool {
		return tiles[i].HilbertDistance < tiles[j].HilbertDistance
	})
	return tiles, nil
}

// buildTile assembles the full tile for a normalized cell, re-encoding the
// distance so the identifier comes out in canonical form.
func (s *tileService) buildTile(lc *levelContext, normalized model.Cell, distance int64) (*model.Tile, error) {
	id, err := helper.EncodeBase36(distance)
	if err != nil {
		return nil, err
	}
	cell := lc.grid.Denormalize(normalized)
	return &model.Tile{
		ID:              id,
		Level:           lc.grid.Level,
		BBox:            lc.grid.CellBound(cell),
		GridCell:        cell,
		NormalizedCell:  normalized,
		HilbertDistance: distance,
	}, nil
}
