package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/helper"
	"github.com/Gabrielunor/coordinator-backend/internal/domain/model"
	"github.com/Gabrielunor/coordinator-backend/internal/infrastructure/spacecurve"
)

func newTestTileService(t *testing.T) TileService {
	t.Helper()
	return NewTileService(spacecurve.NewHilbertCurveProvider())
}

func TestGenerateLevelZero(t *testing.T) {
	svc := newTestTileService(t)

	tiles, err := svc.GenerateLevel(0)
	require.NoError(t, err)
	require.Len(t, tiles, 3111)

	grid, err := svc.GridForLevel(0)
	require.NoError(t, err)

	seenCells := make(map[model.Cell]struct{}, len(tiles))
	for i, tile := range tiles {
		if i > 0 {
			assert.Greater(t, tile.HilbertDistance, tiles[i-1].HilbertDistance,
				"tiles must come out ordered by curve distance")
		}

		assert.Equal(t, 0, tile.Level)
		assert.GreaterOrEqual(t, tile.GridCell.Col, grid.MinCol)
		assert.LessOrEqual(t, tile.GridCell.Col, grid.MaxCol)
		assert.GreaterOrEqual(t, tile.GridCell.Row, grid.MinRow)
		assert.LessOrEqual(t, tile.GridCell.Row, grid.MaxRow)
		assert.Equal(t, grid.Normalize(tile.GridCell), tile.NormalizedCell)
		assert.Equal(t, 100000.0, tile.BBox.Max.X()-tile.BBox.Min.X())

		id, err := helper.EncodeBase36(tile.HilbertDistance)
		require.NoError(t, err)
		assert.Equal(t, id, tile.ID)

		_, dup := seenCells[tile.GridCell]
		assert.False(t, dup, "cell %+v produced twice", tile.GridCell)
		seenCells[tile.GridCell] = struct{}{}
	}
	assert.Len(t, seenCells, 3111)
}

func TestGenerateLevelCounts(t *testing.T) {
	svc := newTestTileService(t)

	counts := map[int]int{
		0: 3111,
		1: 12342,
		2: 48682,
	}
	for level, want := range counts {
		tiles, err := svc.GenerateLevel(level)
		require.NoError(t, err)
		assert.Len(t, tiles, want, "level %d", level)
		for i := 1; i < len(tiles); i++ {
			if tiles[i].HilbertDistance <= tiles[i-1].HilbertDistance {
				t.Fatalf("level %d: curve distances not strictly increasing at index %d", level, i)
			}
		}
	}
}

// The generated tiles of a level must blanket the whole coverage rectangle.
func TestGeneratedTilesCoverArea(t *testing.T) {
	svc := newTestTileService(t)

	for _, level := range []int{0, 1, 2} {
		tiles, err := svc.GenerateLevel(level)
		require.NoError(t, err, "level %d", level)
		require.NotEmpty(t, tiles, "level %d", level)

		union := tiles[0].BBox
		for _, tile := range tiles[1:] {
			union = union.Union(tile.BBox)
		}
		assert.LessOrEqual(t, union.Min.X(), model.AreaXMin, "level %d", level)
		assert.LessOrEqual(t, union.Min.Y(), model.AreaYMin, "level %d", level)
		assert.GreaterOrEqual(t, union.Max.X(), model.AreaXMax, "level %d", level)
		assert.GreaterOrEqual(t, union.Max.Y(), model.AreaYMax, "level %d", level)
	}
}

func TestResolveRoundTrips(t *testing.T) {
	svc := newTestTileService(t)

	for _, level := range []int{0, 1} {
		tiles, err := svc.GenerateLevel(level)
		require.NoError(t, err, "level %d", level)

		for _, tile := range tiles {
			resolved, err := svc.ResolveByID(level, tile.ID)
			require.NoError(t, err, "level %d id %s", level, tile.ID)
			if diff := cmp.Diff(tile, resolved); diff != "" {
				t.Fatalf("tile %s round trip mismatch (-want +got):\n%s", tile.ID, diff)
			}

			center := tile.Center()
			byCoordinate, err := svc.ResolveByCoordinate(level, center.X(), center.Y())
			require.NoError(t, err, "level %d id %s", level, tile.ID)
			assert.Equal(t, tile.ID, byCoordinate.ID, "center of %s must resolve back to it", tile.ID)
		}
	}
}

func TestResolveByIDCanonicalizesInput(t *testing.T) {
	svc := newTestTileService(t)

	reference, err := svc.ResolveByCoordinate(0, model.MarcoZeroX, model.MarcoZeroY)
	require.NoError(t, err)

	variants := []string{
		strings.ToLower(reference.ID),
		"  " + reference.ID + "  ",
		"00" + reference.ID,
	}
	for _, variant := range variants {
		resolved, err := svc.ResolveByID(0, variant)
		require.NoError(t, err, "variant %q", variant)
		assert.Equal(t, reference.ID, resolved.ID, "variant %q must resolve to the canonical spelling", variant)
		assert.Equal(t, reference.GridCell, resolved.GridCell)
	}
}

func TestResolveByIDErrors(t *testing.T) {
	svc := newTestTileService(t)

	t.Run("malformed identifiers", func(t *testing.T) {
		for _, id := range []string{"", "   ", "!!", "G Z", "1.5"} {
			_, err := svc.ResolveByID(0, id)
			assert.ErrorIs(t, err, model.ErrInvalidInput, "id %q", id)
		}
	})

	t.Run("identifier beyond the curve capacity", func(t *testing.T) {
		atCapacity, err := helper.EncodeBase36(4096)
		require.NoError(t, err)
		_, err = svc.ResolveByID(0, atCapacity)
		assert.ErrorIs(t, err, model.ErrIdentifierOutOfRange)

		farBeyond, err := helper.EncodeBase36(1 << 40)
		require.NoError(t, err)
		_, err = svc.ResolveByID(0, farBeyond)
		assert.ErrorIs(t, err, model.ErrIdentifierOutOfRange)
	})

	t.Run("identifier on the curve padding", func(t *testing.T) {
		grid, err := svc.GridForLevel(0)
		require.NoError(t, err)

		curve, err := spacecurve.NewHilbertCurveProvider().CurveForOrder(grid.CurveOrder())
		require.NoError(t, err)

		// The level 0 grid is 51x61 inside a 64x64 curve domain, so column
		// 60 only exists on the curve.
		distance, err := curve.PointToDistance(60, 10)
		require.NoError(t, err)
		padded, err := helper.EncodeBase36(distance)
		require.NoError(t, err)

		_, err = svc.ResolveByID(0, padded)
		assert.ErrorIs(t, err, model.ErrUnmappedTile)
	})

	t.Run("negative level", func(t *testing.T) {
		_, err := svc.ResolveByID(-1, "0")
		assert.ErrorIs(t, err, model.ErrInvalidLevel)
	})
}

func TestResolveByCoordinate(t *testing.T) {
	svc := newTestTileService(t)

	t.Run("marco zero resolves to the origin cell", func(t *testing.T) {
		tile, err := svc.ResolveByCoordinate(0, model.MarcoZeroX, model.MarcoZeroY)
		require.NoError(t, err)

		assert.Equal(t, model.Cell{Col: 0, Row: 0}, tile.GridCell)
		assert.Equal(t, model.Cell{Col: 27, Row: 37}, tile.NormalizedCell)
		assert.Equal(t, 4950000.0, tile.BBox.Min.X())
		assert.Equal(t, 9950000.0, tile.BBox.Min.Y())
		assert.Equal(t, 5050000.0, tile.BBox.Max.X())
		assert.Equal(t, 10050000.0, tile.BBox.Max.Y())
		assert.Less(t, tile.HilbertDistance, int64(4096))

		byID, err := svc.ResolveByID(0, tile.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(tile, byID); diff != "" {
			t.Fatalf("coordinate and identifier disagree (-want +got):\n%s", diff)
		}
	})

	t.Run("a point on a shared edge lands in the greater tile", func(t *testing.T) {
		tile, err := svc.ResolveByCoordinate(0, 5050000.0, 10000000.0)
		require.NoError(t, err)
		assert.Equal(t, model.Cell{Col: 1, Row: 0}, tile.GridCell)
	})

	t.Run("area corners are inside the grid", func(t *testing.T) {
		corners := [][2]float64{
			{model.AreaXMin, model.AreaYMin},
			{model.AreaXMax, model.AreaYMin},
			{model.AreaXMin, model.AreaYMax},
			{model.AreaXMax, model.AreaYMax},
		}
		for _, corner := range corners {
			tile, err := svc.ResolveByCoordinate(0, corner[0], corner[1])
			require.NoError(t, err, "corner %v", corner)
			assert.True(t, tile.BBox.Contains(orb.Point{corner[0], corner[1]}),
				"corner %v outside its tile bbox", corner)
		}
	})

	t.Run("points just past the area edge land on boundary tiles", func(t *testing.T) {
		grid, err := svc.GridForLevel(0)
		require.NoError(t, err)

		cases := []struct {
			x, y float64
			want model.Cell
		}{
			{model.AreaXMin - 0.1, model.MarcoZeroY, model.Cell{Col: grid.MinCol, Row: 0}},
			{model.AreaXMax + 0.1, model.MarcoZeroY, model.Cell{Col: grid.MaxCol, Row: 0}},
			{model.MarcoZeroX, model.AreaYMin - 0.1, model.Cell{Col: 0, Row: grid.MinRow}},
			{model.MarcoZeroX, model.AreaYMax + 0.1, model.Cell{Col: 0, Row: grid.MaxRow}},
		}
		for _, tc := range cases {
			tile, err := svc.ResolveByCoordinate(0, tc.x, tc.y)
			require.NoError(t, err, "point (%v, %v)", tc.x, tc.y)
			assert.Equal(t, tc.want, tile.GridCell, "point (%v, %v)", tc.x, tc.y)
		}
	})

	t.Run("a boundary tile center beyond the area still resolves to it", func(t *testing.T) {
		grid, err := svc.GridForLevel(1)
		require.NoError(t, err)

		edge, err := svc.ResolveByCoordinate(1, model.AreaXMax, model.MarcoZeroY)
		require.NoError(t, err)
		require.Equal(t, grid.MaxCol, edge.GridCell.Col)

		center := edge.Center()
		require.Greater(t, center.X(), model.AreaXMax)

		resolved, err := svc.ResolveByCoordinate(1, center.X(), center.Y())
		require.NoError(t, err)
		assert.Equal(t, edge.ID, resolved.ID)
		assert.Equal(t, edge.GridCell, resolved.GridCell)
	})

	t.Run("rejects coordinates beyond the boundary tiles", func(t *testing.T) {
		size, err := model.TileSizeForLevel(0)
		require.NoError(t, err)

		outside := [][2]float64{
			{model.AreaXMin - size, model.MarcoZeroY},
			{model.AreaXMax + size, model.MarcoZeroY},
			{model.MarcoZeroX, model.AreaYMin - size},
			{model.MarcoZeroX, model.AreaYMax + size},
		}
		for _, pair := range outside {
			_, err := svc.ResolveByCoordinate(0, pair[0], pair[1])
			assert.ErrorIs(t, err, model.ErrCoordinateOutOfArea, "pair %v", pair)
		}
	})

	t.Run("rejects negative levels", func(t *testing.T) {
		_, err := svc.ResolveByCoordinate(-2, model.MarcoZeroX, model.MarcoZeroY)
		assert.ErrorIs(t, err, model.ErrInvalidLevel)

		// Level validation precedes the area check.
		_, err = svc.ResolveByCoordinate(-2, model.AreaXMax+1e6, model.AreaYMax+1e6)
		assert.ErrorIs(t, err, model.ErrInvalidLevel)
	})
}

// Neighboring identifiers should address neighboring tiles: wherever two
// generated tiles sit one curve step apart, their cells are 4-neighbors.
func TestConsecutiveIdentifiersAreNeighbors(t *testing.T) {
	svc := newTestTileService(t)

	tiles, err := svc.GenerateLevel(0)
	require.NoError(t, err)

	adjacentPairs := 0
	for i := 1; i < len(tiles); i++ {
		prev, curr := tiles[i-1], tiles[i]
		if curr.HilbertDistance-prev.HilbertDistance != 1 {
			continue
		}
		adjacentPairs++
		dCol := curr.GridCell.Col - prev.GridCell.Col
		dRow := curr.GridCell.Row - prev.GridCell.Row
		assert.Equal(t, 1, absInt(dCol)+absInt(dRow),
			"tiles %s and %s are one curve step apart but not adjacent", prev.ID, curr.ID)
	}
	assert.Greater(t, adjacentPairs, 2000, "most consecutive pairs should survive the padding filter")
}

func TestResolveAcrossLevels(t *testing.T) {
	svc := newTestTileService(t)

	x, y := 6000000.0, 9500000.0
	for level := 0; level <= 6; level++ {
		tile, err := svc.ResolveByCoordinate(level, x, y)
		require.NoError(t, err, "level %d", level)

		size, err := model.TileSizeForLevel(level)
		require.NoError(t, err)
		assert.Equal(t, level, tile.Level)
		assert.InDelta(t, size, tile.BBox.Max.X()-tile.BBox.Min.X(), 1e-9)
		assert.True(t, tile.BBox.Contains(orb.Point{x, y}), "level %d tile must contain the point", level)
	}
}

func TestLevelContextsAreShared(t *testing.T) {
	svc := newTestTileService(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ResolveByCoordinate(4, model.MarcoZeroX, model.MarcoZeroY)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	first, err := svc.GridForLevel(4)
	require.NoError(t, err)
	second, err := svc.GridForLevel(4)
	require.NoError(t, err)
	assert.Same(t, first, second, "grids must be built once and shared")
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
