package model

// Grid constants in SIRGAS 2000 / Brazil Albers planar coordinates (meters).
// Every identifier ever issued is relative to these values; changing them
// re-labels the whole grid, so treat them as part of the identifier format.
const (
	// MarcoZeroX and MarcoZeroY locate the grid origin marker. The marker sits
	// at the center of cell (0,0), not on a cell corner.
	MarcoZeroX = 5000000.0
	MarcoZeroY = 10000000.0

	// Coverage rectangle of the national grid.
	AreaXMin = 2290000.0
	AreaYMin = 6300000.0
	AreaXMax = 7330000.0
	AreaYMax = 12300000.0

	// BaseTileSize is the tile edge at level 0; each level halves it.
	BaseTileSize = 100000.0

	// MinTileSize is the floor for the tile edge. Levels deep enough to fall
	// below it all share this size.
	MinTileSize = 1.0
)
