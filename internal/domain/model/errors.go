package model

import "errors"

// Validation failures of the tile engine. Every public operation returns one of
// these (possibly wrapped with detail); none of them is retryable and none is
// fatal to the process. The HTTP layer decides which become 400 and which 404.
var (
	// ErrInvalidLevel rejects negative resolution levels.
	ErrInvalidLevel = errors.New("resolution level cannot be negative")

	// ErrInvalidInput rejects malformed base36 identifiers and negative values
	// passed to the encoder.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIdentifierOutOfRange rejects identifiers that decode beyond the curve
	// capacity of the level.
	ErrIdentifierOutOfRange = errors.New("identifier is out of bounds for the level")

	// ErrUnmappedTile rejects curve positions that land in the padding between
	// the coverage rectangle and the square curve domain.
	ErrUnmappedTile = errors.New("identifier does not map to the coverage area")

	// ErrCoordinateOutOfArea rejects coordinates whose cell falls outside the
	// coverage grid.
	ErrCoordinateOutOfArea = errors.New("coordinates fall outside the coverage area")
)
