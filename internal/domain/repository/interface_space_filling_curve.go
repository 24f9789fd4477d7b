package repository

// SpaceFillingCurve is a bijection between cells of a fixed 2^order square
// and distances along a locality-preserving curve through it.
type SpaceFillingCurve interface {
	// PointToDistance maps a cell of the curve domain to its distance.
	PointToDistance(col, row int) (int64, error)
	// DistanceToPoint maps a distance back to its cell.
	DistanceToPoint(distance int64) (col, row int, err error)
}

// SpaceFillingCurveProvider builds curves sized for a given order. Providers
// may cache and share curve instances; implementations must be safe for
// concurrent use.
type SpaceFillingCurveProvider interface {
	CurveForOrder(order int) (SpaceFillingCurve, error)
}
