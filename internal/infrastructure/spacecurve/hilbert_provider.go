package spacecurve

import (
	"fmt"

	"github.com/google/hilbert"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/repository"
)

// maxOrder keeps the squared curve side inside int64.
const maxOrder = 31

// hilbertCurveProvider builds Hilbert curves, the locality-preserving
// linearization used for tile identifiers.
type hilbertCurveProvider struct{}

// NewHilbertCurveProvider creates the default curve provider.
func NewHilbertCurveProvider() repository.SpaceFillingCurveProvider {
	return &hilbertCurveProvider{}
}

func (p *hilbertCurveProvider) CurveForOrder(order int) (repository.SpaceFillingCurve, error) {
	if order < 1 || order > maxOrder {
		return nil, fmt.Errorf("curve order %d outside [1, %d]", order, maxOrder)
	}
	h, err := hilbert.NewHilbert(1 << order)
	if err != nil {
		return nil, fmt.Errorf("hilbert curve of order %d: %w", order, err)
	}
	return &hilbertCurve{h: h, side: int64(1) << order}, nil
}

type hilbertCurve struct {
	h    *hilbert.Hilbert
	side int64
}

func (c *hilbertCurve) PointToDistance(col, row int) (int64, error) {
	if col < 0 || row < 0 || int64(col) >= c.side || int64(row) >= c.side {
		return 0, fmt.Errorf("cell (%d, %d) outside %dx%d curve domain", col, row, c.side, c.side)
	}
	d, err := c.h.MapInverse(col, row)
	if err != nil {
		return 0, fmt.Errorf("linearize cell (%d, %d): %w", col, row, err)
	}
	return int64(d), nil
}

func (c *hilbertCurve) DistanceToPoint(distance int64) (col, row int, err error) {
	if distance < 0 || distance >= c.side*c.side {
		return 0, 0, fmt.Errorf("distance %d outside curve capacity %d", distance, c.side*c.side)
	}
	x, y, err := c.h.Map(int(distance))
	if err != nil {
		return 0, 0, fmt.Errorf("locate distance %d: %w", distance, err)
	}
	return x, y, nil
}
