package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/paulmach/orb/geojson"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/model"
	"github.com/Gabrielunor/coordinator-backend/internal/domain/repository"
	"github.com/Gabrielunor/coordinator-backend/internal/domain/service"
)

type TileFeatureUseCase interface {
	// GetTileFeature resolves one identifier into its GeoJSON feature.
	GetTileFeature(ctx context.Context, level int, tileID string) (*geojson.Feature, error)

	// LookupTileFeature finds the tile containing a lon/lat coordinate and
	// returns its identifier together with the feature.
	LookupTileFeature(ctx context.Context, level int, lon, lat float64) (*model.TileLookup, error)

	// GenerateLevelFeatures materializes a whole level as a FeatureCollection.
	GenerateLevelFeatures(ctx context.Context, level int) (*geojson.FeatureCollection, error)

	// DescribeLevel reports the grid geometry of a level.
	DescribeLevel(ctx context.Context, level int) (*model.LevelInfo, error)
}

type tileFeatureUseCaseImpl struct {
	tiles            service.TileService
	projector        repository.CoordinateProjector
	builder          *service.TileFeatureBuilder
	maxGenerateLevel int
}

// NewTileFeatureUseCase wires the engine, the projector and the feature
// builder. maxGenerateLevel caps full-level enumeration; deeper levels grow
// exponentially and are only reachable tile by tile.
func NewTileFeatureUseCase(
	tiles service.TileService,
	projector repository.CoordinateProjector,
	maxGenerateLevel int,
) TileFeatureUseCase {
	return &tileFeatureUseCaseImpl{
		tiles:            tiles,
		projector:        projector,
		builder:          service.NewTileFeatureBuilder(projector),
		maxGenerateLevel: maxGenerateLevel,
	}
}

func (u *tileFeatureUseCaseImpl) GetTileFeature(ctx context.Context, level int, tileID string) (*geojson.Feature, error) {
	tile, err := u.tiles.ResolveByID(level, tileID)
	if err != nil {
		return nil, err
	}
	return u.builder.Build(tile)
}

func (u *tileFeatureUseCaseImpl) LookupTileFeature(ctx context.Context, level int, lon, lat float64) (*model.TileLookup, error) {
	x, y, err := u.projector.GlobalToPlanar(lon, lat)
	if err != nil {
		return nil, fmt.Errorf("project lookup coordinate: %w", err)
	}
	tile, err := u.tiles.ResolveByCoordinate(level, x, y)
	if err != nil {
		return nil, err
	}
	feature, err := u.builder.Build(tile)
	if err != nil {
		return nil, err
	}
	return &model.TileLookup{TileID: tile.ID, Feature: feature}, nil
}

func (u *tileFeatureUseCaseImpl) GenerateLevelFeatures(ctx context.Context, level int) (*geojson.FeatureCollection, error) {
	if level > u.maxGenerateLevel {
		return nil, fmt.Errorf("%w: level %d exceeds the enumeration limit %d",
			model.ErrInvalidInput, level, u.maxGenerateLevel)
	}
	tiles, err := u.tiles.GenerateLevel(level)
	if err != nil {
		return nil, err
	}
	collection := geojson.NewFeatureCollection()
	for _, tile := range tiles {
		feature, err := u.builder.Build(tile)
		if err != nil {
			return nil, err
		}
		collection.Append(feature)
	}
	log.Printf("generated %d tiles for level %d", len(tiles), level)
	return collection, nil
}

func (u *tileFeatureUseCaseImpl) DescribeLevel(ctx context.Context, level int) (*model.LevelInfo, error) {
	grid, err := u.tiles.GridForLevel(level)
	if err != nil {
		return nil, err
	}
	info := grid.Describe()
	return &info, nil
}
