package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/service"
	"github.com/Gabrielunor/coordinator-backend/internal/handler"
	"github.com/Gabrielunor/coordinator-backend/internal/infrastructure/projection"
	"github.com/Gabrielunor/coordinator-backend/internal/infrastructure/spacecurve"
	"github.com/Gabrielunor/coordinator-backend/internal/usecase"
)

// defaultMaxGenerateLevel caps full-level enumeration out of the box; level 3
// already yields close to two hundred thousand tiles.
const defaultMaxGenerateLevel = 3

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	maxGenerateLevel := defaultMaxGenerateLevel
	if raw := os.Getenv("MAX_GENERATE_LEVEL"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("MAX_GENERATE_LEVEL must be an integer, got %q", raw)
		}
		maxGenerateLevel = parsed
	}

	curveProvider := spacecurve.NewHilbertCurveProvider()
	projector := projection.NewBrazilAlbersProjector()
	tileService := service.NewTileService(curveProvider)
	tileUseCase := usecase.NewTileFeatureUseCase(tileService, projector, maxGenerateLevel)
	tilesHandler := handler.NewTilesHandler(tileUseCase)
	healthHandler := handler.NewHealthHandler()

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	router.Use(cors.New(corsConfig))
	router.Use(handler.RequestID())

	router.GET("/health", healthHandler.Check)
	router.GET("/tiles/lookup", tilesHandler.LookupTile)
	router.GET("/tiles/:level", tilesHandler.GenerateLevel)
	router.GET("/tiles/:level/:tile_id", tilesHandler.GetTile)
	router.GET("/levels/:level", tilesHandler.DescribeLevel)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("coordinator-backend server starting on :%s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
