package main

import (
	"context"
	"net/http"

	"github.com/laicai0810/addr-parser-cn/internal/config"
	"github.com/laicai0810/addr-parser-cn/internal/handler"
	"github.com/laicai0810/addr-parser-cn/internal/provider"
	"github.com/laicai0810/addr-parser-cn/internal/repository"
	"github.com/laicai0810/addr-parser-cn/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Region storage: Postgres when configured, otherwise the local
	// SQLite snapshot built by the importer
	var repo service.RegionRepository
	if config.DBSource != "" {
		conn, err := pgxpool.New(context.Background(), config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
		repo = repository.NewPostgresRepository(conn)
	} else {
		db, err := repository.OpenSQLite(provider.DatabasePath(config.DataDir))
		if err != nil {
			log.Fatal().Err(err).Msg("cannot open region snapshot")
		}
		defer db.Close()
		repo = repository.NewSQLiteRepository(db)
	}

	// Initialize layers
	addressService := service.NewAddressService(repo)
	if err := addressService.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cannot build gazetteer index")
	}

	parseHandler := handler.NewParseHandler(addressService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/parse", parseHandler.Parse)
	r.POST("/reload", parseHandler.Reload)

	r.Run(config.ServerAddress)
}
