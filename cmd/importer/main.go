package main

import (
	"context"
	"flag"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/laicai0810/addr-parser-cn/internal/config"
	"github.com/laicai0810/addr-parser-cn/internal/provider"
	"github.com/laicai0810/addr-parser-cn/internal/repository"
)

func main() {
	toPostgres := flag.Bool("postgres", false, "also load the snapshot into PostgreSQL")
	flag.Parse()

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	ctx := context.Background()

	p := provider.NewAliyunProvider(cfg.DataDir, cfg.SourceURL, cfg.FetchTimeout)
	if err := p.Ensure(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot acquire region dataset")
	}
	log.Info().Str("path", provider.DatabasePath(cfg.DataDir)).Msg("region snapshot ready")

	if !*toPostgres {
		return
	}

	db, err := repository.OpenSQLite(provider.DatabasePath(cfg.DataDir))
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open region snapshot")
	}
	defer db.Close()

	store, err := repository.NewSQLiteRepository(db).LoadRegions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read region snapshot")
	}

	conn, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	pgRepo := repository.NewPostgresRepository(conn)
	if err := pgRepo.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create region schema")
	}
	if err := pgRepo.ReplaceRegions(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("cannot load regions into db")
	}

	log.Info().
		Int("provinces", len(store.Provinces)).
		Int("cities", len(store.Cities)).
		Int("districts", len(store.Districts)).
		Msg("regions imported")
}
