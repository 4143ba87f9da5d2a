package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/repository/memory"
	"github.com/mamadbah2/smallerp/internal/repository/mongodb"
	"github.com/mamadbah2/smallerp/pkg/logger"
)

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "load the demo coffee-shop data into MongoDB" }
func (*seedCmd) Usage() string {
	return `erpreport seed

  Replaces every entity collection in MONGODB_DB_NAME with the demo data set.
`
}

func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.MongoDB.URI == "" {
		fmt.Fprintln(os.Stderr, "Error: MONGODB_URI is required")
		return subcommands.ExitUsageError
	}

	log, err := logger.NewCLI(os.Getenv("ERPREPORT_LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() { _ = log.Sync() }()

	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, log.Named("repo.mongodb"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to MongoDB: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() { _ = repo.Close(ctx) }()

	if err := repo.Seed(ctx, memory.DemoSnapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "Seeded demo data into %s\n", cfg.MongoDB.DBName)
	return subcommands.ExitSuccess
}
