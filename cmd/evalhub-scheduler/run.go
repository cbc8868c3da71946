package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	campaignstore "github.com/dalemusser/evalhub/internal/app/store/campaigns"
	assignmentstore "github.com/dalemusser/evalhub/internal/app/store/assignments"
	"github.com/dalemusser/evalhub/internal/app/system/cloner"
	"github.com/dalemusser/evalhub/internal/app/system/credentials"
	"github.com/dalemusser/evalhub/internal/app/system/timeouts"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type runOptions struct {
	// Now overrides the invocation instant when non-zero.
	Now     time.Time
	DryRun  bool
	EnvFile string
}

// loadEnv loads path into the process environment. A missing file is not
// an error; variables already set win over the file.
func loadEnv(path string, log *zap.Logger) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	log.Debug("loaded env file", zap.String("path", path))
	return nil
}

// run is the whole scheduler invocation. Credentials are checked before
// any connection is attempted.
func run(parent context.Context, opts runOptions, log *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := loadEnv(opts.EnvFile, log); err != nil {
		return err
	}
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		log.Debug("timeouts overridden from env", zap.Int("count", n))
	}

	creds, err := credentials.FromEnv()
	if err != nil {
		return err
	}

	ctx, cancel := timeouts.WithTimeout(parent, timeouts.Run(), log, "scheduler run")
	defer cancel()

	client, err := mongo.Connect(ctx, creds.ClientOptions())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer dcancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()

	pctx, pcancel := context.WithTimeout(ctx, timeouts.Ping())
	err = client.Ping(pctx, readpref.Primary())
	pcancel()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	db := client.Database(creds.MongoDatabase)
	c := &cloner.Cloner{
		Campaigns:   campaignstore.New(db),
		Assignments: assignmentstore.New(db, log),
		Log:         log,
		DryRun:      opts.DryRun,
	}
	if !opts.Now.IsZero() {
		now := opts.Now
		c.Now = func() time.Time { return now }
	}

	redacted := creds.Redacted()
	log.Info("scheduler starting",
		zap.String("mongo_uri", redacted.MongoURI),
		zap.String("database", redacted.MongoDatabase),
		zap.String("username", redacted.Username),
		zap.Bool("dry_run", opts.DryRun))

	rep, err := c.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("scheduler finished",
		zap.String("run_id", rep.RunID),
		zap.String("today", rep.Today),
		zap.Int("cloned", len(rep.Cloned)))
	return nil
}
