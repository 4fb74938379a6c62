// Package cli implements the interactive docshare client.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/juju/retry"

	"github.com/dsmirnov/docshare/internal/config"
	"github.com/dsmirnov/docshare/internal/docs"
	"github.com/dsmirnov/docshare/internal/index"
	"github.com/dsmirnov/docshare/internal/logging"
	"github.com/dsmirnov/docshare/internal/record"
	"github.com/dsmirnov/docshare/internal/session"
	"github.com/dsmirnov/docshare/internal/share"
	"github.com/dsmirnov/docshare/internal/storage"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	sess     *session.Session
	backend  storage.Backend
	db       *sql.DB
	store    *record.Store
	remote   *index.Remote
	local    *index.Local
	resolver *share.Resolver
	reader   *bufio.Reader

	// remoteReady flips once the remote index has loaded; until then
	// new documents are parked in the local index.
	remoteReady bool
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	sess := session.New(c.Username)

	backend, err := storage.NewS3Backend(ctx, storage.S3Config{
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}, sess)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	db, err := index.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	registry := docs.NewRegistry(backend, docs.TransferConfig{
		SingleFileSizeLimit: c.SingleFileSizeLimit,
		PartSize:            c.PartSize,
		UploadConcurrency:   c.UploadConcurrency,
	}, log)
	store := record.NewStore(backend, registry, log)

	return &App{
		config:   c,
		log:      log,
		sess:     sess,
		backend:  backend,
		db:       db,
		store:    store,
		remote:   index.NewRemote(backend, store, log),
		local:    index.NewLocal(index.NewSQLiteRepository(db), log),
		resolver: share.NewResolver(backend),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// wallClock adapts time.After to the retry clock interface.
type wallClock struct{}

func (wallClock) Now() time.Time                         { return time.Now() }

func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Run loads the indexes and enters the command loop. Pending local
// documents are shown immediately, then migrated into the remote index
// exactly once.
func (a *App) Run(ctx context.Context) error {
	pending, err := a.local.Load(ctx)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		fmt.Println("Documents pending sync:")
		printDocuments(pending)
	}

	err = retry.Call(retry.CallArgs{
		Func:     func() error { return a.remote.Load(ctx) },
		Attempts: 3,
		Delay:    a.config.RetryDelay,
		Clock:    wallClock{},
		Stop:     ctx.Done(),
		NotifyFunc: func(err error, attempt int) {
			a.log.Warn(ctx, "index load failed", "attempt", attempt, "error", err)
		},
	})
	if err != nil {
		fmt.Println("Remote index unavailable; new documents will be kept locally until next start.")
	} else {
		a.remoteReady = true
		if len(pending) > 0 {
			if err := a.migratePending(ctx, pending); err != nil {
				return err
			}
		}
	}

	a.Root(ctx)
	return nil
}

// migratePending hands the pending documents to the remote index and
// clears the local set. Documents live in exactly one index at a time.
func (a *App) migratePending(ctx context.Context, pending []*docs.Document) error {
	if err := a.remote.AddDocuments(ctx, pending); err != nil {
		return fmt.Errorf("migrating pending documents: %w", err)
	}
	if err := a.local.SetTempDocuments(ctx, nil); err != nil {
		return fmt.Errorf("clearing pending documents: %w", err)
	}
	a.log.Info(ctx, "pending documents migrated", "count", len(pending))
	return nil
}
