// Command admintool runs one-off maintenance tasks against the catalog
// database: creating admins, backfilling product flags and retrying media
// deletes that failed during normal operation.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wichananm65/catalog-admin-backend/internal/admin"
	"github.com/wichananm65/catalog-admin-backend/internal/config"
	"github.com/wichananm65/catalog-admin-backend/internal/database"
	"github.com/wichananm65/catalog-admin-backend/internal/logger"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
	"github.com/wichananm65/catalog-admin-backend/internal/product"
)

const usage = `usage: admintool <command> [flags]

commands:
  create-admin     -email -password -name -branch
  list-admins
  migrate-featured
  reconcile-media  [-limit n]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "admintool: %v\n", err)
		os.Exit(1)
	}
}

type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB
}

func run(cmd string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{
		Level:         cfg.Logger.Level,
		Encoding:      cfg.Logger.Encoding,
		IsDevelopment: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	e := env{cfg: cfg, log: log, db: db}
	switch cmd {
	case "create-admin":
		return e.createAdmin(ctx, args)
	case "list-admins":
		return e.listAdmins(ctx)
	case "migrate-featured":
		return e.migrateFeatured(ctx)
	case "reconcile-media":
		return e.reconcileMedia(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (e env) admins() *admin.Service {
	return admin.NewService(admin.NewPostgresRepository(e.db), e.cfg.JWT.Secret, e.cfg.JWT.TTL)
}

func (e env) createAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	var in admin.NewAdmin
	fs.StringVar(&in.Email, "email", "", "login email")
	fs.StringVar(&in.Password, "password", "", "initial password, at least 6 characters")
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Branch, "branch", "", "branch the admin arranges quick shopping for")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := e.admins().Create(ctx, in)
	if err != nil {
		return err
	}
	e.log.Info("admin created", zap.String("id", a.ID.String()), zap.String("email", a.Email), zap.String("branch", a.Branch))
	return nil
}

func (e env) listAdmins(ctx context.Context) error {
	list, err := e.admins().List(ctx)
	if err != nil {
		return err
	}
	for _, a := range list {
		status := "active"
		if !a.IsActive {
			status = "disabled"
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", a.ID, a.Email, a.Name, a.Branch, status)
	}
	return nil
}

func (e env) migrateFeatured(ctx context.Context) error {
	n, err := product.NewPostgresRepository(e.db).BackfillFeatured(ctx)
	if err != nil {
		return err
	}
	e.log.Info("featured flag backfilled", zap.Int64("products", n))
	return nil
}

func (e env) reconcileMedia(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reconcile-media", flag.ContinueOnError)
	limit := fs.Int("limit", 100, "maximum orphans to retry")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := newStore(e.cfg.Media)
	if err != nil {
		return err
	}
	janitor := media.NewJanitor(store, media.NewPostgresOrphanLog(e.db), e.log)
	report, err := janitor.Reconcile(ctx, *limit)
	if err != nil {
		return err
	}
	e.log.Info("media reconciled",
		zap.Int("attempted", report.Attempted),
		zap.Int("removed", report.Removed),
		zap.Int("failed", report.Failed),
	)
	return nil
}

func newStore(cfg config.MediaConfig) (media.Store, error) {
	if cfg.Driver == "local" {
		s, err := media.NewLocalStore(cfg.LocalDir, cfg.PublicBase)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := media.NewCloudinaryStore(cfg.CloudinaryURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}
