package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	consolenotify "github.com/bnema/mafia-engine/internal/adapters/notify/console"
	rendersession "github.com/bnema/mafia-engine/internal/adapters/render/session"
	"github.com/bnema/mafia-engine/internal/adapters/repo/memory"
	pgstore "github.com/bnema/mafia-engine/internal/adapters/repo/postgres"
	sqlitestore "github.com/bnema/mafia-engine/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/mafia-engine/internal/adapters/repo/toml"
	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/logging"
	"github.com/bnema/mafia-engine/internal/ports"
)

const (
	configDir      = ".mafia"
	envPrefix      = "MAFIA"
	storeDriverKey = "store.driver"
	sqlitePathKey  = "sqlite.path"
	postgresURLKey = "postgres.url"
)

const (
	driverTOML     = "toml"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

type app struct {
	actorID  int64
	elevated bool
	logLevel string

	cfg      *viper.Viper
	store    ports.SessionStore
	console  *consolenotify.Notifier
	service  *application.Service
	logger   zerolog.Logger
	renderer func(rendersession.View, domain.Session, rendersession.RenderOptions) (string, error)
	now      func() time.Time
	closers  []func() error
}

func newApp() *app {
	return &app{
		renderer: rendersession.Render,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   zerolog.Nop(),
	}
}

func (a *app) wire(ctx context.Context, out, errOut io.Writer) error {
	logger, err := logging.New(errOut, a.logLevel, false)
	if err != nil {
		return err
	}
	a.logger = logger

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("wire session store: %w", err)
	}
	a.store = store
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	a.console = consolenotify.New(out, store)
	a.service = application.NewService(store, a.console, ports.SystemClock{}, application.WithLogger(logger))
	return nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// loadConfig reads ~/.mafia/config.toml when present. MAFIA_* variables
// override file values, e.g. MAFIA_STORE_DRIVER=sqlite.
func loadConfig() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(storeDriverKey, driverTOML)
	cfg.SetDefault(sqlitePathKey, filepath.Join(homeDir, configDir, "sessions.db"))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *viper.Viper) (ports.SessionStore, func() error, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.GetString(storeDriverKey)))
	switch driver {
	case driverTOML, "":
		repo, err := tomlrepo.NewRepository(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil
	case driverSQLite:
		store, err := sqlitestore.Open(ctx, cfg.GetString(sqlitePathKey))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case driverPostgres:
		url := cfg.GetString(postgresURLKey)
		if url == "" {
			return nil, nil, fmt.Errorf("%s is required for the postgres driver", postgresURLKey)
		}
		store, err := pgstore.Open(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { store.Close(); return nil }, nil
	case driverMemory:
		return memory.NewStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q (toml|sqlite|postgres|memory)", driver)
	}
}

// actor returns the --as player, which every mutating command needs.
func (a *app) actor() (domain.PlayerID, error) {
	if a.actorID == 0 {
		return 0, errors.New("--as <player id> is required")
	}
	return domain.PlayerID(a.actorID), nil
}

// resolvePlayer accepts a player id or display name within the session.
func (a *app) resolvePlayer(ctx context.Context, key domain.SessionKey, ref string) (domain.PlayerID, error) {
	session, err := a.service.GetSession(ctx, key)
	if err != nil {
		return 0, err
	}
	player, ok := session.LookupPlayer(ref)
	if !ok {
		return 0, fmt.Errorf("%w: no player %q in %s", domain.ErrNotInRoster, ref, key)
	}
	return player.ID, nil
}
