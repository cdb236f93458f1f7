package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/fgodoybr/frotacontrol/internal/client/config"
	"github.com/fgodoybr/frotacontrol/internal/client/localdb"
	"github.com/fgodoybr/frotacontrol/internal/client/repositories/state"
	"github.com/fgodoybr/frotacontrol/internal/client/services"
	"github.com/fgodoybr/frotacontrol/internal/clockx"
	"github.com/fgodoybr/frotacontrol/internal/identity"
	"github.com/fgodoybr/frotacontrol/internal/identity/postgres"
	"github.com/fgodoybr/frotacontrol/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the terminal front end to the session service and the
// credential store.
type App struct {
	config  *config.Config
	logger  logging.Logger
	gw      identity.Gateway
	state   state.Repository
	session *services.SessionService
	reader  *bufio.Reader

	localDB *sql.DB
	storeDB *sql.DB
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := localdb.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	gw, storeDB, err := postgres.Open(ctx, c.StoreDSN)
	if err != nil {
		logger.Error(ctx, "error connecting to credential store", "error", err)
		db.Close()
		return nil, err
	}

	st := state.NewSQLiteRepository(db)
	clock := clockx.New()
	tracker := services.NewAttemptTracker(st, clock, logger, c)
	session := services.NewSessionService(ctx, gw, st, tracker, clock, logger, c)

	return &App{
		config:  c,
		logger:  logger,
		gw:      gw,
		state:   st,
		session: session,
		reader:  bufio.NewReader(os.Stdin),
		localDB: db,
		storeDB: storeDB,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases both database handles. Safe to call once.
func (a *App) Close() {
	if a.localDB != nil {
		a.localDB.Close()
		a.localDB = nil
	}
	if a.storeDB != nil {
		a.storeDB.Close()
		a.storeDB = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().User != nil
}
