package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
	inmemdb "github.com/trezcool/tafakari/storage/database/inmem"
	sqlxrepos "github.com/trezcool/tafakari/storage/database/sqlx"
)

// Database engines
const (
	EngineInMem    = "inmem"
	EnginePostgres = "postgres"
)

// Repositories are the repositories of the configured engine.
type Repositories struct {
	DB          *sqlx.DB // nil for the inmem engine
	Users       user.Repository
	Reflections reflection.Repository
}

// OpenRepositories opens the configured engine. The postgres database is created & migrated if needed.
func OpenRepositories(ctx context.Context, conf *core.Config) (*Repositories, error) {
	switch conf.Database.Engine {
	case "", EngineInMem:
		db, err := inmemdb.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening inmem database")
		}
		return &Repositories{
			Users:       inmemdb.NewUserRepository(db),
			Reflections: inmemdb.NewReflectionRepository(db),
		}, nil

	case EnginePostgres:
		if err := CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := Open(conf)
		if err != nil {
			return nil, err
		}
		if err = Migrate(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Repositories{
			DB:          db,
			Users:       sqlxrepos.NewUserRepository(db),
			Reflections: sqlxrepos.NewReflectionRepository(db),
		}, nil
	}
	return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}

// Store returns the RecordStore over the repositories.
func (r *Repositories) Store() *RecordStore {
	return NewRecordStore(r.Users, r.Reflections)
}

func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
