// Package database executes database-operation actions. Only MongoDB is
// backed by a driver; the other accepted types report a notice.
package database

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/registry"
)

const (
	TypeMongoDB  = "mongodb"
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Stubbed types are accepted but not implemented.
var stubbed = action.StubbedDBTypes

const (
	// DefaultConnString is used when an action names no connection string.
	DefaultConnString = "mongodb://localhost:27017"
	// DefaultDatabase is used when an action names no database.
	DefaultDatabase = "saathi"
)

// Client is an open database connection.
type Client interface {
	CreateCollection(ctx context.Context, db, coll string) error
	Insert(ctx context.Context, db, coll string, docs []any) ([]any, error)
	Find(ctx context.Context, db, coll string, filter map[string]any, limit int64) ([]map[string]any, error)
	DropCollection(ctx context.Context, db, coll string) error
	Close(ctx context.Context) error
}

// Connector opens clients.
type Connector interface {
	Connect(ctx context.Context, connString string) (Client, error)
}

// Executor runs database actions, caching one client per connection string
// in the registry.
type Executor struct {
	reg       *registry.Registry
	connector Connector
	log       zerolog.Logger
}

// NewExecutor creates a database executor.
func NewExecutor(reg *registry.Registry, connector Connector, log zerolog.Logger) *Executor {
	return &Executor{reg: reg, connector: connector, log: log}
}

// Execute runs a.
func (e *Executor) Execute(ctx context.Context, a action.Action) (action.Result, error) {
	switch {
	case slices.Contains(stubbed, a.DBType):
		e.log.Warn().Str("dbType", a.DBType).Str("action", a.Action).Msg("database type not implemented")
		res := action.Ok(a, fmt.Sprintf("%s support is not implemented", a.DBType))
		res.Notice = "not implemented"
		return res, nil
	case a.DBType != TypeMongoDB:
		err := fmt.Errorf("%w: database type %q", action.ErrUnsupported, a.DBType)
		return action.Failed(a, err), err
	}

	if !slices.Contains(action.Verbs(action.KindDatabase), a.Action) {
		err := fmt.Errorf("%w: database action %q", action.ErrUnsupported, a.Action)
		return action.Failed(a, err), err
	}
	if a.Collection == "" {
		err := fmt.Errorf("%w: %s requires a collection", action.ErrInvalid, a.Action)
		return action.Failed(a, err), err
	}

	client, err := e.client(ctx, a)
	if err != nil {
		return action.Failed(a, err), err
	}

	db := a.Database
	if db == "" {
		db = DefaultDatabase
	}

	res, err := e.run(ctx, client, db, a)
	if err != nil {
		e.log.Error().Err(err).Str("action", a.Action).Str("collection", a.Collection).Msg("database action failed")
		return action.Failed(a, err), err
	}
	return res, nil
}

func (e *Executor) run(ctx context.Context, client Client, db string, a action.Action) (action.Result, error) {
	switch a.Action {
	case "create-collection":
		if err := client.CreateCollection(ctx, db, a.Collection); err != nil {
			return action.Result{}, fmt.Errorf("create collection %s: %w", a.Collection, err)
		}
		return action.Ok(a, fmt.Sprintf("created collection %s", a.Collection)), nil

	case "insert":
		docs := documents(a.Data)
		if len(docs) == 0 {
			return action.Result{}, fmt.Errorf("%w: insert requires data", action.ErrInvalid)
		}
		ids, err := client.Insert(ctx, db, a.Collection, docs)
		if err != nil {
			return action.Result{}, fmt.Errorf("insert into %s: %w", a.Collection, err)
		}
		res := action.Ok(a, fmt.Sprintf("inserted %d document(s) into %s", len(ids), a.Collection))
		res.Data = ids
		return res, nil

	case "query":
		found, err := client.Find(ctx, db, a.Collection, a.Query, int64(a.Options.Limit))
		if err != nil {
			return action.Result{}, fmt.Errorf("query %s: %w", a.Collection, err)
		}
		res := action.Ok(a, fmt.Sprintf("found %d document(s) in %s", len(found), a.Collection))
		res.Data = found
		return res, nil

	case "drop-collection":
		if err := client.DropCollection(ctx, db, a.Collection); err != nil {
			return action.Result{}, fmt.Errorf("drop collection %s: %w", a.Collection, err)
		}
		return action.Ok(a, fmt.Sprintf("dropped collection %s", a.Collection)), nil
	}

	return action.Result{}, fmt.Errorf("%w: database action %q", action.ErrUnsupported, a.Action)
}

// client returns the cached client for the action's connection string,
// connecting on first use.
func (e *Executor) client(ctx context.Context, a action.Action) (Client, error) {
	cs := a.ConnectionString
	if cs == "" {
		cs = DefaultConnString
	}

	if entry, ok := e.reg.LookupConn(cs); ok {
		if c, ok := entry.Conn.(Client); ok {
			return c, nil
		}
	}

	c, err := e.connector.Connect(ctx, cs)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", a.DBType, err)
	}

	e.reg.RegisterConn(&registry.ConnEntry{ConnString: cs, DBType: a.DBType, Conn: c})
	e.log.Info().Str("dbType", a.DBType).Msg("database connected")
	return c, nil
}

// documents normalises insert data: a list inserts many, anything else one.
func documents(data any) []any {
	switch v := data.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []map[string]any:
		docs := make([]any, 0, len(v))
		for _, d := range v {
			docs = append(docs, d)
		}
		return docs
	default:
		return []any{v}
	}
}
