/*
Package middleware allows hooking into the builder and database of a run without either of them knowing.
*/
package middleware

import (
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/scheduler"
)

// Hooks holds all possible hooks which are called
// by the middleware during a run.
type Hooks struct {
	BuilderHooks scheduler.BuilderMiddleware
	DBHooks      dbms.DBMiddleware
}

type Middleware interface {
	// Get the struct of hooks to register
	Hooks() Hooks
}

// RegisterMiddleware takes in a middleware and registers it by modifying the
// passed config.
func RegisterMiddleware(m Middleware, conf *scheduler.Config) {
	hooks := m.Hooks()
	if conf.Builder == nil {
		conf.Builder = scheduler.DocumentBuilder{}
	}
	conf.Builder = scheduler.WrapBuilder(conf.Builder, hooks.BuilderHooks)
	conf.DB = dbms.WrapDB(conf.DB, hooks.DBHooks)
}
