package dbms

import (
	"context"

	"go.uber.org/fx"
)

// FXModule is an fx module that provides the DBMS component. It
// registers the constructor for dependency injection and a lifecycle
// hook that drains the connection pool on application stop.
//
// The application supplies a Config:
//
//	app := fx.New(
//	    dbms.FXModule,
//	    fx.Provide(func() dbms.Config {
//	        return loadDBMSConfig()
//	    }),
//	)
var FXModule = fx.Module("dbms",
	fx.Provide(NewWithDI),
	fx.Invoke(RegisterLifecycle),
)

// Params groups the dependencies needed to create a DBMS via dependency
// injection. The embedded fx.In marker enables automatic injection of
// the fields from the dependency container.
type Params struct {
	fx.In

	Config Config
}

// NewWithDI creates a DBMS using dependency injection. Construction
// dials the pool eagerly, so a misconfigured or unreachable database
// fails application startup rather than the first request.
func NewWithDI(params Params) (*DBMS, error) {
	return New(context.Background(), params.Config)
}

// LifecycleParams groups the dependencies needed for DBMS lifecycle
// management.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	DBMS      *DBMS
}

// RegisterLifecycle registers the shutdown hook: on application stop the
// pool drains in-flight operations within the configured grace period
// and closes every connection.
func RegisterLifecycle(params LifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return params.DBMS.Close(ctx)
		},
	})
}
