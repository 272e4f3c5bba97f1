package worker

import "go.uber.org/fx"

// NewWorkerModule materialises every worker registered through Register.
// fx builds providers lazily, so without this invoke a worker nothing else
// depends on would never be constructed or started.
func NewWorkerModule() fx.Option {
	return fx.Invoke(
		fx.Annotate(
			func(workers []worker) {},
			fx.ParamTags(`group:"workers"`),
		),
	)
}
