package consumer

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// pipelineWorker runs one stage of the consume pipeline in its own goroutine
// and ties it to the fx lifecycle.
type pipelineWorker struct {
	name       string
	log        *zap.Logger
	run        func(ctx context.Context) error
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

func startPipelineWorker(lc fx.Lifecycle, name string, log *zap.Logger, run func(ctx context.Context) error) {
	w := &pipelineWorker{
		name: name,
		log:  log,
		run:  run,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.stop()
			return nil
		},
	})
}

func (w *pipelineWorker) start() {
	w.log.Info("starting " + w.name)
	var ctx context.Context
	ctx, w.cancelFunc = context.WithCancel(context.Background())
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.run(ctx); err != nil {
			w.log.Error(w.name+" stopped with error", zap.Error(err))
			return
		}
		w.log.Info(w.name + " stopped")
	}()
}

func (w *pipelineWorker) stop() {
	w.log.Info("stopping " + w.name)
	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.wg.Wait()
}
