package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/services/pipeline"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/parsers"
)

// Worker is the background execution context. One long-lived goroutine
// handles commands strictly sequentially; it keeps no state between
// commands. Teardown via Shutdown stops the loop and suppresses any further
// event delivery.
type Worker struct {
	commands chan Command
	events   chan Event
	done     chan struct{}
	stopOnce sync.Once

	factory    *parsers.ParserFactory
	driver     *pipeline.Driver
	logger     *slog.Logger
	sampleRows int
}

// WorkerConfig tunes a worker
type WorkerConfig struct {
	EventBufferSize int
	SampleRows      int
	ParserConfig    *parsers.ParserConfig
}

// NewWorker creates and starts a background worker. A READY event is
// emitted once on startup.
func NewWorker(cfg WorkerConfig, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = 64
	}
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = 5
	}

	w := &Worker{
		commands:   make(chan Command),
		events:     make(chan Event, cfg.EventBufferSize),
		done:       make(chan struct{}),
		factory:    parsers.NewParserFactory(cfg.ParserConfig),
		driver:     pipeline.NewDriver(logger),
		logger:     logger,
		sampleRows: cfg.SampleRows,
	}

	go w.run()
	return w
}

// Events returns the worker-to-caller event stream
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Send hands a command to the worker. It blocks until the worker accepts
// it or has been shut down.
func (w *Worker) Send(cmd Command) error {
	select {
	case w.commands <- cmd:
		return nil
	case <-w.done:
		return fmt.Errorf("worker is shut down")
	}
}

// Shutdown terminates the worker. In-flight work stops at the next chunk
// boundary and no further events are delivered.
func (w *Worker) Shutdown() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

func (w *Worker) run() {
	w.emit(ReadyEvent{})
	w.logger.Debug("worker started")

	for {
		select {
		case <-w.done:
			w.logger.Debug("worker stopped")
			return
		case cmd := <-w.commands:
			w.handle(cmd)
		}
	}
}

// handle dispatches one command. The command union is sealed, so the type
// switch covers every message kind.
func (w *Worker) handle(cmd Command) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker command panic",
				slog.String("command", cmd.Name()),
				slog.Any("panic", r))
			w.emit(ErrorEvent{Message: fmt.Sprintf("%s failed: %v", cmd.Name(), r)})
		}
	}()

	ctx := w.commandContext()
	defer ctx.cancel()

	switch c := cmd.(type) {
	case ParseFileCommand:
		w.handleParse(ctx.Context, c)
	case ValidateDataCommand:
		w.handleValidate(ctx.Context, c)
	case ProcessImportCommand:
		w.handleImport(ctx.Context, c)
	}
}

func (w *Worker) handleParse(ctx context.Context, cmd ParseFileCommand) {
	w.logger.Info("parsing file",
		slog.String("file", cmd.FileName),
		slog.String("type", string(cmd.FileType)),
		slog.Int("bytes", len(cmd.Data)))

	result, err := w.factory.Decode(ctx, cmd.Data, cmd.FileType)
	if err != nil {
		w.emit(ErrorEvent{Message: err.Error()})
		return
	}

	w.emit(ProgressEvent{Progress: pipeline.Progress{
		Phase:          pipeline.PhaseParsing,
		Progress:       100,
		Message:        fmt.Sprintf("parsed %d rows from %s", len(result.Rows), cmd.FileName),
		ProcessedCount: len(result.Rows),
		TotalCount:     len(result.Rows),
	}})

	sample := result.Rows
	if len(sample) > w.sampleRows {
		sample = sample[:w.sampleRows]
	}

	w.emit(ParseCompleteEvent{
		Headers:    result.Headers,
		TotalRows:  len(result.Rows),
		SampleRows: sample,
		Rows:       result.Rows,
	})
}

func (w *Worker) handleValidate(ctx context.Context, cmd ValidateDataCommand) {
	report, err := w.driver.ValidatePreview(ctx, cmd.Rows, cmd.Mapping, cmd.Rules, cmd.RequiredFields, w.emitProgress)
	if err != nil {
		w.emit(ErrorEvent{Message: err.Error()})
		return
	}
	w.emit(ValidationCompleteEvent{Report: report})
}

func (w *Worker) handleImport(ctx context.Context, cmd ProcessImportCommand) {
	outcome, err := w.driver.RunImport(ctx, cmd.Rows, cmd.Mapping, cmd.Rules, cmd.SkipInvalidRows, w.emitProgress)
	if err != nil {
		w.emit(ErrorEvent{Message: err.Error()})
		return
	}
	w.emit(ImportCompleteEvent{Outcome: outcome})
}

func (w *Worker) emitProgress(p pipeline.Progress) {
	w.emit(ProgressEvent{Progress: p})
}

// emit delivers one event unless the worker has been shut down
func (w *Worker) emit(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// commandContext ties a per-command context to worker shutdown so in-flight
// phases stop at the next chunk boundary after teardown
type commandCtx struct {
	context.Context
	cancel context.CancelFunc
}

func (w *Worker) commandContext() commandCtx {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-w.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return commandCtx{Context: ctx, cancel: cancel}
}
