package importer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/services/pipeline"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/parsers"
	apperrors "github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/errors"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/metrics"
)

// State is the orchestrator's position in the import flow
type State string

const (
	StateIdle       State = "idle"
	StateParsing    State = "parsing"
	StateMapping    State = "mapping"
	StateValidating State = "validating"
	StateImporting  State = "importing"
	StateDone       State = "done"
)

// EmployeeStore is the storage surface the session drives after a
// successful import phase
type EmployeeStore interface {
	ReplaceAll(ctx context.Context, employees []domain.Employee, onBatch func(written, total int)) error
	ComputeStats(ctx context.Context) (*domain.AggregateStats, error)
}

// HistoryStore persists one import record per completed run
type HistoryStore interface {
	Create(ctx context.Context, record *domain.ImportRecord) error
}

// Session is the caller-side orchestrator for one import flow. It owns the
// worker lifecycle, enforces the state machine (at most one in-flight
// command), holds the parsed rows between commands, and times each phase
// with its own wall clock.
type Session struct {
	mu       sync.Mutex
	state    State
	inFlight bool
	closed   bool

	worker *Worker
	events chan Event

	rows     []domain.RawRow
	headers  []string
	fileName string
	fileSize int64

	phaseStarted time.Time
	phaseTimings map[string]time.Duration
	runStarted   time.Time
	done         chan struct{}

	store   EmployeeStore
	history HistoryStore
	logger  *slog.Logger
}

// SessionConfig wires a session
type SessionConfig struct {
	Worker  WorkerConfig
	Store   EmployeeStore
	History HistoryStore
}

// NewSession constructs a session and starts its background worker
func NewSession(cfg SessionConfig, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		state:        StateIdle,
		events:       make(chan Event, 64),
		done:         make(chan struct{}),
		phaseTimings: make(map[string]time.Duration),
		store:        cfg.Store,
		history:      cfg.History,
		logger:       logger,
	}
	s.worker = NewWorker(cfg.Worker, logger)

	go s.pump()
	return s
}

// Events returns the session's outward event stream. IMPORT_COMPLETE is
// delivered only after the snapshot has been persisted.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns the current orchestrator state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Headers returns the parsed column headers, available once parsing is done
func (s *Session) Headers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers
}

// PhaseTimings returns the wall-clock duration of each completed phase
func (s *Session) PhaseTimings() map[string]time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Duration, len(s.phaseTimings))
	for k, v := range s.phaseTimings {
		out[k] = v
	}
	return out
}

// ParseFile sends the raw file to the worker for decoding
func (s *Session) ParseFile(data []byte, fileName string) error {
	fileType, err := parsers.TypeForFileName(fileName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperrors.New(apperrors.ErrCodeInvalidState, "session is closed")
	}
	if s.inFlight {
		s.mu.Unlock()
		return apperrors.WorkerBusy("PARSE_FILE")
	}
	if s.state != StateIdle && s.state != StateMapping && s.state != StateDone {
		state := s.state
		s.mu.Unlock()
		return apperrors.InvalidState(string(state), "PARSE_FILE")
	}
	s.state = StateParsing
	s.inFlight = true
	s.fileName = fileName
	s.fileSize = int64(len(data))
	s.phaseStarted = time.Now()
	s.runStarted = time.Now()
	s.mu.Unlock()

	return s.worker.Send(ParseFileCommand{Data: data, FileName: fileName, FileType: fileType})
}

// Validate runs a validation preview over the parsed rows
func (s *Session) Validate(mapping domain.ColumnMapping, rules domain.TransformRules, requiredFields []string) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return apperrors.WorkerBusy("VALIDATE_DATA")
	}
	if s.state != StateMapping {
		state := s.state
		s.mu.Unlock()
		return apperrors.InvalidState(string(state), "VALIDATE_DATA")
	}
	rows := s.rows
	s.state = StateValidating
	s.inFlight = true
	s.phaseStarted = time.Now()
	s.mu.Unlock()

	return s.worker.Send(ValidateDataCommand{
		Rows:           rows,
		Mapping:        mapping,
		Rules:          rules,
		RequiredFields: requiredFields,
	})
}

// RunImport runs the full import phase and, on success, the storage phase:
// snapshot replacement, streaming aggregation, and history persistence.
func (s *Session) RunImport(mapping domain.ColumnMapping, rules domain.TransformRules, skipInvalidRows bool) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return apperrors.WorkerBusy("PROCESS_IMPORT")
	}
	if s.state != StateMapping {
		state := s.state
		s.mu.Unlock()
		return apperrors.InvalidState(string(state), "PROCESS_IMPORT")
	}
	rows := s.rows
	s.state = StateImporting
	s.inFlight = true
	s.phaseStarted = time.Now()
	s.mu.Unlock()

	metrics.ImportsStarted.Inc()

	return s.worker.Send(ProcessImportCommand{
		Rows:            rows,
		Mapping:         mapping,
		Rules:           rules,
		SkipInvalidRows: skipInvalidRows,
	})
}

// Reset tears down the worker and all in-memory session state. The session
// cannot be reused afterwards; construct a new one per import flow.
func (s *Session) Reset() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.rows = nil
	s.headers = nil
	s.state = StateIdle
	s.mu.Unlock()

	close(s.done)
	s.worker.Shutdown()
}

// pump relays worker events outward, advancing the state machine and
// running the storage phase when the import phase completes.
func (s *Session) pump() {
	defer close(s.events)

	for {
		var event Event
		select {
		case <-s.done:
			return
		case event = <-s.worker.Events():
		}

		switch e := event.(type) {
		case ReadyEvent, ProgressEvent:
			s.forward(event)

		case ParseCompleteEvent:
			s.mu.Lock()
			s.rows = e.Rows
			s.headers = e.Headers
			s.state = StateMapping
			s.inFlight = false
			s.phaseTimings[pipeline.PhaseParsing] = time.Since(s.phaseStarted)
			s.mu.Unlock()
			s.forward(event)

		case ValidationCompleteEvent:
			s.mu.Lock()
			s.state = StateMapping
			s.inFlight = false
			s.phaseTimings[pipeline.PhaseValidating] = time.Since(s.phaseStarted)
			s.mu.Unlock()
			s.forward(event)

		case ImportCompleteEvent:
			s.completeImport(e)

		case ErrorEvent:
			s.mu.Lock()
			s.inFlight = false
			wasImporting := s.state == StateImporting
			if s.state == StateParsing {
				s.state = StateIdle
			} else {
				s.state = StateMapping
			}
			s.mu.Unlock()
			if wasImporting {
				metrics.ImportsFailed.Inc()
			}
			s.forward(event)
		}
	}
}

// completeImport drives the storage phase. The employee table is only
// cleared here, after the whole transform/validate stage has produced the
// in-memory result set; a failed run leaves prior stored data untouched.
func (s *Session) completeImport(e ImportCompleteEvent) {
	ctx := context.Background()
	outcome := e.Outcome

	err := s.store.ReplaceAll(ctx, outcome.Records, func(written, total int) {
		s.forward(ProgressEvent{Progress: pipeline.Progress{
			Phase:          pipeline.PhaseStoring,
			Progress:       percentOf(written, total),
			Message:        "writing employee snapshot",
			ProcessedCount: written,
			TotalCount:     total,
		}})
	})
	if err != nil {
		s.failImport("snapshot replacement failed: " + err.Error())
		return
	}

	stats, err := s.store.ComputeStats(ctx)
	if err != nil {
		s.failImport("aggregation failed: " + err.Error())
		return
	}

	s.mu.Lock()
	fileName := s.fileName
	fileSize := s.fileSize
	processingTime := time.Since(s.runStarted)
	s.mu.Unlock()

	record := &domain.ImportRecord{
		FileName:          fileName,
		FileSize:          fileSize,
		TotalRecords:      outcome.TotalRows,
		RecordsSuccessful: outcome.Successful,
		RecordsFailed:     outcome.Failed,
		RecordsSkipped:    outcome.Skipped,
		ProcessingTimeMs:  processingTime.Milliseconds(),
		Timestamp:         time.Now().UTC(),
		ErrorLog:          domain.IssueList(outcome.Issues),
		Snapshot:          domain.SnapshotStats{AggregateStats: *stats},
	}
	if err := s.history.Create(ctx, record); err != nil {
		s.failImport("history persistence failed: " + err.Error())
		return
	}

	s.mu.Lock()
	s.state = StateDone
	s.inFlight = false
	s.phaseTimings[pipeline.PhaseImporting] = time.Since(s.phaseStarted)
	s.mu.Unlock()

	metrics.ImportsCompleted.Inc()
	metrics.RecordsPersisted.Add(len(outcome.Records))

	s.logger.Info("import completed",
		slog.String("file", fileName),
		slog.Int("total", outcome.TotalRows),
		slog.Int("persisted", len(outcome.Records)),
		slog.Int64("processing_time_ms", record.ProcessingTimeMs))

	s.forward(ImportCompleteEvent{Outcome: outcome, History: record})
}

func (s *Session) failImport(message string) {
	s.mu.Lock()
	s.state = StateMapping
	s.inFlight = false
	s.mu.Unlock()

	metrics.ImportsFailed.Inc()
	s.logger.Error("import storage phase failed", slog.String("error", message))
	s.forward(ErrorEvent{Message: message})
}

// forward delivers one event outward unless the session was reset
func (s *Session) forward(event Event) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	select {
	case s.events <- event:
	case <-s.done:
	}
}

func percentOf(part, total int) int {
	if total <= 0 {
		return 100
	}
	return part * 100 / total
}
