// Package importer hosts the background execution context and the
// caller-side orchestration for an import session. The two sides share no
// mutable state; all communication is by copying typed messages over
// channels.
package importer

import (
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/services/pipeline"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/parsers"
)

// Command is the closed union of caller-to-worker messages. The marker
// method seals the set so dispatch is an exhaustive type switch.
type Command interface {
	isCommand()
	// Name identifies the command in logs and errors
	Name() string
}

// ParseFileCommand asks the worker to decode a raw file
type ParseFileCommand struct {
	Data     []byte
	FileName string
	FileType parsers.FileType
}

func (ParseFileCommand) isCommand()   {}
func (ParseFileCommand) Name() string { return "PARSE_FILE" }

// ValidateDataCommand asks the worker to run a validation preview. The rows
// travel with the command; the worker is stateless between commands.
type ValidateDataCommand struct {
	Rows           []domain.RawRow
	Mapping        domain.ColumnMapping
	Rules          domain.TransformRules
	RequiredFields []string
}

func (ValidateDataCommand) isCommand()   {}
func (ValidateDataCommand) Name() string { return "VALIDATE_DATA" }

// ProcessImportCommand asks the worker to run the full import phase
type ProcessImportCommand struct {
	Rows            []domain.RawRow
	Mapping         domain.ColumnMapping
	Rules           domain.TransformRules
	SkipInvalidRows bool
}

func (ProcessImportCommand) isCommand()   {}
func (ProcessImportCommand) Name() string { return "PROCESS_IMPORT" }

// Event is the closed union of worker-to-caller messages
type Event interface {
	isEvent()
}

// ReadyEvent is sent exactly once when the worker starts
type ReadyEvent struct{}

func (ReadyEvent) isEvent() {}

// ProgressEvent carries one progress/throughput sample
type ProgressEvent struct {
	pipeline.Progress
}

func (ProgressEvent) isEvent() {}

// ParseCompleteEvent terminates a PARSE_FILE command
type ParseCompleteEvent struct {
	Headers    []string
	TotalRows  int
	SampleRows []domain.RawRow
	Rows       []domain.RawRow
}

func (ParseCompleteEvent) isEvent() {}

// ValidationCompleteEvent terminates a VALIDATE_DATA command
type ValidationCompleteEvent struct {
	Report *domain.ValidationReport
}

func (ValidationCompleteEvent) isEvent() {}

// ImportCompleteEvent terminates a PROCESS_IMPORT command. When emitted by
// a session it additionally carries the persisted history entry.
type ImportCompleteEvent struct {
	Outcome *pipeline.ImportOutcome
	History *domain.ImportRecord
}

func (ImportCompleteEvent) isEvent() {}

// ErrorEvent terminates the in-flight command; the worker remains reusable
// for subsequent commands.
type ErrorEvent struct {
	Message string
}

func (ErrorEvent) isEvent() {}
