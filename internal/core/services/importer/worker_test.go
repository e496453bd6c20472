package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/parsers"
)

const eventTimeout = 5 * time.Second

// awaitEvent drains the stream until an event of type T arrives. Progress
// events on the way are allowed; any other event type fails the test.
func awaitEvent[T Event](t *testing.T, events <-chan Event) T {
	t.Helper()

	deadline := time.After(eventTimeout)
	for {
		select {
		case event, ok := <-events:
			require.True(t, ok, "event stream closed while waiting")
			switch e := event.(type) {
			case T:
				return e
			case ProgressEvent, ReadyEvent:
				// intermediate, keep draining
			default:
				t.Fatalf("unexpected event %T while waiting: %+v", event, event)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event")
		}
	}
}

var workerMapping = domain.ColumnMapping{
	domain.FieldEmployeeID: "PersonNumber",
	domain.FieldDepartment: "Dept",
	domain.FieldBaseSalary: "Salary",
}

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	w := NewWorker(WorkerConfig{}, nil)
	t.Cleanup(w.Shutdown)
	return w
}

func TestWorker_EmitsReadyOnStartup(t *testing.T) {
	w := newTestWorker(t)

	event := <-w.Events()
	assert.IsType(t, ReadyEvent{}, event)
}

func TestWorker_ParseFile(t *testing.T) {
	w := newTestWorker(t)
	data := []byte("PersonNumber,Dept,Salary\nE1,Sales,50000\nE2,Engineering,60000\n")

	require.NoError(t, w.Send(ParseFileCommand{
		Data:     data,
		FileName: "staff.csv",
		FileType: parsers.FileTypeCSV,
	}))

	parsed := awaitEvent[ParseCompleteEvent](t, w.Events())
	assert.Equal(t, []string{"PersonNumber", "Dept", "Salary"}, parsed.Headers)
	assert.Equal(t, 2, parsed.TotalRows)
	assert.Len(t, parsed.Rows, 2)
	assert.Len(t, parsed.SampleRows, 2)
}

func TestWorker_ParseFile_SampleCapped(t *testing.T) {
	w := NewWorker(WorkerConfig{SampleRows: 2}, nil)
	t.Cleanup(w.Shutdown)

	data := []byte("PersonNumber\nE1\nE2\nE3\nE4\n")
	require.NoError(t, w.Send(ParseFileCommand{
		Data:     data,
		FileName: "staff.csv",
		FileType: parsers.FileTypeCSV,
	}))

	parsed := awaitEvent[ParseCompleteEvent](t, w.Events())
	assert.Equal(t, 4, parsed.TotalRows)
	assert.Len(t, parsed.SampleRows, 2)
	assert.Len(t, parsed.Rows, 4)
}

func TestWorker_ParseFile_BadInput(t *testing.T) {
	w := newTestWorker(t)

	require.NoError(t, w.Send(ParseFileCommand{
		Data:     []byte{},
		FileName: "staff.csv",
		FileType: parsers.FileTypeCSV,
	}))

	errEvent := awaitEvent[ErrorEvent](t, w.Events())
	assert.Contains(t, errEvent.Message, "FILE_PARSE_ERROR")
}

func TestWorker_ReusableAfterError(t *testing.T) {
	w := newTestWorker(t)

	require.NoError(t, w.Send(ParseFileCommand{
		Data:     []byte{},
		FileName: "staff.csv",
		FileType: parsers.FileTypeCSV,
	}))
	awaitEvent[ErrorEvent](t, w.Events())

	// The worker survives a failed command and accepts the next one
	require.NoError(t, w.Send(ParseFileCommand{
		Data:     []byte("PersonNumber\nE1\n"),
		FileName: "staff.csv",
		FileType: parsers.FileTypeCSV,
	}))
	parsed := awaitEvent[ParseCompleteEvent](t, w.Events())
	assert.Equal(t, 1, parsed.TotalRows)
}

func TestWorker_ValidateData(t *testing.T) {
	w := newTestWorker(t)

	rows := []domain.RawRow{
		{Number: 2, Values: map[string]string{"PersonNumber": "E1", "Dept": "Sales"}},
		{Number: 3, Values: map[string]string{"PersonNumber": "", "Dept": "Sales"}},
	}

	require.NoError(t, w.Send(ValidateDataCommand{
		Rows:           rows,
		Mapping:        workerMapping,
		Rules:          domain.DefaultTransformRules(),
		RequiredFields: []string{domain.FieldEmployeeID},
	}))

	validated := awaitEvent[ValidationCompleteEvent](t, w.Events())
	assert.Equal(t, 2, validated.Report.Summary.TotalRows)
	assert.Equal(t, 1, validated.Report.Summary.ValidRows)
	assert.Equal(t, 1, validated.Report.Summary.ErrorCount)
}

func TestWorker_ProcessImport(t *testing.T) {
	w := newTestWorker(t)

	rows := []domain.RawRow{
		{Number: 2, Values: map[string]string{"PersonNumber": "E1", "Salary": "50000"}},
		{Number: 3, Values: map[string]string{"PersonNumber": "E2", "Salary": "60000"}},
	}

	require.NoError(t, w.Send(ProcessImportCommand{
		Rows:    rows,
		Mapping: workerMapping,
		Rules:   domain.DefaultTransformRules(),
	}))

	completed := awaitEvent[ImportCompleteEvent](t, w.Events())
	assert.Equal(t, 2, completed.Outcome.Successful)
	assert.Len(t, completed.Outcome.Records, 2)
	// The worker does not persist; the history entry is attached by the session
	assert.Nil(t, completed.History)
}

func TestWorker_SendAfterShutdown(t *testing.T) {
	w := NewWorker(WorkerConfig{}, nil)
	w.Shutdown()

	err := w.Send(ParseFileCommand{FileName: "staff.csv", FileType: parsers.FileTypeCSV})
	assert.Error(t, err)
}

func TestWorker_ShutdownIdempotent(t *testing.T) {
	w := NewWorker(WorkerConfig{}, nil)
	w.Shutdown()
	w.Shutdown()
}
