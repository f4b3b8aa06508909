package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	deverrors "device-sync/core/errors"
	"device-sync/core/model"
	"device-sync/core/snapshot"
	"device-sync/core/status"
	"device-sync/core/target"
	"device-sync/core/target/mocks"
	"device-sync/feature/devices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const valvesBlock = `<Document><Section Name="Static"><Member Name="Valves" Datatype="Array[0..20] of Int"/></Section></Document>`

var valvesCategory = model.CategoryConfig{
	Name:           "Valves",
	Kind:           "valves",
	Sheet:          "valves",
	ConstantTable:  "Valves",
	SizingTable:    "Sizing",
	Block:          "DB_Valves",
	Array:          "Valves",
	SizingLimitKey: "valve_count",
	SizingConstant: "VALVE_COUNT",
}

type fixture struct {
	orch    *Orchestrator
	repo    *mocks.Repository
	status  *status.Recorder
	records []model.Device
	// block is the DB_Valves document as last imported.
	block []byte
}

func newFixture(t *testing.T, records ...model.Device) *fixture {
	t.Helper()
	store := snapshot.NewStore()
	store.Publish(map[string]*snapshot.Entry{
		"Valves": {
			Records:  records,
			Limit:    model.SizingLimit{Name: "valve_count", Value: 20},
			HasLimit: true,
		},
	}, map[string]int{"valve_count": 20})

	f := &fixture{repo: new(mocks.Repository), status: &status.Recorder{}, records: records}
	f.orch = New(Options{
		Repo:       f.repo,
		Source:     store,
		Categories: &devices.Catalog{Categories: []model.CategoryConfig{valvesCategory}},
		Status:     f.status,
		Logger:     zap.NewNop(),
		SizingTTL:  time.Minute,
	})
	return f
}

func handle(name string, id int) target.Handle {
	return target.Handle{Table: "Valves", Name: name, Value: id}
}

// expectBlock serves DB_Valves from f.block and keeps every imported document.
func (f *fixture) expectBlock() {
	f.block = []byte(valvesBlock)
	f.repo.On("ExportDocument", mock.Anything, "DB_Valves").Return(func() []byte { return f.block }, nil)
	f.repo.On("ImportDocument", mock.Anything, "DB_Valves", mock.Anything, target.Override).
		Run(func(args mock.Arguments) { f.block = args.Get(2).([]byte) }).
		Return(nil)
}

// expectDownstream stubs compile, comment patch and a matching verification.
func (f *fixture) expectDownstream(verify []target.Constant) {
	f.repo.On("Compile", mock.Anything, "DB_Valves").Return(target.CompileResult{Block: "DB_Valves"}, nil)
	f.expectBlock()
	f.repo.On("ListConstants", mock.Anything, "Valves").Return(verify, nil)
}

func TestSynchronize_FullRun(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", "Inlet"), model.NewRecord(2, "V2", "Outlet"))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(15, nil).Once()
	f.repo.On("WriteConstant", mock.Anything, "Sizing", "VALVE_COUNT", 20).Return(nil).Once()
	f.repo.On("ListConstants", mock.Anything, "Valves").
		Return([]target.Constant{{ID: 1, Name: "V1_OLD"}, {ID: 3, Name: "OLD"}}, nil).Once()
	f.repo.On("DeleteConstant", mock.Anything, handle("OLD", 3)).Return(nil).Once()
	f.repo.On("RenameConstant", mock.Anything, handle("V1_OLD", 1), "V1").Return(nil).Once()
	f.repo.On("CreateConstant", mock.Anything, "Valves", "V2", 2).Return(handle("V2", 2), nil).Once()
	f.repo.On("SetComment", mock.Anything, handle("V1", 1), "Inlet").Return(nil).Once()
	f.repo.On("SetComment", mock.Anything, handle("V2", 2), "Outlet").Return(nil).Once()
	f.repo.On("Compile", mock.Anything, "DB_Valves").Return(target.CompileResult{Block: "DB_Valves"}, nil)
	f.expectBlock()
	f.repo.On("ListConstants", mock.Anything, "Valves").
		Return([]target.Constant{{ID: 1, Name: "V1"}, {ID: 2, Name: "V2"}}, nil).Once()

	out, err := f.orch.Synchronize(context.Background(), "valves")
	require.NoError(t, err)
	assert.Contains(t, string(f.block), "V1 - Inlet")
	assert.Contains(t, string(f.block), "V2 - Outlet")

	assert.True(t, out.Sizing)
	assert.True(t, out.Constants)
	assert.True(t, out.Compile)
	assert.True(t, out.Comments)
	assert.True(t, out.Verified)
	assert.True(t, out.Overall)
	assert.Equal(t, "Valves", out.Category)
	require.NotNil(t, out.Diff)
	assert.Equal(t, 2, out.Diff.Matched)

	assert.Equal(t, "V1", f.records[0].TargetTag())
	assert.Equal(t, "Inlet", f.records[0].TargetComment())
	assert.Equal(t, []bool{true, false}, f.status.BusyLog)
	assert.Empty(t, f.status.Errors())
	f.repo.AssertExpectations(t)
}

func TestSynchronize_SizingConverges(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(15, nil).Once()
	f.repo.On("WriteConstant", mock.Anything, "Sizing", "VALVE_COUNT", 20).Return(nil).Once()
	f.repo.On("SetComment", mock.Anything, handle("V1", 1), "").Return(nil)
	f.expectDownstream([]target.Constant{{ID: 1, Name: "V1"}})

	first, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)
	assert.True(t, first.Overall)

	second, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)
	assert.True(t, second.Overall)

	f.repo.AssertNumberOfCalls(t, "WriteConstant", 1)
	f.repo.AssertNumberOfCalls(t, "ReadConstant", 1)
	f.repo.AssertNotCalled(t, "CreateConstant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "RenameConstant", mock.Anything, mock.Anything, mock.Anything)
}

func TestSynchronize_CompileFailureSkipsPatch(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(20, nil)
	f.repo.On("ListConstants", mock.Anything, "Valves").Return([]target.Constant{{ID: 1, Name: "V1"}}, nil)
	f.repo.On("SetComment", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.On("Compile", mock.Anything, "DB_Valves").
		Return(target.CompileResult{Block: "DB_Valves", ErrorCount: 2}, errors.New("2 errors"))

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)

	assert.True(t, out.Sizing)
	assert.True(t, out.Constants)
	assert.False(t, out.Compile)
	assert.False(t, out.Comments)
	assert.True(t, out.Verified)
	assert.False(t, out.Overall)
	assert.Equal(t, 2, out.CompileErrors)

	f.repo.AssertNotCalled(t, "ExportDocument", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "ImportDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "WriteConstant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NotEmpty(t, f.status.Errors())
}

func TestSynchronize_CompileErrorCountWithoutError(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(20, nil)
	f.repo.On("ListConstants", mock.Anything, "Valves").Return([]target.Constant{{ID: 1, Name: "V1"}}, nil)
	f.repo.On("SetComment", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.On("Compile", mock.Anything, "DB_Valves").Return(target.CompileResult{ErrorCount: 1}, nil)

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)
	assert.False(t, out.Compile)
	f.repo.AssertNotCalled(t, "ExportDocument", mock.Anything, mock.Anything)
}

func TestSynchronize_DroppedCommentsFailVerification(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", "Inlet"))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(20, nil)
	f.repo.On("SetComment", mock.Anything, handle("V1", 1), "Inlet").Return(nil)
	f.repo.On("Compile", mock.Anything, "DB_Valves").Return(target.CompileResult{Block: "DB_Valves"}, nil)
	f.repo.On("ExportDocument", mock.Anything, "DB_Valves").Return([]byte(valvesBlock), nil)
	f.repo.On("ImportDocument", mock.Anything, "DB_Valves", mock.Anything, target.Override).Return(nil)
	f.repo.On("ListConstants", mock.Anything, "Valves").Return([]target.Constant{{ID: 1, Name: "V1"}}, nil)

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)

	assert.True(t, out.Comments)
	assert.False(t, out.Verified)
	assert.False(t, out.Overall)
	require.NotEmpty(t, f.status.Errors())
	assert.Contains(t, f.status.Errors()[0], "1 comments in DB_Valves differ")
}

func TestSynchronize_SizingFailureAborts(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").
		Return(0, deverrors.NewNotFoundError("constant", "VALVE_COUNT"))

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)

	assert.False(t, out.Sizing)
	assert.True(t, out.Aborted)
	assert.False(t, out.Overall)
	f.repo.AssertNotCalled(t, "ListConstants", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Compile", mock.Anything, mock.Anything)
	require.NotEmpty(t, f.status.Errors())
	assert.Contains(t, f.status.Errors()[0], "VALVE_COUNT")
}

func TestSynchronize_CommentIsBestEffort(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", "Inlet"))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(20, nil)
	f.repo.On("SetComment", mock.Anything, handle("V1", 1), "Inlet").Return(errors.New("no comment slot"))
	f.expectDownstream([]target.Constant{{ID: 1, Name: "V1"}})

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)

	assert.True(t, out.Constants)
	assert.True(t, out.Overall)
	assert.Equal(t, "V1", f.records[0].TargetTag())
	assert.Empty(t, f.records[0].TargetComment())
}

func TestSynchronize_ConstantFailureContinues(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""), model.NewRecord(2, "V2", ""))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(20, nil)
	f.repo.On("ListConstants", mock.Anything, "Valves").Return([]target.Constant{{ID: 1, Name: "V1"}}, nil).Once()
	f.repo.On("CreateConstant", mock.Anything, "Valves", "V2", 2).Return(nil, errors.New("table locked"))
	f.repo.On("SetComment", mock.Anything, handle("V1", 1), "").Return(nil)
	f.expectDownstream([]target.Constant{{ID: 1, Name: "V1"}})

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)

	assert.False(t, out.Constants)
	assert.True(t, out.Compile)
	assert.True(t, out.Comments)
	assert.False(t, out.Verified)
	assert.False(t, out.Overall)
	assert.Equal(t, model.New(), f.records[1].Status())
}

func TestSynchronize_DeletesFlaggedAndDuplicates(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""), model.NewRecord(2, "V2", ""))
	require.NoError(t, f.orch.MarkForDeletion("Valves", 2))

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(20, nil)
	f.repo.On("ListConstants", mock.Anything, "Valves").
		Return([]target.Constant{{ID: 1, Name: "V1"}, {ID: 2, Name: "V2"}, {ID: 1, Name: "V1_COPY"}}, nil).Once()
	f.repo.On("DeleteConstant", mock.Anything, handle("V2", 2)).Return(nil).Once()
	f.repo.On("DeleteConstant", mock.Anything, handle("V1_COPY", 1)).Return(nil).Once()
	f.repo.On("SetComment", mock.Anything, handle("V1", 1), "").Return(nil)
	f.expectDownstream([]target.Constant{{ID: 1, Name: "V1"}})

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)

	assert.True(t, out.Overall)
	assert.Equal(t, model.ToDelete(), f.records[1].Status())
	f.repo.AssertExpectations(t)
}

// TestSynchronize_RemovesFlaggedRecordAfterPreservingCompare follows the
// operator flow: flag a record the target still holds, compare, then sync.
func TestSynchronize_RemovesFlaggedRecordAfterPreservingCompare(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""), model.NewRecord(4, "V4", ""))
	require.NoError(t, f.orch.MarkForDeletion("Valves", 4))

	f.repo.On("ListConstants", mock.Anything, "Valves").
		Return([]target.Constant{{ID: 1, Name: "V1"}, {ID: 4, Name: "V4"}}, nil).Twice()

	diff, err := f.orch.Compare(context.Background(), "Valves", true)
	require.NoError(t, err)
	assert.Equal(t, model.ToDelete(), f.records[1].Status())
	assert.Len(t, diff.Records, 2)
	assert.Equal(t, 1, diff.Orphaned)

	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(20, nil)
	f.repo.On("DeleteConstant", mock.Anything, handle("V4", 4)).Return(nil).Once()
	f.repo.On("SetComment", mock.Anything, handle("V1", 1), "").Return(nil)
	f.expectDownstream([]target.Constant{{ID: 1, Name: "V1"}})

	out, err := f.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)
	assert.True(t, out.Overall)
	f.repo.AssertExpectations(t)
}

func TestSynchronize_UnknownCategory(t *testing.T) {
	f := newFixture(t)

	out, err := f.orch.Synchronize(context.Background(), "Pumps")
	require.Error(t, err)
	assert.True(t, deverrors.Is(err, deverrors.ErrUnknownCategory))
	assert.False(t, out.Overall)
	assert.Equal(t, []bool{true, false}, f.status.BusyLog)
}

func TestCompare_PreserveDeleteState(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""), model.NewRecord(2, "V2", ""))
	f.repo.On("ListConstants", mock.Anything, "Valves").Return([]target.Constant{{ID: 1, Name: "V1"}, {ID: 7, Name: "OLD"}}, nil)
	require.NoError(t, f.orch.MarkForDeletion("Valves", 2))

	diff, err := f.orch.Compare(context.Background(), "Valves", true)
	require.NoError(t, err)
	assert.Equal(t, model.ToDelete(), f.records[1].Status())
	assert.Equal(t, 2, diff.Orphaned)

	diff, err = f.orch.Compare(context.Background(), "Valves", false)
	require.NoError(t, err)
	assert.Equal(t, model.New(), f.records[1].Status())
	assert.Equal(t, 1, diff.New)
	assert.Equal(t, 1, diff.Orphaned)

	view, ok := f.orch.LastView("valves")
	require.True(t, ok)
	assert.Same(t, diff, view)

	ghost, ok := view.ByID(7)
	require.True(t, ok)
	assert.True(t, model.IsGhost(ghost))
}

func TestCompare_Idempotent(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""), model.NewRecord(4, "V4", ""))
	f.repo.On("ListConstants", mock.Anything, "Valves").Return([]target.Constant{{ID: 1, Name: "V1"}, {ID: 4, Name: "X"}}, nil)

	first, err := f.orch.Compare(context.Background(), "Valves", false)
	require.NoError(t, err)
	second, err := f.orch.Compare(context.Background(), "Valves", false)
	require.NoError(t, err)

	assert.Equal(t, first.Matched, second.Matched)
	assert.Equal(t, first.Mismatched, second.Mismatched)
	assert.Equal(t, first.AllMatch, second.AllMatch)
	assert.Equal(t, model.Mismatched("X"), f.records[1].Status())
}

func TestCompare_ExternalFailure(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""))
	f.repo.On("ListConstants", mock.Anything, "Valves").Return(nil, errors.New("target offline"))

	_, err := f.orch.Compare(context.Background(), "Valves", false)
	require.Error(t, err)
	assert.True(t, deverrors.Is(err, deverrors.ErrExternalCall))
	assert.Contains(t, f.status.Errors()[0], "target offline")
}

func TestCompare_CriticalFailure(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""))
	f.repo.On("ListConstants", mock.Anything, "Valves").Panic("nil table handle")

	_, err := f.orch.Compare(context.Background(), "Valves", false)
	require.Error(t, err)
	assert.True(t, deverrors.Is(err, deverrors.ErrCritical))
	assert.Equal(t, []bool{true, false}, f.status.BusyLog)
	require.Len(t, f.status.Errors(), 1)
	assert.Contains(t, f.status.Errors()[0], "nil table handle")
}

func TestMarkForDeletion_UnknownRecord(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""))

	err := f.orch.MarkForDeletion("Valves", 9)
	assert.True(t, deverrors.Is(err, deverrors.ErrNotFound))

	err = f.orch.MarkForDeletion("Pumps", 1)
	assert.True(t, deverrors.Is(err, deverrors.ErrUnknownCategory))
}

func TestActualSizing(t *testing.T) {
	f := newFixture(t)
	f.repo.On("ReadConstant", mock.Anything, "Sizing", "VALVE_COUNT").Return(12, nil).Once()

	for i := 0; i < 2; i++ {
		v, err := f.orch.ActualSizing(context.Background(), "Valves")
		require.NoError(t, err)
		assert.Equal(t, 12, v)
	}
	f.repo.AssertExpectations(t)
}

func TestPlan(t *testing.T) {
	f := newFixture(t, model.NewRecord(1, "V1", ""), model.NewRecord(2, "V2", ""))
	f.repo.On("ListConstants", mock.Anything, "Valves").Return([]target.Constant{{ID: 1, Name: "X"}, {ID: 5, Name: "OLD"}}, nil)

	plan, err := f.orch.Plan(context.Background(), "Valves")
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.Deletes)
	assert.Equal(t, 1, plan.Summary.Renames)
	assert.Equal(t, 1, plan.Summary.Creates)

	f.repo.AssertNotCalled(t, "DeleteConstant", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "RenameConstant", mock.Anything, mock.Anything, mock.Anything)
}
