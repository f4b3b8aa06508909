package sync

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"device-sync/core/database"
	"device-sync/core/document"
	"device-sync/core/model"
	"device-sync/core/snapshot"
	"device-sync/core/status"
	"device-sync/core/target"
	"device-sync/core/target/projectdb"
	"device-sync/feature/devices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type project struct {
	orch    *Orchestrator
	repo    *projectdb.Repository
	status  *status.Recorder
	records []model.Device
}

// newProject runs the orchestrator against a sqlite project holding the given
// Valves constants, a VALVE_COUNT of 10 and an uncommented DB_Valves block.
func newProject(t *testing.T, existing []target.Constant, records ...model.Device) *project {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   filepath.Join(t.TempDir(), "project.db"),
	})
	require.NoError(t, err)
	repo, err := projectdb.New(db)
	require.NoError(t, err)

	require.NoError(t, repo.CreateTable(ctx, "Sizing"))
	_, err = repo.CreateConstant(ctx, "Sizing", "VALVE_COUNT", 10)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTable(ctx, "Valves"))
	for _, c := range existing {
		_, err := repo.CreateConstant(ctx, "Valves", c.Name, c.ID)
		require.NoError(t, err)
	}
	require.NoError(t, repo.ImportDocument(ctx, "DB_Valves", []byte(valvesBlock), target.KeepExisting))

	store := snapshot.NewStore()
	store.Publish(map[string]*snapshot.Entry{
		"Valves": {
			Records:  records,
			Limit:    model.SizingLimit{Name: "valve_count", Value: 20},
			HasLimit: true,
		},
	}, map[string]int{"valve_count": 20})

	p := &project{repo: repo, status: &status.Recorder{}, records: records}
	p.orch = New(Options{
		Repo:       repo,
		Source:     store,
		Categories: &devices.Catalog{Categories: []model.CategoryConfig{valvesCategory}},
		Status:     p.status,
		Logger:     zap.NewNop(),
		SizingTTL:  time.Minute,
	})
	return p
}

func (p *project) constants(t *testing.T) []target.Constant {
	t.Helper()
	got, err := p.repo.ListConstants(context.Background(), "Valves")
	require.NoError(t, err)
	return got
}

func (p *project) sync(t *testing.T) *PhaseOutcome {
	t.Helper()
	out, err := p.orch.Synchronize(context.Background(), "Valves")
	require.NoError(t, err)
	return out
}

func TestProjectSync_ConvergesThenNoop(t *testing.T) {
	ctx := context.Background()
	p := newProject(t,
		[]target.Constant{{ID: 1, Name: "V1_OLD"}, {ID: 3, Name: "OLD"}},
		model.NewRecord(1, "V1", "Inlet"), model.NewRecord(2, "V2", "Outlet"),
	)

	out := p.sync(t)
	assert.True(t, out.Overall, "errors: %v", p.status.Errors())
	assert.Equal(t, []target.Constant{{ID: 1, Name: "V1"}, {ID: 2, Name: "V2"}}, p.constants(t))

	limit, err := p.repo.ReadConstant(ctx, "Sizing", "VALVE_COUNT")
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	doc, err := p.repo.ExportDocument(ctx, "DB_Valves")
	require.NoError(t, err)
	comments, err := document.ReadComments(doc, "Valves", document.DefaultLanguage)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "V1 - Inlet", 2: "V2 - Outlet"}, comments)

	plan, err := p.orch.Plan(ctx, "Valves")
	require.NoError(t, err)
	assert.Empty(t, plan.Actions)

	again := p.sync(t)
	assert.True(t, again.Overall)
	assert.Equal(t, []target.Constant{{ID: 1, Name: "V1"}, {ID: 2, Name: "V2"}}, p.constants(t))
	assert.Empty(t, p.status.Errors())
}

func TestProjectSync_DeletesFlaggedRecord(t *testing.T) {
	ctx := context.Background()
	p := newProject(t,
		[]target.Constant{{ID: 1, Name: "V1"}, {ID: 4, Name: "V4"}},
		model.NewRecord(1, "V1", ""), model.NewRecord(4, "V4", ""),
	)

	require.NoError(t, p.orch.MarkForDeletion("Valves", 4))
	diff, err := p.orch.Compare(ctx, "Valves", true)
	require.NoError(t, err)
	assert.Equal(t, model.ToDelete(), p.records[1].Status())
	assert.Equal(t, 1, diff.Orphaned)

	out := p.sync(t)
	assert.True(t, out.Overall, "errors: %v", p.status.Errors())
	assert.Equal(t, []target.Constant{{ID: 1, Name: "V1"}}, p.constants(t))

	diff, err = p.orch.Compare(ctx, "Valves", false)
	require.NoError(t, err)
	assert.Equal(t, model.New(), p.records[1].Status())
	assert.Equal(t, 1, diff.New)
}

func TestProjectSync_SwappedNames(t *testing.T) {
	p := newProject(t,
		[]target.Constant{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		model.NewRecord(1, "B", ""), model.NewRecord(2, "A", ""),
	)

	out := p.sync(t)
	assert.True(t, out.Constants, "errors: %v", p.status.Errors())
	assert.True(t, out.Overall)
	assert.Equal(t, []target.Constant{{ID: 1, Name: "B"}, {ID: 2, Name: "A"}}, p.constants(t))
}

func TestProjectSync_NameMovesToNewID(t *testing.T) {
	p := newProject(t,
		[]target.Constant{{ID: 1, Name: "X"}},
		model.NewRecord(2, "X", ""), model.NewRecord(1, "Y", ""),
	)

	out := p.sync(t)
	assert.True(t, out.Constants, "errors: %v", p.status.Errors())
	assert.True(t, out.Overall)
	assert.Equal(t, []target.Constant{{ID: 1, Name: "Y"}, {ID: 2, Name: "X"}}, p.constants(t))
}
