package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"device-sync/core/document"
	deverrors "device-sync/core/errors"
	"device-sync/core/logger"
	"device-sync/core/model"
	"device-sync/core/reconcile"
	"device-sync/core/status"
	"device-sync/core/target"

	"go.uber.org/zap"
)

// Source provides the desired state of each category.
type Source interface {
	GetDesiredRecords(category string) ([]model.Device, error)
	GetSizingLimit(category string) (int, error)
}

// Categories resolves category names to their configuration.
type Categories interface {
	Get(name string) (model.CategoryConfig, bool)
}

// Options configures an Orchestrator. Repo, Source and Categories are required.
type Options struct {
	Repo       target.Repository
	Source     Source
	Categories Categories
	Status     status.Channel
	Logger     *zap.Logger
	Patcher    *document.Patcher
	// SizingTTL bounds how long a sizing value read from the target is reused.
	SizingTTL time.Duration
}

// Orchestrator drives comparison and synchronization of device categories
// against the target. One session runs at a time.
type Orchestrator struct {
	repo       target.Repository
	source     Source
	categories Categories
	status     status.Channel
	log        *zap.Logger
	patcher    *document.Patcher
	sizing     *SizingCache

	mu    stdsync.Mutex
	views map[string]*model.DiffResult
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Status == nil {
		opts.Status = status.NewLogger(opts.Logger)
	}
	if opts.Patcher == nil {
		opts.Patcher = document.NewPatcher()
	}
	return &Orchestrator{
		repo:       opts.Repo,
		source:     opts.Source,
		categories: opts.Categories,
		status:     opts.Status,
		log:        opts.Logger,
		patcher:    opts.Patcher,
		sizing:     NewSizingCache(opts.SizingTTL),
		views:      make(map[string]*model.DiffResult),
	}
}

// Synchronize converges the target to the desired state of a category.
//
// Phases run in order: sizing, constants, compile, comments, verify. Verify
// re-exports the constant table and, when the patch ran, the block comments. A sizing
// failure aborts the run; other failures are recorded and the run continues,
// except that a failed compile skips the comment patch. Completed phases are
// never rolled back. The returned error is non-nil only when the category cannot
// be resolved or the run hit an unexpected fault.
func (o *Orchestrator) Synchronize(ctx context.Context, category string) (out *PhaseOutcome, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.SetBusy(true)
	defer o.status.SetBusy(false)

	out = &PhaseOutcome{Category: category}
	start := time.Now()
	defer func() { out.Duration = time.Since(start) }()
	defer o.recoverCritical("synchronize", category, out, &err)

	cfg, records, err := o.resolve(category)
	if err != nil {
		o.status.Publish(fmt.Sprintf("Synchronize %s: %v", category, err), true)
		return out, err
	}
	out.Category = cfg.Name
	log := logger.WithCategory(o.log, cfg.Name)
	desired := activeRecords(records)

	log.Info("Synchronization started", zap.Int("records", len(desired)))
	o.status.Publish(fmt.Sprintf("Synchronizing %s (%d records)", cfg.Name, len(desired)), false)

	out.Sizing = o.runPhase(log, cfg, PhaseSizing, func() error { return o.syncSizing(ctx, cfg) })
	if !out.Sizing {
		out.Aborted = true
		o.status.Publish(fmt.Sprintf("%s: sizing failed, synchronization aborted", cfg.Name), true)
		out.finish()
		return out, nil
	}

	out.Constants = o.runPhase(log, cfg, PhaseConstants, func() error { return o.syncConstants(ctx, cfg, desired, log) })

	out.Compile = o.runPhase(log, cfg, PhaseCompile, func() error {
		n, err := o.compile(ctx, cfg)
		out.CompileErrors = n
		return err
	})

	if out.Compile {
		out.Comments = o.runPhase(log, cfg, PhaseComments, func() error { return o.patchComments(ctx, cfg, desired) })
	} else {
		log.Warn("Comment patch skipped", zap.String("phase", PhaseComments))
		o.status.Publish(fmt.Sprintf("%s: comment patch skipped after failed compile", cfg.Name), true)
	}

	out.Verified = o.runPhase(log, cfg, PhaseVerify, func() error {
		diff, err := o.compare(ctx, cfg, desired)
		if err != nil {
			return err
		}
		out.Diff = diff
		if !diff.AllMatch {
			return fmt.Errorf("%d mismatched, %d new, %d orphaned", diff.Mismatched, diff.New, diff.Orphaned)
		}
		if out.Comments {
			return o.verifyComments(ctx, cfg, desired)
		}
		return nil
	})

	out.finish()
	if out.Overall {
		o.status.Publish(fmt.Sprintf("%s synchronized", cfg.Name), false)
	} else {
		o.status.Publish(fmt.Sprintf("%s synchronization finished with failures", cfg.Name), true)
	}
	log.Info("Synchronization finished", zap.Bool("overall", out.Overall), zap.Duration("duration", time.Since(start)))
	return out, nil
}

// Compare reconciles the desired records of a category against the target.
//
// With preserveLastDeleteState false every record is reset to Pending first.
// Otherwise records flagged for deletion stay ToDelete, whether or not the target
// still holds them, so the next Synchronize removes them.
func (o *Orchestrator) Compare(ctx context.Context, category string, preserveLastDeleteState bool) (diff *model.DiffResult, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.SetBusy(true)
	defer o.status.SetBusy(false)
	defer o.recoverCritical("compare", category, nil, &err)

	cfg, records, err := o.resolve(category)
	if err != nil {
		o.status.Publish(fmt.Sprintf("Compare %s: %v", category, err), true)
		return nil, err
	}

	if !preserveLastDeleteState {
		reconcile.ResetStatuses(records)
	}

	diff, err = o.compare(ctx, cfg, records)
	if err != nil {
		o.status.Publish(fmt.Sprintf("Compare %s: %v", cfg.Name, err), true)
		return nil, err
	}

	o.status.Publish(fmt.Sprintf("%s: %d synchronized, %d mismatched, %d new, %d to delete",
		cfg.Name, diff.Matched, diff.Mismatched, diff.New, diff.Orphaned), false)
	return diff, nil
}

// MarkForDeletion flags a desired record so the next Synchronize removes it from
// the target.
func (o *Orchestrator) MarkForDeletion(category string, id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cfg, records, err := o.resolve(category)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.ID() == id {
			rec.SetStatus(model.ToDelete())
			o.status.Publish(fmt.Sprintf("%s: record %d (%s) marked for deletion", cfg.Name, id, rec.DesiredTag()), false)
			return nil
		}
	}
	return deverrors.NewNotFoundError("record", fmt.Sprintf("%s/%d", cfg.Name, id))
}

// Plan returns the constant-table changes the next Synchronize would make,
// without touching the target.
func (o *Orchestrator) Plan(ctx context.Context, category string) (*reconcile.ConstantPlan, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cfg, records, err := o.resolve(category)
	if err != nil {
		return nil, err
	}
	existing, err := o.repo.ListConstants(ctx, cfg.ConstantTable)
	if err != nil {
		return nil, deverrors.NewExternalCallError("ListConstants", cfg.ConstantTable, err)
	}
	return reconcile.PlanConstants(activeRecords(records), existing), nil
}

// LastView returns the most recent comparison of a category, ghosts included.
func (o *Orchestrator) LastView(category string) (*model.DiffResult, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cfg, ok := o.categories.Get(category)
	if !ok {
		return nil, false
	}
	diff, ok := o.views[cfg.Name]
	return diff, ok
}

// ActualSizing returns the sizing constant of a category as held by the target.
func (o *Orchestrator) ActualSizing(ctx context.Context, category string) (int, error) {
	cfg, ok := o.categories.Get(category)
	if !ok {
		return 0, deverrors.UnknownCategory(category)
	}
	return o.readSizing(ctx, cfg)
}

func (o *Orchestrator) resolve(category string) (model.CategoryConfig, []model.Device, error) {
	cfg, ok := o.categories.Get(category)
	if !ok {
		return model.CategoryConfig{}, nil, deverrors.UnknownCategory(category)
	}
	records, err := o.source.GetDesiredRecords(cfg.Name)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, records, nil
}

// compare exports the constant table, reconciles and stores the view.
func (o *Orchestrator) compare(ctx context.Context, cfg model.CategoryConfig, records []model.Device) (*model.DiffResult, error) {
	constants, err := o.repo.ListConstants(ctx, cfg.ConstantTable)
	if err != nil {
		return nil, deverrors.NewExternalCallError("ListConstants", cfg.ConstantTable, err)
	}

	diff := reconcile.Reconcile(records, reconcile.FromConstants(constants))
	o.views[cfg.Name] = diff
	return diff, nil
}

// runPhase runs one phase, logs it and reports failures on the status channel.
func (o *Orchestrator) runPhase(log *zap.Logger, cfg model.CategoryConfig, phase string, fn func() error) bool {
	start := time.Now()
	err := fn()
	fields := []zap.Field{zap.String("phase", phase), zap.Duration("duration", time.Since(start))}

	if err != nil {
		log.Error("Phase failed", append(fields, zap.Error(err))...)
		o.status.Publish(fmt.Sprintf("%s: %s failed: %v", cfg.Name, phase, err), true)
		return false
	}
	log.Info("Phase finished", fields...)
	o.status.Publish(fmt.Sprintf("%s: %s done", cfg.Name, phase), false)
	return true
}

// recoverCritical turns a panic into a CriticalError. It must be deferred directly.
func (o *Orchestrator) recoverCritical(op, category string, out *PhaseOutcome, err *error) {
	r := recover()
	if r == nil {
		return
	}
	cerr := deverrors.NewCriticalError(op, r)
	o.log.Error("Critical failure", zap.String("category", category), zap.Any("panic", r), zap.Stack("stack"))
	o.status.Publish(fmt.Sprintf("%s %s: %v", op, category, cerr), true)
	if out != nil {
		out.Critical = true
		out.Overall = false
	}
	*err = cerr
}

// activeRecords drops records flagged for deletion.
func activeRecords(records []model.Device) []model.Device {
	out := make([]model.Device, 0, len(records))
	for _, rec := range records {
		if rec.Status().Kind == model.StatusToDelete {
			continue
		}
		out = append(out, rec)
	}
	return out
}
