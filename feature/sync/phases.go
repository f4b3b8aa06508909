package sync

import (
	"context"
	"fmt"
	"strings"

	"device-sync/core/document"
	deverrors "device-sync/core/errors"
	"device-sync/core/model"
	"device-sync/core/reconcile"
	"device-sync/core/target"

	"go.uber.org/zap"
)

// syncSizing writes the desired sizing constant when the target differs.
func (o *Orchestrator) syncSizing(ctx context.Context, cfg model.CategoryConfig) error {
	desired, err := o.source.GetSizingLimit(cfg.Name)
	if err != nil {
		return err
	}

	current, err := o.readSizing(ctx, cfg)
	if err != nil {
		return err
	}
	if current == desired {
		return nil
	}

	if err := o.repo.WriteConstant(ctx, cfg.SizingTable, cfg.SizingConstant, desired); err != nil {
		o.sizing.Invalidate(cfg.Name)
		return deverrors.NewExternalCallError("WriteConstant", cfg.SizingTable+"/"+cfg.SizingConstant, err)
	}
	o.sizing.Set(cfg.Name, desired)
	o.status.Publish(fmt.Sprintf("%s: %s changed from %d to %d", cfg.Name, cfg.SizingConstant, current, desired), false)
	return nil
}

func (o *Orchestrator) readSizing(ctx context.Context, cfg model.CategoryConfig) (int, error) {
	return o.sizing.GetOrLoad(ctx, cfg.Name, func(ctx context.Context) (int, error) {
		v, err := o.repo.ReadConstant(ctx, cfg.SizingTable, cfg.SizingConstant)
		if err != nil {
			return 0, deverrors.NewExternalCallError("ReadConstant", cfg.SizingTable+"/"+cfg.SizingConstant, err)
		}
		return v, nil
	})
}

// syncConstants applies the constant plan for desired, then writes each
// record's description as its comment. Every failed action is logged and the
// phase carries on; the phase fails if any action failed.
func (o *Orchestrator) syncConstants(ctx context.Context, cfg model.CategoryConfig, desired []model.Device, log *zap.Logger) error {
	existing, err := o.repo.ListConstants(ctx, cfg.ConstantTable)
	if err != nil {
		return deverrors.NewExternalCallError("ListConstants", cfg.ConstantTable, err)
	}

	plan := reconcile.PlanConstants(desired, existing)
	log.Debug("Constant plan",
		zap.Int("deletes", plan.Summary.Deletes),
		zap.Int("renames", plan.Summary.Renames),
		zap.Int("creates", plan.Summary.Creates),
	)

	failed := make(map[int]bool)
	var failures int
	for _, a := range plan.Actions {
		if err := o.apply(ctx, cfg, a); err != nil {
			failures++
			if a.Type != reconcile.ActionDelete {
				failed[a.ID] = true
			}
			log.Error("Constant action failed", zap.String("action", string(a.Type)), zap.Int("id", a.ID), zap.Error(err))
			continue
		}
		log.Debug("Constant action applied", zap.String("action", string(a.Type)), zap.Int("id", a.ID),
			zap.String("from", a.From), zap.String("to", a.To))
	}

	for _, rec := range desired {
		if failed[rec.ID()] {
			continue
		}
		h := target.Handle{Table: cfg.ConstantTable, Name: rec.DesiredTag(), Value: rec.ID()}
		comment := rec.Description()
		if err := o.repo.SetComment(ctx, h, comment); err != nil {
			log.Warn("Comment not written", zap.Int("id", rec.ID()), zap.Error(err))
			comment = rec.TargetComment()
		}
		rec.SetTarget(rec.DesiredTag(), comment)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d constant actions failed in %s", failures, len(plan.Actions), cfg.ConstantTable)
	}
	return nil
}

// apply executes one planned action.
func (o *Orchestrator) apply(ctx context.Context, cfg model.CategoryConfig, a reconcile.Action) error {
	h := target.Handle{Table: cfg.ConstantTable, Name: a.From, Value: a.ID}
	switch a.Type {
	case reconcile.ActionDelete:
		if err := o.repo.DeleteConstant(ctx, h); err != nil {
			return deverrors.NewExternalCallError("DeleteConstant", cfg.ConstantTable+"/"+a.From, err)
		}
	case reconcile.ActionRename:
		if err := o.repo.RenameConstant(ctx, h, a.To); err != nil {
			return deverrors.NewExternalCallError("RenameConstant", cfg.ConstantTable+"/"+a.From, err)
		}
	case reconcile.ActionCreate:
		if _, err := o.repo.CreateConstant(ctx, cfg.ConstantTable, a.To, a.ID); err != nil {
			return deverrors.NewExternalCallError("CreateConstant", cfg.ConstantTable+"/"+a.To, err)
		}
	default:
		return fmt.Errorf("unknown action %q", a.Type)
	}
	return nil
}

// compile compiles the category block and returns the reported error count.
func (o *Orchestrator) compile(ctx context.Context, cfg model.CategoryConfig) (int, error) {
	res, err := o.repo.Compile(ctx, cfg.Block)
	if err != nil {
		return res.ErrorCount, deverrors.NewExternalCallError("Compile", cfg.Block, err)
	}
	if res.ErrorCount > 0 {
		return res.ErrorCount, fmt.Errorf("block %s compiled with %d errors", cfg.Block, res.ErrorCount)
	}
	return 0, nil
}

// patchComments exports the block, writes one comment per record into the
// device array and imports the document back over the existing block.
func (o *Orchestrator) patchComments(ctx context.Context, cfg model.CategoryConfig, desired []model.Device) error {
	doc, err := o.repo.ExportDocument(ctx, cfg.Block)
	if err != nil {
		return deverrors.NewExternalCallError("ExportDocument", cfg.Block, err)
	}

	patched, err := o.patcher.PatchComments(doc, cfg.Array, desired)
	if err != nil {
		return err
	}

	if err := o.repo.ImportDocument(ctx, cfg.Block, patched, target.Override); err != nil {
		return deverrors.NewExternalCallError("ImportDocument", cfg.Block, err)
	}
	return nil
}

// verifyComments re-exports the block and checks that every desired record
// carries its comment in the device array.
func (o *Orchestrator) verifyComments(ctx context.Context, cfg model.CategoryConfig, desired []model.Device) error {
	doc, err := o.repo.ExportDocument(ctx, cfg.Block)
	if err != nil {
		return deverrors.NewExternalCallError("ExportDocument", cfg.Block, err)
	}

	comments, err := document.ReadComments(doc, cfg.Array, o.patcher.Language)
	if err != nil {
		return err
	}

	var differ int
	for _, rec := range desired {
		if comments[rec.ID()] != strings.TrimSpace(o.patcher.CommentText(rec)) {
			differ++
		}
	}
	if differ > 0 {
		return fmt.Errorf("%d comments in %s differ from the device list", differ, cfg.Block)
	}
	return nil
}
