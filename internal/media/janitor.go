package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Janitor uploads files on behalf of the record services and releases them
// when the record they belong to is gone or was never saved.
type Janitor struct {
	store   Store
	orphans OrphanLog
	log     *zap.Logger
}

func NewJanitor(store Store, orphans OrphanLog, log *zap.Logger) *Janitor {
	return &Janitor{store: store, orphans: orphans, log: log}
}

// Upload sends a single file to the store.
func (j *Janitor) Upload(ctx context.Context, f File, opts UploadOptions) (Asset, error) {
	rc, err := f.Open()
	if err != nil {
		return Asset{}, fmt.Errorf("media: open %s: %w", f.Name, err)
	}
	defer rc.Close()

	asset, err := j.store.Upload(ctx, rc, opts)
	if err != nil {
		return Asset{}, err
	}
	if asset.Bytes == 0 {
		asset.Bytes = f.Size
	}
	return asset, nil
}

// UploadAll uploads files in order. When one fails the ones already uploaded
// are discarded and the error is returned.
func (j *Janitor) UploadAll(ctx context.Context, files []File, opts UploadOptions) ([]Asset, error) {
	assets := make([]Asset, 0, len(files))
	for _, f := range files {
		a, err := j.Upload(ctx, f, opts)
		if err != nil {
			j.Discard(ctx, "batch upload failed", assets...)
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// Discard deletes assets best-effort. It never fails: each failed delete is
// logged at warn level and recorded as an orphan for Reconcile.
func (j *Janitor) Discard(ctx context.Context, reason string, assets ...Asset) {
	if len(assets) == 0 {
		return
	}
	// cleanup must outlive a cancelled request
	ctx = context.WithoutCancel(ctx)

	for _, a := range assets {
		rt := resourceTypeOrDefault(a.ResourceType)
		err := j.store.Delete(ctx, a.StorageID, rt)
		if err == nil {
			continue
		}
		j.log.Warn("media cleanup failed",
			zap.String("storage_id", a.StorageID),
			zap.String("resource_type", string(rt)),
			zap.String("reason", reason),
			zap.Error(err),
		)
		if rerr := j.orphans.Record(ctx, Orphan{
			StorageID:    a.StorageID,
			ResourceType: rt,
			Reason:       reason,
			LastError:    err.Error(),
		}); rerr != nil {
			j.log.Error("failed to record media orphan",
				zap.String("storage_id", a.StorageID),
				zap.Error(rerr),
			)
		}
	}
}

type ReconcileReport struct {
	Attempted int `json:"attempted"`
	Removed   int `json:"removed"`
	Failed    int `json:"failed"`
}

// Reconcile retries up to limit recorded orphans and forgets the ones that
// are now deleted.
func (j *Janitor) Reconcile(ctx context.Context, limit int) (ReconcileReport, error) {
	var report ReconcileReport

	orphans, err := j.orphans.List(ctx, limit)
	if err != nil {
		return report, fmt.Errorf("media: list orphans: %w", err)
	}

	for _, o := range orphans {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Attempted++

		if err := j.store.Delete(ctx, o.StorageID, o.ResourceType); err != nil {
			report.Failed++
			j.log.Warn("orphan still not deleted",
				zap.String("storage_id", o.StorageID),
				zap.Int("attempts", o.Attempts+1),
				zap.Error(err),
			)
			o.LastError = err.Error()
			if rerr := j.orphans.Record(ctx, o); rerr != nil {
				return report, fmt.Errorf("media: record orphan: %w", rerr)
			}
			continue
		}

		if err := j.orphans.Remove(ctx, o.StorageID, o.ResourceType); err != nil {
			return report, fmt.Errorf("media: remove orphan: %w", err)
		}
		report.Removed++
	}

	j.log.Info("media reconcile finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("removed", report.Removed),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}
