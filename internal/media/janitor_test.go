package media

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func pngFile(name string) File {
	return BytesFile(name, "image/png", []byte("\x89PNG fake"))
}

func TestUploadAll_DiscardsBatchOnFailure(t *testing.T) {
	store := NewMemoryStore()
	store.FailUploadsAfter(2, errors.New("quota exceeded"))
	j := NewJanitor(store, NewMemoryOrphanLog(), zap.NewNop())

	files := []File{pngFile("a.png"), pngFile("b.png"), pngFile("c.png")}
	_, err := j.UploadAll(context.Background(), files, UploadOptions{Folder: "banners"})
	if err == nil {
		t.Fatalf("expected upload error")
	}
	if store.Len() != 0 {
		t.Fatalf("expected already uploaded files to be discarded, %d remain", store.Len())
	}
	if len(store.Deleted()) != 2 {
		t.Fatalf("expected 2 deletes, got %v", store.Deleted())
	}
}

func TestUploadAll_Success(t *testing.T) {
	store := NewMemoryStore()
	j := NewJanitor(store, NewMemoryOrphanLog(), zap.NewNop())

	assets, err := j.UploadAll(context.Background(), []File{pngFile("a.png"), pngFile("b.png")}, UploadOptions{Folder: "products"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 2 || store.Len() != 2 {
		t.Fatalf("expected 2 stored assets, got %d/%d", len(assets), store.Len())
	}
	for _, a := range assets {
		if !store.Has(a.StorageID) || a.ResourceType != ResourceImage {
			t.Fatalf("unexpected asset %+v", a)
		}
	}
}

func TestDiscard_RecordsOrphansAndLogs(t *testing.T) {
	store := NewMemoryStore()
	orphans := NewMemoryOrphanLog()
	core, logs := observer.New(zapcore.WarnLevel)
	j := NewJanitor(store, orphans, zap.New(core))

	a, err := j.Upload(context.Background(), pngFile("a.png"), UploadOptions{Folder: "products"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.FailDeletes(errors.New("media host down"))
	j.Discard(context.Background(), "product deleted", a)

	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	list, _ := orphans.List(context.Background(), 0)
	if len(list) != 1 || list[0].StorageID != a.StorageID || list[0].Reason != "product deleted" {
		t.Fatalf("unexpected orphans %+v", list)
	}

	// the same failure again only bumps attempts
	j.Discard(context.Background(), "product deleted", a)
	list, _ = orphans.List(context.Background(), 0)
	if len(list) != 1 || list[0].Attempts != 2 {
		t.Fatalf("expected attempts to be bumped, got %+v", list)
	}
}

func TestDiscard_SurvivesCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	j := NewJanitor(store, NewMemoryOrphanLog(), zap.NewNop())
	a, _ := j.Upload(context.Background(), pngFile("a.png"), UploadOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.Discard(ctx, "request aborted", a)

	if store.Has(a.StorageID) {
		t.Fatalf("expected asset to be deleted")
	}
}

func TestReconcile(t *testing.T) {
	store := NewMemoryStore()
	orphans := NewMemoryOrphanLog()
	j := NewJanitor(store, orphans, zap.NewNop())
	ctx := context.Background()

	a, _ := j.Upload(ctx, pngFile("a.png"), UploadOptions{})
	b, _ := j.Upload(ctx, pngFile("b.png"), UploadOptions{})
	store.FailDeletes(errors.New("down"))
	j.Discard(ctx, "replaced", a, b)

	report, err := j.Reconcile(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Attempted != 2 || report.Failed != 2 || report.Removed != 0 {
		t.Fatalf("unexpected report while host is down %+v", report)
	}

	store.FailDeletes(nil)
	report, err = j.Reconcile(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Removed != 2 {
		t.Fatalf("expected both orphans removed, got %+v", report)
	}
	if list, _ := orphans.List(ctx, 0); len(list) != 0 {
		t.Fatalf("expected empty orphan log, got %+v", list)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store to be empty")
	}
}
