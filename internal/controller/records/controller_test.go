package records

import (
	"context"
	"errors"
	"testing"

	"github.com/kovacsd/petcare/internal/domain/models"
)

type fakeBackend struct {
	createCalls int
	deleteCalls int
	failCreate  error
	failDelete  error
	lastPetID   int64
	lastSegment string
	lastDraft   map[string]string
	lastID      int64
}

func (f *fakeBackend) CreateRecord(ctx context.Context, petID int64, segment string, draft map[string]string) (int64, error) {
	f.createCalls++
	f.lastPetID = petID
	f.lastSegment = segment
	f.lastDraft = draft
	if f.failCreate != nil {
		return 0, f.failCreate
	}
	return 99, nil
}

func (f *fakeBackend) DeleteRecord(ctx context.Context, segment string, id int64) error {
	f.deleteCalls++
	f.lastSegment = segment
	f.lastID = id
	if f.failDelete != nil {
		return f.failDelete
	}
	return nil
}

func newConditionController(backend Backend, onMutated MutationFunc) *Controller[models.MedicalCondition] {
	return New[models.MedicalCondition](Conditions, backend, nil, onMutated)
}

func TestSubmitCreate_Success_NotifiesOnceAndClosesOverlay(t *testing.T) {
	be := &fakeBackend{}
	notifications := 0
	ctrl := newConditionController(be, func(ctx context.Context, kind Kind) {
		notifications++
		if kind.PathSegment != "medicalConditions" {
			t.Fatalf("unexpected kind in notification: %s", kind.PathSegment)
		}
	})

	ctrl.StartCreate()
	ctrl.UpdateDraftField("conditionName", "Otitis")
	ctrl.UpdateDraftField("diagnosisDate", "2024-01-05")
	ctrl.UpdateDraftField("treatment", "Drops")
	ctrl.UpdateDraftField("status", "Resolved")

	if err := ctrl.SubmitCreate(context.Background(), 7); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if notifications != 1 {
		t.Fatalf("expected exactly 1 mutation notification, got %d", notifications)
	}
	if ctrl.Creating() {
		t.Fatal("overlay should close after successful create")
	}
	if ctrl.Draft() != nil {
		t.Fatal("draft should clear after successful create")
	}
	if be.lastPetID != 7 || be.lastSegment != "medicalConditions" {
		t.Fatalf("unexpected request target: petID=%d segment=%s", be.lastPetID, be.lastSegment)
	}
	if be.lastDraft["conditionName"] != "Otitis" {
		t.Fatalf("draft not sent: %v", be.lastDraft)
	}
}

func TestSubmitCreate_Failure_NoNotificationOverlayStaysOpen(t *testing.T) {
	be := &fakeBackend{failCreate: errors.New("boom")}
	notifications := 0
	ctrl := newConditionController(be, func(ctx context.Context, kind Kind) { notifications++ })

	ctrl.StartCreate()
	ctrl.UpdateDraftField("conditionName", "Otitis")

	if err := ctrl.SubmitCreate(context.Background(), 7); err == nil {
		t.Fatal("expected submit error")
	}

	if notifications != 0 {
		t.Fatalf("expected no notification on failure, got %d", notifications)
	}
	if !ctrl.Creating() {
		t.Fatal("overlay should stay open so the user can retry")
	}
	if ctrl.Draft()["conditionName"] != "Otitis" {
		t.Fatal("draft should survive a failed submit")
	}
	if ctrl.Err() == nil {
		t.Fatal("error should be surfaced")
	}

	// retry succeeds
	be.failCreate = nil
	if err := ctrl.SubmitCreate(context.Background(), 7); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if notifications != 1 {
		t.Fatalf("expected 1 notification after retry, got %d", notifications)
	}
}

// gatedBackend parks CreateRecord until released so a second call can be
// issued while the first is still in flight.
type gatedBackend struct {
	fakeBackend
	started chan struct{}
	release chan struct{}
}

func (g *gatedBackend) CreateRecord(ctx context.Context, petID int64, segment string, draft map[string]string) (int64, error) {
	g.started <- struct{}{}
	<-g.release
	return g.fakeBackend.CreateRecord(ctx, petID, segment, draft)
}

func TestSubmitCreate_SecondCallWhileInFlightIsBusy(t *testing.T) {
	be := &gatedBackend{started: make(chan struct{}), release: make(chan struct{})}
	notifications := 0
	ctrl := newConditionController(be, func(ctx context.Context, kind Kind) { notifications++ })

	ctrl.StartCreate()
	ctrl.UpdateDraftField("conditionName", "Otitis")

	done := make(chan error, 1)
	go func() { done <- ctrl.SubmitCreate(context.Background(), 7) }()
	<-be.started

	if err := ctrl.SubmitCreate(context.Background(), 7); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while in flight, got %v", err)
	}
	if !ctrl.Busy() {
		t.Fatal("Busy must report the in-flight call")
	}

	close(be.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if be.createCalls != 1 {
		t.Fatalf("expected exactly 1 backend call, got %d", be.createCalls)
	}
	if notifications != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", notifications)
	}
}

func TestSubmitCreate_WithoutDraft(t *testing.T) {
	ctrl := newConditionController(&fakeBackend{}, nil)
	if err := ctrl.SubmitCreate(context.Background(), 7); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestDeleteSelected_Success(t *testing.T) {
	be := &fakeBackend{}
	notifications := 0
	ctrl := newConditionController(be, func(ctx context.Context, kind Kind) { notifications++ })

	ctrl.SetRecords([]models.MedicalCondition{{ID: 11, ConditionName: "Colic"}})
	ctrl.View(ctrl.Records()[0])

	if err := ctrl.DeleteSelected(context.Background()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if notifications != 1 {
		t.Fatalf("expected 1 notification, got %d", notifications)
	}
	if ctrl.Viewing() {
		t.Fatal("detail overlay should close after deletion")
	}
	if be.lastID != 11 {
		t.Fatalf("deleted wrong record: %d", be.lastID)
	}
}

func TestDeleteSelected_Failure_OverlayStaysOpen(t *testing.T) {
	be := &fakeBackend{failDelete: errors.New("boom")}
	notifications := 0
	ctrl := newConditionController(be, func(ctx context.Context, kind Kind) { notifications++ })

	ctrl.SetRecords([]models.MedicalCondition{{ID: 11}})
	ctrl.View(ctrl.Records()[0])

	if err := ctrl.DeleteSelected(context.Background()); err == nil {
		t.Fatal("expected delete error")
	}
	if notifications != 0 {
		t.Fatal("no notification may fire on failure")
	}
	if !ctrl.Viewing() {
		t.Fatal("detail overlay should stay open on failure")
	}
}

func TestDeleteSelected_WithoutSelection(t *testing.T) {
	ctrl := newConditionController(&fakeBackend{}, nil)
	if err := ctrl.DeleteSelected(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestOverlays_AreMutuallyExclusive(t *testing.T) {
	ctrl := newConditionController(&fakeBackend{}, nil)
	ctrl.SetRecords([]models.MedicalCondition{{ID: 1}})

	ctrl.StartCreate()
	ctrl.View(ctrl.Records()[0])
	if ctrl.Viewing() {
		t.Fatal("view must be ignored while creating")
	}

	ctrl.CloseOverlay()
	ctrl.View(ctrl.Records()[0])
	ctrl.StartCreate()
	if ctrl.Creating() {
		t.Fatal("create must be ignored while viewing")
	}
}

func TestCloseOverlay_DiscardsDraft(t *testing.T) {
	ctrl := newConditionController(&fakeBackend{}, nil)
	ctrl.StartCreate()
	ctrl.UpdateDraftField("conditionName", "Otitis")
	ctrl.CloseOverlay()

	if ctrl.Creating() || ctrl.Draft() != nil {
		t.Fatal("closing the overlay must discard the draft")
	}
}

func TestSelectByID(t *testing.T) {
	ctrl := newConditionController(&fakeBackend{}, nil)
	ctrl.SetRecords([]models.MedicalCondition{{ID: 1}, {ID: 2}})

	if !ctrl.SelectByID(2) {
		t.Fatal("expected to find record 2")
	}
	sel, ok := ctrl.Selected()
	if !ok || sel.ID != 2 {
		t.Fatalf("wrong selection: %+v ok=%v", sel, ok)
	}
	if ctrl.SelectByID(42) {
		t.Fatal("record 42 does not exist")
	}
}

func TestSubmitCreate_DroppedAfterClose(t *testing.T) {
	be := &fakeBackend{}
	notifications := 0
	ctrl := newConditionController(be, func(ctx context.Context, kind Kind) { notifications++ })

	ctrl.StartCreate()
	ctrl.Close()

	if err := ctrl.SubmitCreate(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifications != 0 {
		t.Fatal("a response arriving after Close must not notify")
	}
	if !ctrl.Creating() {
		t.Fatal("state must not be touched after Close")
	}
}

func TestKindBySegment(t *testing.T) {
	k, ok := KindBySegment("medications")
	if !ok || k.Name != "Medication Records" {
		t.Fatalf("lookup failed: %+v ok=%v", k, ok)
	}
	if _, ok := KindBySegment("nope"); ok {
		t.Fatal("unknown segment must not resolve")
	}
	if len(Kinds()) != 6 {
		t.Fatalf("expected 6 kinds, got %d", len(Kinds()))
	}
}
