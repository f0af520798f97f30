package services

import (
	"testing"
	"time"

	"github.com/errwatch/errwatch/internal/models"
)

func seedEvents(t *testing.T, svc *EventService, projectID uint, n int, level string) []models.ErrorEvent {
	t.Helper()
	events := make([]models.ErrorEvent, 0, n)
	for i := 0; i < n; i++ {
		ev := models.ErrorEvent{
			ProjectID: projectID,
			Level:     level,
			Message:   "boom",
			State:     models.StateActive,
		}
		if err := svc.db.Create(&ev).Error; err != nil {
			t.Fatalf("failed to seed event: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func TestEventListScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	owner, project := seedOwner(t, db, true, "")
	svc := NewEventService(db)
	seedEvents(t, svc, project.ID, 3, models.LevelError)

	resp, err := svc.List(owner.ID, &EventListRequest{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 3 || len(resp.Items) != 3 {
		t.Errorf("total = %d, items = %d, want 3/3", resp.Total, len(resp.Items))
	}

	// A non-owner sees not-found, not an empty page.
	_, err = svc.List(owner.ID+1, &EventListRequest{ProjectID: project.ID})
	if status := appErrorStatus(t, err); status != 404 {
		t.Errorf("non-owner status = %d, want 404", status)
	}
}

func TestEventListFilters(t *testing.T) {
	db := setupTestDB(t)
	owner, project := seedOwner(t, db, true, "")
	svc := NewEventService(db)
	seedEvents(t, svc, project.ID, 2, models.LevelError)
	seedEvents(t, svc, project.ID, 1, models.LevelWarn)

	resp, err := svc.List(owner.ID, &EventListRequest{ProjectID: project.ID, Level: models.LevelWarn})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("filtered total = %d, want 1", resp.Total)
	}
}

func TestEventResolve(t *testing.T) {
	db := setupTestDB(t)
	owner, project := seedOwner(t, db, true, "")
	svc := NewEventService(db)
	events := seedEvents(t, svc, project.ID, 1, models.LevelError)

	resolved, err := svc.Resolve(owner.ID, events[0].ID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.State != models.StateResolved {
		t.Errorf("state = %q, want resolved", resolved.State)
	}
}

func TestEventMuteAndUnmute(t *testing.T) {
	db := setupTestDB(t)
	owner, project := seedOwner(t, db, true, "")
	svc := NewEventService(db)
	events := seedEvents(t, svc, project.ID, 1, models.LevelError)

	muted, err := svc.Mute(owner.ID, events[0].ID, 30)
	if err != nil {
		t.Fatalf("Mute() error = %v", err)
	}
	if muted.State != models.StateMuted || muted.MutedUntil == nil {
		t.Fatalf("muted event = %+v", muted)
	}
	if until := time.Until(*muted.MutedUntil); until < 29*time.Minute || until > 31*time.Minute {
		t.Errorf("MutedUntil %v not ~30m out", muted.MutedUntil)
	}

	unmuted, err := svc.Unmute(owner.ID, events[0].ID)
	if err != nil {
		t.Fatalf("Unmute() error = %v", err)
	}
	if unmuted.State != models.StateActive || unmuted.MutedUntil != nil {
		t.Errorf("unmuted event = %+v", unmuted)
	}
}

func TestEventMuteRejectsNonPositiveMinutes(t *testing.T) {
	db := setupTestDB(t)
	owner, project := seedOwner(t, db, true, "")
	svc := NewEventService(db)
	events := seedEvents(t, svc, project.ID, 1, models.LevelError)

	for _, minutes := range []int{0, -5} {
		_, err := svc.Mute(owner.ID, events[0].ID, minutes)
		if status := appErrorStatus(t, err); status != 400 {
			t.Errorf("Mute(%d) status = %d, want 400", minutes, status)
		}
	}
}

func TestEventStateChangeOtherOwner(t *testing.T) {
	db := setupTestDB(t)
	owner, project := seedOwner(t, db, true, "")
	svc := NewEventService(db)
	events := seedEvents(t, svc, project.ID, 1, models.LevelError)

	_, err := svc.Resolve(owner.ID+1, events[0].ID)
	if status := appErrorStatus(t, err); status != 404 {
		t.Errorf("foreign resolve status = %d, want 404", status)
	}
}

func TestMuteSweeperReactivatesExpired(t *testing.T) {
	db := setupTestDB(t)
	_, project := seedOwner(t, db, true, "")

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	expired := models.ErrorEvent{ProjectID: project.ID, Level: models.LevelError, Message: "old",
		State: models.StateMuted, MutedUntil: &past}
	active := models.ErrorEvent{ProjectID: project.ID, Level: models.LevelError, Message: "new",
		State: models.StateMuted, MutedUntil: &future}
	db.Create(&expired)
	db.Create(&active)

	sweeper := NewMuteSweeper(db)
	if got := sweeper.Sweep(); got != 1 {
		t.Errorf("Sweep() reactivated %d rows, want 1", got)
	}

	var reloaded models.ErrorEvent
	db.First(&reloaded, expired.ID)
	if reloaded.State != models.StateActive || reloaded.MutedUntil != nil {
		t.Errorf("expired mute not reactivated: %+v", reloaded)
	}

	db.First(&reloaded, active.ID)
	if reloaded.State != models.StateMuted {
		t.Error("unexpired mute must stay muted")
	}
}
