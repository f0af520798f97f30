package services

import (
	"testing"
)

func TestProjectCreateIssuesUniqueKeys(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedOwner(t, db, true, "")
	svc := NewProjectService(db)

	first, err := svc.Create(user.ID, "checkout")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := svc.Create(user.ID, "billing")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if first.APIKey == "" || second.APIKey == "" {
		t.Fatal("projects must be issued an API key at creation")
	}
	if first.APIKey == second.APIKey {
		t.Error("API keys must be unique per project")
	}
}

func TestProjectCreateRequiresName(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedOwner(t, db, true, "")
	svc := NewProjectService(db)

	_, err := svc.Create(user.ID, "   ")
	if status := appErrorStatus(t, err); status != 400 {
		t.Errorf("blank name status = %d, want 400", status)
	}
}

func TestProjectRenameKeepsAPIKey(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedOwner(t, db, true, "")
	svc := NewProjectService(db)

	project, _ := svc.Create(user.ID, "checkout")
	originalKey := project.APIKey

	renamed, err := svc.Rename(user.ID, project.ID, "payments")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if renamed.Name != "payments" {
		t.Errorf("name = %q, want payments", renamed.Name)
	}
	if renamed.APIKey != originalKey {
		t.Error("rename must never rotate the API key")
	}
}

func TestProjectOwnershipScoping(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedOwner(t, db, true, "")
	svc := NewProjectService(db)

	project, _ := svc.Create(user.ID, "checkout")

	_, err := svc.Get(user.ID+1, project.ID)
	if status := appErrorStatus(t, err); status != 404 {
		t.Errorf("foreign Get status = %d, want 404", status)
	}

	if err := svc.Delete(user.ID+1, project.ID); err == nil {
		t.Error("foreign Delete must fail")
	}

	// The owner still sees the project untouched.
	if _, err := svc.Get(user.ID, project.ID); err != nil {
		t.Errorf("owner Get after foreign delete attempt: %v", err)
	}
}

func TestProjectDelete(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedOwner(t, db, true, "")
	svc := NewProjectService(db)

	project, _ := svc.Create(user.ID, "checkout")
	if err := svc.Delete(user.ID, project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := svc.Get(user.ID, project.ID)
	if status := appErrorStatus(t, err); status != 404 {
		t.Errorf("deleted project status = %d, want 404", status)
	}
}
