package application_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kmabbott81/ai-hub-production/internal/application"
	"github.com/kmabbott81/ai-hub-production/internal/domain"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/persistence"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/persistence/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type workspaceFixture struct {
	svc   *application.WorkspaceService
	alice *domain.User
	bob   *domain.User
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := persistence.NewUserRepository(gdb)
	ctx := context.Background()
	alice := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := &domain.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	for _, u := range []*domain.User{alice, bob} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	svc := application.NewWorkspaceService(
		persistence.NewProjectRepository(gdb),
		persistence.NewThreadRepository(gdb),
		discardLogger(),
	)
	return &workspaceFixture{svc: svc, alice: alice, bob: bob}
}

func TestWorkspace_ProjectLifecycle(t *testing.T) {
	fx := newWorkspaceFixture(t)
	ctx := context.Background()

	project, err := fx.svc.CreateProject(ctx, fx.alice.ID, "research", "papers and notes")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	file, err := fx.svc.AddFile(ctx, fx.alice.ID, project.ID, "notes.md", "# notes", "text/markdown")
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if file.Size != int64(len("# notes")) {
		t.Errorf("file size = %d, want content length", file.Size)
	}

	files, err := fx.svc.ListFiles(ctx, fx.alice.ID, project.ID)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].Name != "notes.md" {
		t.Errorf("files = %+v, want the one uploaded file", files)
	}

	if err := fx.svc.DeleteProject(ctx, fx.alice.ID, project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := fx.svc.ListFiles(ctx, fx.alice.ID, project.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ListFiles after delete = %v, want ErrNotFound", err)
	}
}

func TestWorkspace_OwnershipEnforced(t *testing.T) {
	fx := newWorkspaceFixture(t)
	ctx := context.Background()

	project, err := fx.svc.CreateProject(ctx, fx.alice.ID, "private", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	thread, err := fx.svc.CreateThread(ctx, fx.alice.ID, "secrets", nil)
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	if _, err := fx.svc.ListFiles(ctx, fx.bob.ID, project.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("bob reading alice's files = %v, want ErrUnauthorized", err)
	}
	if err := fx.svc.DeleteProject(ctx, fx.bob.ID, project.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("bob deleting alice's project = %v, want ErrUnauthorized", err)
	}
	if _, err := fx.svc.ListMessages(ctx, fx.bob.ID, thread.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("bob reading alice's thread = %v, want ErrUnauthorized", err)
	}
	// A thread cannot be attached to someone else's project either.
	if _, err := fx.svc.CreateThread(ctx, fx.bob.ID, "t", &project.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("bob creating thread in alice's project = %v, want ErrUnauthorized", err)
	}
}

func TestWorkspace_ThreadTitleDefaultsAndTruncates(t *testing.T) {
	fx := newWorkspaceFixture(t)
	ctx := context.Background()

	blank, err := fx.svc.CreateThread(ctx, fx.alice.ID, "   ", nil)
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if blank.Title != "New chat" {
		t.Errorf("blank title = %q, want default", blank.Title)
	}

	long, err := fx.svc.CreateThread(ctx, fx.alice.ID, strings.Repeat("x", 200), nil)
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if len([]rune(long.Title)) != 50 {
		t.Errorf("long title length = %d, want 50", len([]rune(long.Title)))
	}
}
