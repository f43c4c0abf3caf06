//go:build integration

package mongo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// setupResetTokens starts a MongoDB container and returns a repository bound
// to a fresh database.
func setupResetTokens(t *testing.T) *ResetTokenRepository {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate mongo container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	client, db, err := Connect(ctx, Config{URI: "mongodb://" + host + ":" + port.Port(), Database: "blog_test"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return NewResetTokenRepository(db)
}

func TestResetTokenRepository_MarkExpired_SingleUse(t *testing.T) {
	repo := setupResetTokens(t)
	ctx := context.Background()
	now := time.Now()

	token, err := repo.Create(ctx, "user-1", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	before, err := repo.MarkExpired(ctx, token.ID, now)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if before.Expired || before.UserID != "user-1" {
		t.Fatalf("claim must return the token as it was before: %+v", before)
	}

	if _, err := repo.MarkExpired(ctx, token.ID, now); !errors.Is(err, domain.ErrResetTokenExpired) {
		t.Fatalf("second claim: expected ErrResetTokenExpired, got %v", err)
	}

	stored, err := repo.FindByID(ctx, token.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !stored.Expired {
		t.Fatalf("claimed token must be stored as expired")
	}
}

func TestResetTokenRepository_MarkExpired_PastWindow(t *testing.T) {
	repo := setupResetTokens(t)
	ctx := context.Background()
	now := time.Now()

	token, err := repo.Create(ctx, "user-1", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.MarkExpired(ctx, token.ID, now); !errors.Is(err, domain.ErrResetTokenExpired) {
		t.Fatalf("expected ErrResetTokenExpired, got %v", err)
	}
	stored, err := repo.FindByID(ctx, token.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Expired {
		t.Fatalf("a failed claim must not modify the token")
	}

	if _, err := repo.MarkExpired(ctx, "no-such-token", now); !errors.Is(err, domain.ErrResetTokenExpired) {
		t.Fatalf("unknown id: expected ErrResetTokenExpired, got %v", err)
	}
}

func TestResetTokenRepository_MarkExpired_Concurrent(t *testing.T) {
	repo := setupResetTokens(t)
	ctx := context.Background()
	now := time.Now()

	token, err := repo.Create(ctx, "user-1", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const callers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.MarkExpired(ctx, token.ID, now)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			if !errors.Is(err, domain.ErrResetTokenExpired) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one successful claim, got %d", wins)
	}
}
