package worker

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/crawl-engine/internal/generator"
	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/internal/services/queue"
	"github.com/jwebster45206/crawl-engine/pkg/crawl"
	queuePkg "github.com/jwebster45206/crawl-engine/pkg/queue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

type workerFixture struct {
	worker  *Worker
	storage *services.MockStorage
	llm     *services.MockLLM
	mr      *miniredis.Miniredis
}

func setupWorker(t *testing.T) *workerFixture {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client, err := queue.NewClient("redis://"+mr.Addr(), testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create queue client: %v", err)
	}

	opt, err := redis.ParseURL("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("Failed to parse redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)

	mockLLM := services.NewMockLLM()
	mockStorage := services.NewMockStorage()
	gen := generator.New(mockLLM, testLogger())

	w := New(queue.NewGenerationQueue(client), gen, mockStorage, redisClient, testLogger(), "worker-test")

	t.Cleanup(func() {
		w.Stop()
		_ = redisClient.Close()
		_ = client.Close()
		mr.Close()
	})

	return &workerFixture{worker: w, storage: mockStorage, llm: mockLLM, mr: mr}
}

func testRequest() crawl.GenerationRequest {
	return crawl.GenerationRequest{
		Theme:          "Murder at the Brewery",
		City:           "Bristol",
		StopCount:      2,
		PuzzlesPerStop: 1,
	}
}

func validRawResponse(t *testing.T, stopCount, puzzlesPerStop int) string {
	t.Helper()

	resp := crawl.GeneratedResponse{
		Story: crawl.GeneratedStory{
			Title:        "The Vanishing Brewer",
			Introduction: crawl.StoryPart{Body: "It begins at {STOP_1}."},
			Resolution:   crawl.StoryPart{Body: "It ends."},
		},
	}
	for i := 1; i <= stopCount; i++ {
		resp.Locations = append(resp.Locations, crawl.GeneratedLocation{
			Order:       i,
			Placeholder: crawl.StopPlaceholder(i),
			Name:        "The Crown Tavern",
		})
		for j := 0; j < puzzlesPerStop; j++ {
			resp.Puzzles = append(resp.Puzzles, crawl.GeneratedPuzzle{
				Order:   i,
				Title:   "Cask Count",
				Type:    crawl.TypeMath,
				Content: "Count the casks behind the bar.",
				Answer:  "12",
			})
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	return string(data)
}

func TestProcessJob_Success(t *testing.T) {
	f := setupWorker(t)
	f.llm.SetResponses(validRawResponse(t, 2, 1))

	req := testRequest()
	game := crawl.NewGame(req, "anthropic")
	if err := f.storage.SaveGame(f.worker.ctx, game); err != nil {
		t.Fatalf("Failed to seed game: %v", err)
	}

	if err := f.worker.processJob(queuePkg.NewGenerateJob(game.ID, req)); err != nil {
		t.Fatalf("processJob failed: %v", err)
	}

	saved, err := f.storage.LoadGame(f.worker.ctx, game.ID)
	if err != nil || saved == nil {
		t.Fatalf("Failed to load game: %v", err)
	}
	if saved.Status != crawl.GameStatusComplete {
		t.Errorf("Status = %s, want %s", saved.Status, crawl.GameStatusComplete)
	}
	if saved.Response == nil || len(saved.Response.Locations) != 2 {
		t.Error("Expected generated content on the completed game")
	}
	if saved.Route == nil {
		t.Error("Expected a route estimate on the completed game")
	}
}

func TestProcessJob_GenerationFailureRecordsKind(t *testing.T) {
	f := setupWorker(t)
	f.llm.SetResponses("not json") // repeats for the retry as well

	req := testRequest()
	game := crawl.NewGame(req, "anthropic")
	if err := f.storage.SaveGame(f.worker.ctx, game); err != nil {
		t.Fatalf("Failed to seed game: %v", err)
	}

	if err := f.worker.processJob(queuePkg.NewGenerateJob(game.ID, req)); err != nil {
		t.Fatalf("processJob returned error: %v", err)
	}

	saved, err := f.storage.LoadGame(f.worker.ctx, game.ID)
	if err != nil || saved == nil {
		t.Fatalf("Failed to load game: %v", err)
	}
	if saved.Status != crawl.GameStatusFailed {
		t.Errorf("Status = %s, want %s", saved.Status, crawl.GameStatusFailed)
	}
	if saved.FailureKind != string(generator.KindParseFailed) {
		t.Errorf("FailureKind = %q, want %q", saved.FailureKind, generator.KindParseFailed)
	}
}

func TestProcessJob_MissingGameDropsJob(t *testing.T) {
	f := setupWorker(t)

	// No game saved: the pending record has expired.
	job := queuePkg.NewGenerateJob(uuid.New(), testRequest())
	if err := f.worker.processJob(job); err != nil {
		t.Errorf("Expected dropped job, got error: %v", err)
	}
	if f.llm.CallCount() != 0 {
		t.Errorf("Dropped job must not reach the provider, got %d calls", f.llm.CallCount())
	}
}

func TestProcessJob_UnknownJobType(t *testing.T) {
	f := setupWorker(t)

	job := queuePkg.NewGenerateJob(uuid.New(), testRequest())
	job.Type = "unknown"

	if err := f.worker.processJob(job); err == nil {
		t.Error("Expected an error for an unknown job type")
	}
}

func TestGameLock(t *testing.T) {
	f := setupWorker(t)
	gameID := uuid.New()

	locked, err := f.worker.acquireGameLock(gameID)
	if err != nil {
		t.Fatalf("acquireGameLock failed: %v", err)
	}
	if !locked {
		t.Fatal("Expected to acquire the lock")
	}

	// Second acquisition must fail while held.
	locked, err = f.worker.acquireGameLock(gameID)
	if err != nil {
		t.Fatalf("acquireGameLock failed: %v", err)
	}
	if locked {
		t.Error("Expected lock to be held")
	}

	f.worker.releaseGameLock(gameID)

	locked, err = f.worker.acquireGameLock(gameID)
	if err != nil {
		t.Fatalf("acquireGameLock failed: %v", err)
	}
	if !locked {
		t.Error("Expected lock to be free after release")
	}
}

func TestGameLock_NotReleasedByOtherWorker(t *testing.T) {
	f := setupWorker(t)
	gameID := uuid.New()

	if _, err := f.worker.acquireGameLock(gameID); err != nil {
		t.Fatalf("acquireGameLock failed: %v", err)
	}

	// A different worker id must not be able to release the lock.
	other := New(f.worker.queue, f.worker.gen, f.storage, f.worker.redisClient, testLogger(), "worker-other")
	defer other.Stop()
	other.releaseGameLock(gameID)

	locked, err := f.worker.acquireGameLock(gameID)
	if err != nil {
		t.Fatalf("acquireGameLock failed: %v", err)
	}
	if locked {
		t.Error("Lock should survive a release attempt by another worker")
	}
}
