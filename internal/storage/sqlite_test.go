package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	runs := []struct {
		score float64
		level int
	}{
		{12, 2},
		{4.5, 1},
		{30, 3},
	}
	for _, r := range runs {
		if _, err := store.SaveScore("stack", r.score, r.level); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("other", 500, 9); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("stack", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending, fractional scores intact
	if scores[0].Score != 30 || scores[0].Level != 3 {
		t.Errorf("Expected top run 30 at level 3, got %v at level %d", scores[0].Score, scores[0].Level)
	}
	if scores[1].Score != 12 {
		t.Errorf("Expected second score to be 12, got %v", scores[1].Score)
	}
	if scores[2].Score != 4.5 {
		t.Errorf("Expected third score to be 4.5, got %v", scores[2].Score)
	}
	if scores[0].GameID != "stack" {
		t.Errorf("GameID = %q", scores[0].GameID)
	}
}

func TestStoreTiesBreakOnLevel(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("stack", 10, 1)
	store.SaveScore("stack", 10, 4)

	scores, err := store.TopScores("stack", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if scores[0].Level != 4 {
		t.Errorf("Expected level 4 run first on equal score, got level %d", scores[0].Level)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("stack", float64((i+1)*10), 1)
	}

	scores, err := store.TopScores("stack", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 50 || scores[1].Score != 40 || scores[2].Score != 30 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	// Non-positive limit falls back to ten
	for i := 0; i < 10; i++ {
		store.SaveScore("stack", 1, 1)
	}
	scores, _ = store.TopScores("stack", 0)
	if len(scores) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("stack")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %v", high)
	}

	store.SaveScore("stack", 10, 1)
	store.SaveScore("stack", 22.5, 2)
	store.SaveScore("stack", 20, 2)

	high, err = store.HighScore("stack")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 22.5 {
		t.Errorf("Expected high score of 22.5, got %v", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("stack", 10, 1)
	store.SaveScore("stack", 20, 1)
	store.SaveScore("other", 30, 1)

	if err := store.ClearScores("stack"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("stack", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("other", 10); len(scores) != 1 {
		t.Errorf("Other game scores should not be affected by clearing stack")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		store.SaveScore("stack", float64(i), 1)
	}

	scores, err := store.AllScores("stack")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("stack")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	store.SaveScore("stack", 10, 1)
	store.SaveScore("stack", 20, 3)
	store.SaveScore("other", 5, 1)

	stats, err := store.GetGameStats("stack")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 20 || stats.BestLevel != 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 15 || stats.TotalScore != 30 {
		t.Errorf("Unexpected aggregates: avg=%v total=%v", stats.AvgScore, stats.TotalScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["other"].GamesCount != 1 {
		t.Errorf("Unexpected all-games stats: %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
