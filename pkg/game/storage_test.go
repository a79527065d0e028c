package game

import (
	"testing"
)

func TestOpenStorageSharesManager(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	st := OpenStorage("magorbit_storage_test")
	if !st.Persistent() {
		t.Skip("gdata unavailable in this environment")
	}

	st.Settings.SetDifficulty("insane")
	if err := st.Settings.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := st.Scores.Record(RunRecord{Outcome: OutcomeKO, Difficulty: "insane", FinalScore: 420}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	reopened := OpenStorage("magorbit_storage_test")
	if got := reopened.Settings.GetSettings().Difficulty; got != "insane" {
		t.Errorf("Difficulty = %q, want insane", got)
	}
	if got := reopened.Scores.BestScore(); got != 420 {
		t.Errorf("BestScore = %d, want 420", got)
	}
}

func TestMemoryStorage(t *testing.T) {
	st := MemoryStorage()
	if st.Persistent() {
		t.Error("MemoryStorage should not be persistent")
	}
	if err := st.Settings.Save(); err != nil {
		t.Errorf("Save() in memory mode = %v, want nil", err)
	}
	if _, err := st.Scores.Record(RunRecord{Outcome: OutcomeVictory, FinalScore: 10}); err != nil {
		t.Errorf("Record() in memory mode = %v", err)
	}
	if st.Scores.TotalRuns() != 1 {
		t.Errorf("TotalRuns = %d, want 1", st.Scores.TotalRuns())
	}
}
