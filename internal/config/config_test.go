package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	def := Default()
	if def.TrackLength != 24 || def.DiceSides != 6 {
		t.Fatalf("track=%d dice=%d", def.TrackLength, def.DiceSides)
	}
	if def.InitialInfluence != 5 || def.InitialTokens != 3 || def.WinInfluenceMin != 3 {
		t.Fatalf("influence=%d tokens=%d winMin=%d",
			def.InitialInfluence, def.InitialTokens, def.WinInfluenceMin)
	}
	if def.InitialStability != 50 || def.InitialBudget != 50 {
		t.Fatalf("stability=%d budget=%d", def.InitialStability, def.InitialBudget)
	}
	if def.StabilityCollapse != 10 || def.BudgetCollapse != 10 {
		t.Fatalf("collapse bounds %d/%d", def.StabilityCollapse, def.BudgetCollapse)
	}
	if def.CrisisChancePercent != 15 {
		t.Fatalf("crisis chance %d", def.CrisisChancePercent)
	}
	if def.WinnerPrestige != 500 || def.SurvivorPrestige != 100 {
		t.Fatalf("prestige %d/%d", def.WinnerPrestige, def.SurvivorPrestige)
	}
}

func TestGetGameConfigWithoutFile(t *testing.T) {
	saved := cfg
	defer func() { cfg = saved }()
	cfg = nil

	if got, want := GetGameConfig(), Default(); got != want {
		t.Fatalf("got %+v, want defaults", got)
	}
}

func TestGetGameConfigBackfillsZeroFields(t *testing.T) {
	saved := cfg
	defer func() { cfg = saved }()

	// A sparse config keeps its explicit values; everything it omits
	// falls back to the defaults.
	cfg = &GameConfig{TrackLength: 30, CrisisChancePercent: 100, WinnerPrestige: 1000}

	got := GetGameConfig()
	if got.TrackLength != 30 {
		t.Fatalf("explicit track length lost: %d", got.TrackLength)
	}
	if got.CrisisChancePercent != 100 {
		t.Fatalf("explicit crisis chance lost: %d", got.CrisisChancePercent)
	}
	if got.WinnerPrestige != 1000 {
		t.Fatalf("explicit winner prestige lost: %d", got.WinnerPrestige)
	}
	def := Default()
	if got.DiceSides != def.DiceSides || got.VoteTimeoutSeconds != def.VoteTimeoutSeconds {
		t.Fatalf("omitted fields not backfilled: dice=%d voteTimeout=%d",
			got.DiceSides, got.VoteTimeoutSeconds)
	}
	if got.SurvivorPrestige != def.SurvivorPrestige {
		t.Fatalf("survivor prestige not backfilled: %d", got.SurvivorPrestige)
	}
}

func TestLoadGameConfig(t *testing.T) {
	saved := cfg
	defer func() { cfg = saved }()
	cfg = nil

	path := filepath.Join(t.TempDir(), "game_config.json")
	body := `{"track_length": 12, "dice_sides": 4}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := GetGameConfig()
	if got.TrackLength != 12 || got.DiceSides != 4 {
		t.Fatalf("loaded values not applied: track=%d dice=%d", got.TrackLength, got.DiceSides)
	}
	if got.InitialInfluence != Default().InitialInfluence {
		t.Fatalf("omitted field not backfilled: %d", got.InitialInfluence)
	}
}
