package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds the tunable rules for a Coalition session.
type GameConfig struct {
	TrackLength      int `json:"track_length"`
	DiceSides        int `json:"dice_sides"`
	InitialInfluence int `json:"initial_influence"`
	InitialTokens    int `json:"initial_tokens"`
	WinInfluenceMin  int `json:"win_influence_min"`

	InitialStability  int `json:"initial_stability"`
	InitialBudget     int `json:"initial_budget"`
	StabilityHigh     int `json:"stability_high"`
	StabilityLow      int `json:"stability_low"`
	StabilityCollapse int `json:"stability_collapse"`
	BudgetHigh        int `json:"budget_high"`
	BudgetLow         int `json:"budget_low"`
	BudgetCollapse    int `json:"budget_collapse"`

	// CrisisChancePercent is rolled once at the top of each turn.
	CrisisChancePercent int `json:"crisis_chance_percent"`
	CrisisRoundSeconds  int `json:"crisis_round_seconds"`

	// Phase fairness timeouts, in seconds of match ticks. A blocked phase
	// force-advances when its deadline passes so an AFK player cannot
	// stall the session.
	ReviewTimeoutSeconds      int `json:"review_timeout_seconds"`
	DeliberateTimeoutSeconds  int `json:"deliberate_timeout_seconds"`
	VoteTimeoutSeconds        int `json:"vote_timeout_seconds"`
	AcknowledgeTimeoutSeconds int `json:"acknowledge_timeout_seconds"`
	TurnTimeoutSeconds        int `json:"turn_timeout_seconds"`

	// WinnerPrestige is credited to the winner's wallet at settlement.
	WinnerPrestige int64 `json:"winner_prestige"`
	// SurvivorPrestige is credited to every non-winning player when the
	// game ends without a collapse.
	SurvivorPrestige int64 `json:"survivor_prestige"`

	// BotAutoFillDelaySeconds configures how long a solo human waits in
	// the lobby before bots are seated.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// Default returns the built-in ruleset used when no config file is loaded
// or when a loaded config omits a field.
func Default() GameConfig {
	return GameConfig{
		TrackLength:      24,
		DiceSides:        6,
		InitialInfluence: 5,
		InitialTokens:    3,
		WinInfluenceMin:  3,

		InitialStability:  50,
		InitialBudget:     50,
		StabilityHigh:     70,
		StabilityLow:      30,
		StabilityCollapse: 10,
		BudgetHigh:        70,
		BudgetLow:         30,
		BudgetCollapse:    10,

		CrisisChancePercent: 15,
		CrisisRoundSeconds:  30,

		ReviewTimeoutSeconds:      30,
		DeliberateTimeoutSeconds:  90,
		VoteTimeoutSeconds:        45,
		AcknowledgeTimeoutSeconds: 20,
		TurnTimeoutSeconds:        60,

		WinnerPrestige:   500,
		SurvivorPrestige: 100,

		BotAutoFillDelaySeconds: 10,
	}
}

// GetGameConfig returns the effective configuration: the loaded file with
// zero-valued fields backfilled from the defaults.
func GetGameConfig() GameConfig {
	def := Default()
	if cfg == nil {
		return def
	}

	c := *cfg
	fill := func(dst *int, fallback int) {
		if *dst == 0 {
			*dst = fallback
		}
	}
	fill(&c.TrackLength, def.TrackLength)
	fill(&c.DiceSides, def.DiceSides)
	fill(&c.InitialInfluence, def.InitialInfluence)
	fill(&c.InitialTokens, def.InitialTokens)
	fill(&c.WinInfluenceMin, def.WinInfluenceMin)
	fill(&c.InitialStability, def.InitialStability)
	fill(&c.InitialBudget, def.InitialBudget)
	fill(&c.StabilityHigh, def.StabilityHigh)
	fill(&c.StabilityLow, def.StabilityLow)
	fill(&c.StabilityCollapse, def.StabilityCollapse)
	fill(&c.BudgetHigh, def.BudgetHigh)
	fill(&c.BudgetLow, def.BudgetLow)
	fill(&c.BudgetCollapse, def.BudgetCollapse)
	fill(&c.CrisisChancePercent, def.CrisisChancePercent)
	fill(&c.CrisisRoundSeconds, def.CrisisRoundSeconds)
	fill(&c.ReviewTimeoutSeconds, def.ReviewTimeoutSeconds)
	fill(&c.DeliberateTimeoutSeconds, def.DeliberateTimeoutSeconds)
	fill(&c.VoteTimeoutSeconds, def.VoteTimeoutSeconds)
	fill(&c.AcknowledgeTimeoutSeconds, def.AcknowledgeTimeoutSeconds)
	fill(&c.TurnTimeoutSeconds, def.TurnTimeoutSeconds)
	fill(&c.BotAutoFillDelaySeconds, def.BotAutoFillDelaySeconds)
	if c.WinnerPrestige == 0 {
		c.WinnerPrestige = def.WinnerPrestige
	}
	if c.SurvivorPrestige == 0 {
		c.SurvivorPrestige = def.SurvivorPrestige
	}
	return c
}
