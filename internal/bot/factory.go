package bot

import "fmt"

// BotLevel selects a strategy implementation.
type BotLevel string

const (
	BotLevelBasic  BotLevel = "basic"
	BotLevelShrewd BotLevel = "shrewd"
)

// NewBrain creates a strategy for the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelBasic:
		return &BasicBot{}, nil
	case BotLevelShrewd:
		return &ShrewdBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}
