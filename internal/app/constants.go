package app

const (
	// MinPlayers and MaxPlayers bound the supported session size.
	MinPlayers = 3
	MaxPlayers = 5

	// MaxDealScopeTurns caps how many future votes a deal may bind.
	MaxDealScopeTurns = 5

	// MaxChatLength bounds relayed deliberation messages.
	MaxChatLength = 500
)
