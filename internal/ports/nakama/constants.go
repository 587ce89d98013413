package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a
	// lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcVoiceToken is the Nakama RPC id clients call for a deliberation
	// voice-channel token.
	RpcVoiceToken = "voice_token"

	// MatchNameCoalition is the authoritative match handler name
	// registered with Nakama.
	MatchNameCoalition = "coalition_match"
)

// Op codes for client intents and server events.
const (
	// Client -> Server
	OpSelectIdeology int64 = 1
	OpStartGame      int64 = 2
	OpRollDice       int64 = 3
	OpMarkReady      int64 = 4
	OpSelectOption   int64 = 5
	OpProposeDeal    int64 = 6
	OpRespondDeal    int64 = 7
	OpCastVote       int64 = 8
	OpContribute     int64 = 9
	OpAcknowledge    int64 = 10
	OpChat           int64 = 11

	// Server -> Client events
	OpLobbyState        int64 = 100
	OpRoomState         int64 = 101 // sent per-viewer, never broadcast raw
	OpPhaseChanged      int64 = 102
	OpDiceRolled        int64 = 103
	OpCardDrawn         int64 = 104
	OpPlayerReady       int64 = 105
	OpOptionSelected    int64 = 106
	OpDealUpdate        int64 = 107
	OpDealBreach        int64 = 108
	OpVoteCast          int64 = 109
	OpTurnResult        int64 = 110
	OpCrisisTriggered   int64 = 111
	OpCrisisContributed int64 = 112
	OpCrisisResolved    int64 = 113
	OpGameEnded         int64 = 114
	OpChatRelay         int64 = 115
	OpGameError         int64 = 116
)
