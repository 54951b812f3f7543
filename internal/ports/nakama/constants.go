package nakama

const (
	// RpcOpenSession is the Nakama RPC id a console calls to create a match and receive its seat ticket.
	RpcOpenSession = "echoes_open_session"

	// MatchNameEchoes is the authoritative match handler name registered with Nakama.
	MatchNameEchoes = "echoes_match"

	// HostConfigPath is read relative to the Nakama data directory.
	HostConfigPath = "data/echoes.ini"
)

// Join metadata keys.
const (
	MetadataTicket = "ticket"
	MetadataSeats  = "seats" // comma separated player ids the console drives; empty means both
)

// Match label keys.
const (
	MatchLabelKey_Game  = "game"
	MatchLabelKey_Phase = "phase"
	MatchLabelKey_Open  = "open"

	matchLabelGame = "echoes"
)

// Op codes for client messages and server events. Every payload is a
// google.protobuf.Struct in proto wire format.
const (
	// Client -> Server
	OpStartSession int64 = 1
	OpNextRound    int64 = 2 // optional {"mode": "EchoChase"} plays a single round of that mode
	OpInput        int64 = 3 // {"p1": {"x":1,"y":0,"resonance":true,"dash":false}, "p2": {...}}

	// Server -> Client events
	OpSessionStarted int64 = 101
	OpRoundStarted   int64 = 102
	OpOutcome        int64 = 103
	OpBeat           int64 = 104
	OpModeEvent      int64 = 105 // auto_score, carrier_changed, pulse_stolen, dissonance_shift, zone_reversed
	OpRoundEnded     int64 = 106
	OpSessionEnded   int64 = 107
	OpSnapshot       int64 = 108 // sent unreliably every tick while a round runs
	OpError          int64 = 109
)

// Inactivity limit before a match without a console shuts down.
const consoleGraceSeconds = 30
