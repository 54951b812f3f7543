package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"strings"
	"time"

	"echoes/internal/app"
	"echoes/internal/bot"
	"echoes/internal/config"
	"echoes/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
// A match is driven by exactly one console presence that submits input for
// the seats it claims; bots drive the others.
type MatchState struct {
	MatchID      string                           `json:"match_id"`
	Tick         int64                            `json:"tick"`
	TickRate     int                              `json:"tick_rate"`
	Console      runtime.Presence                 `json:"-"`
	Reserved     string                           `json:"reserved"`
	ConsoleSeats map[domain.PlayerID]bool         `json:"console_seats"`
	IdleTicks    int64                            `json:"idle_ticks"`
	Session      *app.Session                     `json:"-"`
	BotsEnabled  bool                             `json:"bots_enabled"`
	BotLevel     bot.BotLevel                     `json:"bot_level"`
	Bots         map[domain.PlayerID]*bot.Agent   `json:"-"`
	Pending      map[domain.PlayerID]domain.Input `json:"-"`
	rng          *rand.Rand
}

// stepInterval is the session time one tick covers.
func (ms *MatchState) stepInterval() time.Duration {
	return app.StepInterval(ms.TickRate)
}

// now converts a tick into session time.
func (ms *MatchState) now(tick int64) time.Duration {
	return time.Duration(tick) * ms.stepInterval()
}

// parseSeats reads the seats join metadata. Empty means both seats.
func parseSeats(raw string) (map[domain.PlayerID]bool, error) {
	seats := make(map[domain.PlayerID]bool, len(domain.PlayerIDs))
	if strings.TrimSpace(raw) == "" {
		for _, id := range domain.PlayerIDs {
			seats[id] = true
		}
		return seats, nil
	}
	for _, part := range strings.Split(raw, ",") {
		id, err := domain.ParsePlayerID(part)
		if err != nil {
			return nil, err
		}
		seats[id] = true
	}
	return seats, nil
}

type matchHandler struct {
	cfg     *config.HostConfig
	tickets *app.TicketService
}

func newMatchHandler(cfg *config.HostConfig, tickets *app.TicketService) *matchHandler {
	return &matchHandler{cfg: cfg, tickets: tickets}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	level, err := bot.ParseLevel(mh.cfg.Bots.Level)
	if err != nil {
		logger.Warn("MatchInit: %v, falling back to smart bots", err)
		level = bot.BotLevelSmart
	}
	seed := mh.cfg.Bots.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	state := &MatchState{
		MatchID:     matchID,
		TickRate:    mh.cfg.Host.TickRate,
		Session:     app.NewSession(logger.WithField("match_id", matchID)),
		BotsEnabled: mh.cfg.Bots.Enabled,
		BotLevel:    level,
		Bots:        make(map[domain.PlayerID]*bot.Agent),
		Pending:     make(map[domain.PlayerID]domain.Input),
		rng:         rand.New(rand.NewSource(seed)),
	}

	label, err := labelJSON(state.Session.Phase(), true)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, state.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.Console != nil {
		return state, false, "console already attached"
	}
	if matchState.Reserved != "" && matchState.Reserved != presence.GetSessionId() {
		return state, false, "console join in progress"
	}
	if err := mh.tickets.Verify(metadata[MetadataTicket], presence.GetUserId(), matchState.MatchID); err != nil {
		logger.Warn("MatchJoinAttempt: Rejected %s: %v", presence.GetUserId(), err)
		return state, false, "invalid ticket"
	}
	seats, err := parseSeats(metadata[MetadataSeats])
	if err != nil {
		return state, false, err.Error()
	}

	// Hold the console slot until MatchJoin.
	matchState.Reserved = presence.GetSessionId()
	matchState.ConsoleSeats = seats
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.Console != nil || p.GetSessionId() != matchState.Reserved {
			logger.Warn("MatchJoin: Ignoring extra presence %s.", p.GetUserId())
			continue
		}
		matchState.Console = p
		matchState.Reserved = ""
		matchState.IdleTicks = 0
		logger.Info("MatchJoin: Console %s attached for seats %v.", p.GetUserId(), seatList(matchState.ConsoleSeats))
	}

	mh.assignBots(matchState, logger)
	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger)

	return matchState
}

// assignBots fills every seat the console does not drive.
func (mh *matchHandler) assignBots(state *MatchState, logger runtime.Logger) {
	for _, id := range domain.PlayerIDs {
		if state.ConsoleSeats[id] {
			delete(state.Bots, id)
			continue
		}
		if !state.BotsEnabled {
			continue
		}
		if _, exists := state.Bots[id]; exists {
			continue
		}
		brain, err := bot.NewBrain(state.BotLevel, rand.New(rand.NewSource(state.rng.Int63())))
		if err != nil {
			logger.Error("assignBots: Failed to create bot for %s: %v", id, err)
			continue
		}
		state.Bots[id] = bot.NewAgent(id, brain, state.BotLevel)
		logger.Info("assignBots: Added %s bot to seat %s.", state.BotLevel, id)
	}
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.Console != nil && p.GetSessionId() == matchState.Console.GetSessionId() {
			logger.Info("MatchLeave: Console %s left, terminating match.", p.GetUserId())
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	if matchState.Console == nil {
		matchState.IdleTicks++
		if matchState.IdleTicks > int64(consoleGraceSeconds*matchState.TickRate) {
			logger.Info("MatchLoop: No console attached, terminating match.")
			return nil
		}
		return matchState
	}

	now := matchState.now(tick)
	roundRunning := matchState.Session.Phase() == app.PhaseRound

	// Handle incoming messages
	for _, msg := range messages {
		if msg.GetSessionId() != matchState.Console.GetSessionId() {
			logger.Warn("MatchLoop: Ignoring message from non-console %s", msg.GetUserId())
			continue
		}
		switch msg.GetOpCode() {
		case OpStartSession:
			mh.handleStartSession(matchState, dispatcher, logger)
		case OpNextRound:
			mh.handleNextRound(matchState, dispatcher, logger, msg, now)
		case OpInput:
			mh.handleInput(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	// A round started this tick takes its first step on the next one.
	if roundRunning && matchState.Session.Phase() == app.PhaseRound {
		mh.stepSession(matchState, dispatcher, logger, now)
	}
	clear(matchState.Pending)

	return matchState
}

func (mh *matchHandler) handleStartSession(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	logger.Info("StartSession: Request received from %s", state.Console.GetUserId())
	for _, ev := range state.Session.StartSession() {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleNextRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, now time.Duration) {
	request := &structpb.Struct{}
	if err := proto.Unmarshal(msg.GetData(), request); err != nil {
		logger.Warn("handleNextRound: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, 400, "invalid payload")
		return
	}

	var (
		events []app.Event
		err    error
	)
	if mode := request.GetFields()["mode"].GetStringValue(); mode != "" {
		events, err = state.Session.StartRound(domain.ParseModeKind(mode), now)
	} else {
		events, err = state.Session.NextRound(now)
	}
	if err != nil {
		logger.Warn("handleNextRound: Cannot start round: %v", err)
		mh.sendError(state, dispatcher, logger, errorCode(err), err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	mh.updateLabel(state, dispatcher, logger)
}

// handleInput merges console input into this tick's pending input. Action
// presses are latched so none are lost when several messages arrive in one
// tick; the last direction wins.
func (mh *matchHandler) handleInput(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	request := &structpb.Struct{}
	if err := proto.Unmarshal(msg.GetData(), request); err != nil {
		logger.Warn("handleInput: Invalid payload: %v", err)
		mh.sendError(state, dispatcher, logger, 400, "invalid payload")
		return
	}
	inputs, err := inputsFromStruct(request)
	if err != nil {
		logger.Warn("handleInput: %v", err)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	for id, in := range inputs {
		if !state.ConsoleSeats[id] {
			continue
		}
		prev := state.Pending[id]
		in.Resonance = in.Resonance || prev.Resonance
		in.Dash = in.Dash || prev.Dash
		state.Pending[id] = in
	}
}

func (mh *matchHandler) stepSession(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Duration) {
	inputs := make(map[domain.PlayerID]domain.Input, len(domain.PlayerIDs))
	for id, in := range state.Pending {
		inputs[id] = in
	}
	if len(state.Bots) > 0 {
		snap := state.Session.Snapshot()
		proximity := state.Session.BeatProximity(now)
		for id, agent := range state.Bots {
			inputs[id] = agent.Play(bot.ViewFor(snap, id, now, proximity))
		}
	}

	phaseChanged := false
	for _, ev := range state.Session.Step(now, state.stepInterval(), inputs) {
		if ev.Kind == app.EventRoundEnded || ev.Kind == app.EventSessionEnded {
			phaseChanged = true
		}
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	mh.broadcastSnapshot(state, dispatcher, logger)
	if phaseChanged {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, payload, err := eventToStruct(ev)
	if err != nil {
		logger.Warn("Unknown event kind: %v (%v)", ev.Kind, err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	payload, err := snapshotToStruct(state.Session.Snapshot())
	if err != nil {
		logger.Error("broadcastSnapshot: Failed to convert: %v", err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("broadcastSnapshot: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpSnapshot, bytes, nil, nil, false)
}

// sendError sends an error payload to the console.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	payload, err := errorStruct(code, message)
	if err != nil {
		logger.Error("Failed to build error payload: %v", err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}
	if state.Console == nil {
		logger.Warn("Cannot send error: no console attached")
		return
	}
	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{state.Console}, nil, true)
}

// errorCode maps session errors onto HTTP-like codes for clients.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNoSession), errors.Is(err, app.ErrRoundActive), errors.Is(err, app.ErrSessionComplete):
		return 409
	default:
		return 400
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := labelJSON(state.Session.Phase(), state.Console == nil)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

// MatchSignal answers with the session summary document.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	return matchState, matchState.Session.Summary()
}

func seatList(seats map[domain.PlayerID]bool) []domain.PlayerID {
	var out []domain.PlayerID
	for _, id := range domain.PlayerIDs {
		if seats[id] {
			out = append(out, id)
		}
	}
	return out
}
