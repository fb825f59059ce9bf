// Package engine runs the timed prompt/response rounds of a game.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/simonsays/internal/model"
	"github.com/verte-zerg/simonsays/internal/session"
)

// Defaults for a round.
const (
	DefaultRoundSeconds   = 5
	DefaultSequenceLength = 5
)

const (
	failMessage = "You failed to follow Simon Says!"
	stopMessage = "Run stopped."
)

// ErrNoActiveRun is returned when a prompt is requested outside of a run.
var ErrNoActiveRun = errors.New("engine: no active run")

// State is the outer state of the engine.
type State int

// Engine states.
const (
	Idle State = iota
	Running
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PromptSource supplies prompts for a run.
type PromptSource interface {
	Next() model.Prompt
	Sequence(count int) []model.Prompt
}

// Config tunes round timing and the pre-generated sequence.
type Config struct {
	RoundSeconds   int
	SequenceLength int
}

// Hooks receive engine notifications. Nil hooks are skipped. They are
// called synchronously from the engine method that caused the change.
type Hooks struct {
	PromptChanged func(model.Prompt)
	Ticked        func(timer int, progress float64)
	StreakChanged func(streak int)
	RoundResolved func(model.RoundOutcome)
	RunEnded      func(message string, finalStreak int)
	RunRecorded   func(model.RunRecord)
}

// Engine owns the current round and the queue of upcoming prompts. It is not
// safe for concurrent use; callers serialize events.
type Engine struct {
	cfg     Config
	prompts PromptSource
	session *session.Session
	hooks   Hooks
	now     func() time.Time

	state     State
	queue     []model.Prompt
	prompt    model.Prompt
	installed bool
	timer     int
	progress  float64
	round     uint64
	held      model.Gesture

	roundStarted time.Time
	record       model.RunRecord
	message      string
}

// New returns an idle Engine reporting to sess.
func New(cfg Config, prompts PromptSource, sess *session.Session) *Engine {
	if cfg.RoundSeconds <= 0 {
		cfg.RoundSeconds = DefaultRoundSeconds
	}
	if cfg.SequenceLength < 0 {
		cfg.SequenceLength = 0
	}
	return &Engine{
		cfg:     cfg,
		prompts: prompts,
		session: sess,
		now:     time.Now,
	}
}

// SetHooks replaces the notification hooks.
func (e *Engine) SetHooks(h Hooks) {
	e.hooks = h
}

// SetClock replaces the clock used for reaction times and run timestamps.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// StartRun begins a new run. A run still in progress is stopped first.
func (e *Engine) StartRun() {
	if e.state == Running {
		e.terminate(stopMessage)
	}
	e.queue = e.prompts.Sequence(e.cfg.SequenceLength)
	e.state = Running
	e.installed = false
	e.message = ""
	e.record = model.RunRecord{
		ID:        uuid.NewString(),
		StartedAt: e.now(),
	}
	e.session.Begin()
	if e.hooks.StreakChanged != nil {
		e.hooks.StreakChanged(0)
	}
	_ = e.Advance()
}

// Advance installs the next prompt, generating one when the queue is empty.
func (e *Engine) Advance() error {
	if e.state != Running {
		return ErrNoActiveRun
	}
	var next model.Prompt
	if len(e.queue) > 0 {
		next = e.queue[0]
		e.queue = e.queue[1:]
	} else {
		next = e.prompts.Next()
	}
	e.prompt = next
	e.installed = true
	e.timer = e.cfg.RoundSeconds
	e.progress = 1
	e.round++
	e.roundStarted = e.now()
	if e.hooks.PromptChanged != nil {
		e.hooks.PromptChanged(next)
	}
	e.emitTick()
	return nil
}

// Tick advances the countdown by one second. The round is evaluated once,
// when the timer reaches zero.
func (e *Engine) Tick() {
	if e.state != Running || !e.installed || e.timer <= 0 {
		return
	}
	e.timer--
	e.progress = float64(e.timer) / float64(e.cfg.RoundSeconds)
	e.emitTick()
	if e.timer == 0 {
		e.expire(e.round)
	}
}

// Feed reports the gesture currently held. A change to a gesture other than
// None is forwarded to OnGesture.
func (e *Engine) Feed(g model.Gesture) {
	prev := e.held
	e.held = g
	if g != prev && g != model.None {
		e.OnGesture(g)
	}
}

// OnGesture resolves the current round against g.
func (e *Engine) OnGesture(g model.Gesture) {
	if g == model.None || e.state != Running || !e.installed {
		return
	}
	round := e.round
	if e.prompt.Commanded && g == e.prompt.Gesture {
		e.succeed(round, model.CauseMatched, g)
		return
	}
	cause := model.CauseNotCommanded
	if e.prompt.Commanded {
		cause = model.CauseWrongGesture
	}
	e.fail(round, cause, g)
}

// Stop ends the run in progress.
func (e *Engine) Stop() {
	if e.state != Running {
		return
	}
	e.terminate(stopMessage)
}

func (e *Engine) expire(round uint64) {
	if !e.current(round) {
		return
	}
	if !e.prompt.Commanded && e.held == model.None {
		e.succeed(round, model.CauseWaited, model.None)
		return
	}
	cause := model.CauseTimeout
	if !e.prompt.Commanded {
		cause = model.CauseHeldAtExpiry
	}
	e.fail(round, cause, e.held)
}

func (e *Engine) succeed(round uint64, cause model.Cause, g model.Gesture) {
	if !e.current(round) {
		return
	}
	e.resolve(model.Success, cause, g)
	streak := e.session.Increment()
	if e.hooks.StreakChanged != nil {
		e.hooks.StreakChanged(streak)
	}
	_ = e.Advance()
}

func (e *Engine) fail(round uint64, cause model.Cause, g model.Gesture) {
	if !e.current(round) {
		return
	}
	e.resolve(model.Failure, cause, g)
	e.terminate(failMessage)
}

func (e *Engine) resolve(result model.Result, cause model.Cause, g model.Gesture) {
	outcome := model.RoundOutcome{
		Prompt:   e.prompt,
		Result:   result,
		Cause:    cause,
		Gesture:  g,
		Reaction: e.now().Sub(e.roundStarted),
	}
	e.installed = false
	e.record.Rounds = append(e.record.Rounds, outcome)
	if e.hooks.RoundResolved != nil {
		e.hooks.RoundResolved(outcome)
	}
}

func (e *Engine) terminate(reason string) {
	e.state = Ended
	e.installed = false
	e.queue = nil
	e.session.Finish()
	final := e.session.Streak()
	e.message = fmt.Sprintf("%s Streak: %d", reason, final)

	e.record.EndedAt = e.now()
	e.record.Streak = final
	e.record.Message = e.message
	if e.hooks.RunEnded != nil {
		e.hooks.RunEnded(e.message, final)
	}
	if e.hooks.RunRecorded != nil {
		e.hooks.RunRecorded(e.record)
	}
}

func (e *Engine) current(round uint64) bool {
	return e.state == Running && e.installed && e.round == round
}

func (e *Engine) emitTick() {
	if e.hooks.Ticked != nil {
		e.hooks.Ticked(e.timer, e.progress)
	}
}

// State returns the outer engine state.
func (e *Engine) State() State {
	return e.state
}

// Running reports whether a run is in progress.
func (e *Engine) Running() bool {
	return e.state == Running
}

// Prompt returns the current or last shown prompt. ok is false before the
// first run.
func (e *Engine) Prompt() (model.Prompt, bool) {
	return e.prompt, e.state != Idle
}

// Timer returns the whole seconds left in the current round.
func (e *Engine) Timer() int {
	return e.timer
}

// Progress returns the fraction of the round left, in [0,1].
func (e *Engine) Progress() float64 {
	return e.progress
}

// Round returns an id that changes every time a prompt is installed.
func (e *Engine) Round() uint64 {
	return e.round
}

// Held returns the last gesture passed to Feed.
func (e *Engine) Held() model.Gesture {
	return e.held
}

// Queued returns the number of pre-generated prompts left.
func (e *Engine) Queued() int {
	return len(e.queue)
}

// Message returns the terminal message of the last run.
func (e *Engine) Message() string {
	return e.message
}

// Streak returns the streak of the current or last run.
func (e *Engine) Streak() int {
	return e.session.Streak()
}
