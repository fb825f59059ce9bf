// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/simonsays/internal/engine"
	"github.com/verte-zerg/simonsays/internal/generator"
	"github.com/verte-zerg/simonsays/internal/gesture"
	"github.com/verte-zerg/simonsays/internal/model"
	"github.com/verte-zerg/simonsays/internal/sensor"
	"github.com/verte-zerg/simonsays/internal/session"
	statsPkg "github.com/verte-zerg/simonsays/internal/stats"
	"github.com/verte-zerg/simonsays/internal/statsui"
	"github.com/verte-zerg/simonsays/internal/store"
)

const (
	inboxSize     = 32
	staleAfter    = 3
	historyWindow = 10
	barWidth      = 40
)

type sampleMsg model.MotionSample

type tickMsg struct {
	round uint64
}

type staleCheckMsg struct{}

// Model implements the Bubble Tea game UI.
type Model struct {
	config     model.Config
	store      *store.Store
	gen        *generator.Generator
	session    *session.Session
	engine     *engine.Engine
	classifier *gesture.Classifier

	source   sensor.Source
	keyboard *sensor.Keyboard
	sub      sensor.Subscription
	inbox    chan model.MotionSample

	keys      keyMap
	help      help.Model
	bar       progress.Model
	stats     *statsui.Model
	showStats bool

	width  int
	height int

	tickRound    uint64
	lastSampleAt time.Time
	now          func() time.Time

	last    model.RoundOutcome
	hasLast bool

	weakSet           map[model.Gesture]struct{}
	weakNoticePrinted bool
}

// NewModel constructs the game UI. Samples come from src; kb, when not nil,
// receives the gestures typed on the keyboard.
func NewModel(cfg model.Config, st *store.Store, gen *generator.Generator, src sensor.Source, kb *sensor.Keyboard) *Model {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = sensor.DefaultInterval
	}
	m := &Model{
		config:     cfg,
		store:      st,
		gen:        gen,
		session:    session.New(),
		classifier: gesture.NewClassifier(cfg.TiltThreshold, cfg.ShakeThreshold),
		source:     src,
		keyboard:   kb,
		inbox:      make(chan model.MotionSample, inboxSize),
		keys:       newKeyMap(),
		help:       help.New(),
		bar:        progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage(), progress.WithWidth(barWidth)),
		stats:      statsui.NewModel(st, model.StatsConfig{}, historyWindow),
		now:        time.Now,
	}
	m.engine = engine.New(engine.Config{
		RoundSeconds:   cfg.RoundSeconds,
		SequenceLength: cfg.SequenceLength,
	}, gen, m.session)
	m.engine.SetHooks(engine.Hooks{
		RoundResolved: m.onRoundResolved,
		RunRecorded:   m.onRunRecorded,
	})
	if cfg.FocusWeak {
		m.refreshWeakSet()
	}
	return m
}

// Init implements tea.Model. It subscribes to the sample source.
func (m *Model) Init() tea.Cmd {
	m.subscribe()
	return tea.Batch(waitForSample(m.inbox), m.scheduleStaleCheck())
}

// Close cancels the sample subscription.
func (m *Model) Close() {
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = minInt(barWidth, maxInt(10, msg.Width-10))
		m.stats.SetSize(msg.Width, msg.Height)
		return m, nil
	case sampleMsg:
		m.lastSampleAt = m.now()
		m.engine.Feed(m.classifier.Classify(model.MotionSample(msg)))
		return m, tea.Batch(waitForSample(m.inbox), m.syncTick())
	case tickMsg:
		if !m.engine.Running() || msg.round != m.engine.Round() {
			return m, nil
		}
		m.engine.Tick()
		if m.engine.Running() && m.engine.Round() == msg.round {
			return m, tickAfter(msg.round)
		}
		return m, m.syncTick()
	case staleCheckMsg:
		if m.sensorStale() && m.engine.Held() != model.None {
			m.classifier.Reset()
			m.engine.Feed(model.None)
		}
		return m, m.scheduleStaleCheck()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}
	if m.showStats {
		if key.Matches(msg, m.keys.Stats, m.keys.Stop) {
			m.showStats = false
			return m, nil
		}
		_, cmd := m.stats.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Stats):
		if m.engine.Running() {
			return m, nil
		}
		m.stats.Refresh()
		m.showStats = true
		return m, nil
	case key.Matches(msg, m.keys.Start):
		if m.engine.Running() {
			return m, nil
		}
		m.hasLast = false
		m.engine.StartRun()
		return m, m.syncTick()
	case key.Matches(msg, m.keys.Stop):
		m.engine.Stop()
		return m, nil
	}
	if g, ok := m.keys.gestureFor(msg); ok && m.keyboard != nil {
		m.keyboard.Press(g)
	}
	return m, nil
}

func (m *Model) subscribe() {
	if m.source == nil || m.sub != nil {
		return
	}
	inbox := m.inbox
	m.sub = m.source.Subscribe(m.config.SampleInterval, func(s model.MotionSample) {
		select {
		case inbox <- s:
		default:
			// UI is behind; drop the sample.
		}
	})
}

func waitForSample(inbox <-chan model.MotionSample) tea.Cmd {
	return func() tea.Msg {
		return sampleMsg(<-inbox)
	}
}

// syncTick starts the countdown for a newly installed prompt.
func (m *Model) syncTick() tea.Cmd {
	if !m.engine.Running() {
		return nil
	}
	round := m.engine.Round()
	if round == m.tickRound {
		return nil
	}
	m.tickRound = round
	return tickAfter(round)
}

func tickAfter(round uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{round: round}
	})
}

func (m *Model) scheduleStaleCheck() tea.Cmd {
	return tea.Tick(m.config.SampleInterval, func(time.Time) tea.Msg {
		return staleCheckMsg{}
	})
}

func (m *Model) sensorStale() bool {
	return m.now().Sub(m.lastSampleAt) >= staleAfter*m.config.SampleInterval
}

func (m *Model) onRoundResolved(o model.RoundOutcome) {
	m.last = o
	m.hasLast = true
}

func (m *Model) onRunRecorded(run model.RunRecord) {
	if err := m.store.InsertRun(context.Background(), run); err != nil {
		logErrf("failed to save run: %v\n", err)
	}
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	aggs, err := m.store.ListGestureAggregates(context.Background(), nil)
	if err != nil {
		logErrf("failed to load gesture stats: %v\n", err)
		return
	}
	m.weakSet = statsPkg.SelectWeakGestures(aggs, m.config.WeakTop)
	if len(m.weakSet) == 0 && !m.weakNoticePrinted && len(aggs) > 0 {
		logErrln("no missed gestures yet; prompts stay uniform")
		m.weakNoticePrinted = true
	}
	m.gen.SetWeak(m.weakSet, m.config.WeakFactor)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
