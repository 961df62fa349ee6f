// Package session implements the timed typing-test state machine.
//
// Sessions are values: every Engine method takes a Session and returns the
// next one without touching the argument, so callers keep full control over
// which state is current. The engine never blocks and owns no goroutines;
// the one-second countdown is driven by whoever calls Tick.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/stats"
)

// Session is one bounded attempt at typing a passage.
type Session struct {
	id            string
	target        []rune
	words         []string
	typed         []rune
	duration      model.Duration
	timeRemaining int
	status        model.Status
	startedAt     time.Time
	endedAt       time.Time
	metrics       model.Metrics
}

// ID identifies the session.
func (s Session) ID() string { return s.id }

// TargetText returns the passage being typed.
func (s Session) TargetText() string { return string(s.target) }

// TypedText returns the accepted input so far.
func (s Session) TypedText() string { return string(s.typed) }

// Cursor is the rune index of the next character to type.
func (s Session) Cursor() int { return len(s.typed) }

// Len is the passage length in runes.
func (s Session) Len() int { return len(s.target) }

// Duration returns the selected test length.
func (s Session) Duration() model.Duration { return s.duration }

// TimeRemaining returns the countdown in whole seconds.
func (s Session) TimeRemaining() int { return s.timeRemaining }

// Status returns the lifecycle state.
func (s Session) Status() model.Status { return s.status }

// StartedAt is the time of the first accepted keystroke, zero while idle.
func (s Session) StartedAt() time.Time { return s.startedAt }

// EndedAt is the finalization time, zero until completed.
func (s Session) EndedAt() time.Time { return s.endedAt }

// Metrics returns the live metrics, or the frozen ones once completed.
func (s Session) Metrics() model.Metrics { return s.metrics }

// Runes returns copies of the target and typed runes for rendering.
func (s Session) Runes() (target, typed []rune) {
	target = make([]rune, len(s.target))
	copy(target, s.target)
	typed = make([]rune, len(s.typed))
	copy(typed, s.typed)
	return target, typed
}

// PassageGenerator produces the text for a new session.
type PassageGenerator interface {
	Generate(d model.Duration) string
}

// Engine creates sessions and applies input and timer events to them.
type Engine struct {
	gen PassageGenerator
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine returns an Engine drawing passages from gen.
func NewEngine(gen PassageGenerator, opts ...Option) *Engine {
	e := &Engine{gen: gen, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create starts an idle session with a freshly generated passage.
func (e *Engine) Create(d model.Duration) (Session, error) {
	if !d.Valid() {
		return Session{}, fmt.Errorf("%w: %d", model.ErrInvalidDuration, int(d))
	}
	return e.CreateFromText(d, e.gen.Generate(d))
}

// CreateFromText starts an idle session bound to text.
func (e *Engine) CreateFromText(d model.Duration, text string) (Session, error) {
	if !d.Valid() {
		return Session{}, fmt.Errorf("%w: %d", model.ErrInvalidDuration, int(d))
	}
	if text == "" {
		return Session{}, fmt.Errorf("passage is empty")
	}
	return Session{
		id:            uuid.NewString(),
		target:        []rune(text),
		words:         strings.Split(text, " "),
		duration:      d,
		timeRemaining: d.Seconds(),
		status:        model.StatusIdle,
		metrics:       model.ZeroMetrics,
	}, nil
}

// ApplyInput accepts the full current value of the input buffer. A trailing
// space after a word that does not match the passage is dropped, and
// anything beyond the passage length is discarded. When the accepted value
// reaches the end of the passage the session is finalized and its Result
// returned; otherwise the Result is nil. Completed sessions are returned
// unchanged.
func (e *Engine) ApplyInput(s Session, value string) (Session, *model.Result) {
	if s.status == model.StatusCompleted {
		return s, nil
	}
	accepted := enforceWordBoundary([]rune(value), s.words)
	if len(accepted) > len(s.target) {
		accepted = accepted[:len(s.target)]
	}

	now := e.now()
	next := s
	next.typed = accepted
	if next.status == model.StatusIdle && len(accepted) > 0 {
		next.status = model.StatusActive
		next.startedAt = now
	}
	if next.status == model.StatusActive {
		next.metrics = stats.Compute(next.startedAt, now, next.typed, next.target)
	}
	if len(next.typed) == len(next.target) {
		return finalizeAt(next, now)
	}
	return next, nil
}

// Tick advances the countdown by one second. It only has an effect on
// active sessions; reaching zero finalizes the session and returns its
// Result.
func (e *Engine) Tick(s Session) (Session, *model.Result) {
	if s.status != model.StatusActive {
		return s, nil
	}
	next := s
	next.timeRemaining--
	if next.timeRemaining <= 0 {
		next.timeRemaining = 0
		return finalizeAt(next, e.now())
	}
	return next, nil
}

// Finalize completes the session and builds its Result. Calling it on a
// completed session returns a nil Result, which callers must treat as
// "nothing new to persist".
func (e *Engine) Finalize(s Session) (Session, *model.Result) {
	if s.status == model.StatusCompleted {
		return s, nil
	}
	return finalizeAt(s, e.now())
}

func finalizeAt(s Session, now time.Time) (Session, *model.Result) {
	next := s
	next.status = model.StatusCompleted
	next.timeRemaining = max(0, next.timeRemaining)
	next.metrics = stats.Compute(next.startedAt, now, next.typed, next.target)
	next.endedAt = now

	counts := stats.CountCharacters(next.typed, next.target)
	result := &model.Result{
		ID:                  uuid.NewString(),
		WPM:                 next.metrics.WPM,
		Accuracy:            next.metrics.Accuracy,
		RawWPM:              next.metrics.RawWPM,
		CorrectCharacters:   counts.Correct,
		IncorrectCharacters: counts.Incorrect,
		ExtraCharacters:     counts.Extra,
		MissedCharacters:    counts.Missed,
		TotalCharacters:     counts.Total,
		Duration:            next.duration,
		Mode:                model.ModeTime,
		Difficulty:          model.DifficultyNormal,
		Language:            model.LanguageEnglish,
		TestText:            string(next.target),
		TypedText:           string(next.typed),
		StartedAt:           next.startedAt,
		EndedAt:             now,
	}
	return next, result
}
