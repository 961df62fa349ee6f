package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/speedtype/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixedGenerator string

func (g fixedGenerator) Generate(model.Duration) string { return string(g) }

func newTestEngine(text string) (*Engine, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return NewEngine(fixedGenerator(text), WithClock(clock.Now)), clock
}

func mustCreate(t *testing.T, e *Engine, d model.Duration) Session {
	t.Helper()
	s, err := e.Create(d)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return s
}

func TestCreateIdleDefaults(t *testing.T) {
	e, _ := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration30)
	if s.Status() != model.StatusIdle {
		t.Fatalf("expected idle, got %s", s.Status())
	}
	if s.TimeRemaining() != 30 || s.Cursor() != 0 || s.TypedText() != "" {
		t.Fatalf("unexpected initial state: remaining=%d cursor=%d typed=%q", s.TimeRemaining(), s.Cursor(), s.TypedText())
	}
	if s.Metrics() != model.ZeroMetrics {
		t.Fatalf("expected zero metrics, got %+v", s.Metrics())
	}
	if s.ID() == "" {
		t.Fatalf("expected session id")
	}
	if !s.StartedAt().IsZero() {
		t.Fatalf("expected no start time while idle")
	}
}

func TestCreateRejectsUnknownDuration(t *testing.T) {
	e, _ := newTestEngine("cat dog")
	if _, err := e.Create(model.Duration(45)); !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestApplyInputAcceptsSpaceAfterMatchingWord(t *testing.T) {
	e, _ := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration15)
	s, res := e.ApplyInput(s, "cat ")
	if res != nil {
		t.Fatalf("unexpected result")
	}
	if s.TypedText() != "cat " || s.Cursor() != 4 {
		t.Fatalf("expected cursor 4 after %q, got %d (%q)", "cat ", s.Cursor(), s.TypedText())
	}
}

func TestApplyInputStripsSpaceAfterIncompleteWord(t *testing.T) {
	e, _ := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration15)
	s, _ = e.ApplyInput(s, "ca ")
	if s.TypedText() != "ca" || s.Cursor() != 2 {
		t.Fatalf("expected %q at cursor 2, got %q at %d", "ca", s.TypedText(), s.Cursor())
	}
}

func TestApplyInputWordBoundaryCases(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "misspelled word", input: "cot ", want: "cot"},
		{name: "second word matches", input: "cat dog ", want: "cat dog "},
		{name: "leading space before word", input: " cat ", want: " cat"},
		{name: "double space", input: "cat  ", want: "cat "},
		{name: "leading space", input: " ", want: ""},
		{name: "no trailing space", input: "cat d", want: "cat d"},
		{name: "second word wrong", input: "cat dig ", want: "cat dig"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine("cat dog bird")
			s := mustCreate(t, e, model.Duration15)
			s, _ = e.ApplyInput(s, tc.input)
			if s.TypedText() != tc.want {
				t.Fatalf("input %q: expected %q, got %q", tc.input, tc.want, s.TypedText())
			}
		})
	}
}

func TestApplyInputAdvancesPastSecondWord(t *testing.T) {
	e, _ := newTestEngine("cat dog bird")
	s := mustCreate(t, e, model.Duration15)
	s, _ = e.ApplyInput(s, "cat ")
	s, _ = e.ApplyInput(s, "cat dog ")
	if s.TypedText() != "cat dog " || s.Cursor() != 8 {
		t.Fatalf("expected %q at cursor 8, got %q at %d", "cat dog ", s.TypedText(), s.Cursor())
	}
	if s.Status() != model.StatusActive {
		t.Fatalf("expected active session, got %s", s.Status())
	}
}

func TestApplyInputClampsToTargetLength(t *testing.T) {
	e, _ := newTestEngine("abc")
	s := mustCreate(t, e, model.Duration15)
	s, res := e.ApplyInput(s, "abcdefgh")
	if s.TypedText() != "abc" {
		t.Fatalf("expected clamp to %q, got %q", "abc", s.TypedText())
	}
	if res == nil {
		t.Fatalf("expected completion when clamped input reaches target length")
	}
	if res.ExtraCharacters != 0 || res.CorrectCharacters != 3 {
		t.Fatalf("unexpected accounting: %+v", res)
	}
}

func TestTypedNeverExceedsTarget(t *testing.T) {
	target := "the quick brown fox"
	inputs := []string{"", "t", "th ", "the ", "the quick brown fox jumps", strings.Repeat("x", 100), "the quick brown fo "}
	for _, in := range inputs {
		e, _ := newTestEngine(target)
		s := mustCreate(t, e, model.Duration60)
		s, _ = e.ApplyInput(s, in)
		if len([]rune(s.TypedText())) > len([]rune(target)) {
			t.Fatalf("input %q: typed %q exceeds target", in, s.TypedText())
		}
		if s.Cursor() != len([]rune(s.TypedText())) {
			t.Fatalf("input %q: cursor %d does not match typed length", in, s.Cursor())
		}
	}
}

func TestFirstKeystrokeActivates(t *testing.T) {
	e, clock := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration15)

	s, _ = e.ApplyInput(s, "")
	if s.Status() != model.StatusIdle {
		t.Fatalf("empty input must not start the session")
	}
	s, _ = e.Tick(s)
	if s.TimeRemaining() != 15 {
		t.Fatalf("ticks must not count down while idle")
	}

	start := clock.Now()
	s, _ = e.ApplyInput(s, "c")
	if s.Status() != model.StatusActive {
		t.Fatalf("expected active, got %s", s.Status())
	}
	if !s.StartedAt().Equal(start) {
		t.Fatalf("expected start %v, got %v", start, s.StartedAt())
	}

	clock.Advance(5 * time.Second)
	s, _ = e.ApplyInput(s, "ca")
	if !s.StartedAt().Equal(start) {
		t.Fatalf("start time must be recorded once")
	}
}

func TestLiveMetricsRecomputed(t *testing.T) {
	text := strings.Repeat("a", 40)
	e, clock := newTestEngine(text)
	s := mustCreate(t, e, model.Duration60)
	s, _ = e.ApplyInput(s, "a")
	clock.Advance(30 * time.Second)
	s, _ = e.ApplyInput(s, strings.Repeat("a", 20)+strings.Repeat("b", 5))
	m := s.Metrics()
	// 20 correct / 5 / 0.5 min = 8, 25 typed / 5 / 0.5 = 10, 20/25 = 80%.
	if m.WPM != 8 || m.RawWPM != 10 || m.Accuracy != 80 {
		t.Fatalf("unexpected live metrics: %+v", m)
	}
}

func TestApplyInputDoesNotMutateArgument(t *testing.T) {
	e, _ := newTestEngine("cat dog")
	s0 := mustCreate(t, e, model.Duration15)
	s1, _ := e.ApplyInput(s0, "cat ")
	_, _ = e.ApplyInput(s1, "cat d")
	if s0.TypedText() != "" || s0.Status() != model.StatusIdle {
		t.Fatalf("original session mutated: %q %s", s0.TypedText(), s0.Status())
	}
	if s1.TypedText() != "cat " {
		t.Fatalf("intermediate session mutated: %q", s1.TypedText())
	}
}

func TestFullMatchFinalizesOnce(t *testing.T) {
	e, clock := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration15)
	s, _ = e.ApplyInput(s, "c")
	clock.Advance(6 * time.Second)
	s, res := e.ApplyInput(s, "cat dog")
	if res == nil {
		t.Fatalf("expected result on full match")
	}
	if s.Status() != model.StatusCompleted {
		t.Fatalf("expected completed, got %s", s.Status())
	}
	if res.TotalCharacters != 7 || res.CorrectCharacters != 7 || res.MissedCharacters != 0 {
		t.Fatalf("unexpected accounting: %+v", res)
	}
	// 7 chars / 5 / 0.1 min = 14.
	if res.WPM != 14 || res.RawWPM != 14 || res.Accuracy != 100 {
		t.Fatalf("unexpected final metrics: %+v", res)
	}
	if res.Mode != model.ModeTime || res.Difficulty != model.DifficultyNormal || res.Language != model.LanguageEnglish {
		t.Fatalf("unexpected fixed fields: %+v", res)
	}
	if res.Duration != model.Duration15 || res.TestText != "cat dog" || res.TypedText != "cat dog" {
		t.Fatalf("unexpected text fields: %+v", res)
	}
	if !res.Anonymous() {
		t.Fatalf("engine must not attach a user")
	}

	if _, again := e.Finalize(s); again != nil {
		t.Fatalf("second finalize must return nil result")
	}
	s, res = e.Tick(s)
	if res != nil || s.Status() != model.StatusCompleted {
		t.Fatalf("tick after completion must be a no-op")
	}
}

func TestTimeoutFinalizes(t *testing.T) {
	e, clock := newTestEngine("cat dog bird fish")
	s := mustCreate(t, e, model.Duration15)
	s, _ = e.ApplyInput(s, "c")
	s, _ = e.ApplyInput(s, "cat ")

	var res *model.Result
	for i := 0; i < 15; i++ {
		if s.Status() != model.StatusActive {
			t.Fatalf("session completed early at tick %d", i)
		}
		clock.Advance(time.Second)
		s, res = e.Tick(s)
		if i < 14 && res != nil {
			t.Fatalf("unexpected result at tick %d", i)
		}
	}
	if res == nil {
		t.Fatalf("expected result on timeout")
	}
	if s.TimeRemaining() != 0 || s.Status() != model.StatusCompleted {
		t.Fatalf("expected completed at 0, got %d %s", s.TimeRemaining(), s.Status())
	}
	if res.MissedCharacters != len("dog bird fish") || res.CorrectCharacters != 4 {
		t.Fatalf("unexpected accounting: %+v", res)
	}
	if !res.EndedAt.Equal(s.EndedAt()) || !res.StartedAt.Equal(s.StartedAt()) {
		t.Fatalf("result timing does not match session")
	}
}

func TestCompletedSessionIsFrozen(t *testing.T) {
	e, clock := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration15)
	s, _ = e.ApplyInput(s, "cat ")
	clock.Advance(3 * time.Second)
	s, res := e.Finalize(s)
	if res == nil {
		t.Fatalf("expected result from first finalize")
	}
	frozenMetrics := s.Metrics()
	frozenRemaining := s.TimeRemaining()

	clock.Advance(10 * time.Second)
	s, res = e.ApplyInput(s, "cat dog")
	if res != nil {
		t.Fatalf("input after completion must not produce a result")
	}
	s, _ = e.Tick(s)
	if s.TypedText() != "cat " || s.Metrics() != frozenMetrics || s.TimeRemaining() != frozenRemaining {
		t.Fatalf("completed session changed: %q %+v %d", s.TypedText(), s.Metrics(), s.TimeRemaining())
	}
	if s.Status() != model.StatusCompleted {
		t.Fatalf("expected completed, got %s", s.Status())
	}
}

func TestFinalizeIdleSession(t *testing.T) {
	e, _ := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration30)
	s, res := e.Finalize(s)
	if res == nil {
		t.Fatalf("expected result")
	}
	if res.WPM != 0 || res.RawWPM != 0 || res.Accuracy != 100 {
		t.Fatalf("expected zero-activity metrics, got %+v", res)
	}
	if res.MissedCharacters != 7 || s.TimeRemaining() != 30 {
		t.Fatalf("unexpected idle finalize: %+v remaining=%d", res, s.TimeRemaining())
	}
}

func TestBackspaceShrinksTyped(t *testing.T) {
	e, _ := newTestEngine("cat dog")
	s := mustCreate(t, e, model.Duration15)
	s, _ = e.ApplyInput(s, "cax")
	s, _ = e.ApplyInput(s, "ca")
	if s.TypedText() != "ca" || s.Status() != model.StatusActive {
		t.Fatalf("expected shrink to %q while active, got %q %s", "ca", s.TypedText(), s.Status())
	}
}
