// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Fixed result attributes for timed tests.
const (
	ModeTime          = "time"
	DifficultyNormal  = "normal"
	LanguageEnglish   = "english"
	DefaultLeaderSize = 10
)

var (
	// ErrInvalidDuration is returned for a duration outside Durations.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidTimeframe is returned for an unknown leaderboard timeframe.
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// Duration is the length of a timed test in seconds.
type Duration int

// Supported test durations.
const (
	Duration15  Duration = 15
	Duration30  Duration = 30
	Duration60  Duration = 60
	Duration120 Duration = 120
)

// Durations lists the selectable durations in display order.
var Durations = []Duration{Duration15, Duration30, Duration60, Duration120}

// Valid reports whether d is one of Durations.
func (d Duration) Valid() bool {
	for _, v := range Durations {
		if d == v {
			return true
		}
	}
	return false
}

// Seconds returns the duration as an int.
func (d Duration) Seconds() int {
	return int(d)
}

func (d Duration) String() string {
	return strconv.Itoa(int(d)) + "s"
}

// Next returns the duration following d, wrapping around.
func (d Duration) Next() Duration {
	for i, v := range Durations {
		if v == d {
			return Durations[(i+1)%len(Durations)]
		}
	}
	return Durations[0]
}

// ParseDuration parses "30" or "30s".
func ParseDuration(s string) (Duration, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "s"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	d := Duration(n)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d (want one of 15, 30, 60, 120)", ErrInvalidDuration, n)
	}
	return d, nil
}

// Status is the lifecycle state of a typing session.
type Status int

// Session states.
const (
	StatusIdle Status = iota
	StatusActive
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Metrics holds live or final speed and accuracy values.
type Metrics struct {
	WPM      int
	RawWPM   int
	Accuracy int
}

// ZeroMetrics is the metric state before any typing happened.
var ZeroMetrics = Metrics{WPM: 0, RawWPM: 0, Accuracy: 100}

// CharacterCounts is the per-position accounting of a finished test.
type CharacterCounts struct {
	Correct   int
	Incorrect int
	Extra     int
	Missed    int
	Total     int
}

// Result is the finalized outcome of a typing session.
type Result struct {
	ID                  string
	UserID              string
	WPM                 int
	Accuracy            int
	RawWPM              int
	CorrectCharacters   int
	IncorrectCharacters int
	ExtraCharacters     int
	MissedCharacters    int
	TotalCharacters     int
	Duration            Duration
	Mode                string
	Difficulty          string
	Language            string
	TestText            string
	TypedText           string
	StartedAt           time.Time
	EndedAt             time.Time
}

// WithUser returns a copy of r attributed to userID.
func (r Result) WithUser(userID string) Result {
	r.UserID = userID
	return r
}

// Anonymous reports whether the result has no user attached.
func (r Result) Anonymous() bool {
	return r.UserID == ""
}

// Config defines practice settings.
type Config struct {
	Duration     Duration
	UserID       string
	WordListPath string
}

// Timeframe limits leaderboard entries by creation time.
type Timeframe string

// Leaderboard timeframes.
const (
	TimeframeToday Timeframe = "today"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeAll   Timeframe = "all"
)

// ParseTimeframe validates a timeframe name. Empty means all.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case "":
		return TimeframeAll, nil
	case TimeframeToday, TimeframeWeek, TimeframeMonth, TimeframeAll:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q (want today, week, month or all)", ErrInvalidTimeframe, s)
	}
}

// Since returns the lower creation-time bound for tf relative to now.
// The zero time means no bound.
func (tf Timeframe) Since(now time.Time) time.Time {
	switch tf {
	case TimeframeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case TimeframeMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// LeaderboardFilter selects leaderboard entries. A zero Duration means all.
type LeaderboardFilter struct {
	Timeframe Timeframe
	Duration  Duration
	Limit     int
}

// ParseDurationFilter parses a leaderboard duration filter where "all" or
// empty yields the zero Duration.
func ParseDurationFilter(s string) (Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return 0, nil
	}
	return ParseDuration(s)
}

// LeaderboardEntry is a ranked result.
type LeaderboardEntry struct {
	Rank      int       `json:"rank"`
	ResultID  string    `json:"id"`
	UserID    string    `json:"user_id"`
	WPM       int       `json:"wpm"`
	Accuracy  int       `json:"accuracy"`
	RawWPM    int       `json:"raw_wpm"`
	Duration  Duration  `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	UserID      string
	Duration    Duration
	Since       *time.Time
	Last        int
	CurveWindow int
}

// CharStats stores per-character stats for a result.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across results.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// ResultSummary is a stored result reduced to what reporting needs.
type ResultSummary struct {
	ResultID  string
	UserID    string
	WPM       int
	RawWPM    int
	Accuracy  int
	Duration  Duration
	CreatedAt time.Time
}
