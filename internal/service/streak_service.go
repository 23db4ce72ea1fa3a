package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/models"
)

type activityDateReader interface {
	ActiveDates(ctx context.Context, studentID string, since *time.Time) ([]time.Time, error)
	LessonsTakenSince(ctx context.Context, studentID string, since time.Time) (int, error)
}

// StreakService computes consecutive-day activity streaks from the
// lesson-taken ledger. Days are UTC calendar dates deduplicated upstream.
type StreakService struct {
	activity activityDateReader
	logger   *zap.Logger
	now      func() time.Time
}

// StreakServiceParams groups constructor dependencies.
type StreakServiceParams struct {
	Activity activityDateReader
	Logger   *zap.Logger
}

// NewStreakService constructs a StreakService.
func NewStreakService(params StreakServiceParams) *StreakService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreakService{activity: params.Activity, logger: logger, now: time.Now}
}

// Streaks returns the current and longest streak for a student.
func (s *StreakService) Streaks(ctx context.Context, studentID string) (models.StreakResult, error) {
	dates, err := s.activity.ActiveDates(ctx, studentID, nil)
	if err != nil {
		return models.StreakResult{}, fmt.Errorf("load active dates: %w", err)
	}
	today := truncateToDay(s.now().UTC())
	return models.StreakResult{
		Current: currentStreak(dates, today),
		Longest: longestStreak(dates),
	}, nil
}

// PointsThisMonth counts lessons taken since the start of the current
// calendar month, the engagement currency shown next to the streak.
func (s *StreakService) PointsThisMonth(ctx context.Context, studentID string) (int, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count, err := s.activity.LessonsTakenSince(ctx, studentID, monthStart)
	if err != nil {
		return 0, fmt.Errorf("count lessons this month: %w", err)
	}
	return count, nil
}

// currentStreak walks backward from today, counting consecutive active days
// until the first gap. A today with no activity yields 0.
func currentStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	active := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		active[truncateToDay(d.UTC())] = struct{}{}
	}

	streak := 0
	for day := today; ; day = day.AddDate(0, 0, -1) {
		if _, ok := active[day]; !ok {
			break
		}
		streak++
	}
	return streak
}

// longestStreak scans the sorted distinct dates once, resetting the running
// counter whenever the gap between neighbours is not exactly one day.
func longestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(dates))
	seen := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		day := truncateToDay(d.UTC())
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
