package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActivityDates struct {
	dates      []time.Time
	monthCount int
	err        error
}

func (f *fakeActivityDates) ActiveDates(context.Context, string, *time.Time) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dates, nil
}

func (f *fakeActivityDates) LessonsTakenSince(context.Context, string, time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.monthCount, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentStreakTodayAndYesterday(t *testing.T) {
	today := day(2026, 3, 10)
	dates := []time.Time{today, today.AddDate(0, 0, -1)}
	assert.Equal(t, 2, currentStreak(dates, today))
}

func TestCurrentStreakGapYieldsZero(t *testing.T) {
	today := day(2026, 3, 10)
	dates := []time.Time{today.AddDate(0, 0, -2)}
	assert.Equal(t, 0, currentStreak(dates, today))
}

func TestCurrentStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, currentStreak(nil, day(2026, 3, 10)))
}

func TestLongestStreakWithGap(t *testing.T) {
	d := day(2026, 3, 1)
	dates := []time.Time{d, d.AddDate(0, 0, 1), d.AddDate(0, 0, 2), d.AddDate(0, 0, 5)}
	assert.Equal(t, 3, longestStreak(dates))
}

func TestLongestStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, longestStreak(nil))
}

func TestLongestStreakUnorderedWithDuplicates(t *testing.T) {
	d := day(2026, 3, 1)
	dates := []time.Time{d.AddDate(0, 0, 2), d, d.AddDate(0, 0, 1), d.AddDate(0, 0, 1)}
	assert.Equal(t, 3, longestStreak(dates))
}

func TestStreakServiceStreaks(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	svc := NewStreakService(StreakServiceParams{Activity: &fakeActivityDates{dates: []time.Time{
		day(2026, 3, 10), day(2026, 3, 9), day(2026, 3, 5), day(2026, 3, 4), day(2026, 3, 3),
	}}})
	svc.now = func() time.Time { return now }

	result, err := svc.Streaks(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Current)
	assert.Equal(t, 3, result.Longest)
}

func TestStreakServicePointsThisMonth(t *testing.T) {
	svc := NewStreakService(StreakServiceParams{Activity: &fakeActivityDates{monthCount: 12}})
	points, err := svc.PointsThisMonth(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, 12, points)
}
