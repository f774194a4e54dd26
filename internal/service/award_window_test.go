package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAwardWindowSpansYearBoundary(t *testing.T) {
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	months := AwardWindow(2024, 1, map[string]int{"2023-11": 3, "2024-02": 1}, now)

	require.Len(t, months, 6)
	labels := make([]string, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.Label)
	}
	require.Equal(t, []string{
		"October 2023", "November 2023", "December 2023",
		"January 2024", "February 2024", "March 2024",
	}, labels)

	require.Nil(t, months[0].Award)
	require.NotNil(t, months[1].Award)
	require.Equal(t, 3, *months[1].Award)
	require.Equal(t, 1, *months[4].Award)

	current := 0
	for _, m := range months {
		if m.Current {
			current++
			require.Equal(t, 2024, m.Year)
			require.Equal(t, 1, m.Month)
		}
	}
	require.Equal(t, 1, current)
}

func TestAwardWindowWithoutCurrentMonth(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	months := AwardWindow(2023, 11, nil, now)

	require.Equal(t, 8, months[0].Month)
	require.Equal(t, 2023, months[0].Year)
	require.Equal(t, 1, months[5].Month)
	require.Equal(t, 2024, months[5].Year)
	for _, m := range months {
		require.False(t, m.Current)
	}
}
