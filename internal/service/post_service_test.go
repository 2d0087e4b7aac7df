package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrendingScoreWeighsEngagement(t *testing.T) {
	now := time.Now()

	// A fresh post: raw weighted engagement, no decay yet.
	score := TrendingScore(10, 5, 25.0, now, now)
	assert.InDelta(t, 60.0, score, 0.001)

	// Three likes weigh the same as two comments.
	assert.InDelta(t,
		TrendingScore(3, 0, 0, now, now),
		TrendingScore(0, 2, 0, now, now),
		0.001)

	// Tips move the score dollar for dollar.
	assert.InDelta(t, 50.0, TrendingScore(0, 0, 50.0, now, now), 0.001)
}

func TestTrendingScoreDecaysAfterADay(t *testing.T) {
	now := time.Now()

	fresh := TrendingScore(10, 5, 25.0, now, now)
	hoursOld := TrendingScore(10, 5, 25.0, now.Add(-12*time.Hour), now)
	twoDaysOld := TrendingScore(10, 5, 25.0, now.Add(-48*time.Hour), now)
	weekOld := TrendingScore(10, 5, 25.0, now.Add(-7*24*time.Hour), now)

	// No decay inside the first day.
	assert.InDelta(t, fresh, hoursOld, 0.001)

	// Then linear decay per day of age.
	assert.InDelta(t, fresh/2, twoDaysOld, 0.001)
	assert.InDelta(t, fresh/7, weekOld, 0.001)
}

func TestTrendingScoreClampsFutureTimestamps(t *testing.T) {
	now := time.Now()

	// Clock skew should never inflate a score above its fresh value.
	skewed := TrendingScore(10, 5, 25.0, now.Add(time.Hour), now)
	assert.InDelta(t, TrendingScore(10, 5, 25.0, now, now), skewed, 0.001)
}
