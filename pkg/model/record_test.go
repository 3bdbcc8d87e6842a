package model_test

import (
	"testing"
	"time"

	"github.com/mtt-project/mtt/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestTimerRecord_Duration(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := model.NewTimerRecord(start, start.Add(1234*time.Second), "")
	assert.Equal(t, 1234*time.Second, rec.Duration())
}

func TestTimerRecord_Duration_Zero(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := model.NewTimerRecord(start, start, "")
	assert.Equal(t, time.Duration(0), rec.Duration())
}

func TestTimerRecord_Duration_EndBeforeStartClamps(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := model.NewTimerRecord(start, start.Add(-time.Hour), "forgot to stop")
	assert.Equal(t, time.Duration(0), rec.Duration())
}

func TestTimerRecord_Duration_AcrossZones(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, berlin)
	end := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	rec := model.NewTimerRecord(start, end, "")
	assert.Equal(t, 30*time.Minute, rec.Duration())
}
