package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sample = "../../internal/adapter/csvsource/testdata/earthquakes_sample.csv"

func TestRun_Sample(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, sample, "2025-05-29T00:00:00Z", false)

	assert.Equal(t, 0, code)
	got := out.String()
	assert.Contains(t, got, "Rows read:     9")
	assert.Contains(t, got, "Rows rejected: 2")
	assert.Contains(t, got, "Events:        7")
	assert.Contains(t, got, "  North America  2\n")
	assert.Contains(t, got, "  Sea            2\n")
	assert.Contains(t, got, "  Africa         0\n")
	assert.Contains(t, got, "Total Earthquakes: 6")
	assert.Contains(t, got, "Max Magnitude: 5.20")
	assert.Contains(t, got, "Most Frequent Location: 5 km NW of The Geysers, CA")
}

func TestRun_Failures(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, run(&out, sample, "yesterday", false))
	assert.Equal(t, 1, run(&out, "testdata/missing.csv", time.Now().UTC().Format(time.RFC3339), false))
	assert.Empty(t, out.String())
}
