package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "small number", input: 42, expected: "42"},
		{name: "hundreds", input: 999, expected: "999"},
		{name: "exactly 1000", input: 1000, expected: "1.0K"},
		{name: "thousands", input: 1500, expected: "1.5K"},
		{name: "exactly 1 million", input: 1000000, expected: "1.0M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{name: "zero", input: 0, expected: "0m"},
		{name: "minutes only", input: 42 * time.Minute, expected: "42m"},
		{name: "exactly one hour", input: time.Hour, expected: "1h 0m"},
		{name: "hours and minutes", input: 2*time.Hour + 5*time.Minute, expected: "2h 5m"},
		{name: "seconds are truncated", input: 90 * time.Second, expected: "1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero", input: 0, expected: "0m"},
		{name: "negative", input: -3, expected: "0m"},
		{name: "ten seconds", input: 0.17, expected: "10s"},
		{name: "five minutes", input: 5.0, expected: "5m"},
		{name: "over an hour", input: 75.5, expected: "1h 15m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMinutes(tt.input))
		})
	}
}

func TestFormatMinutesValue(t *testing.T) {
	assert.Equal(t, "0.33", FormatMinutesValue(0.333333))
	assert.Equal(t, "5.00", FormatMinutesValue(5))
}
