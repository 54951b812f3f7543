package app

import (
	"testing"
	"time"
)

func TestStepInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{rate: 10, want: 100 * time.Millisecond},
		{rate: 50, want: 20 * time.Millisecond},
		{rate: 0, want: time.Second / DefaultStepRate},
		{rate: -5, want: time.Second / DefaultStepRate},
	}
	for _, tt := range tests {
		if got := StepInterval(tt.rate); got != tt.want {
			t.Fatalf("StepInterval(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}
