package services

import (
	"context"
	"fmt"
	"time"
)

// BreathingMinutes are the session lengths offered by the timer.
var BreathingMinutes = []int{1, 3, 5, 7}

// breathAfter is swapped in tests.
var breathAfter = time.After

// Breathe counts down a mindfulness session of the given length, calling
// tick with the time left once at the start and then after every step. It
// returns ctx.Err() if the session is interrupted.
func Breathe(ctx context.Context, minutes int, step time.Duration, tick func(left time.Duration)) error {
	ok := false
	for _, m := range BreathingMinutes {
		if m == minutes {
			ok = true
			break
		}
	}
	if !ok {
		return &ValidationError{Field: "minutes", Message: fmt.Sprintf("Choose a session of %v minutes.", BreathingMinutes)}
	}
	if step <= 0 {
		step = time.Second
	}

	left := time.Duration(minutes) * time.Minute
	tick(left)
	for left > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-breathAfter(step):
			left -= step
			if left < 0 {
				left = 0
			}
			tick(left)
		}
	}
	return nil
}
