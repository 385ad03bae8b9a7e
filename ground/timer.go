package ground

// Timer tracks how long a body has been continuously off the ground.
type Timer struct {
	airborne float64
	ticks    uint64
}

// Tick advances the timer by dt seconds and returns the airborne duration.
// A grounded tick resets the duration to exactly zero; there is no cap.
func (t *Timer) Tick(grounded bool, dt float64) float64 {
	if grounded {
		t.airborne = 0
		t.ticks = 0
		return 0
	}
	t.airborne += dt
	t.ticks++
	return t.airborne
}

// Duration returns the airborne duration in seconds.
func (t *Timer) Duration() float64 {
	return t.airborne
}

// Ticks returns the number of consecutive airborne ticks.
func (t *Timer) Ticks() uint64 {
	return t.ticks
}

// Reset zeroes the timer.
func (t *Timer) Reset() {
	t.airborne, t.ticks = 0, 0
}
