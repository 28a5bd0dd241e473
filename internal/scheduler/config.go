// Package scheduler places agenda items onto the calendar without conflicts.
package scheduler

// Config defines the placement window constants. Minutes count from midnight.
type Config struct {
	// OpeningMinute is where placement starts each working day.
	OpeningMinute int
	// ClosingMinute is the exclusive end of the working day.
	ClosingMinute int
	// FollowUpMinutes is the length of the generated follow-up event.
	FollowUpMinutes int
	// MaxLookaheadDays bounds how far past the meeting date items may roll.
	MaxLookaheadDays int
}

// DefaultConfig returns the default placement window: a 09:00-17:00 working
// day, 15 minute follow-ups, and a 14 day look-ahead.
func DefaultConfig() *Config {
	return &Config{
		OpeningMinute:    9 * 60,
		ClosingMinute:    17 * 60,
		FollowUpMinutes:  15,
		MaxLookaheadDays: 14,
	}
}

// DayLength returns the number of schedulable minutes per day.
func (c *Config) DayLength() int {
	return c.ClosingMinute - c.OpeningMinute
}
