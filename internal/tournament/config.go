package tournament

import "math"

// Config carries the tunables that used to live in ambient environment
// state: score weights and the Swiss round-count policy. It is passed into
// the engine explicitly at construction.
type Config struct {
	WinPoints  int
	DrawPoints int

	// SwissRounds maps a roster size to the number of Swiss rounds.
	SwissRounds func(participants int) int
}

func DefaultConfig() Config {
	return Config{
		WinPoints:   3,
		DrawPoints:  1,
		SwissRounds: DefaultSwissRounds,
	}
}

// DefaultSwissRounds is ceil(log2(N)): enough rounds to separate a clear
// top 16 without playing a full round-robin.
func DefaultSwissRounds(participants int) int {
	if participants < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(participants))))
}
