package reflexpong

// Controllers is the engine's extended state. It survives state changes
// except where a behavior or transition resets a field.
type Controllers struct {
	// ExecutionCount counts behavior runs since the last transition.
	ExecutionCount uint32         `yaml:"execution_count"`
	Animation      AnimationState `yaml:"animation"`
	P1Score        uint8          `yaml:"p1_score"`
	P2Score        uint8          `yaml:"p2_score"`
	// LEDIndex is the next LED the ball moves to. Values outside 0..7 mean
	// the ball went past a border.
	LEDIndex       int8   `yaml:"led_index"`
	LEDShiftPeriod uint32 `yaml:"led_shift_period"`
	PassCount      uint32 `yaml:"pass_count"`
}

// ShiftPeriod returns the ball speed for a rally that has already seen
// passCount returns: each return shortens the period by ShiftPeriodStep down
// to MinShiftPeriod.
func ShiftPeriod(passCount uint32) uint32 {
	cut := uint64(passCount) * uint64(ShiftPeriodStep)
	if cut >= uint64(BaseShiftPeriod-MinShiftPeriod) {
		return MinShiftPeriod
	}
	return BaseShiftPeriod - uint32(cut)
}

// scratch holds what a single state remembers between its ticks. It is
// zeroed on every transition.
type scratch struct {
	mark    uint32 // execution count of the last periodic step
	shows   int
	visible bool
	scroll  int
}

// interval reports whether at least period ticks have elapsed since the last
// time it returned true (or since state entry) and restarts the interval.
func (s *scratch) interval(now, period uint32) bool {
	if now-s.mark < period {
		return false
	}
	s.mark = now
	return true
}
