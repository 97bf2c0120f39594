package reflexpong

import (
	"strings"

	"github.com/comalice/reflexpong/dispatch"
	"github.com/comalice/reflexpong/display"
	"github.com/comalice/reflexpong/music"
)

// Game rules. They are part of the firmware, not configuration.
const (
	MaxScore          uint8  = 5
	ScoreDisplayTicks uint32 = 500000
	AnimationPeriod   uint32 = 80000
	BaseShiftPeriod   uint32 = 80000
	ShiftPeriodStep   uint32 = 5000
	MinShiftPeriod    uint32 = 5000
	// IntroShows is how many times the intro shows its greeting. The step
	// after the last show erases it and ends the animation.
	IntroShows = 6
	// LEDCount is the length of the ball's path.
	LEDCount = 8
)

const (
	introText  = "HOLA"
	bannerText = "    nicE PLAYEr # Yr COOL    "
	window     = 4
)

func encodeBanner(p Player) []uint8 {
	digit := "1"
	if p == Player2 {
		digit = "2"
	}
	return display.EncodeString(strings.Replace(bannerText, "#", digit, 1))
}

// run invokes the active state's behavior.
func (e *Engine) run() {
	switch e.state {
	case Start:
		e.start()
	case WaitPressP1:
		e.waitPress(" P1 ")
	case WaitPressP2:
		e.waitPress(" P2 ")
	case GoToP1:
		e.goTo(1, 2, +1)
	case GoToP2:
		e.goTo(LEDCount-2, LEDCount-3, -1)
	case ReflexP1:
		e.reflex(LEDCount - 1)
	case ReflexP2:
		e.reflex(0)
	case ScoreP1:
		e.score(Player1, &e.ctl.P1Score)
	case ScoreP2:
		e.score(Player2, &e.ctl.P2Score)
	case P1Wins:
		e.wins(Player1)
	case P2Wins:
		e.wins(Player2)
	}
}

func (e *Engine) entering() bool {
	return e.ctl.ExecutionCount == 0
}

// playTune selects a tune and hands the tick source to the tune renderer.
func (e *Engine) playTune(id music.TuneID) {
	e.absorb("set tune", e.hw.Music.SetTune(id))
	e.absorb("arm tune", e.hw.Timer.Arm(dispatch.Tune))
	e.hw.Timer.Start()
}

// start plays the intro tune while "HOLA" blinks on the panel, alternating
// show and erase steps. The erase following the IntroShows-th show ends it.
func (e *Engine) start() {
	if e.entering() {
		e.absorb("erase", e.hw.Display.Erase())
		e.ctl.P1Score = 0
		e.ctl.P2Score = 0
		e.ctl.PassCount = 0
		e.playTune(music.Pacman)
	}

	if e.ctl.Animation != Running || !e.scr.interval(e.ctl.ExecutionCount, AnimationPeriod) {
		return
	}
	if e.scr.shows >= IntroShows {
		e.ctl.Animation = Ended
	}
	if e.scr.visible {
		e.absorb("erase", e.hw.Display.Erase())
	} else {
		e.absorb("show", e.hw.Display.ShowText(introText))
		e.scr.shows++
	}
	e.scr.visible = !e.scr.visible
}

// waitPress blinks the label of the player expected to serve.
func (e *Engine) waitPress(label string) {
	if !e.entering() {
		return
	}
	e.absorb("erase", e.hw.Display.Erase())
	e.absorb("set message", e.hw.Blink.SetMessage(label, true))
	e.absorb("arm blink", e.hw.Timer.Arm(dispatch.Blink))
	e.hw.Timer.Start()
}

// goTo moves the ball one LED every LEDShiftPeriod ticks. It serves from
// the LED next to the server's border; first is the next LED to light.
func (e *Engine) goTo(serve int, first int8, step int8) {
	if e.entering() {
		e.absorb("erase", e.hw.Display.Erase())
		e.absorb("clear", e.hw.LEDs.Clear())
		e.absorb("light", e.hw.LEDs.Light(serve))
		e.ctl.LEDShiftPeriod = ShiftPeriod(e.ctl.PassCount)
		e.ctl.LEDIndex = first
	}

	if e.ctl.Animation != Running || !e.scr.interval(e.ctl.ExecutionCount, e.ctl.LEDShiftPeriod) {
		return
	}
	e.absorb("clear", e.hw.LEDs.Clear())
	e.absorb("light", e.hw.LEDs.Light(int(e.ctl.LEDIndex)))
	e.ctl.LEDIndex += step
}

// reflex holds the ball on the receiver's border LED and counts the pass.
func (e *Engine) reflex(border int) {
	if !e.entering() {
		return
	}
	e.absorb("erase", e.hw.Display.Erase())
	e.absorb("clear", e.hw.LEDs.Clear())
	e.absorb("light", e.hw.LEDs.Light(border))
	e.ctl.PassCount++
}

// score credits p once per entry and shows "P<n>=<score>".
func (e *Engine) score(p Player, score *uint8) {
	if !e.entering() {
		return
	}
	e.absorb("erase", e.hw.Display.Erase())
	e.absorb("clear", e.hw.LEDs.Clear())
	if *score < MaxScore {
		*score++
	}
	e.ctl.PassCount = 0

	cells := [window]uint8{
		display.Encode('P'),
		display.Digit(int(p) + 1),
		display.Equals,
		display.Digit(int(*score)),
	}
	for i, pattern := range cells {
		e.absorb("show raw", e.hw.Display.ShowRaw(i, pattern))
	}
}

// wins plays the victory tune and scrolls the banner for p.
func (e *Engine) wins(p Player) {
	if e.entering() {
		e.absorb("erase", e.hw.Display.Erase())
		e.absorb("clear", e.hw.LEDs.Clear())
		e.ctl.P1Score = 0
		e.ctl.P2Score = 0
		e.ctl.PassCount = 0
		e.playTune(music.Win)
	}

	if e.ctl.Animation != Running || !e.scr.interval(e.ctl.ExecutionCount, AnimationPeriod) {
		return
	}
	banner := e.banners[p]
	e.absorb("erase", e.hw.Display.Erase())
	for i, pattern := range banner[e.scr.scroll : e.scr.scroll+window] {
		if pattern != display.Blank {
			e.absorb("show raw", e.hw.Display.ShowRaw(i, pattern))
		}
	}
	e.scr.scroll++
	if e.scr.scroll+window > len(banner) {
		e.scr.scroll = 0
	}
}
