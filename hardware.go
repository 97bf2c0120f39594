package reflexpong

import (
	"github.com/comalice/reflexpong/dispatch"
	"github.com/comalice/reflexpong/music"
)

// Display is the seven-segment panel.
type Display interface {
	Init() error
	Erase() error
	ShowRaw(cell int, pattern uint8) error
	ShowText(msg string) error
}

// LEDRow is the strip the ball travels along.
type LEDRow interface {
	Init() error
	Clear() error
	Light(index int) error
}

// Jukebox selects the tune played by the tune renderer.
type Jukebox interface {
	Init() error
	SetTune(id music.TuneID) error
}

// Blinker selects the message drawn by the blink renderer.
type Blinker interface {
	SetMessage(msg string, blinking bool) error
}

// Timer arms and gates the renderers sharing the tick source.
type Timer interface {
	Init() error
	Arm(slot dispatch.Slot) error
	Start()
	Stop()
}

// Buttons exposes the press counters filled by the button edges.
type Buttons interface {
	PressCount(p Player) uint32
	ResetPressCount(p Player)
}

// Hardware gathers the collaborators the engine drives. All fields are
// required.
type Hardware struct {
	Display Display
	LEDs    LEDRow
	Music   Jukebox
	Blink   Blinker
	Timer   Timer
	Buttons Buttons
}

func (hw Hardware) validate() error {
	missing := func(name string) error {
		return &HardwareError{Component: name, Err: ErrMissingHardware}
	}
	switch {
	case hw.Display == nil:
		return missing("display")
	case hw.LEDs == nil:
		return missing("leds")
	case hw.Music == nil:
		return missing("music")
	case hw.Blink == nil:
		return missing("blink")
	case hw.Timer == nil:
		return missing("timer")
	case hw.Buttons == nil:
		return missing("buttons")
	}
	return nil
}
