package engine

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/mapping"
)

// Command is an externally-triggered runtime request. Commands are queued
// and applied frame-synchronously at the start of the next Process call,
// never preempting an in-progress gesture: anything open is cleanly
// closed first.
type Command int

const (
	// CmdToggleMode switches between screen and table mode.
	CmdToggleMode Command = iota
	// CmdStartCalibration begins a 4-corner calibration session.
	CmdStartCalibration
	// CmdSmoothingUp increases smoothing (lowers alpha).
	CmdSmoothingUp
	// CmdSmoothingDown decreases smoothing (raises alpha).
	CmdSmoothingDown
)

// Config assembles an Engine.
type Config struct {
	Classifier *Classifier
	Machine    MachineConfig
	Smoothing  float64
	Mapper     *mapping.Mapper
	Calibrator *mapping.Calibrator

	// OnCalibrated is invoked when a calibration session completes, so
	// the host can persist the result. May be nil.
	OnCalibrated func(cal *mapping.Calibration)
}

// Frame is one fully-formed landmark observation: a possibly-empty hand
// list plus the frame's wall-clock timestamp. Timestamps drive every
// timing window in the core.
type Frame struct {
	Timestamp time.Time
	Hands     []detector.HandLandmarks
}

// Result is the outcome of processing one frame.
type Result struct {
	// Events is the ordered output event batch for this frame.
	Events []Event
	// Uncalibrated is true while table mode is active without a valid
	// calibration; it repeats every frame until resolved.
	Uncalibrated bool
	// Calibration carries the capture-protocol progress notification
	// when a calibration session is active.
	Calibration *mapping.Progress
}

// Engine is the frame-synchronous gesture-to-input core. It owns its
// session, smoother and calibration state exclusively; hosts integrating
// it into a concurrent pipeline must serialize Process calls. Enqueue is
// the only method safe to call from other goroutines.
type Engine struct {
	classifier *Classifier
	machine    *StateMachine
	smoother   *Smoother
	mapper     *mapping.Mapper
	calibrator *mapping.Calibrator

	onCalibrated func(cal *mapping.Calibration)

	cmdMu    sync.Mutex
	commands []Command

	// Hand-identity heuristic state: the tracker gives no stable hand ID,
	// so the control hand is keyed by handedness label when available and
	// matched by nearest anchor otherwise.
	lastHandedness string
	lastAnchor     mapping.Point
	hasLastAnchor  bool

	missingFrames int
}

// New creates an Engine.
func New(cfg Config) *Engine {
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = NewClassifier(0.06)
	}
	return &Engine{
		classifier:   classifier,
		machine:      NewStateMachine(cfg.Machine),
		smoother:     NewSmoother(cfg.Smoothing),
		mapper:       cfg.Mapper,
		calibrator:   cfg.Calibrator,
		onCalibrated: cfg.OnCalibrated,
	}
}

// Enqueue queues a runtime command for the next frame. Safe for
// concurrent use.
func (e *Engine) Enqueue(cmd Command) {
	e.cmdMu.Lock()
	e.commands = append(e.commands, cmd)
	e.cmdMu.Unlock()
}

// Mode returns the current operating mode.
func (e *Engine) Mode() mapping.Mode {
	return e.mapper.Mode()
}

// Calibrating reports whether a calibration session is active.
func (e *Engine) Calibrating() bool {
	return e.calibrator != nil && e.calibrator.Active()
}

// SmoothingAlpha returns the current smoothing factor.
func (e *Engine) SmoothingAlpha() float64 {
	return e.smoother.Alpha()
}

// ForceIdle closes all open gestures, for host shutdown or pipeline
// pause. Returns the closing events so they still reach the injector.
func (e *Engine) ForceIdle(ts time.Time) []Event {
	e.smoother.Reset()
	return e.machine.ForceIdle(ts)
}

// Process advances the core by one frame and returns the output batch.
func (e *Engine) Process(frame Frame) Result {
	var res Result

	res.Events = append(res.Events, e.applyCommands(frame.Timestamp)...)

	if e.calibrator != nil && e.calibrator.Active() {
		res.Calibration = e.processCalibration(frame)
		return res
	}

	e.processGestures(frame, &res)
	return res
}

// applyCommands drains the command queue, closing open gestures before
// any command takes effect.
func (e *Engine) applyCommands(ts time.Time) []Event {
	e.cmdMu.Lock()
	pending := e.commands
	e.commands = nil
	e.cmdMu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	events := e.machine.ForceIdle(ts)
	e.smoother.Reset()

	for _, cmd := range pending {
		switch cmd {
		case CmdToggleMode:
			mode := e.mapper.Toggle()
			log.Printf("Operating mode: %s", mode)
		case CmdStartCalibration:
			if e.calibrator != nil {
				e.calibrator.Start()
				log.Println("Calibration started")
			}
		case CmdSmoothingUp:
			log.Printf("Smoothing alpha: %.1f", e.smoother.Adjust(-1))
		case CmdSmoothingDown:
			log.Printf("Smoothing alpha: %.1f", e.smoother.Adjust(+1))
		}
	}

	return events
}

// processCalibration feeds the frame's index fingertip to the calibrator
// and installs the homography when the session completes.
func (e *Engine) processCalibration(frame Frame) *mapping.Progress {
	var fingertip mapping.Point
	detected := false

	for i := range frame.Hands {
		h := &frame.Hands[i]
		if !h.Valid() {
			continue
		}
		tip := h.IndexFingertip()
		fingertip = mapping.Point{X: tip.X, Y: tip.Y}
		detected = true
		break
	}

	progress, cal := e.calibrator.Feed(frame.Timestamp, fingertip, detected)
	if cal != nil {
		e.mapper.SetHomography(cal.Homography)
		log.Println("Calibration complete, homography installed")
		if e.onCalibrated != nil {
			e.onCalibrated(cal)
		}
	}

	return &progress
}

// processGestures runs the classify -> debounce -> map -> smooth path.
func (e *Engine) processGestures(frame Frame, res *Result) {
	control, twoFists, fistDist := e.selectHands(frame.Hands)

	in := FrameInput{
		Timestamp:    frame.Timestamp,
		Label:        LabelNone,
		TwoFists:     twoFists,
		FistDistance: fistDist,
	}

	if control != nil {
		e.missingFrames = 0
		feat := ExtractFeatures(control)
		in.Label = e.classifier.Classify(feat)

		mapped, err := e.mapper.Map(feat.Anchor)
		switch err {
		case nil:
			in.Anchor = e.smoother.Apply(mapped)
			in.AnchorValid = true
		case mapping.ErrNotCalibrated:
			res.Uncalibrated = true
		}
	} else {
		e.missingFrames++
	}

	res.Events = append(res.Events, e.machine.Advance(in)...)

	// Once tracking loss has outlived the debounce window the machine is
	// idle; drop the filter state so a regained hand starts fresh.
	if e.missingFrames >= e.machine.DebounceFrames() || e.machine.Stable() == LabelNone {
		e.smoother.Reset()
	}
}

// selectHands picks the control hand and detects the two-fist condition.
func (e *Engine) selectHands(hands []detector.HandLandmarks) (*detector.HandLandmarks, bool, float64) {
	valid := hands[:0:0]
	for i := range hands {
		if hands[i].Valid() {
			valid = append(valid, hands[i])
		}
	}

	if len(valid) == 0 {
		e.hasLastAnchor = false
		return nil, false, 0
	}

	control := e.matchControl(valid)

	anchor := control.Anchor()
	e.lastHandedness = control.Handedness
	e.lastAnchor = mapping.Point{X: anchor.X, Y: anchor.Y}
	e.hasLastAnchor = true

	if len(valid) < 2 {
		return control, false, 0
	}

	bothFists := true
	for i := range valid[:2] {
		if e.classifier.Classify(ExtractFeatures(&valid[i])) != LabelFist {
			bothFists = false
			break
		}
	}
	if !bothFists {
		return control, false, 0
	}

	dist := detector.Distance2D(valid[0].PalmCenter(), valid[1].PalmCenter())
	return control, true, dist
}

// matchControl keeps the control hand stable across frames: prefer the
// hand whose handedness label matches the previous control hand, fall
// back to the nearest anchor. This is a heuristic; the tracker does not
// guarantee identity continuity between frames.
func (e *Engine) matchControl(hands []detector.HandLandmarks) *detector.HandLandmarks {
	if len(hands) == 1 {
		return &hands[0]
	}

	if e.lastHandedness != "" {
		match := -1
		for i := range hands {
			if hands[i].Handedness == e.lastHandedness {
				if match >= 0 {
					match = -1 // ambiguous label, use distance
					break
				}
				match = i
			}
		}
		if match >= 0 {
			return &hands[match]
		}
	}

	if e.hasLastAnchor {
		best, bestDist := 0, 0.0
		for i := range hands {
			a := hands[i].Anchor()
			d := mapping.Distance(mapping.Point{X: a.X, Y: a.Y}, e.lastAnchor)
			if i == 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		return &hands[best]
	}

	return &hands[0]
}
