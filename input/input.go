// Package input maps keyboard codes to camera actions.
//
// Key values match GLFW key codes so a window callback can pass its key
// straight through, but the package does not import GLFW and can be used
// without a window.
package input

import (
	"fmt"

	"orrery/scene"
)

// Key is a keyboard code. Printable keys use their ASCII value.
type Key int

const (
	KeyA      Key = 65
	KeyD      Key = 68
	KeyS      Key = 83
	KeyW      Key = 87
	KeyEscape Key = 256
	KeyRight  Key = 262
	KeyLeft   Key = 263
	KeyDown   Key = 264
	KeyUp     Key = 265

	// Lowercase letters, as delivered by character input.
	KeyLowerA Key = 'a'
	KeyLowerD Key = 'd'
	KeyLowerS Key = 's'
	KeyLowerW Key = 'w'
)

// Action is what a key press asks the viewer to do.
type Action int

const (
	ActionNone Action = iota
	PanLeft
	PanRight
	PanUp
	PanDown
	OrbitLeft
	OrbitRight
	ZoomIn
	ZoomOut
	Quit
)

var actionNames = [...]string{
	ActionNone: "none",
	PanLeft:    "pan-left",
	PanRight:   "pan-right",
	PanUp:      "pan-up",
	PanDown:    "pan-down",
	OrbitLeft:  "orbit-left",
	OrbitRight: "orbit-right",
	ZoomIn:     "zoom-in",
	ZoomOut:    "zoom-out",
	Quit:       "quit",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

var bindings = map[Key]Action{
	KeyLeft:   PanLeft,
	KeyRight:  PanRight,
	KeyUp:     PanUp,
	KeyDown:   PanDown,
	KeyA:      OrbitLeft,
	KeyLowerA: OrbitLeft,
	KeyD:      OrbitRight,
	KeyLowerD: OrbitRight,
	KeyW:      ZoomIn,
	KeyLowerW: ZoomIn,
	KeyS:      ZoomOut,
	KeyLowerS: ZoomOut,
	KeyEscape: Quit,
}

// Lookup returns the action bound to key. Unbound keys report false.
func Lookup(key Key) (Action, bool) {
	a, ok := bindings[key]
	return a, ok
}

// Apply performs a camera action and reports whether the camera changed.
// Quit and ActionNone leave the camera alone; the caller owns the window.
//
// The pan directions move the scene, not the eye: Left shifts the view
// toward +X so the bodies appear to slide left.
func Apply(a Action, cam *scene.OrbitCamera) bool {
	switch a {
	case PanLeft:
		cam.PanBy(scene.PanStep, 0)
	case PanRight:
		cam.PanBy(-scene.PanStep, 0)
	case PanUp:
		cam.PanBy(0, -scene.PanStep)
	case PanDown:
		cam.PanBy(0, scene.PanStep)
	case OrbitLeft:
		cam.OrbitBy(scene.OrbitStep)
	case OrbitRight:
		cam.OrbitBy(-scene.OrbitStep)
	case ZoomIn:
		cam.Zoom(-scene.ZoomStep)
	case ZoomOut:
		cam.Zoom(scene.ZoomStep)
	default:
		return false
	}
	return true
}
