package scene

import (
	"fmt"
	"strings"

	"orrery/math"
)

// OpKind names one step of a transform chain.
type OpKind string

const (
	OpScale     OpKind = "scale"
	OpRotate    OpKind = "rotate"
	OpTranslate OpKind = "translate"
)

// Op is a single recorded step. For OpRotate, Angle is in degrees and Vector
// is the axis; otherwise Vector holds the per-axis factors or offsets.
type Op struct {
	Kind   OpKind
	Vector math.Vec3
	Angle  float32
}

// Matrix returns the transform for this single step.
func (op Op) Matrix() (math.Mat4, error) {
	switch op.Kind {
	case OpScale:
		return math.Mat4Scale(op.Vector), nil
	case OpRotate:
		return math.Mat4RotationAxis(op.Vector, math.Radians(op.Angle)), nil
	case OpTranslate:
		return math.Mat4Translation(op.Vector), nil
	default:
		return math.Mat4{}, fmt.Errorf("unknown transform op %q", op.Kind)
	}
}

func (op Op) String() string {
	if op.Kind == OpRotate {
		return fmt.Sprintf("rotate(%g, [%g %g %g])", op.Angle, op.Vector.X, op.Vector.Y, op.Vector.Z)
	}
	return fmt.Sprintf("%s(%g, %g, %g)", op.Kind, op.Vector.X, op.Vector.Y, op.Vector.Z)
}

// Transform accumulates a chain of scale/rotate/translate steps into one
// matrix. Steps compose in call order, so
//
//	NewTransform().Scale(s, s, s).Rotate(a, axis).Translate(x, y, z)
//
// maps a vertex v to translate · rotate · scale · v.
// The zero value is not usable; call NewTransform.
type Transform struct {
	ops    []Op
	matrix math.Mat4
}

func NewTransform() *Transform {
	return &Transform{matrix: math.Mat4Identity()}
}

// TransformFromOps replays ops into a new Transform.
func TransformFromOps(ops []Op) (*Transform, error) {
	t := NewTransform()
	for _, op := range ops {
		if err := t.Push(op); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Transform) Scale(sx, sy, sz float32) *Transform {
	t.mustPush(Op{Kind: OpScale, Vector: math.NewVec3(sx, sy, sz)})
	return t
}

func (t *Transform) Rotate(angleDegrees float32, axis math.Vec3) *Transform {
	t.mustPush(Op{Kind: OpRotate, Vector: axis, Angle: angleDegrees})
	return t
}

func (t *Transform) Translate(tx, ty, tz float32) *Transform {
	t.mustPush(Op{Kind: OpTranslate, Vector: math.NewVec3(tx, ty, tz)})
	return t
}

// Push appends op to the chain.
func (t *Transform) Push(op Op) error {
	m, err := op.Matrix()
	if err != nil {
		return err
	}
	t.ops = append(t.ops, op)
	t.matrix = t.matrix.Mul(m)
	return nil
}

func (t *Transform) mustPush(op Op) {
	if err := t.Push(op); err != nil {
		panic(err)
	}
}

// Matrix returns the composed transform so far.
func (t *Transform) Matrix() math.Mat4 {
	return t.matrix
}

// Ops returns a copy of the recorded steps.
func (t *Transform) Ops() []Op {
	return append([]Op(nil), t.ops...)
}

func (t *Transform) String() string {
	parts := make([]string, len(t.ops))
	for i, op := range t.ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " -> ")
}
