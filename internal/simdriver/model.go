package simdriver

import (
	"fmt"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/objspec"
	"github.com/puzpuzpuz/xsync/v3"
)

// TabletConfig describes a simulated tablet.
type TabletConfig struct {
	Name                string
	Transducers         uint32
	Controls            map[dict.ControlType]uint32
	FunctionsPerControl uint32
}

// DefaultTablet returns the tablet attached to a Driver created without WithTablets.
func DefaultTablet() TabletConfig {
	return TabletConfig{
		Name:        "Intuos Pro",
		Transducers: 2,
		Controls: map[dict.ControlType]uint32{
			dict.ControlTypeExpressKey: 8,
			dict.ControlTypeTouchRing:  1,
		},
		FunctionsPerControl: 4,
	}
}

type tablet struct {
	cfg TabletConfig
	// settings written through raw (non-context) routing; they apply to every application.
	attrs *xsync.MapOf[attrKey, aedesc.Descriptor]
}

func newTablet(cfg TabletConfig) *tablet {
	controls := make(map[dict.ControlType]uint32, len(cfg.Controls))
	for ct, n := range cfg.Controls {
		controls[ct] = n
	}
	cfg.Controls = controls

	return &tablet{cfg: cfg, attrs: xsync.NewMapOf[attrKey, aedesc.Descriptor]()}
}

type simContext struct {
	id     uint32
	tablet uint32
	mode   dict.ContextType
	client string
	attrs  *xsync.MapOf[attrKey, aedesc.Descriptor]
}

// object is a resolved node of the object model.
type object struct {
	class      aedesc.DescType
	tablet     uint32
	context    uint32
	transducer uint32
	control    uint32
	function   uint32
	// controlType is valid for control and function objects.
	controlType dict.ControlType
}

func (o object) isControl() bool {
	_, ok := controlTypeOf(o.class)
	return ok
}

// ownerPath identifies the object within its tablet or context. A context and its tablet
// share a path so that context settings shadow the tablet-wide ones.
func (o object) ownerPath() string {
	switch {
	case o.function != 0:
		return fmt.Sprintf("%s/%d/Func/%d", o.controlType.Class(), o.control, o.function)
	case o.control != 0:
		return fmt.Sprintf("%s/%d", o.controlType.Class(), o.control)
	case o.transducer != 0:
		return fmt.Sprintf("Trns/%d", o.transducer)
	case o.class == dict.ClassContext:
		return dict.ClassTablet.String()
	default:
		return o.class.String()
	}
}

type attrKey struct {
	path string
	attr aedesc.DescType
}

func controlTypeOf(class aedesc.DescType) (dict.ControlType, bool) {
	switch class {
	case dict.ClassTouchStrip:
		return dict.ControlTypeTouchStrip, true
	case dict.ClassExpressKey:
		return dict.ControlTypeExpressKey, true
	case dict.ClassTouchRing:
		return dict.ControlTypeTouchRing, true
	default:
		return 0, false
	}
}

// resolve walks a specifier chain from its root. A nil specifier is the driver object.
func (d *Driver) resolve(s *objspec.Specifier) (object, error) {
	if s == nil {
		return object{class: dict.ClassDriver}, nil
	}

	if s.IsRoot() {
		return d.resolveRoot(s)
	}

	parent, err := d.resolve(s.Container())
	if err != nil {
		return object{}, err
	}

	switch class := s.Class(); {
	case class == dict.ClassTransducer:
		if parent.class != dict.ClassTablet {
			return object{}, protoErr(dict.ErrNoSuchObject, "transducer must be addressed on a tablet, not %s", parent.class)
		}
		index, err := positionIndex(s, d.tablets[parent.tablet-1].cfg.Transducers)
		if err != nil {
			return object{}, err
		}
		parent.class = class
		parent.transducer = index

		return parent, nil

	case class == dict.ClassControlFunction:
		if !parent.isControl() {
			return object{}, protoErr(dict.ErrNoSuchObject, "function must be addressed on a control, not %s", parent.class)
		}
		index, err := positionIndex(s, d.tablets[parent.tablet-1].cfg.FunctionsPerControl)
		if err != nil {
			return object{}, err
		}
		parent.class = class
		parent.function = index

		return parent, nil

	default:
		ct, ok := controlTypeOf(class)
		if !ok {
			return object{}, protoErr(dict.ErrUnknownObjectType, "unknown object class %s", class)
		}
		if parent.class != dict.ClassContext {
			return object{}, protoErr(dict.ErrNoSuchObject, "controls must be addressed in a context, not %s", parent.class)
		}
		index, err := positionIndex(s, d.tablets[parent.tablet-1].cfg.Controls[ct])
		if err != nil {
			return object{}, err
		}
		parent.class = class
		parent.controlType = ct
		parent.control = index

		return parent, nil
	}
}

func (d *Driver) resolveRoot(s *objspec.Specifier) (object, error) {
	switch s.Class() {
	case dict.ClassDriver:
		if _, err := positionIndex(s, 1); err != nil {
			return object{}, err
		}

		return object{class: dict.ClassDriver}, nil

	case dict.ClassTablet:
		index, err := positionIndex(s, uint32(len(d.tablets))) //nolint:gosec // tablet count is small
		if err != nil {
			return object{}, err
		}

		return object{class: dict.ClassTablet, tablet: index}, nil

	case dict.ClassContext:
		if s.Form() != dict.FormUniqueID {
			return object{}, protoErr(dict.ErrWrongDataType, "context must be addressed by id, got form %s", s.Form())
		}
		id, ok := s.Index()
		if !ok {
			return object{}, protoErr(dict.ErrWrongDataType, "context id must be %s, got %s", aedesc.TypeUInt32, s.Key().Type())
		}
		ctx, ok := d.contexts.Load(id)
		if !ok {
			return object{}, protoErr(dict.ErrNoSuchObject, "no context with id %d", id)
		}

		return object{class: dict.ClassContext, tablet: ctx.tablet, context: id}, nil

	default:
		return object{}, protoErr(dict.ErrUnknownObjectType, "%s cannot be addressed at the top level", s.Class())
	}
}

// positionIndex returns the 1-based index of s, which must not exceed count.
func positionIndex(s *objspec.Specifier, count uint32) (uint32, error) {
	if s.Form() != dict.FormAbsolutePosition {
		return 0, protoErr(dict.ErrWrongDataType, "%s must be addressed by index, got form %s", s.Class(), s.Form())
	}

	index, ok := s.Index()
	if !ok {
		return 0, protoErr(dict.ErrWrongDataType, "%s index must be %s, got %s", s.Class(), aedesc.TypeUInt32, s.Key().Type())
	}

	if index == dict.InvalidIndex || index > count {
		return 0, protoErr(dict.ErrIndexOutOfRange, "%s index %d out of range [1, %d]", s.Class(), index, count)
	}

	return index, nil
}
