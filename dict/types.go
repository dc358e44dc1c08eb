package dict

import (
	"strconv"

	"github.com/arloliu/go-tabletae/aedesc"
)

// ControlType identifies a kind of physical control on a tablet.
type ControlType int

const (
	ControlTypeTouchStrip ControlType = iota
	ControlTypeExpressKey
	ControlTypeTouchRing
)

var controlTypeNames = map[ControlType]string{
	ControlTypeTouchStrip: "TouchStrip",
	ControlTypeExpressKey: "ExpressKey",
	ControlTypeTouchRing:  "TouchRing",
}

// Class returns the object class used to address controls of this type.
//
// Any value other than ControlTypeTouchStrip and ControlTypeExpressKey maps to
// ClassTouchRing. The fallback matches the driver's own mapping and is not an error.
func (t ControlType) Class() aedesc.DescType {
	switch t {
	case ControlTypeTouchStrip:
		return ClassTouchStrip
	case ControlTypeExpressKey:
		return ClassExpressKey
	default:
		return ClassTouchRing
	}
}

func (t ControlType) String() string {
	if name, ok := controlTypeNames[t]; ok {
		return name
	}

	return "ControlType(" + strconv.Itoa(int(t)) + ")"
}

// ParseControlType converts a control type name ("TouchStrip", "ExpressKey", "TouchRing")
// into a ControlType.
func ParseControlType(name string) (ControlType, bool) {
	for t, n := range controlTypeNames {
		if n == name {
			return t, true
		}
	}

	return 0, false
}

// ContextType selects how a new context is initialized.
type ContextType aedesc.DescType

const (
	// ContextTypeBlank creates a context with no customizations.
	ContextTypeBlank ContextType = 0x426c6e6b // 'Blnk'
	// ContextTypeDefault creates a context seeded with the user's current settings.
	ContextTypeDefault ContextType = 0x44666c74 // 'Dflt'
)

func (t ContextType) String() string {
	return aedesc.DescType(t).String()
}

// TabletEventType identifies the tablet event kind for the resend-event request.
type TabletEventType aedesc.DescType

const (
	TabletEventProximity TabletEventType = 0x50726f78 // 'Prox'
	TabletEventPointer   TabletEventType = 0x506e7472 // 'Pntr'
)

func (t TabletEventType) String() string {
	return aedesc.DescType(t).String()
}

// Error numbers the driver reports in the errn reply keyword.
const (
	ErrNoErr             int32 = 0
	ErrCoercionFail      int32 = -1700
	ErrEventNotHandled   int32 = -1708
	ErrTimeout           int32 = -1712
	ErrParamMissed       int32 = -1715
	ErrNoSuchObject      int32 = -1728
	ErrIndexOutOfRange   int32 = -1719
	ErrNotModifiable     int32 = -10003
	ErrWrongDataType     int32 = -1703
	ErrUnknownObjectType int32 = -1731
)
