package objspec

import (
	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
)

// Driver returns the specifier of the single driver object.
func Driver() *Specifier {
	return Root(dict.ClassDriver, aedesc.NewUInt32(1), dict.FormAbsolutePosition)
}

// Tablet returns the specifier of the tablet at 1-based index.
func Tablet(index uint32) *Specifier {
	return Root(dict.ClassTablet, aedesc.NewUInt32(index), dict.FormAbsolutePosition)
}

// Transducer returns the specifier of the transducer at 1-based index on the given tablet.
func Transducer(tablet uint32, index uint32) *Specifier {
	return Child(dict.ClassTransducer, aedesc.NewUInt32(index), dict.FormAbsolutePosition, Tablet(tablet))
}

// Context returns the specifier of the context with the given id.
func Context(contextID uint32) *Specifier {
	return Root(dict.ClassContext, aedesc.NewUInt32(contextID), dict.FormUniqueID)
}

// Control returns the specifier of the control at 1-based index within a context.
// The object class is derived from controlType.
func Control(contextID uint32, controlType dict.ControlType, index uint32) *Specifier {
	return Child(controlType.Class(), aedesc.NewUInt32(index), dict.FormAbsolutePosition, Context(contextID))
}

// Function returns the specifier of the function at 1-based index on a control.
func Function(contextID uint32, controlType dict.ControlType, control uint32, index uint32) *Specifier {
	return Child(dict.ClassControlFunction, aedesc.NewUInt32(index), dict.FormAbsolutePosition,
		Control(contextID, controlType, control))
}

// Property returns the specifier of an attribute of the object addressed by container.
func Property(attribute aedesc.DescType, container *Specifier) *Specifier {
	return Child(dict.ClassProperty, aedesc.NewType(attribute), dict.FormPropertyID, container)
}
