package driver

import (
	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/objspec"
)

// Raw routing tables. Settings changed through them apply to every application.

// RoutingTableForDriver addresses the driver object.
func RoutingTableForDriver() *objspec.Specifier {
	return objspec.Driver()
}

// RoutingTableForTablet addresses the tablet at 1-based index.
func RoutingTableForTablet(tablet uint32) *objspec.Specifier {
	return objspec.Tablet(tablet)
}

// RoutingTableForTransducer addresses a transducer of a tablet, both 1-based.
func RoutingTableForTransducer(tablet uint32, transducer uint32) *objspec.Specifier {
	return objspec.Transducer(tablet, transducer)
}

// Context-based routing tables. Settings changed through them apply only to the context.

// RoutingTableForContext addresses a context.
func RoutingTableForContext(contextID uint32) *objspec.Specifier {
	return objspec.Context(contextID)
}

// RoutingTableForControl addresses the control at 1-based index of the given type in a context.
func RoutingTableForControl(contextID uint32, controlType dict.ControlType, control uint32) *objspec.Specifier {
	return objspec.Control(contextID, controlType, control)
}

// RoutingTableForFunction addresses a function of a control in a context.
func RoutingTableForFunction(contextID uint32, controlType dict.ControlType, control uint32, function uint32) *objspec.Specifier {
	return objspec.Function(contextID, controlType, control, function)
}

// DescTypeFromControlType returns the object class of controls of the given type.
// TouchStrip and ExpressKey have their own classes; every other value, TouchRing included,
// maps to the TouchRing class.
func DescTypeFromControlType(controlType dict.ControlType) aedesc.DescType {
	return controlType.Class()
}
