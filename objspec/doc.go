// Package objspec builds object specifiers: recursive addresses that tell the tablet driver
// where in its object model a value lives.
//
// A Specifier names an object by class, key form and key, relative to an optional container
// specifier. Chains mirror the driver's hierarchy:
//
//	Driver
//	Tablet ─ Transducer
//	Context ─ Control (TouchStrip | ExpressKey | TouchRing) ─ Function
//
// Specifiers are immutable. Child deep-copies its container, so every node owns its container
// exclusively and chains can never share nodes or form cycles.
//
// The convenience builders (Driver, Tablet, Transducer, Context, Control, Function, Property) do
// not validate indices; a zero index is forwarded as-is. Use Validate to reject invalid indices
// locally before sending.
package objspec
