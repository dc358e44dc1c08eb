// Package simdriver is an in-memory tablet driver that answers the object-addressing
// protocol. It serves as a loopback transport.Channel in tests and as the sockchan.Handler
// behind cmd/tabletsim.
//
// The object model mirrors the real driver: a single driver object owns tablets, a tablet
// owns transducers, and application contexts created on a tablet own its controls and
// their functions. Failures are reported the way the driver reports them, through the
// errn/errs reply keywords.
package simdriver
