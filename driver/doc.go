// Package driver is the client facade of the tablet driver. It creates and destroys
// application contexts and reads, writes and counts objects of the driver's object model,
// each operation being one synchronous call over a transport.Channel.
//
// Objects are addressed through routing tables, object specifiers built by the
// RoutingTableFor* helpers. Raw routing tables (driver, tablet, transducer) change settings
// for every application; context-based routing tables are scoped to a context created by
// the caller and are the recommended way to customize behavior.
//
//	client, err := driver.NewClient(channel)
//	if err != nil {
//		return err
//	}
//
//	err = client.WithContext(1, dict.ContextTypeBlank, func(ctx uint32) error {
//		return client.SetAttribute(dict.PropSetting, aedesc.TypeUInt32,
//			aedesc.NewUInt32(5).Data(), driver.RoutingTableForContext(ctx))
//	})
//
// Client returns explicit errors. Legacy keeps the sentinel results of the classic driver
// API, where every failure reads as zero, nil or false.
package driver
