// Package sockchan implements transport.Channel over a stream socket.
//
// Every message travels in a length-prefixed frame: a 4-byte big-endian length followed by
// a CBOR encoded frame header whose payload carries the binary encoding of an aemsg.Message
// or aemsg.Reply. A Conn multiplexes concurrent SendSync calls over one socket by frame id.
//
// The server side, Serve, lets a driver process (or the simulator in cmd/tabletsim) accept
// clients and answer their requests through a Handler.
//
//	conn, err := sockchan.Dial("unix", "/tmp/tablet.sock")
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	client, err := driver.NewClient(conn)
package sockchan
