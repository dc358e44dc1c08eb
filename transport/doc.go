// Package transport defines the synchronous call contract between the driver client and the
// host's inter-process message channel.
//
// The Channel interface is supplied by the host platform (or by the sockchan sub-package) and
// performs the actual delivery. Transport wraps a Channel with the client-side semantics:
//
//   - SendNoReply: fire-and-forget; the message is handed to the channel and no reply is read.
//   - SendAndWait: blocks the calling goroutine until a reply arrives or the timeout elapses.
//     Exactly one round trip is made; there is no retry and no queueing.
//
// Errors:
//   - *ChannelError (errors.Is(err, ErrChannel)) for delivery failures, including timeouts
//     (errors.Is(err, ErrTimeout)).
//   - *aemsg.ProtocolError (errors.Is(err, aemsg.ErrProtocol)) when the driver reports a failure
//     status in its reply.
//
// Timeouts are expressed in Ticks (1/60 second) and priorities as a two-level hint.
package transport
