package transport

import (
	"strconv"
	"time"

	"github.com/arloliu/go-tabletae/aemsg"
)

// Priority is the delivery priority hint passed to the channel.
type Priority uint8

const (
	// PriorityNormal queues the message behind pending messages.
	PriorityNormal Priority = iota
	// PriorityHigh delivers the message ahead of normal priority messages.
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return "Priority(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePriority converts "normal" or "high" into a Priority.
func ParsePriority(name string) (Priority, bool) {
	switch name {
	case "normal":
		return PriorityNormal, true
	case "high":
		return PriorityHigh, true
	default:
		return PriorityNormal, false
	}
}

// Ticks is a timeout expressed in ticks of 1/60 second.
type Ticks uint32

// TicksPerSecond is the number of ticks in one second.
const TicksPerSecond Ticks = 60

// DefaultTimeout is the timeout used by the driver client for every call: five minutes.
const DefaultTimeout = 5 * 60 * TicksPerSecond

// Duration converts the tick count into a time.Duration.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * time.Second / time.Duration(TicksPerSecond)
}

// TicksFromDuration converts d into ticks, rounding up so that a positive duration never
// becomes a zero timeout.
func TicksFromDuration(d time.Duration) Ticks {
	if d <= 0 {
		return 0
	}

	unit := time.Second / time.Duration(TicksPerSecond)
	ticks := (d + unit - 1) / unit
	if ticks > time.Duration(^uint32(0)) {
		return Ticks(^uint32(0))
	}

	return Ticks(ticks)
}

// Channel is the host's inter-process message facility.
//
// Implementations deliver msg to msg.Target(). Send must not wait for a reply. SendSync must
// block until the reply arrives or timeout elapses, returning an error wrapping ErrTimeout in
// the latter case. Both must be safe for concurrent use.
type Channel interface {
	// Send delivers msg without waiting for a reply.
	Send(msg *aemsg.Message, priority Priority, timeout Ticks) error

	// SendSync delivers msg and waits for its reply.
	SendSync(msg *aemsg.Message, priority Priority, timeout Ticks) (*aemsg.Reply, error)
}
