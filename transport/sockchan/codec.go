package sockchan

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

const (
	// lengthPrefixSize is the size of the frame length prefix in bytes.
	lengthPrefixSize = 4

	// DefaultMaxFrameSize is the default maximum encoded frame size (16 MB).
	DefaultMaxFrameSize = 1 << 24
)

type frameKind uint8

const (
	frameRequest frameKind = 1
	frameReply   frameKind = 2
)

func (k frameKind) String() string {
	switch k {
	case frameRequest:
		return "request"
	case frameReply:
		return "reply"
	default:
		return fmt.Sprintf("frameKind(%d)", uint8(k))
	}
}

// frame is the unit written to the socket.
//
// For requests, Payload holds an encoded aemsg.Message. For replies, Payload holds an
// encoded aemsg.Reply, or Error is set when the peer could not produce one.
type frame struct {
	Kind     frameKind `cbor:"1,keyasint"`
	ID       uint32    `cbor:"2,keyasint,omitempty"`
	Client   string    `cbor:"3,keyasint,omitempty"`
	Priority uint8     `cbor:"4,keyasint,omitempty"`
	Timeout  uint32    `cbor:"5,keyasint,omitempty"`
	NoReply  bool      `cbor:"6,keyasint,omitempty"`
	Payload  []byte    `cbor:"7,keyasint,omitempty"`
	Error    string    `cbor:"8,keyasint,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic("sockchan: failed to create CBOR encoder: " + err.Error())
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic("sockchan: failed to create CBOR decoder: " + err.Error())
	}
}

// encodeFrame returns the length-prefixed encoding of f.
func encodeFrame(f *frame, maxSize uint32) ([]byte, error) {
	body, err := encMode.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("sockchan: encode %s frame: %w", f.Kind, err)
	}

	if uint64(len(body)) > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(body), maxSize)
	}

	buf := make([]byte, lengthPrefixSize, lengthPrefixSize+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body))) //nolint:gosec // bounded by maxSize
	buf = append(buf, body...)

	return buf, nil
}

// readFrame reads one length-prefixed frame from r.
func readFrame(r io.Reader, maxSize uint32) (*frame, error) {
	var lengthBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length == 0 {
		return nil, ErrFrameEmpty
	}

	if length > maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, maxSize)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}

		return nil, err
	}

	f := &frame{}
	if err := decMode.Unmarshal(body, f); err != nil {
		return nil, fmt.Errorf("sockchan: decode frame: %w", err)
	}

	return f, nil
}
