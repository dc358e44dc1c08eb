package aemsg

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"
)

// returnIDGenerator hands out return ids for outgoing messages.
//
// It starts from a random value and increments atomically, skipping zero, which is
// reserved for "no return id".
type returnIDGenerator struct {
	id atomic.Uint32
}

func newReturnIDGenerator() *returnIDGenerator {
	inst := &returnIDGenerator{}
	var buf [4]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return inst
	}
	inst.id.Store(binary.LittleEndian.Uint32(buf[:]))

	return inst
}

func (g *returnIDGenerator) next() uint32 {
	for {
		if id := g.id.Add(1); id != 0 {
			return id
		}
	}
}

var (
	genInst *returnIDGenerator
	genOnce sync.Once
)

// GenerateReturnID returns a unique, non-zero return id.
func GenerateReturnID() uint32 {
	genOnce.Do(func() {
		genInst = newReturnIDGenerator()
	})

	return genInst.next()
}
