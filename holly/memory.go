package holly

import (
	"encoding/binary"
	"io"
)

// Memory is a bus target that can be accessed at arbitrary addresses. Offsets
// passed to ReadAt and WriteAt are bus addresses, see [Addr].
type Memory interface {
	io.ReaderAt
	io.WriterAt
}

// Store32 writes a single little endian word to m.
func Store32(m Memory, a Addr, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := m.WriteAt(buf[:], int64(a))
	return err
}

// Load32 reads a single little endian word from m.
func Load32(m Memory, a Addr) (uint32, error) {
	var buf [4]byte
	if _, err := m.ReadAt(buf[:], int64(a)); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// StoreWords writes words to m starting at a.
func StoreWords(m Memory, a Addr, words []uint32) error {
	return binary.Write(io.NewOffsetWriter(m, int64(a)), binary.LittleEndian, words)
}

// FillPattern fills n bytes at a by repeating a 32 byte pattern built from
// word. This is the slow path used when the [Accel] is owned by someone else.
func FillPattern(m Memory, a Addr, word uint32, n int) error {
	var pattern [32]byte
	for i := 0; i < len(pattern); i += 4 {
		binary.LittleEndian.PutUint32(pattern[i:], word)
	}
	for n > 0 {
		chunk := pattern[:min(n, len(pattern))]
		if _, err := m.WriteAt(chunk, int64(a)); err != nil {
			return err
		}
		a = a.Add(len(chunk))
		n -= len(chunk)
	}
	return nil
}
