package bitvec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// encodingVersion is the first byte of every encoded vector.
// Layout: version (1 byte) | capacity (uvarint) | words (8 bytes each, little endian).
const encodingVersion = 1

// ErrEncoding is returned when decoding a malformed vector.
var ErrEncoding = errors.New("invalid vector encoding")

// MarshalBinary implements encoding.BinaryMarshaler.
func (v Vector) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 1+binary.MaxVarintLen64+8*len(v.words))
	buf = append(buf, encodingVersion)
	buf = binary.AppendUvarint(buf, uint64(v.n))
	for _, w := range v.words {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Vector) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrEncoding)
	}
	if data[0] != encodingVersion {
		return fmt.Errorf("%w: unknown version %d", ErrEncoding, data[0])
	}
	n, read := binary.Uvarint(data[1:])
	if read <= 0 {
		return fmt.Errorf("%w: could not read capacity", ErrEncoding)
	}
	data = data[1+read:]
	if n > uint64(len(data))*8 {
		return fmt.Errorf("%w: %d bits announced, %d bytes available", ErrEncoding, n, len(data))
	}
	if len(data) != 8*nbWords(int(n)) {
		return fmt.Errorf("%w: %d bytes of data for %d bits", ErrEncoding, len(data), n)
	}
	words := make([]uint64, len(data)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(data[8*i:])
	}
	res, err := FromWords(words, int(n))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	*v = res
	return nil
}
