package service

import "encoding/binary"

// appendCompact appends n in SCALE compact form.
func appendCompact(dst []byte, n uint64) []byte {
	switch {
	case n < 1<<6:
		return append(dst, byte(n<<2))
	case n < 1<<14:
		return binary.LittleEndian.AppendUint16(dst, uint16(n<<2|0b01))
	case n < 1<<30:
		return binary.LittleEndian.AppendUint32(dst, uint32(n<<2|0b10))
	}

	// Big-integer mode: the low two bits are 0b11 and the upper six bits hold
	// the number of payload bytes minus four.
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	size := len(buf)
	for size > 4 && buf[size-1] == 0 {
		size--
	}

	dst = append(dst, byte((size-4)<<2|0b11))
	return append(dst, buf[:size]...)
}

// encodeString returns the SCALE encoding of s: compact byte length, then the UTF-8 bytes.
func encodeString(s string) []byte {
	out := make([]byte, 0, len(s)+5)
	out = appendCompact(out, uint64(len(s)))
	return append(out, s...)
}
