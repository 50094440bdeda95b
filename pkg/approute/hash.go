package approute

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const (
	pageHashTag = 'P'
	pathHashTag = 'U'
)

// Hash returns a structural hash of p. Equal pages hash equally regardless
// of how they were built.
func (p AppPage) Hash() uint64 {
	d := xxhash.New()
	d.Write([]byte{pageHashTag})
	for _, seg := range p.segments {
		if seg.Kind == KindPageType {
			d.Write([]byte{byte(seg.Kind), byte(seg.Type)})
			continue
		}
		writeHashedName(d, byte(seg.Kind), seg.Name)
	}
	return d.Sum64()
}

// Hash returns a structural hash of p.
func (p AppPath) Hash() uint64 {
	d := xxhash.New()
	d.Write([]byte{pathHashTag})
	for _, seg := range p.segments {
		writeHashedName(d, byte(seg.Kind), seg.Name)
	}
	return d.Sum64()
}

// writeHashedName length-prefixes name so that adjacent segments cannot
// collide ("ab","c" vs "a","bc").
func writeHashedName(d *xxhash.Digest, kind byte, name string) {
	var buf [1 + binary.MaxVarintLen64]byte
	buf[0] = kind
	n := binary.PutUvarint(buf[1:], uint64(len(name)))
	d.Write(buf[:1+n])
	d.WriteString(name)
}
