package nmea

import (
	"strings"

	"github.com/gnss-tools/hazer-go/internal/framer"
)

// Sentence is a tokenized NMEA sentence: the talker+type prefix (e.g.
// "GNGGA") and the comma-separated data fields, with the checksum already
// stripped and verified. Unlike the C original, tokens are owned Go
// strings rather than in-place NUL-spliced pointers into a mutable buffer
// (spec.md §9 design note on in-place tokenization).
type Sentence struct {
	Talker string // two-letter talker ID, e.g. "GN", "GP"
	Type   string // three-letter sentence name, e.g. "GGA"
	Fields []string
}

// Name returns the full talker+type identifier, e.g. "GNGGA".
func (s Sentence) Name() string { return s.Talker + s.Type }

// Tokenize splits a validated NMEA frame (as produced by the framer or
// accepted by Validate) into a Sentence. It does not itself verify the
// checksum; call Validate first.
func Tokenize(frame []byte) (Sentence, error) {
	n := len(frame)
	if n > 0 && frame[n-1] == 0 {
		n--
	}
	s := string(frame[:n])

	star := strings.IndexByte(s, '*')
	if star < 0 {
		return Sentence{}, framer.ErrFraming
	}
	data := s[:star]
	if len(data) == 0 || data[0] != Sync {
		return Sentence{}, framer.ErrFraming
	}
	fields := strings.Split(data[1:], ",")
	if len(fields) == 0 || len(fields[0]) < 3 {
		return Sentence{}, framer.ErrFraming
	}
	head := fields[0]
	talker, typ := "", head
	if len(head) >= 5 {
		talker, typ = head[:2], head[2:]
	}
	return Sentence{Talker: talker, Type: typ, Fields: fields[1:]}, nil
}

// Serialize recomposes a Sentence back into a checksummed "$...*CC\r\n"
// frame. Round-tripping a Sentence produced by Tokenize through Serialize
// reproduces the original frame character-for-character (spec.md §8).
func Serialize(s Sentence) []byte {
	var body strings.Builder
	body.WriteByte(Sync)
	body.WriteString(s.Talker)
	body.WriteString(s.Type)
	for _, f := range s.Fields {
		body.WriteByte(',')
		body.WriteString(f)
	}
	data := body.String()

	var sum byte
	for i := 1; i < len(data); i++ {
		sum = updateChecksum(sum, data[i])
	}
	msn, lsn := finalizeChecksum(sum)

	out := make([]byte, 0, len(data)+5)
	out = append(out, data...)
	out = append(out, '*', msn, lsn, '\r', '\n')
	return out
}
