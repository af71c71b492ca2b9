package nmea

import (
	"github.com/gnss-tools/hazer-go/internal/domain"
	"github.com/gnss-tools/hazer-go/internal/framer"
)

// Dispatch routes a tokenized sentence to its type-specific parser and
// returns the resulting domain value, lifted to any since the sentence
// types don't share a single result shape (spec.md §4.5's "lift into
// domain records"). gsvAcc is the in-progress GSV accumulator to fold
// this fragment into; callers tracking only non-GSV sentences may pass
// the zero value. Unrecognized sentence types return ErrUnsupported,
// not a content error — a caller commonly wants to ignore those rather
// than log them as malformed input.
func Dispatch(s Sentence, gsvAcc domain.View) (result any, err error) {
	switch s.Type {
	case "GGA":
		return ParseGGA(s)
	case "RMC":
		return ParseRMC(s)
	case "GLL":
		return ParseGLL(s)
	case "VTG":
		return ParseVTG(s)
	case "ZDA":
		return ParseZDA(s)
	case "GSA":
		return ParseGSA(s)
	case "GSV":
		return ParseGSV(s, gsvAcc)
	case "GBS":
		return ParseGBS(s)
	case "TXT":
		return ParseTXT(s), nil
	case "PUBX":
		return dispatchPUBX(s)
	default:
		return nil, framer.ErrUnsupported
	}
}

func dispatchPUBX(s Sentence) (any, error) {
	id, err := ParsePUBX(s)
	if err != nil {
		return nil, err
	}
	switch id {
	case "00":
		return ParsePUBX00(s)
	case "03":
		return ParsePUBX03(s)
	case "04":
		return ParsePUBX04(s)
	default:
		return nil, framer.ErrUnsupported
	}
}
