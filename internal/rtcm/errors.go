package rtcm

import "errors"

var errCRCTableCorrupt = errors.New("rtcm: crc24q table failed self-check")
