package service

import (
	"encoding/binary"
	"errors"
	"time"
)

// wavInfo holds the header fields needed for the duration guard.
type wavInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	ByteRate      int
	DataBytes     int
}

var errNotWAV = errors.New("not a RIFF/WAVE buffer")

// parseWAV walks the RIFF chunk list of an in-memory WAV buffer and returns
// the fmt and data chunk fields. It reads headers only; sample data is never
// touched.
func parseWAV(buf []byte) (*wavInfo, error) {
	if len(buf) < 44 || string(buf[0:4]) != "RIFF" || string(buf[8:12]) != "WAVE" {
		return nil, errNotWAV
	}

	info := &wavInfo{}
	sawFmt := false
	offset := 12
	for offset+8 <= len(buf) {
		chunkID := string(buf[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(buf[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(buf) {
				return nil, errors.New("truncated fmt chunk")
			}
			info.Channels = int(binary.LittleEndian.Uint16(buf[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(buf[body+4 : body+8]))
			info.ByteRate = int(binary.LittleEndian.Uint32(buf[body+8 : body+12]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(buf[body+14 : body+16]))
			sawFmt = true
		case "data":
			info.DataBytes = chunkSize
			// Streamed recordings sometimes carry a zero or bogus data size;
			// fall back to what is actually in the buffer.
			if info.DataBytes <= 0 || body+info.DataBytes > len(buf) {
				info.DataBytes = len(buf) - body
			}
		}

		if chunkSize%2 == 1 {
			chunkSize++ // RIFF chunks are word-aligned
		}
		offset = body + chunkSize
	}

	if !sawFmt || info.ByteRate <= 0 {
		return nil, errors.New("missing or invalid fmt chunk")
	}
	return info, nil
}

// audioDuration estimates the play time of an audio buffer. WAV headers are
// trusted when present; anything else is treated as 16-bit mono PCM at the
// given sample rate, which over-estimates compressed formats and therefore
// errs on the side of rejecting.
func audioDuration(buf []byte, fallbackSampleRate int) time.Duration {
	if info, err := parseWAV(buf); err == nil {
		seconds := float64(info.DataBytes) / float64(info.ByteRate)
		return time.Duration(seconds * float64(time.Second))
	}

	if fallbackSampleRate <= 0 {
		fallbackSampleRate = 16000
	}
	byteRate := fallbackSampleRate * 2
	seconds := float64(len(buf)) / float64(byteRate)
	return time.Duration(seconds * float64(time.Second))
}
