package audio

import "encoding/binary"

// Canonical form expected by the transcription stage.
const (
	CanonicalSampleRate = 16000
	CanonicalChannels   = 1
	CanonicalBitDepth   = 16
)

// Format describes what a payload's leading bytes claim it to be.
type Format struct {
	Container  string // "wav", "mp3", "ogg", "flac", "unknown"
	SampleRate int
	Channels   int
	BitDepth   int
	PCM        bool
}

// Canonical reports whether the payload already satisfies the
// transcription stage's requirements and can skip transcoding.
func (f Format) Canonical() bool {
	return f.Container == "wav" && f.PCM &&
		f.SampleRate == CanonicalSampleRate &&
		f.Channels == CanonicalChannels &&
		f.BitDepth == CanonicalBitDepth
}

// Extension returns a filename extension matching the container, for
// labeling the payload when it is attached to an API call.
func (f Format) Extension() string {
	switch f.Container {
	case "wav", "mp3", "ogg", "flac":
		return f.Container
	}
	return "wav"
}

// Sniff inspects the leading bytes of an audio payload. Declared
// Content-Type headers lie often enough that the bytes are the only
// input considered.
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return sniffWAV(data)
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return Format{Container: "mp3"}
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return Format{Container: "mp3"}
	case len(data) >= 4 && string(data[0:4]) == "OggS":
		return Format{Container: "ogg"}
	case len(data) >= 4 && string(data[0:4]) == "fLaC":
		return Format{Container: "flac"}
	}
	return Format{Container: "unknown"}
}

func sniffWAV(data []byte) Format {
	f := Format{Container: "wav"}

	// Walk RIFF chunks until the fmt chunk.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		if id == "fmt " {
			body := data[off+8:]
			if len(body) < 16 {
				return f
			}
			f.PCM = binary.LittleEndian.Uint16(body[0:2]) == 1
			f.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			f.BitDepth = int(binary.LittleEndian.Uint16(body[14:16]))
			return f
		}
		off += 8 + size
		if size%2 == 1 {
			off++ // chunks are word-aligned
		}
	}
	return f
}
