package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/mudra/internal/gesture"
)

// Wire format, little-endian:
//
//	magic "MDRA" | version u8 | flags u8 | category u8 | reserved u8
//	tick u64 | timestamp_ms i64 | strength f32
//	camera position 3×f32 | camera target 3×f32
//	count u32 | positions 3·count×f32 | colors 3·count×f32
const (
	Version    = 1
	headerSize = 56

	flagHand    = 1 << 0
	flagTrigger = 1 << 1
)

var magic = [4]byte{'M', 'D', 'R', 'A'}

var (
	// ErrShortFrame is returned when the input ends before the frame does.
	ErrShortFrame = errors.New("render: short frame")
	// ErrBadMagic is returned when the input does not start with the frame magic.
	ErrBadMagic = errors.New("render: bad magic")
)

// EncodedSize returns the number of bytes Encode produces for count particles.
func EncodedSize(count int) int {
	return headerSize + 24*count
}

var bufPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// GetBuffer returns a pooled byte slice with zero length.
func GetBuffer() *[]byte {
	b := bufPool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// PutBuffer returns a buffer obtained from GetBuffer to the pool.
func PutBuffer(b *[]byte) {
	bufPool.Put(b)
}

// Encode appends the wire form of f to dst and returns the extended slice.
func Encode(dst []byte, f *Frame) []byte {
	if len(f.Positions) != len(f.Colors) || len(f.Positions)%3 != 0 {
		panic(fmt.Sprintf("render: malformed frame buffers %d/%d", len(f.Positions), len(f.Colors)))
	}

	var flags byte
	if f.HandPresent {
		flags |= flagHand
	}
	if f.Trigger {
		flags |= flagTrigger
	}

	dst = append(dst, magic[:]...)
	dst = append(dst, Version, flags, byte(f.Gesture.Category), 0)
	dst = binary.LittleEndian.AppendUint64(dst, f.Tick)
	dst = binary.LittleEndian.AppendUint64(dst, uint64(f.TimestampMs))
	dst = appendFloat(dst, float32(f.Gesture.Strength))
	dst = appendVec(dst, f.Camera.Position)
	dst = appendVec(dst, f.Camera.Target)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(f.Count()))
	for _, v := range f.Positions {
		dst = appendFloat(dst, v)
	}
	for _, v := range f.Colors {
		dst = appendFloat(dst, v)
	}
	return dst
}

// Decode parses one encoded frame.
func Decode(data []byte) (*Frame, error) {
	if len(data) < headerSize {
		return nil, ErrShortFrame
	}
	if [4]byte(data[:4]) != magic {
		return nil, ErrBadMagic
	}
	if data[4] != Version {
		return nil, fmt.Errorf("render: unsupported version %d", data[4])
	}

	flags := data[5]
	le := binary.LittleEndian
	f := &Frame{
		HandPresent: flags&flagHand != 0,
		Trigger:     flags&flagTrigger != 0,
		Gesture: gesture.Classification{
			Category: gesture.Category(data[6]),
			Strength: float64(readFloat(data[24:])),
		},
		Tick:        le.Uint64(data[8:]),
		TimestampMs: int64(le.Uint64(data[16:])),
	}
	f.Camera.Position = readVec(data[28:])
	f.Camera.Target = readVec(data[40:])

	count := int(le.Uint32(data[52:]))
	if len(data) < EncodedSize(count) {
		return nil, fmt.Errorf("%w: %d particles need %d bytes, have %d",
			ErrShortFrame, count, EncodedSize(count), len(data))
	}

	f.Positions = make([]float32, 3*count)
	f.Colors = make([]float32, 3*count)
	body := data[headerSize:]
	for i := range f.Positions {
		f.Positions[i] = readFloat(body[4*i:])
	}
	body = body[12*count:]
	for i := range f.Colors {
		f.Colors[i] = readFloat(body[4*i:])
	}
	return f, nil
}

func appendFloat(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

func appendVec(dst []byte, v mgl64.Vec3) []byte {
	for _, c := range v {
		dst = appendFloat(dst, float32(c))
	}
	return dst
}

func readFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func readVec(b []byte) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(readFloat(b)),
		float64(readFloat(b[4:])),
		float64(readFloat(b[8:])),
	}
}
