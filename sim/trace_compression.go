package sim

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// CompressionType represents the compression algorithm used
type CompressionType uint8

const (
	CompressionNone   CompressionType = 0
	CompressionLZ4    CompressionType = 1
	CompressionSnappy CompressionType = 2
)

// payloadKind identifies what an export blob contains
type payloadKind uint8

const (
	payloadTrace  payloadKind = 1
	payloadLayout payloadKind = 2
)

// Export blob layout:
// [0-1]: Magic number (0x51ED for simulation exports)
// [2]: Compression type (0=none, 1=LZ4, 2=Snappy)
// [3]: Payload kind (1=trace, 2=layout)
// [4-7]: Uncompressed payload size
// [8-11]: Compressed payload size
// [12-15]: Payload checksum (CRC32 of uncompressed payload)
// [16+]: Payload

const (
	exportMagic       = 0x51ED
	exportHeaderSize  = 16
	minCompressionGain = 16 // Minimum bytes saved to keep compression
)

// ParseCompression maps a configuration name to a CompressionType
func ParseCompression(name string) (CompressionType, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	default:
		return CompressionNone, ErrUnknownCompression("ParseCompression", name)
	}
}

// String returns the configuration name of the compression type
func (ct CompressionType) String() string {
	switch ct {
	case CompressionLZ4:
		return "lz4"
	case CompressionSnappy:
		return "snappy"
	default:
		return "none"
	}
}

// EncodeTrace serializes a page replacement trace into a self-describing
// export blob, compressed with the given algorithm when it pays off
func EncodeTrace(trace []StepRecord, compressionType CompressionType) ([]byte, error) {
	numFrames := 0
	if len(trace) > 0 {
		numFrames = len(trace[0].Frames)
	}
	for _, step := range trace {
		if len(step.Frames) != numFrames {
			return nil, ErrTraceCorrupted("EncodeTrace", "trace has inconsistent frame counts")
		}
	}

	payload := make([]byte, 8+len(trace)*(5+4*numFrames))
	binary.LittleEndian.PutUint32(payload[0:4], uint32(len(trace)))
	binary.LittleEndian.PutUint32(payload[4:8], uint32(numFrames))

	off := 8
	for _, step := range trace {
		binary.LittleEndian.PutUint32(payload[off:off+4], uint32(int32(step.Reference)))
		off += 4
		if step.Fault {
			payload[off] = 1
		}
		off++
		for _, page := range step.Frames {
			binary.LittleEndian.PutUint32(payload[off:off+4], uint32(int32(page)))
			off += 4
		}
	}

	return seal(payloadTrace, compressionType, payload)
}

// DecodeTrace deserializes a trace export blob
func DecodeTrace(data []byte) ([]StepRecord, error) {
	payload, err := open(data, payloadTrace)
	if err != nil {
		return nil, err
	}
	if len(payload) < 8 {
		return nil, ErrTraceCorrupted("DecodeTrace", "payload too short for trace header")
	}

	steps := int(binary.LittleEndian.Uint32(payload[0:4]))
	numFrames := int(binary.LittleEndian.Uint32(payload[4:8]))
	if len(payload) != 8+steps*(5+4*numFrames) {
		return nil, ErrTraceCorrupted("DecodeTrace", "payload size does not match trace header")
	}

	trace := make([]StepRecord, 0, steps)
	off := 8
	for i := 0; i < steps; i++ {
		step := StepRecord{
			Reference: int(int32(binary.LittleEndian.Uint32(payload[off : off+4]))),
			Fault: payload[off+4] == 1,
			Frames: make([]int, numFrames),
		}
		off += 5
		for j := 0; j < numFrames; j++ {
			step.Frames[j] = int(int32(binary.LittleEndian.Uint32(payload[off : off+4])))
			off += 4
		}
		trace = append(trace, step)
	}
	return trace, nil
}

// EncodeLayout serializes a final memory layout into an export blob
func EncodeLayout(memory []int, compressionType CompressionType) ([]byte, error) {
	payload := make([]byte, 4+4*len(memory))
	binary.LittleEndian.PutUint32(payload[0:4], uint32(len(memory)))

	off := 4
	for _, unit := range memory {
		binary.LittleEndian.PutUint32(payload[off:off+4], uint32(int32(unit)))
		off += 4
	}
	return seal(payloadLayout, compressionType, payload)
}

// DecodeLayout deserializes a memory layout export blob
func DecodeLayout(data []byte) ([]int, error) {
	payload, err := open(data, payloadLayout)
	if err != nil {
		return nil, err
	}
	if len(payload) < 4 {
		return nil, ErrTraceCorrupted("DecodeLayout", "payload too short for layout header")
	}

	units := int(binary.LittleEndian.Uint32(payload[0:4]))
	if len(payload) != 4+4*units {
		return nil, ErrTraceCorrupted("DecodeLayout", "payload size does not match layout header")
	}

	memory := make([]int, units)
	off := 4
	for i := 0; i < units; i++ {
		memory[i] = int(int32(binary.LittleEndian.Uint32(payload[off : off+4])))
		off += 4
	}
	return memory, nil
}

// IsExport checks whether data carries the export magic number
func IsExport(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return binary.LittleEndian.Uint16(data[0:2]) == exportMagic
}

// seal compresses a payload and wraps it in the export header
func seal(kind payloadKind, compressionType CompressionType, payload []byte) ([]byte, error) {
	checksum := crc32.ChecksumIEEE(payload)

	var compressed []byte

	switch compressionType {
	case CompressionNone:
		compressed = payload

	case CompressionLZ4:
		compressed = make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, compressed, nil)
		if err != nil {
			return nil, ErrTraceCorrupted("seal", "LZ4 compression failed")
		}
		if n == 0 {
			// Incompressible input
			compressionType = CompressionNone
			compressed = payload
		} else {
			compressed = compressed[:n]
		}

	case CompressionSnappy:
		compressed = snappy.Encode(nil, payload)

	default:
		return nil, ErrUnknownCompression("seal", compressionType.String())
	}

	// Keep compression only when it actually saves space
	if compressionType != CompressionNone {
		if len(payload)-len(compressed) < minCompressionGain {
			compressionType = CompressionNone
			compressed = payload
		}
	}

	buf := make([]byte, exportHeaderSize+len(compressed))
	binary.LittleEndian.PutUint16(buf[0:2], exportMagic)
	buf[2] = uint8(compressionType)
	buf[3] = uint8(kind)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(compressed)))
	binary.LittleEndian.PutUint32(buf[12:16], checksum)
	copy(buf[exportHeaderSize:], compressed)

	return buf, nil
}

// open validates an export blob, decompresses it and returns the payload
func open(data []byte, kind payloadKind) ([]byte, error) {
	if len(data) < exportHeaderSize {
		return nil, ErrTraceCorrupted("open", "data too short for export header")
	}

	if !IsExport(data) {
		return nil, ErrTraceCorrupted("open", "invalid magic number")
	}

	compressionType := CompressionType(data[2])
	if payloadKind(data[3]) != kind {
		return nil, ErrTraceCorrupted("open", "unexpected payload kind")
	}

	uncompressedSize := int(binary.LittleEndian.Uint32(data[4:8]))
	compressedSize := int(binary.LittleEndian.Uint32(data[8:12]))
	checksum := binary.LittleEndian.Uint32(data[12:16])

	if exportHeaderSize+compressedSize > len(data) {
		return nil, ErrTraceCorrupted("open", "truncated payload")
	}
	compressed := data[exportHeaderSize : exportHeaderSize+compressedSize]

	var payload []byte
	var err error

	switch compressionType {
	case CompressionNone:
		payload = compressed

	case CompressionLZ4:
		payload = make([]byte, uncompressedSize)
		n, uerr := lz4.UncompressBlock(compressed, payload)
		if uerr != nil || n != uncompressedSize {
			return nil, ErrTraceCorrupted("open", "LZ4 decompression failed")
		}

	case CompressionSnappy:
		payload, err = snappy.Decode(nil, compressed)
		if err != nil || len(payload) != uncompressedSize {
			return nil, ErrTraceCorrupted("open", "snappy decompression failed")
		}

	default:
		return nil, ErrUnknownCompression("open", compressionType.String())
	}

	if len(payload) != uncompressedSize {
		return nil, ErrTraceCorrupted("open", "payload size mismatch")
	}

	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, ErrTraceCorrupted("open", "payload checksum mismatch")
	}

	return payload, nil
}
