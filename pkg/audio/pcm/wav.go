package pcm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WAV container support is limited to what the evaluation pipeline
// needs: 16-bit PCM, mono or stereo (stereo is downmixed on read).

// ReadWAV decodes a 16-bit PCM WAV stream into a Buffer.
// Stereo input is downmixed to mono by averaging channels.
// If targetRate > 0 and differs from the file rate, the audio is
// resampled to targetRate.
func ReadWAV(r io.Reader, targetRate int) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pcm: read wav: %w", err)
	}
	buf, err := decodeWAV(data)
	if err != nil {
		return nil, err
	}
	if targetRate > 0 && targetRate != buf.Rate {
		return Resample(buf, targetRate)
	}
	return buf, nil
}

// ReadWAVFile decodes a WAV file, optionally resampling to targetRate.
func ReadWAVFile(path string, targetRate int) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pcm: open %s: %w", path, err)
	}
	defer f.Close()
	b, err := ReadWAV(f, targetRate)
	if err != nil {
		return nil, fmt.Errorf("pcm: %s: %w", path, err)
	}
	return b, nil
}

// WriteWAV encodes the buffer as a 16-bit PCM mono WAV stream.
func WriteWAV(w io.Writer, b *Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	samples := b.ToInt16()
	dataLen := len(samples) * 2

	var hdr bytes.Buffer
	hdr.WriteString("RIFF")
	binary.Write(&hdr, binary.LittleEndian, uint32(36+dataLen))
	hdr.WriteString("WAVE")
	hdr.WriteString("fmt ")
	binary.Write(&hdr, binary.LittleEndian, uint32(16))
	binary.Write(&hdr, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&hdr, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&hdr, binary.LittleEndian, uint32(b.Rate))
	binary.Write(&hdr, binary.LittleEndian, uint32(b.Rate*2)) // byte rate
	binary.Write(&hdr, binary.LittleEndian, uint16(2))        // block align
	binary.Write(&hdr, binary.LittleEndian, uint16(16))       // bits per sample
	hdr.WriteString("data")
	binary.Write(&hdr, binary.LittleEndian, uint32(dataLen))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("pcm: write wav header: %w", err)
	}
	pcm16 := make([]byte, dataLen)
	for i, s := range samples {
		pcm16[i*2] = byte(s)
		pcm16[i*2+1] = byte(uint16(s) >> 8)
	}
	if _, err := w.Write(pcm16); err != nil {
		return fmt.Errorf("pcm: write wav data: %w", err)
	}
	return nil
}

// WriteWAVFile encodes the buffer to a WAV file.
func WriteWAVFile(path string, b *Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pcm: create %s: %w", path, err)
	}
	if err := WriteWAV(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func decodeWAV(data []byte) (*Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("pcm: not a RIFF/WAVE stream")
	}

	var (
		rate     int
		channels int
		bits     int
		pcmData  []byte
	)

	// Walk chunks; fmt must precede data per the spec.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body // tolerate truncated final chunk
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("pcm: short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, fmt.Errorf("pcm: unsupported wav format %d (want PCM)", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			rate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcmData = data[body : body+size]
		}
		// Chunks are word-aligned.
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if rate == 0 || pcmData == nil {
		return nil, fmt.Errorf("pcm: missing fmt or data chunk")
	}
	if bits != 16 {
		return nil, fmt.Errorf("pcm: unsupported bit depth %d (want 16)", bits)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("pcm: unsupported channel count %d", channels)
	}

	frames := len(pcmData) / (2 * channels)
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		if channels == 1 {
			s := int16(pcmData[i*2]) | int16(pcmData[i*2+1])<<8
			samples[i] = float64(s) / 32768.0
		} else {
			j := i * 4
			l := int16(pcmData[j]) | int16(pcmData[j+1])<<8
			r := int16(pcmData[j+2]) | int16(pcmData[j+3])<<8
			samples[i] = (float64(l) + float64(r)) / 2 / 32768.0
		}
	}
	return &Buffer{Samples: samples, Rate: rate}, nil
}
