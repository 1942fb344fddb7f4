package voice

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/orcaman/writerseeker"
)

// SampleRate is the capture rate the recognizer expects.
const SampleRate = 16000

const (
	bitDepth      = 16
	flacBlockSize = 4096
)

// NewBuffer wraps 16-bit mono samples captured at rate.
func NewBuffer(samples []int16, rate int) *audio.IntBuffer {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
}

// EncodeWAV renders a mono 16-bit buffer as a WAV file.
func EncodeWAV(buf *audio.IntBuffer) ([]byte, error) {
	// Emulate a file in RAM so the encoder can seek back to patch headers.
	file := &writerseeker.WriterSeeker{}
	enc := wav.NewEncoder(file, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encoder write buffer: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}
	return io.ReadAll(file.Reader())
}

// DecodeWAV reads a WAV file and downmixes it to mono.
func DecodeWAV(r io.ReadSeeker) (*audio.IntBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode WAV: %w", err)
	}
	if dec.BitDepth != bitDepth {
		return nil, fmt.Errorf("unsupported bit depth %d, want %d", dec.BitDepth, bitDepth)
	}
	return toMono(buf), nil
}

func toMono(buf *audio.IntBuffer) *audio.IntBuffer {
	ch := buf.Format.NumChannels
	if ch <= 1 {
		return buf
	}
	mono := make([]int, len(buf.Data)/ch)
	for i := range mono {
		sum := 0
		for c := 0; c < ch; c++ {
			sum += buf.Data[i*ch+c]
		}
		mono[i] = sum / ch
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.Format.SampleRate},
		Data:           mono,
		SourceBitDepth: buf.SourceBitDepth,
	}
}

// EncodeFLAC renders a mono 16-bit buffer as a FLAC stream using verbatim
// subframes.
func EncodeFLAC(buf *audio.IntBuffer) ([]byte, error) {
	if buf.Format.NumChannels != 1 {
		return nil, fmt.Errorf("FLAC encoding needs mono audio, got %d channels", buf.Format.NumChannels)
	}

	samples := make([]int32, len(buf.Data))
	raw := make([]byte, 2*len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int32(int16(v))
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(int16(v)))
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(buf.Format.SampleRate),
		NChannels:     1,
		BitsPerSample: bitDepth,
		NSamples:      uint64(len(samples)),
		MD5sum:        md5.Sum(raw),
	}

	out := &writerseeker.WriterSeeker{}
	enc, err := flac.NewEncoder(out, info)
	if err != nil {
		return nil, fmt.Errorf("creating FLAC encoder: %w", err)
	}

	for num, i := uint64(0), 0; i < len(samples); num, i = num+1, i+flacBlockSize {
		end := min(i+flacBlockSize, len(samples))
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(end - i),
				SampleRate:        uint32(buf.Format.SampleRate),
				Channels:          frame.ChannelsMono,
				BitsPerSample:     bitDepth,
				Num:               num,
			},
			Subframes: []*frame.Subframe{{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples[i:end],
				NSamples:  end - i,
			}},
		}
		if err := enc.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("writing FLAC frame: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing FLAC encoder: %w", err)
	}

	var b bytes.Buffer
	if _, err := io.Copy(&b, out.Reader()); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// RMS returns the root mean square amplitude of samples.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
