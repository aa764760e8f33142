package editor

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"photo-editor/internal/raster"
)

// DefaultExportName is used when a name hint sanitizes down to nothing.
const DefaultExportName = "edited.png"

// SaveFunc receives the exported image blob. Upload or persistence of the
// blob is entirely the caller's concern.
type SaveFunc func(name string, data []byte) error

// Export encodes the current buffer as a PNG blob. Session state, buffer,
// and history are unaffected; a failed export can simply be retried.
func (s *Session) Export() ([]byte, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current == nil {
		return nil, ErrNoImage
	}
	return EncodePNG(current)
}

// ExportTo encodes the current buffer and hands the blob to the save
// callback under a sanitized file name derived from nameHint.
func (s *Session) ExportTo(save SaveFunc, nameHint string) error {
	if save == nil {
		return fmt.Errorf("%w: nil save callback", ErrInvalidArgument)
	}
	data, err := s.Export()
	if err != nil {
		return err
	}
	return save(SanitizeFilename(nameHint), data)
}

// EncodePNG encodes a buffer as a PNG, the lossless alpha-preserving export
// format.
func EncodePNG(buf *raster.Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, buf.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return out.Bytes(), nil
}

// SanitizeFilename restricts a file-name hint to letters, digits, '_', '.'
// and '-', and guarantees a .png extension. Anything else becomes '_'.
// An empty or fully-invalid hint falls back to DefaultExportName.
func SanitizeFilename(hint string) string {
	var b strings.Builder
	for _, r := range hint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), "._")
	if name == "" {
		return DefaultExportName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		name += ".png"
	}
	return name
}
