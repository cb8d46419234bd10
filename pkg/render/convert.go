package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/lsaver/pkg/errors"
)

// converter is the librsvg command line tool.
const converter = "rsvg-convert"

// ToPDF converts SVG to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf", 1)
}

// ToPNG converts SVG to PNG at the given zoom factor.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(svg, "png", scale)
}

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

func convert(svg []byte, format string, scale float64) ([]byte, error) {
	path, err := exec.LookPath(converter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err,
			"%s output requires %s (librsvg)", format, converter)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(path, "-f", format, "-z", strconv.FormatFloat(scale, 'f', -1, 64))
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", converter, msg)
	}
	if stdout.Len() == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s produced no %s output", converter, format)
	}
	return stdout.Bytes(), nil
}

// Ext returns the file extension for an output format.
func Ext(format string) string {
	return fmt.Sprintf(".%s", strings.ToLower(format))
}
