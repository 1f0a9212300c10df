package export

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/matzehuels/layerstack/pkg/errors"
)

const rsvgBinary = "rsvg-convert"

// HasRSVG reports whether rsvg-convert is on PATH.
func HasRSVG() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// PDF draws the section as SVG and converts it with rsvg-convert. The page
// takes the SVG's size at o.scale.
func PDF(s Section, o options) ([]byte, error) {
	if !HasRSVG() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"pdf export needs %s (librsvg) on PATH", rsvgBinary)
	}

	cmd := exec.Command(rsvgBinary, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(SVG(s, o))
	var out, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &out, &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
