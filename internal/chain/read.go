package chain

import (
	"fmt"
	"io"
	"strings"
)

// ReadObservations reads an observation string, dropping line breaks and
// other whitespace.
func ReadObservations(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read observations: %w", err)
	}
	return strings.Join(strings.Fields(string(data)), ""), nil
}
