package sidecar

import (
	"fmt"
	"io"
)

// WritePSam writes the .psam sample table: the fixed header row followed by
// one tab-separated row per sample, in slice order.
//
// SEX is written as the constant placeholder "NA"; the sample model carries
// no sex information yet.
//
// Parameters:
//   - w: Destination for the UTF-8 text
//   - samples: Sample identifiers in .pgen column order
//
// Returns:
//   - error: The first write error from w
func WritePSam(w io.Writer, samples []string) error {
	if _, err := io.WriteString(w, PSamHeader+"\n"); err != nil {
		return fmt.Errorf("write psam header: %w", err)
	}

	for i, iid := range samples {
		if _, err := io.WriteString(w, iid+"\tNA\n"); err != nil {
			return fmt.Errorf("write psam row %d: %w", i, err)
		}
	}

	return nil
}
