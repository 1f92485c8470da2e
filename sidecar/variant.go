// Package sidecar writes the tab-separated metadata files that accompany a
// .pgen genotype file: the .pvar variant table and the .psam sample table.
//
// Row order is the cross-file invariant: the i-th .pvar row describes the
// i-th variant record in the .pgen file, and the i-th .psam row names the
// sample behind the i-th call of every record. The writers only serialize;
// keeping the three files consistent is the file set writer's job.
package sidecar

import (
	"fmt"
	"io"
	"strconv"
)

// PVarHeader is the fixed .pvar column header.
const PVarHeader = "#CHROM\tPOS\tID\tREF\tALT\tFILTER"

// PSamHeader is the fixed .psam column header.
const PSamHeader = "IID\tSEX"

// Variant is one row of the .pvar variant table.
type Variant struct {
	// Chrom is the chromosome name, e.g. "1" or "chrX".
	Chrom string
	// Pos is the 1-based base-pair position.
	Pos uint32
	// ID is the variant identifier, e.g. an rsID.
	ID string
	// Ref is the reference allele.
	Ref string
	// Alt holds the alternate alleles. Only the first is written; additional
	// alleles are dropped, a carried-over limitation of the minimal .pvar
	// column set.
	Alt []string
	// FilterPass is rendered as PASS when true and "." otherwise.
	FilterPass bool
}

// AltAllele returns the written ALT field: the first alternate allele, or
// "." when none is present.
func (v Variant) AltAllele() string {
	if len(v.Alt) == 0 {
		return "."
	}

	return v.Alt[0]
}

// WritePVar writes the .pvar variant table: the fixed header row followed by
// one tab-separated row per variant, in slice order.
//
// Parameters:
//   - w: Destination for the UTF-8 text (compression, if any, is layered
//     outside)
//   - variants: Variant rows in .pgen record order
//
// Returns:
//   - error: The first write error from w
func WritePVar(w io.Writer, variants []Variant) error {
	if _, err := io.WriteString(w, PVarHeader+"\n"); err != nil {
		return fmt.Errorf("write pvar header: %w", err)
	}

	for i, v := range variants {
		filter := "."
		if v.FilterPass {
			filter = "PASS"
		}

		row := v.Chrom + "\t" + strconv.FormatUint(uint64(v.Pos), 10) + "\t" +
			v.ID + "\t" + v.Ref + "\t" + v.AltAllele() + "\t" + filter + "\n"
		if _, err := io.WriteString(w, row); err != nil {
			return fmt.Errorf("write pvar row %d: %w", i, err)
		}
	}

	return nil
}
