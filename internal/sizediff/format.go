// Package sizediff renders repository sizes and their change across a
// compaction as human-readable text using decimal (1000-based) units.
package sizediff

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	growthSignConstant                  = "+"
	shrinkSignConstant                  = "-"
	unchangedWithBeforeTemplateConstant = "%s => %s"
	changedTemplateConstant             = "%s (%s%s, %s%%)"
	changedWithBeforeTemplateConstant   = "%s => %s (%s%s, %s%%)"
	percentageTemplateConstant          = "%.2f"
	unboundedGrowthPercentageConstant   = "+inf"
)

// FormatSize renders a byte count with decimal units, for example "2.0 MB".
func FormatSize(byteCount uint64) string {
	return humanize.Bytes(byteCount)
}

// Format describes the change from before to after.
//
// Unchanged sizes render only the size, prefixed with "<before> =>" when showBefore is set.
// Changed sizes append the signed delta and the percentage change with two decimals.
// Growth from zero has no finite percentage and renders as "+inf%".
func Format(before uint64, after uint64, showBefore bool) string {
	formattedAfter := FormatSize(after)
	if before == after {
		if showBefore {
			return fmt.Sprintf(unchangedWithBeforeTemplateConstant, FormatSize(before), formattedAfter)
		}
		return formattedAfter
	}

	sign, magnitude := signedDelta(before, after)
	percentage := formatPercentage(before, after)

	if showBefore {
		return fmt.Sprintf(changedWithBeforeTemplateConstant, FormatSize(before), formattedAfter, sign, FormatSize(magnitude), percentage)
	}
	return fmt.Sprintf(changedTemplateConstant, formattedAfter, sign, FormatSize(magnitude), percentage)
}

// signedDelta returns the sign and magnitude of after-before without overflowing int64.
func signedDelta(before uint64, after uint64) (string, uint64) {
	if after > before {
		return growthSignConstant, after - before
	}
	return shrinkSignConstant, before - after
}

func formatPercentage(before uint64, after uint64) string {
	if before == 0 {
		return unboundedGrowthPercentageConstant
	}
	percentage := (float64(after)/float64(before))*100 - 100
	return fmt.Sprintf(percentageTemplateConstant, percentage)
}
