package usecase

import "github.com/polkiloo/printdesk/internal/domain/model"

// Print time per page and copy, and the extra time per page for color, in
// tenths of a minute. Integer arithmetic keeps the estimate deterministic.
const (
	tenthsPerPageCopy  = 5
	tenthsPerColorPage = 3
)

// EstimateDuration returns the estimated print time in minutes for opts, both
// unrounded and rounded up to whole minutes. A missing page count counts as one
// page and fewer than one copy counts as one copy.
func EstimateDuration(opts model.PrintingOptions) (float64, int) {
	pages := 1
	if opts.PageCount != nil && *opts.PageCount > 0 {
		pages = *opts.PageCount
	}
	copies := opts.Copies
	if copies < 1 {
		copies = 1
	}

	tenths := pages * copies * tenthsPerPageCopy
	if opts.IsColor() {
		tenths += pages * tenthsPerColorPage
	}
	return float64(tenths) / 10, (tenths + 9) / 10
}
