package pagination

const (
	// DefaultLimit matches the storefront's "load more" step.
	DefaultLimit = 6
	// MaxLimit caps how many items any list request can return.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Page describes the slice of a result set that was returned.
type Page struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Window returns the [start, end) bounds of params over total rows plus the page metadata.
func Window(params Params, total int) (int, int, Page) {
	limit := NormalizeLimit(params.Limit)
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if total < 0 {
		total = 0
	}
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end, Page{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: end < total,
	}
}
