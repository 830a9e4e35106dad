package admin

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// Query parameters understood by the stats endpoints
const (
	ParamUsedOnly = "usedonly"
	ParamFilter   = "filter"
	ParamFormat   = "format"
	ParamPretty   = "pretty"
)

// ErrInvalidFilter indicates a filter pattern that does not compile
var ErrInvalidFilter = errors.New("invalid filter")

// FilterError carries the compile error of a rejected filter pattern
type FilterError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *FilterError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrInvalidFilter, e.Pattern, e.Err)
}

// Unwrap returns the compile error
func (e *FilterError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidFilter
func (e *FilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// FilterCriteria selects the metrics of one render pass. It is immutable once
// parsed.
type FilterCriteria struct {
	UsedOnly bool
	Pattern  *regexp.Regexp
}

// ParseFilterCriteria reads usedonly and filter from a query. usedonly is a
// presence flag. filter is compiled as a POSIX extended regular expression.
func ParseFilterCriteria(query url.Values) (FilterCriteria, error) {
	criteria := FilterCriteria{
		UsedOnly: query.Has(ParamUsedOnly),
	}
	if !query.Has(ParamFilter) {
		return criteria, nil
	}

	pattern := query.Get(ParamFilter)
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return FilterCriteria{}, &FilterError{Pattern: pattern, Err: err}
	}
	criteria.Pattern = re
	return criteria, nil
}

// ShouldShow reports whether m passes the criteria. The pattern only needs to
// match somewhere in the name.
func ShouldShow(m stats.Metric, criteria FilterCriteria) bool {
	if criteria.UsedOnly && !m.Used() {
		return false
	}
	if criteria.Pattern != nil && !criteria.Pattern.MatchString(m.Name()) {
		return false
	}
	return true
}
