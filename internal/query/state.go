package query

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Query parameter names used for the shareable view state.
const (
	ParamSearch   = "search"
	ParamCategory = "category"
	ParamTag      = "tag"
)

// ViewState is the part of the listing view that can be reproduced from a URL.
type ViewState struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Tag      string `json:"tag"`
}

// DefaultState is the unfiltered view.
func DefaultState() ViewState {
	return ViewState{Category: interfaces.AllCategories}
}

// Filter converts the state into the repository filter.
func (s ViewState) Filter() interfaces.PostFilter {
	return interfaces.PostFilter{Search: s.Search, Category: s.Category, Tag: s.Tag}
}

// IsDefault reports whether no axis is filtered.
func (s ViewState) IsDefault() bool {
	return s.Search == "" && categoryUnset(s.Category) && s.Tag == ""
}

// ToValues encodes state as query parameters. Unfiltered axes are omitted.
func ToValues(state ViewState) url.Values {
	values := url.Values{}
	if state.Search != "" {
		values.Set(ParamSearch, state.Search)
	}
	if !categoryUnset(state.Category) {
		values.Set(ParamCategory, state.Category)
	}
	if state.Tag != "" {
		values.Set(ParamTag, state.Tag)
	}
	return values
}

// FromValues decodes query parameters produced by ToValues. Absent keys map
// to the unfiltered default for that axis.
func FromValues(values url.Values) ViewState {
	state := DefaultState()
	if values == nil {
		return state
	}
	state.Search = values.Get(ParamSearch)
	if category := values.Get(ParamCategory); !categoryUnset(category) {
		state.Category = category
	}
	state.Tag = values.Get(ParamTag)
	return state
}

func categoryUnset(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || category == interfaces.AllCategories
}
