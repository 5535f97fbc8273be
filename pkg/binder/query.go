package binder

import (
	"fmt"
	"net/http"
	"net/url"
)

// Query binds the request URL query into v. A query string that cannot be
// parsed at all is reported with ErrFailedToParseQuery.
func Query(r *http.Request, v any) error {
	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToParseQuery, err)
	}
	return Values(values, v)
}

// Values binds already parsed url.Values into v.
func Values(values url.Values, v any) error {
	return bindToStruct(v, "query", values, ErrFailedToParseQuery)
}
