// Package binder maps URL query parameters onto tagged struct fields.
//
// Fields are matched by their `query` tag (or the lower-cased field name).
// Pointer fields stay nil when the parameter is absent, so callers can tell
// "not sent" from "sent empty":
//
//	type callback struct {
//	    Code  *string `query:"code"`
//	    State *string `query:"state"`
//	}
//
//	var q callback
//	if err := binder.Query(r, &q); err != nil {
//	    ...
//	}
//
// Only scalar kinds (string, ints, uints, bools) and pointers or slices of
// them are supported.
package binder
