package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ErrEmptyBody is returned by DecodeJSON for a body with no JSON value.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON parses body into a generic value. Numbers are kept as
// json.Number so integers and decimals stay distinguishable.
//
// The enriched record is built from body itself, so anything the decoder
// would silently normalise is rejected instead: invalid UTF-8 (decoded as
// U+FFFD) and repeated keys at any depth (decoded as the last occurrence).
func DecodeJSON(body []byte) (any, error) {
	if !utf8.Valid(body) {
		return nil, errors.New("malformed JSON: body is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("malformed JSON: unexpected data after top-level value")
	}
	if path, dup := duplicateKey("", gjson.ParseBytes(body)); dup {
		return nil, fmt.Errorf("malformed JSON: duplicate property '%s'", path)
	}
	return v, nil
}

// duplicateKey reports the path of the first repeated object key in r,
// searching nested objects and arrays depth first.
func duplicateKey(path string, r gjson.Result) (string, bool) {
	var (
		dup   string
		found bool
	)
	switch {
	case r.IsObject():
		seen := map[string]struct{}{}
		r.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if _, ok := seen[k]; ok {
				dup, found = join(path, k), true
				return false
			}
			seen[k] = struct{}{}
			dup, found = duplicateKey(join(path, k), value)
			return !found
		})
	case r.IsArray():
		i := 0
		r.ForEach(func(_, value gjson.Result) bool {
			dup, found = duplicateKey(path+"["+strconv.Itoa(i)+"]", value)
			i++
			return !found
		})
	}
	return dup, found
}
