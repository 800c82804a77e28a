package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/model"
	"time"
)

// DecodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}

// ParseDateParam parses a YYYY-MM-DD path or query value.
func ParseDateParam(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.InvalidInput(name + " is required")
	}
	day, err := model.ParseDay(value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + ", expected YYYY-MM-DD: " + value)
	}
	return day, nil
}

// ParseOptionalDateQuery returns nil when the query parameter is absent.
func ParseOptionalDateQuery(r *http.Request, name string) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}
	day, err := ParseDateParam(name, value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
