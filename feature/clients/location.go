package clients

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Scheme selects the backend of a dataset location.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
	SchemeDB   Scheme = "db"
)

// ErrInvalidInput is matched by errors caused by a malformed location or
// run parameter.
var ErrInvalidInput = errors.New("invalid input")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Location is a parsed dataset location.
type Location struct {
	Scheme Scheme
	// Path is the file path, object name or table name.
	Path string
	// Bucket is set for s3 locations.
	Bucket string
	raw    string
}

// String returns the location as it was given.
func (l Location) String() string {
	return l.raw
}

// ParseLocation parses a plain path, file://path, s3://bucket/object or
// db://table. An s3 location without bucket (s3:///object) uses
// defaultBucket.
func ParseLocation(raw, defaultBucket string) (Location, error) {
	loc := Location{raw: raw}
	if strings.TrimSpace(raw) == "" {
		return loc, fmt.Errorf("%w: empty location", ErrInvalidInput)
	}

	switch {
	case strings.HasPrefix(raw, "s3://"):
		rest := strings.TrimPrefix(raw, "s3://")
		bucket, object, ok := strings.Cut(rest, "/")
		if !ok || object == "" {
			return loc, fmt.Errorf("%w: invalid s3 location %q: want s3://bucket/object", ErrInvalidInput, raw)
		}
		if bucket == "" {
			bucket = defaultBucket
		}
		if bucket == "" {
			return loc, fmt.Errorf("%w: invalid s3 location %q: no bucket configured", ErrInvalidInput, raw)
		}
		loc.Scheme, loc.Bucket, loc.Path = SchemeS3, bucket, object
	case strings.HasPrefix(raw, "db://"):
		table := strings.TrimPrefix(raw, "db://")
		if !tableName.MatchString(table) {
			return loc, fmt.Errorf("%w: invalid table name %q", ErrInvalidInput, table)
		}
		loc.Scheme, loc.Path = SchemeDB, table
	case strings.HasPrefix(raw, "file://"):
		path := strings.TrimPrefix(raw, "file://")
		if path == "" {
			return loc, fmt.Errorf("%w: invalid file location %q", ErrInvalidInput, raw)
		}
		loc.Scheme, loc.Path = SchemeFile, path
	default:
		if i := strings.Index(raw, "://"); i > 0 {
			return loc, fmt.Errorf("%w: unsupported location scheme %q", ErrInvalidInput, raw[:i])
		}
		loc.Scheme, loc.Path = SchemeFile, raw
	}
	return loc, nil
}
