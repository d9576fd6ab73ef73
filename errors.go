package neogeosync

import "go.trai.ch/zerr"

var (
	// ErrNotFound is a sentinel error returned by Find operations when no record
	// matching the criteria is found in the database.
	ErrNotFound = zerr.New("record not found")

	// ErrQueryFailed is returned when a graph query cannot be executed.
	ErrQueryFailed = zerr.New("graph query failed")

	// ErrInvalidBounds is returned when a bounding box is not finite or has min > max.
	ErrInvalidBounds = zerr.New("invalid bounding box")

	// ErrInvalidIdentifier is returned when a label or property name cannot be used in a query.
	ErrInvalidIdentifier = zerr.New("invalid query identifier")

	// ErrInvalidSchema is returned when a struct carries malformed geo tags.
	ErrInvalidSchema = zerr.New("invalid geo schema")

	// ErrFeatureFetchFailed is returned when a single feature cannot be loaded.
	ErrFeatureFetchFailed = zerr.New("failed to fetch feature")

	// ErrFeatureParseFailed is returned when a feature response is not valid GeoJSON.
	ErrFeatureParseFailed = zerr.New("failed to parse feature response")

	// ErrEmptyFeatureCollection is returned when a feature response holds no feature.
	ErrEmptyFeatureCollection = zerr.New("feature response is empty")

	// ErrUnsupportedProjection is returned when no transform exists between two reference systems.
	ErrUnsupportedProjection = zerr.New("unsupported projection")

	// ErrControllerStopped is returned when a request reaches a sync controller that is not running.
	ErrControllerStopped = zerr.New("sync controller stopped")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a configuration value is out of range.
	ErrConfigInvalid = zerr.New("invalid configuration")
)
