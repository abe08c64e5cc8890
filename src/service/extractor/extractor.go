// Package extractor parses dependency manifests into dependency records.
//
// Every parser is pure: it sees only the manifest bytes and returns either
// the declared dependencies or an error describing why the manifest could
// not be read. Versions are copied verbatim and never interpreted.
package extractor

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"legacy-analyzer/src/model"
)

var (
	// ErrUnsupportedDialect is returned for records without a known dialect.
	ErrUnsupportedDialect = errors.New("unsupported manifest dialect")
	// ErrInvalidEncoding is returned when the contents are not valid UTF-8.
	ErrInvalidEncoding = errors.New("manifest is not valid UTF-8")
)

type parseFunc func(data []byte) ([]model.DependencyRecord, error)

var parsers = map[model.Dialect]parseFunc{
	model.DialectRequirements: parseRequirements,
	model.DialectPyproject:    parsePyproject,
	model.DialectPipfile:      parsePipfile,
	model.DialectPackageJSON:  parsePackageJSON,
	model.DialectComposer:     parseComposer,
	model.DialectCargo:        parseCargo,
	model.DialectGoMod:        parseGoMod,
	model.DialectDockerfile:   parseDockerfile,
	model.DialectConda:        parseConda,
}

// Dialects returns the supported dialects in sorted order.
func Dialects() []model.Dialect {
	out := make([]model.Dialect, 0, len(parsers))
	for d := range parsers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extract parses one manifest. contents must already be BOM-decoded.
// A non-nil error with a non-empty result means some entries were
// unreadable but the rest of the manifest was usable.
func Extract(rec model.FileRecord, contents []byte) ([]model.DependencyRecord, error) {
	parse, ok := parsers[rec.Dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, rec.Dialect)
	}
	if !utf8.Valid(contents) {
		return nil, ErrInvalidEncoding
	}

	deps, err := parse(contents)
	if err != nil {
		return deps, fmt.Errorf("%s: %w", rec.Dialect, err)
	}
	return deps, nil
}

func dep(name, version string, eco model.Ecosystem, scope model.Scope) model.DependencyRecord {
	return model.DependencyRecord{Name: name, Version: version, Ecosystem: eco, Scope: scope}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
