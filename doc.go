// Package mtsxml loads a scene description document: an XML dialect
// describing a directed acyclic graph of typed, named objects with
// properties and transforms, and instantiates it into a concrete object
// graph via an externally supplied plugin factory.
//
// Loading happens in two passes. Pass 1 is a single-threaded recursive
// descent (internal/parse) that validates structure, substitutes "$name"
// parameters, applies version upgrades, evaluates transform and
// color/spectrum shorthand, and builds a table of deferred object
// descriptors. Pass 2 (internal/instantiate) memoizes and parallelizes
// the materialization of that table into real objects.
package mtsxml
