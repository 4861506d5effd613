// Package registry discovers templates under a template root, validates
// their manifests in three independent phases (schema, referenced files,
// declared packages against a package registry) and memoizes the results.
//
// A Registry is an explicit instance: tests and callers may hold several at
// once. The validation epoch is computed on first use and shared by every
// reader until InvalidateCache is called.
package registry
