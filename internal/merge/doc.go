// Package merge combines the package declarations of the selected templates
// into one DependencySet. Runtime and dev declarations are merged in
// separate namespaces; a package requested with more than one version range
// is resolved by a named Strategy and always recorded as a Conflict.
//
// The result does not depend on the order templates are passed in, except
// under the first-selected strategy whose whole point is selection order.
package merge
