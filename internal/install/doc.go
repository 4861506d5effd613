// Package install runs the project package manager inside a freshly
// scaffolded project. It is the last, optional step of "stackup create" and
// never rolls anything back: the project is already complete when it runs.
package install
