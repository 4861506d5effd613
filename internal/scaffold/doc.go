// Package scaffold materializes a project from a set of selected templates.
// It validates the target directory, merges dependencies, writes the
// toolchain files and a base source tree, copies every template-owned file,
// writes the env declarations and a summary document, and optionally runs
// the package manager. Every path created before the install step is
// tracked, so a failure leaves the target either complete or absent.
package scaffold
