// Package platform holds small filesystem helpers shared by the registry and
// the scaffold orchestrator: hidden-entry detection, binary sniffing and
// permission handling. Permission changes are a no-op on Windows.
package platform
