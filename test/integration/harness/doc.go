// Package harness provides utilities for integration testing the merc CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - MERC_HOME: Isolated per test (temp directory)
//   - MERC_DEBUG: Disabled to reduce noise
//   - HGRCPATH: Emptied so user hg configuration cannot leak into tests
package harness
