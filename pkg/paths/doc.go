// Package paths provides centralized path handling for slim.
//
// It handles:
//
//   - Relocation root derivation (<base>/<prefix><profileName>)
//   - Undo log and residual log locations inside a profile root
//   - XDG state and config directories for slim itself
//   - Per-profile lock file locations
//   - Path normalization and ~ expansion
//
// # Environment Variables
//
//   - SLIM_STATE_DIR: Override the state directory (default: $XDG_STATE_HOME/slim)
//   - SLIM_CONFIG_DIR: Override the config directory (default: $XDG_CONFIG_HOME/slim)
package paths
