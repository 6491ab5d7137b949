// Package file provides file-based configuration and prompt storage under
// the researchfirm config directory (~/.researchfirm by default).
package file
