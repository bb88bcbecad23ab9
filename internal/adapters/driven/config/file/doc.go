// Package file provides the TOML file implementation of driven.ConfigStore.
package file
