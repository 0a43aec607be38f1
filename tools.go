//go:build tools
// +build tools

// Tool dependencies invoked via go generate, tracked in go.mod.
package main

import (
	_ "go.uber.org/mock/mockgen"
)
