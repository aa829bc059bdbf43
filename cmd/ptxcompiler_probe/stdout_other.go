//go:build !linux

package main

func redirectStdoutToStderr(fn func()) {
	fn()
}
