//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	js.Global().Set("NsfidNewIdentifier", js.FuncOf(newIdentifier))
	js.Global().Set("NsfidIdentify", js.FuncOf(identify))
	js.Global().Set("NsfidDrivers", js.FuncOf(drivers))
	js.Global().Set("NsfidCloseIdentifier", js.FuncOf(closeIdentifier))

	// Keep WASM running
	<-make(chan struct{})
}
