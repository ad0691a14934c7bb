//go:build wasm

package main

import (
	"encoding/json"
	"os"
	"sync"
	"syscall/js"

	"github.com/charmbracelet/log"
	"github.com/nsfid/nsfid"
)

var (
	identifiers   = make(map[int]*nsfid.Identifier)
	identifiersMu sync.RWMutex
	nextID        int
)

// identifyResult is the JSON handed back to JavaScript.
type identifyResult struct {
	Name       string       `json:"name"`
	Identified bool         `json:"identified"`
	Hits       []*nsfid.Hit `json:"hits"`
}

// driverInfo describes one loaded driver.
type driverInfo struct {
	Name       string `json:"name"`
	Signatures int    `json:"signatures"`
}

// newIdentifier compiles a driver config given as text.
// JS: NsfidNewIdentifier(configText) -> {handle} or {error}
func newIdentifier(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "configText argument required"}
	}

	// wasm_exec.js forwards stderr to the browser console
	logger := log.New(os.Stderr)
	id, err := nsfid.NewIdentifier(
		nsfid.WithConfigText(args[0].String()),
		nsfid.WithLogger(logger),
	)
	if err != nil {
		return map[string]interface{}{"error": "failed to load config: " + err.Error()}
	}

	identifiersMu.Lock()
	handle := nextID
	nextID++
	identifiers[handle] = id
	identifiersMu.Unlock()

	return map[string]interface{}{"handle": handle}
}

// identify matches a Uint8Array against the loaded drivers.
// JS: NsfidIdentify(handle, bytes, name) -> JSON result or {error}
func identify(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and bytes arguments required"}
	}

	id, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid identifier handle"}
	}

	content := make([]byte, args[1].Get("length").Int())
	js.CopyBytesToGo(content, args[1])

	result := identifyResult{Hits: id.IdentifyBytes(content)}
	result.Identified = len(result.Hits) > 0
	if len(args) > 2 {
		result.Name = args[2].String()
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal result: " + err.Error()}
	}
	return string(jsonBytes)
}

// drivers lists the loaded drivers.
// JS: NsfidDrivers(handle) -> JSON array or {error}
func drivers(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	id, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid identifier handle"}
	}

	infos := make([]driverInfo, 0, id.DriverCount())
	for _, d := range id.Drivers() {
		infos = append(infos, driverInfo{Name: d.Name, Signatures: len(d.Signatures)})
	}

	jsonBytes, err := json.Marshal(infos)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal drivers: " + err.Error()}
	}
	return string(jsonBytes)
}

// closeIdentifier releases an identifier.
// JS: NsfidCloseIdentifier(handle)
func closeIdentifier(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	identifiersMu.Lock()
	_, ok := identifiers[args[0].Int()]
	delete(identifiers, args[0].Int())
	identifiersMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid identifier handle"}
	}
	return nil
}

func lookup(handle int) (*nsfid.Identifier, bool) {
	identifiersMu.RLock()
	defer identifiersMu.RUnlock()
	id, ok := identifiers[handle]
	return id, ok
}
