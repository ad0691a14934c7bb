//go:build wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"testing"
)

const testConfig = "Galway 20 ?12 EA END\nHubbard 4C ?? ?? A9 00 END\n"

func newTestIdentifier(t *testing.T) int {
	t.Helper()
	result := newIdentifier(js.Value{}, []js.Value{js.ValueOf(testConfig)})
	resultMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result)
	}
	if errMsg, hasError := resultMap["error"]; hasError {
		t.Fatalf("Failed to create identifier: %v", errMsg)
	}
	return resultMap["handle"].(int)
}

func uint8Array(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

func TestIdentify(t *testing.T) {
	handle := newTestIdentifier(t)
	defer closeIdentifier(js.Value{}, []js.Value{js.ValueOf(handle)})

	out := identify(js.Value{}, []js.Value{
		js.ValueOf(handle),
		uint8Array([]byte{0x20, 0x00, 0x00, 0xEA}),
		js.ValueOf("b.sid"),
	})
	jsonStr, ok := out.(string)
	if !ok {
		t.Fatalf("Expected JSON string, got %v", out)
	}

	var result identifyResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}
	if !result.Identified || len(result.Hits) != 1 || result.Hits[0].Driver != "Galway" {
		t.Fatalf("Expected a single Galway hit, got %+v", result)
	}
	if result.Name != "b.sid" {
		t.Errorf("Expected name b.sid, got %q", result.Name)
	}
}

func TestDrivers(t *testing.T) {
	handle := newTestIdentifier(t)
	defer closeIdentifier(js.Value{}, []js.Value{js.ValueOf(handle)})

	var infos []driverInfo
	if err := json.Unmarshal([]byte(drivers(js.Value{}, []js.Value{js.ValueOf(handle)}).(string)), &infos); err != nil {
		t.Fatalf("Failed to parse drivers: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "Galway" {
		t.Fatalf("Unexpected drivers: %+v", infos)
	}
}

func TestInvalidHandle(t *testing.T) {
	out := identify(js.Value{}, []js.Value{js.ValueOf(999), uint8Array(nil)})
	resultMap, ok := out.(map[string]interface{})
	if !ok || resultMap["error"] == nil {
		t.Fatalf("Expected error for invalid handle, got %v", out)
	}
}

func TestBadConfig(t *testing.T) {
	out := newIdentifier(js.Value{}, []js.Value{js.ValueOf("Galway 20 ?12")})
	resultMap := out.(map[string]interface{})
	if _, hasError := resultMap["error"]; !hasError {
		t.Fatal("Expected error for unterminated signature")
	}
}
