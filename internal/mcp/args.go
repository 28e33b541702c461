package mcp

import "fmt"

// parseStringArg pulls a string out of a tool call's arguments map.
// Required arguments must be present, non-empty strings; optional ones
// fall back to "".
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parseIntArg pulls an integer out of a tool call's arguments map.
// JSON numbers arrive as float64 over the wire; anything else (including
// a missing key) yields defaultVal rather than an error, since every int
// argument the tools take is an optional tuning knob.
func parseIntArg(argsMap map[string]interface{}, key string, defaultVal int) int {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}

	if f, ok := val.(float64); ok {
		return int(f)
	}

	return defaultVal
}
