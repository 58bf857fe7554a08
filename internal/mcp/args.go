package mcp

import "fmt"

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok || val == nil {
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

// parseOptionalStringArg is like parseStringArg but distinguishes "not
// provided" from "provided as empty". Inline content may legitimately be "".
func parseOptionalStringArg(argsMap map[string]interface{}, key string) (*string, error) {
	val, ok := argsMap[key]
	if !ok || val == nil {
		return nil, nil
	}
	str, ok := val.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	return &str, nil
}

// parseBoolArg extracts a boolean argument from an MCP arguments map.
// Returns defaultVal if the argument is missing or invalid.
func parseBoolArg(argsMap map[string]interface{}, key string, defaultVal bool) bool {
	if b, ok := argsMap[key].(bool); ok {
		return b
	}
	return defaultVal
}

// clampInt returns val bounded to [min, max], or defaultVal when val is zero.
func clampInt(val, defaultVal, min, max int) int {
	if val == 0 {
		val = defaultVal
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
