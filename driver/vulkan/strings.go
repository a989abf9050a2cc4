package vulkan

import "strings"

// safeString returns s terminated by a NUL byte, which is how the bindings
// expect strings handed to the C API.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// safeStrings returns a NUL terminated copy of sgs. The input is not
// modified.
func safeStrings(sgs []string) []string {
	if len(sgs) == 0 {
		return nil
	}
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}
