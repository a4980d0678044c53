package deprecation

var (
	// deprecatedKeys maps a config key that is no longer read to the key
	// replacing it. An empty replacement means the key was dropped.
	deprecatedKeys = map[string]string{
		"g_ck":         "token",
		"base_url":     "instance_url",
		"page_size":    "",
		"auth_enabled": "auth_mode",
	}
)

// Deprecated returns true if the key is deprecated
func Deprecated(k string) bool {
	_, ok := deprecatedKeys[k]
	return ok
}

// Replacement returns the key that supersedes k, if any.
func Replacement(k string) (string, bool) {
	r, ok := deprecatedKeys[k]
	if !ok || r == "" {
		return "", false
	}
	return r, true
}
