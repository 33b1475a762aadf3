package builder

// Test-only exports for internal helper functions.

//nolint:gochecknoglobals // Test-only exports
var (
	ResolveOutputRoot = resolveOutputRoot
	Fingerprint       = fingerprint
)

// Href exposes layout link resolution for a site.
func Href(baseURL, fromPath, target string) string {
	l := &layout{}
	l.site.BaseURL = baseURL
	return l.href(fromPath, target)
}
