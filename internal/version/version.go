// ABOUTME: Product and version identifiers
// ABOUTME: Reported by the server descriptor, TUI and client user agent
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
var Version = "0.1.0"

const (
	Product      = "STS Bridge"
	Manufacturer = "harperreed"
)

// String returns "Product Version"
func String() string {
	return Product + " " + Version
}
