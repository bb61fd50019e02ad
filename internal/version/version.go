// ABOUTME: Build and product identification
// ABOUTME: Shown in the TUI header and by the -version flag
package version

import "fmt"

const (
	// Version is the release of this build
	Version = "0.3.0"

	// Product is the user-facing application name
	Product = "Muzikcalar"

	// Manufacturer credits the maintainers
	Manufacturer = "Muzikcalar Project"
)

// String formats the product and version for display
func String() string {
	return fmt.Sprintf("%s %s", Product, Version)
}
