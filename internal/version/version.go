// Package version exposes the build version, set at link time with
// -ldflags "-X github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/version.Version=...".
package version

// Version is the application version.
var Version = "dev"
