package version

// These values are fixed when the service is generated and built, via:
//   -ldflags "-X github.com/arencloud/eksapp/internal/version.Name=orders-api
//             -X github.com/arencloud/eksapp/internal/version.Version=vX.Y.Z
//             -X github.com/arencloud/eksapp/internal/version.DefaultPort=8000"
var (
	Name        = "eksapp"
	Version     = "dev"
	DefaultPort = "8080"
)

// Greeting is the body served on the root path.
func Greeting() string { return Name + " is running!" }
