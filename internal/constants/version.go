package constants

// Значения подставляются при сборке:
//
//	go build -ldflags "-X github.com/Kargones/connector-migrator/internal/constants.Version=1.2.0"
var (
	Version       = "dev"
	PreCommitHash = "unknown"
)
