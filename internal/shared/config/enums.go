//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package config

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string

// StoreKind selects where the latest snapshot is mirrored
// ENUM(none,file,redis)
type StoreKind string
