//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// SourceKind selects the adapter used to read a source
// ENUM(miniflux,rss)
type SourceKind string
