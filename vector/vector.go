package vector

import "context"

type Backend string

const (
	BackendQdrant  Backend = "qdrant"
	BackendChromem Backend = "chromem"
)

type Config struct {
	Backend    Backend `yaml:"backend"`
	Host       string  `yaml:"host"`
	Port       int     `yaml:"port"`
	Collection string  `yaml:"collection"`
	Dimension  int     `yaml:"dimension"`
	Persistent bool    `yaml:"persistent"`
	Path       string  `yaml:"path"`
}

// Store is the contract every vector database backend fulfills. Upsert and
// Delete are atomic per id; nothing stronger is assumed.
type Store interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, point Point) error
	Fetch(ctx context.Context, id uint64) (Point, bool, error)
	Search(ctx context.Context, vector []float32, limit int) ([]Match, error)
	Delete(ctx context.Context, id uint64) error
	Close() error
}

type Payload struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category *string `json:"category,omitempty"`
}

type Point struct {
	ID      uint64    `json:"id"`
	Vector  []float32 `json:"vector,omitempty"`
	Payload Payload   `json:"payload"`
}

// Match is a search hit with the store's similarity score, higher is closer.
type Match struct {
	Point
	Score float32 `json:"score"`
}
