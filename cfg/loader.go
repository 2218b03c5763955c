package cfg

type Loader interface {
	Load() (*Config, error)
}

// Watcher is implemented by loaders able to report config file changes.
type Watcher interface {
	Watch(callback func(*Config)) bool
}

func NewLoader(l Loader) (Loader, error) {
	return l, nil
}
