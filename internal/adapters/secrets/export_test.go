// export_test.go exports private functions for white-box testing.
package secrets

// NewStoreWithEnv creates a Store that reads the environment through getenv.
func NewStoreWithEnv(path string, getenv func(string) string) *Store {
	return &Store{path: path, getenv: getenv}
}
