package pathutil

// SetPlatform swaps the platform hooks for the duration of a test.
func SetPlatform(name string, env map[string]string, home string) (restore func()) {
	oldGOOS, oldGetenv, oldHome := goos, getenv, userHomeDir
	goos = name
	getenv = func(k string) string { return env[k] }
	userHomeDir = func() (string, error) { return home, nil }
	return func() {
		goos, getenv, userHomeDir = oldGOOS, oldGetenv, oldHome
	}
}
