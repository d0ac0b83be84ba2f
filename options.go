package archr

// Options customises opening an Archive.
type Options struct {
	// Password unlocks encrypted containers.
	//
	// Formats without encryption support (zip, tar) fail with ErrPassword
	// when a password is given so that a wrong factory choice surfaces
	// instead of silently returning garbage.
	Password string

	// OpenHook, if given, is called with the entry path every time a new
	// decode stream is opened for that entry.
	//
	// Sequential ascending reads on one entry reuse a single stream, so the
	// hook fires once for the whole run; a rewind fires it once more. Meant
	// for tests and diagnostics.
	OpenHook func(path string)
}

// WithPassword sets Options.Password.
func WithPassword(password string) func(*Options) {
	return func(opts *Options) {
		opts.Password = password
	}
}

// WithOpenHook sets Options.OpenHook.
func WithOpenHook(fn func(path string)) func(*Options) {
	return func(opts *Options) {
		opts.OpenHook = fn
	}
}

// ApplyOptions collects the given option functions into an Options struct.
//
// Factories use it to inspect the password before handing the remaining
// behaviour over to New.
func ApplyOptions(optFns ...func(*Options)) *Options {
	opts := &Options{}
	for _, fn := range optFns {
		fn(opts)
	}

	return opts
}
