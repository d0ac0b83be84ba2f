// Package util holds small I/O helpers shared by the format bindings.
package util

// ChainCloser makes sure all the close functions are called at least once and will return the first error that was
// encountered.
//
// The order of the arguments assumes the first close function is the most important.
func ChainCloser(fn1 func() error, fn2 func() error, fns ...func() error) func() error {
	return func() error {
		err, err2 := fn1(), fn2()

		if err2 != nil && err == nil {
			err = err2
		}

		for _, fn := range fns {
			if err2 = fn(); err2 != nil && err == nil {
				err = err2
			}
		}

		return err
	}
}
