package async

// Promise runs f in its own goroutine. The channel receives the result once
// and is never closed.
func Promise[R any](f func() R) <-chan R {
	out := make(chan R, 1)
	go func() {
		out <- f()
	}()
	return out
}

// Result pairs a value with the error that produced it.
type Result[R any] struct {
	Value R
	Err   error
}

// Try is Promise for functions that can fail.
func Try[R any](f func() (R, error)) <-chan Result[R] {
	return Promise(func() Result[R] {
		v, err := f()
		return Result[R]{Value: v, Err: err}
	})
}

func Await[R any](a <-chan R) R {
	return <-a
}
