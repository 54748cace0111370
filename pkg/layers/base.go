package layers

// Layer converts between a lower representation T and an upper one U.
// Each loop runs until its input channel is closed and then closes its
// output.
type Layer[T any, U any] interface {
	UpwardLoop(in <-chan T, out chan<- U)
	DownwardLoop(in <-chan U, out chan<- T)
}
