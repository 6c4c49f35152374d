//go:build debug

package channel

// New ignores size in debug builds so every send meets its receiver.
func New[T any](size int) Channel[T] {
	return NewUnbuffered[T]()
}
