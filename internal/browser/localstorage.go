//go:build js && wasm

package browser

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/storage"
)

// LocalStorage implements storage.Provider over window.localStorage.
type LocalStorage struct {
	ls js.Value
}

// NewLocalStorage wraps the localStorage of the given window object.
func NewLocalStorage(window js.Value) (*LocalStorage, error) {
	ls := window.Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return nil, fmt.Errorf("browser: localStorage unavailable")
	}
	return &LocalStorage{ls: ls}, nil
}

// Get returns the item stored under key.
func (l *LocalStorage) Get(_ context.Context, key string) (data []byte, err error) {
	defer recoverJS(&err, "get "+key)

	v := l.ls.Call("getItem", key)
	if v.IsNull() {
		return nil, fmt.Errorf("browser: get %s: %w", key, apperr.ErrNotFound)
	}
	return []byte(v.String()), nil
}

// Set stores value under key. A full quota surfaces as an error.
func (l *LocalStorage) Set(_ context.Context, key string, value []byte) (err error) {
	defer recoverJS(&err, "set "+key)

	l.ls.Call("setItem", key, string(value))
	return nil
}

// Close is a no-op for LocalStorage.
func (l *LocalStorage) Close() error {
	return nil
}

// recoverJS turns an exception thrown by a JavaScript call into an error.
func recoverJS(err *error, op string) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = fmt.Errorf("browser: %s: %w", op, jsErr)
			return
		}
		panic(r)
	}
}

var _ storage.Provider = (*LocalStorage)(nil)
