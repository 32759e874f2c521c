package datawrapper

import (
	"context"
	"fmt"
)

type accessMode int

const (
	accessPlain accessMode = iota
	accessInfo
	// accessAny decodes either variant; info coders receive the supplied
	// context (nil for equality and hashing).
	accessAny
)

// wipeHook, when set, observes each transient buffer after it has been
// zeroed and before it is released.
var wipeHook func(buf []byte)

// open decodes the stored bytes into a fresh transient buffer.
func (w *Wrapper) open(info any, mode accessMode) (*secureBuffer, error) {
	if w == nil {
		return nil, ErrNilWrapper
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.destroyed {
		return nil, ErrDestroyed
	}
	b := w.bound()
	switch {
	case mode == accessPlain && b.takesInfo():
		return nil, fmt.Errorf("%w: wrapper uses info coders, access it with an info variant", ErrCoderMismatch)
	case mode == accessInfo && !b.takesInfo():
		return nil, fmt.Errorf("%w: wrapper does not use info coders", ErrCoderMismatch)
	}
	buf, err := newSecureBuffer(w.storage.len())
	if err != nil {
		return nil, err
	}
	b.decode(w.storage.bytes(), buf.bytes(), info)
	return buf, nil
}

// release zeroes the transient buffer over its full capacity, then frees it.
func release(buf *secureBuffer) {
	buf.wipe()
	if wipeHook != nil {
		wipeHook(buf.bytes())
	}
	buf.destroy()
}

func mapData[R any](w *Wrapper, info any, mode accessMode, fn func(data []byte) (R, error)) (R, error) {
	var zero R
	buf, err := w.open(info, mode)
	if err != nil {
		return zero, err
	}
	defer release(buf)
	return fn(buf.bytes())
}

// MapData decodes w into a transient buffer, calls fn with it and zeroes
// the buffer before returning fn's result. The wipe runs however fn
// completes, including a panic. fn is called exactly once, with a
// zero-length slice for an empty wrapper.
//
// fn must not retain data or any subslice of it. Appending to data
// reallocates onto the Go heap and escapes the wipe.
func MapData[R any](w *Wrapper, fn func(data []byte) (R, error)) (R, error) {
	return mapData(w, nil, accessPlain, fn)
}

// MapDataInfo is MapData for wrappers bound to info coders; info is passed
// to the decoder for this call only.
func MapDataInfo[R any](w *Wrapper, info any, fn func(data []byte) (R, error)) (R, error) {
	return mapData(w, info, accessInfo, fn)
}

// MapDataContext is MapData for closures that block. If ctx is already
// done, nothing is decoded and ctx.Err() is returned. Otherwise fn owns
// cancellation and the wipe runs once fn has returned.
func MapDataContext[R any](ctx context.Context, w *Wrapper, fn func(ctx context.Context, data []byte) (R, error)) (R, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, err
	}
	return mapData(w, nil, accessPlain, func(data []byte) (R, error) {
		return fn(ctx, data)
	})
}

// MapDataInfoContext combines MapDataInfo and MapDataContext.
func MapDataInfoContext[R any](ctx context.Context, w *Wrapper, info any, fn func(ctx context.Context, data []byte) (R, error)) (R, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, err
	}
	return mapData(w, info, accessInfo, func(data []byte) (R, error) {
		return fn(ctx, data)
	})
}

// WithDecodedData is the former name of MapData.
//
// Deprecated: use MapData.
func WithDecodedData[R any](w *Wrapper, fn func(data []byte) (R, error)) (R, error) {
	return MapData(w, fn)
}

// MapPair decodes two wrappers and passes both transient buffers to fn.
// The second buffer is wiped first, then the first.
func MapPair[R any](w1, w2 *Wrapper, fn func(data1, data2 []byte) (R, error)) (R, error) {
	return mapPair(w1, w2, accessPlain, fn)
}

func mapPair[R any](w1, w2 *Wrapper, mode accessMode, fn func(data1, data2 []byte) (R, error)) (R, error) {
	return mapPairInfo(w1, w2, nil, nil, mode, fn)
}

func mapPairInfo[R any](w1, w2 *Wrapper, info1, info2 any, mode accessMode, fn func(data1, data2 []byte) (R, error)) (R, error) {
	return mapData(w1, info1, mode, func(data1 []byte) (R, error) {
		return mapData(w2, info2, mode, func(data2 []byte) (R, error) {
			return fn(data1, data2)
		})
	})
}

// Use is MapData for closures without a result.
func (w *Wrapper) Use(fn func(data []byte) error) error {
	_, err := MapData(w, func(data []byte) (struct{}, error) {
		return struct{}{}, fn(data)
	})
	return err
}

// UseInfo is MapDataInfo for closures without a result.
func (w *Wrapper) UseInfo(info any, fn func(data []byte) error) error {
	_, err := MapDataInfo(w, info, func(data []byte) (struct{}, error) {
		return struct{}{}, fn(data)
	})
	return err
}
