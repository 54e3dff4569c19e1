// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"io"
	"sync"
)

// CopyBufferSize is the size of pooled copy buffers
const CopyBufferSize = 256 << 10

var copyBuffers = sync.Pool{
	New: func() any {
		buf := make([]byte, CopyBufferSize)
		return &buf
	},
}

// GetCopyBuffer returns a CopyBufferSize buffer from the pool.
// Use PutCopyBuffer to return it when done.
func GetCopyBuffer() *[]byte {
	return copyBuffers.Get().(*[]byte)
}

// PutCopyBuffer returns a buffer to the pool. Buffers of any other size are
// discarded.
//
// WARNING: Do not use the buffer after calling PutCopyBuffer.
func PutCopyBuffer(buf *[]byte) {
	if buf == nil || cap(*buf) != CopyBufferSize {
		return
	}
	*buf = (*buf)[:CopyBufferSize]
	copyBuffers.Put(buf)
}

// Copy is io.CopyBuffer with a pooled buffer.
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	buf := GetCopyBuffer()
	defer PutCopyBuffer(buf)
	return io.CopyBuffer(dst, src, *buf)
}
