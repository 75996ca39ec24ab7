package handler

import (
	"bytes"
	"sync"
)

// Response bodies here are small JSON documents; encoding through
// pooled buffers keeps the hot grant-xp path allocation-light.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}
