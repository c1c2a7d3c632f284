// Package utils provides helpers shared by the uvrip packages.
package utils

import "sync"

// recordSize is the FITS logical record length. Pooled buffers grow in whole
// records so header reads and typical group reads can share them.
const recordSize = 2880

// maxPooled is the largest buffer returned to the pool; bigger ones are left
// to the garbage collector.
const maxPooled = 64 * recordSize

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, recordSize)
	},
}

// GetBuffer returns a byte slice of length size. Its capacity is a whole
// number of FITS records.
func GetBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < size {
		//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
		bufferPool.Put(buf)
		return make([]byte, size, RecordAligned(size))
	}
	return buf[:size]
}

// ReleaseBuffer returns a buffer to the pool unless it is larger than maxPooled.
func ReleaseBuffer(buf []byte) {
	if cap(buf) > maxPooled {
		return
	}
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	bufferPool.Put(buf[:0])
}

// RecordAligned rounds n up to a whole number of FITS records, at least one.
func RecordAligned(n int) int {
	if n <= 0 {
		return recordSize
	}
	return (n + recordSize - 1) / recordSize * recordSize
}
