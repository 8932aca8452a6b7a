package util

import (
	"crypto/sha256"
)

// Checksum hashes a stored pair so a reloaded record can be verified
// against the value that was flushed.
func Checksum(key string, value []byte) [32]byte {
	buffer := GetBytesBuffer()
	defer PutBytesBuffer(buffer)
	buffer.WriteString(key)
	buffer.WriteByte(0x0)
	buffer.Write(value)
	return sha256.Sum256(buffer.Bytes())
}
