package model

import "github.com/minio/highwayhash"

// hashKey is a fixed 32-byte key for highwayhash's keyed hash. Metron only
// uses the hash as a content fingerprint (duplicate-load detection), not as
// a MAC, so a constant key is sufficient.
var hashKey = []byte("Metron-source-file-content-hash!")

// Hash fingerprints a source file's raw bytes. Library.load compares it
// against every previously loaded file's hash to catch two distinct
// filenames (e.g. two #include paths reaching the same file through
// different search-path prefixes) that resolve to identical content, which
// a filename-only duplicate check would miss.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	_, err = h.Write(data)
	return h.Sum64(), err
}
