package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStripBOM_RemovesLeadingUTF8BOM covers spec scenario S6: a file saved
// with a leading UTF-8 byte-order mark must have it stripped before the
// bytes reach the parser, so the BOM never shows up inside any reported
// source range.
func TestStripBOM_RemovesLeadingUTF8BOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("class Foo {};")...)

	stripped := stripBOM(withBOM)

	assert.Equal(t, []byte("class Foo {};"), stripped)
	assert.NotContains(t, string(stripped), "﻿")
}

func TestStripBOM_LeavesDataWithoutBOMUntouched(t *testing.T) {
	data := []byte("class Foo {};")

	assert.Equal(t, data, stripBOM(data))
}

func TestStripBOM_TooShortForABOMIsUntouched(t *testing.T) {
	data := []byte{0xEF, 0xBB}

	assert.Equal(t, data, stripBOM(data))
}
