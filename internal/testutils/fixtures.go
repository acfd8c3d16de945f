// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"math/rand"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files below root; keys are slash separated relative paths.
func WriteTree(require *require.Assertions, fs afero.Fs, root string, files map[string]string) {
	for name, content := range files {
		require.NoError(afero.WriteFile(fs, filepath.Join(root, filepath.FromSlash(name)), []byte(content), 0o644))
	}
}

// RandomText returns n printable bytes that gzip cannot shrink much. The same
// seed always gives the same text.
func RandomText(seed int64, n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 \n"
	r := rand.New(rand.NewSource(seed))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(buf)
}
