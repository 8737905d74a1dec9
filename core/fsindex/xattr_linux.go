//go:build linux

package fsindex

import (
	"bytes"
	"errors"

	"golang.org/x/sys/unix"
)

// readAttrs returns the extended attributes of path without following links.
func readAttrs(path string) (map[string]string, error) {
	size, err := unix.Llistxattr(path, nil)
	if err != nil {
		if errors.Is(err, unix.ENOTSUP) {
			return nil, nil
		}
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	n, err := unix.Llistxattr(path, buf)
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]string)
	for _, name := range bytes.Split(buf[:n], []byte{0}) {
		if len(name) == 0 {
			continue
		}
		key := string(name)
		vsize, err := unix.Lgetxattr(path, key, nil)
		if err != nil {
			return nil, err
		}
		value := make([]byte, vsize)
		if vsize > 0 {
			if vsize, err = unix.Lgetxattr(path, key, value); err != nil {
				return nil, err
			}
		}
		attrs[key] = string(value[:vsize])
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return attrs, nil
}
