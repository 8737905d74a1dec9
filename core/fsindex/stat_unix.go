//go:build unix

package fsindex

import "golang.org/x/sys/unix"

func lookupOwnership(path string) (ownership, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return ownership{}, err
	}
	return ownership{uid: int(st.Uid), gid: int(st.Gid)}, nil
}
