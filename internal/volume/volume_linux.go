//go:build linux

package volume

import "golang.org/x/sys/unix"

// statfs f_type magic numbers of remote filesystems
var networkMagic = map[uint32]string{
	unix.NFS_SUPER_MAGIC:  "nfs",
	unix.SMB_SUPER_MAGIC:  "smb",
	0xFF534D42:            "cifs",
	0xFE534D42:            "smb2",
	unix.CODA_SUPER_MAGIC: "coda",
	unix.AFS_SUPER_MAGIC:  "afs",
	unix.V9FS_MAGIC:       "9p",
	0x00C36400:            "ceph",
}

func isNetwork(path string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false, err
	}
	_, ok := networkMagic[uint32(st.Type)]
	return ok, nil
}
