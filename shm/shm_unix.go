//go:build linux || darwin

package shm

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func (m *Memory) Attach() error {
	if m.basep != nil {
		return nil
	}

	flag := shmAccess
	if m.createIfNotExists {
		flag |= unix.IPC_CREAT
	}

	shmid, err := unix.SysvShmGet(m.ipcKey(), int(m.bytes), flag)
	if err != nil {
		return err
	}

	data, err := unix.SysvShmAttach(shmid, 0, 0)
	if err != nil {
		return err
	}

	m.shmid = shmid
	m.data = data
	m.basep = unsafe.Pointer(unsafe.SliceData(data))
	return nil
}

func (m *Memory) Detach() error {
	if m.data == nil {
		return nil
	}
	if err := unix.SysvShmDetach(m.data); err != nil {
		return err
	}
	m.data = nil
	m.basep = unsafe.Pointer(nil)
	return nil
}

// Remove marks the segment for destruction once every process detaches.
func (m *Memory) Remove() error {
	_, err := unix.SysvShmCtl(m.shmid, unix.IPC_RMID, nil)
	return err
}
