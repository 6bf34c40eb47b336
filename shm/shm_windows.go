//go:build windows

package shm

import "errors"

var errNotSupported = errors.New("shm: SysV shared memory is not supported on windows")

func (m *Memory) Attach() error {
	return errNotSupported
}

func (m *Memory) Detach() error {
	return errNotSupported
}

func (m *Memory) Remove() error {
	return errNotSupported
}
