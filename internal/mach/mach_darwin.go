//go:build darwin && cgo

package mach

/*
#include <stdlib.h>
#include <mach/mach.h>
#include <mach/mach_vm.h>
#include <mach/mach_error.h>

static kern_return_t md_task_for_pid(int pid, mach_port_t *task) {
	return task_for_pid(mach_task_self(), pid, task);
}

static kern_return_t md_release(mach_port_t task) {
	return mach_port_deallocate(mach_task_self(), task);
}

static kern_return_t md_region(mach_port_t task, mach_vm_address_t *addr,
                               mach_vm_size_t *size, int *prot) {
	vm_region_basic_info_data_64_t info;
	mach_msg_type_number_t count = VM_REGION_BASIC_INFO_COUNT_64;
	mach_port_t object_name;
	kern_return_t kr = mach_vm_region(task, addr, size, VM_REGION_BASIC_INFO_64,
	                                  (vm_region_info_t)&info, &count, &object_name);
	if (kr == KERN_SUCCESS) {
		*prot = info.protection;
		if (object_name != MACH_PORT_NULL) {
			mach_port_deallocate(mach_task_self(), object_name);
		}
	}
	return kr;
}

static mach_port_t md_self(void) {
	return mach_task_self();
}

static kern_return_t md_port_count(unsigned int *count) {
	mach_port_name_array_t names;
	mach_msg_type_number_t ncount;
	mach_port_type_array_t types;
	mach_msg_type_number_t tcount;
	kern_return_t kr = mach_port_names(mach_task_self(), &names, &ncount, &types, &tcount);
	if (kr != KERN_SUCCESS) {
		return kr;
	}
	*count = ncount;
	vm_deallocate(mach_task_self(), (vm_address_t)names, ncount * sizeof(*names));
	vm_deallocate(mach_task_self(), (vm_address_t)types, tcount * sizeof(*types));
	return KERN_SUCCESS;
}

static kern_return_t md_read(mach_port_t task, mach_vm_address_t addr,
                             mach_vm_size_t size, void *buf, mach_vm_size_t *out) {
	return mach_vm_read_overwrite(task, addr, size, (mach_vm_address_t)buf, out);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrNoRegion is returned by RegionAt once no region exists at or above the address.
var ErrNoRegion = errors.New("no region at or above address")

// Task is a send right to another task's control port.
type Task uint32

type kernError struct {
	op string
	kr C.kern_return_t
}

func (e *kernError) Error() string {
	return fmt.Sprintf("%s: %s (0x%x)", e.op, C.GoString(C.mach_error_string(C.mach_error_t(e.kr))), int(e.kr))
}

func check(op string, kr C.kern_return_t) error {
	if kr == C.KERN_SUCCESS {
		return nil
	}
	return &kernError{op: op, kr: kr}
}

// TaskForPid obtains the task port of pid. Requires root or the
// get-task-allow entitlement on the target.
func TaskForPid(pid int) (Task, error) {
	var task C.mach_port_t
	if err := check("task_for_pid", C.md_task_for_pid(C.int(pid), &task)); err != nil {
		return 0, err
	}
	return Task(task), nil
}

func Suspend(t Task) error {
	return check("task_suspend", C.task_suspend(C.task_t(t)))
}

func Resume(t Task) error {
	return check("task_resume", C.task_resume(C.task_t(t)))
}

// Self returns the calling task. It must not be passed to Release.
func Self() Task {
	return Task(C.md_self())
}

// portCount returns how many port names the calling task holds.
func portCount() (int, error) {
	var n C.uint
	if err := check("mach_port_names", C.md_port_count(&n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

// Release drops the send right obtained by TaskForPid.
func Release(t Task) error {
	return check("mach_port_deallocate", C.md_release(C.mach_port_t(t)))
}

// RegionAt returns the first region at or after addr and its protection bits.
func RegionAt(t Task, addr uint64) (start, size uint64, prot int, err error) {
	a := C.mach_vm_address_t(addr)
	var s C.mach_vm_size_t
	var p C.int
	kr := C.md_region(C.mach_port_t(t), &a, &s, &p)
	if kr == C.KERN_INVALID_ADDRESS {
		return 0, 0, 0, ErrNoRegion
	}
	if err := check("mach_vm_region", kr); err != nil {
		return 0, 0, 0, err
	}
	return uint64(a), uint64(s), int(p), nil
}

// Read copies len(buf) bytes at addr into buf and returns the count copied.
func Read(t Task, addr uint64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var n C.mach_vm_size_t
	kr := C.md_read(C.mach_port_t(t), C.mach_vm_address_t(addr), C.mach_vm_size_t(len(buf)),
		unsafe.Pointer(&buf[0]), &n)
	if err := check("mach_vm_read_overwrite", kr); err != nil {
		return 0, err
	}
	return int(n), nil
}
