// Package mach wraps the few Mach VM calls needed to inspect another task on
// darwin: task_for_pid, task_suspend/task_resume, mach_vm_region and
// mach_vm_read_overwrite. It builds only on darwin with cgo enabled.
package mach
