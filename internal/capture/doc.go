// Package capture reads frames from V4L2 webcam devices.
//
// A Device wraps one /dev/video node opened by index. Frames are requested
// in the YUYV 4:2:2 format and converted to NRGBA with the ITU-R BT.601
// matrix. Devices are configured (resolution, framerate) at construction;
// changing the configuration means closing and reopening.
//
// A Registry is an explicitly constructed table of probed devices owned by
// the caller; there is no process-wide device state. Probe scans indexes
// upward and stops after a run of consecutive failures, mirroring how
// ad-hoc V4L2 port scans behave.
//
// The Source interface is the narrow seam consumers should depend on, so
// tests can substitute a fake for real hardware.
package capture
