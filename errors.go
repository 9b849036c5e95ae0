package voxel

import "errors"

// Common errors for buffer operations.
var (
	// ErrInvalidChannel is returned when a channel index is outside [0, MaxChannels).
	ErrInvalidChannel = errors.New("voxel: invalid channel")

	// ErrInvalidDepth is returned when a depth is not one of the known depths.
	ErrInvalidDepth = errors.New("voxel: invalid depth")

	// ErrOutOfBounds is returned when a write targets a position outside the buffer.
	ErrOutOfBounds = errors.New("voxel: position out of bounds")

	// ErrDepthMismatch is returned when two buffers disagree on a channel depth.
	ErrDepthMismatch = errors.New("voxel: channel depth mismatch")

	// ErrSizeMismatch is returned when a whole-channel copy is attempted
	// between buffers of different sizes.
	ErrSizeMismatch = errors.New("voxel: buffer size mismatch")

	// ErrNilBuffer is returned when an operation receives a nil buffer.
	ErrNilBuffer = errors.New("voxel: nil buffer")
)
