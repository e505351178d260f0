package sim

import (
	"fmt"
)

// ErrorCode represents different types of simulation errors
type ErrorCode int

const (
	// Generic errors
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInternal

	// Page replacement errors
	ErrCodeInvalidFrameCount
	ErrCodeUnknownPolicy

	// Fragmentation errors
	ErrCodeInvalidMemorySize
	ErrCodeInvalidBlockSize
	ErrCodeNegativeCount
	ErrCodeNilRandSource

	// Configuration errors
	ErrCodeInvalidSequence
	ErrCodeInvalidConfig

	// Export errors
	ErrCodeTraceCorrupted
	ErrCodeUnknownCompression
)

// SimError represents a simulation error with context
type SimError struct {
	Code ErrorCode
	Message string
	Op string // Operation that failed
	Err error // Underlying error (if any)
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SimError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a specific error code
func (e *SimError) Is(target error) bool {
	if t, ok := target.(*SimError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewSimError creates a new simulation error
func NewSimError(code ErrorCode, op, message string, err error) *SimError {
	return &SimError{
		Code: code,
		Message: message,
		Op: op,
		Err: err,
	}
}

// Helper functions for common errors

func ErrInvalidFrameCount(op string, numFrames int) *SimError {
	return NewSimError(
		ErrCodeInvalidFrameCount,
		op,
		fmt.Sprintf("frame count must be at least 1, got %d", numFrames),
		nil,
	)
}

func ErrUnknownPolicy(op, policy string) *SimError {
	return NewSimError(
		ErrCodeUnknownPolicy,
		op,
		fmt.Sprintf("unknown replacement policy %q (must be %s or %s)", policy, PolicyLRU, PolicyOptimal),
		nil,
	)
}

func ErrInvalidMemorySize(op string, totalMemory int) *SimError {
	return NewSimError(
		ErrCodeInvalidMemorySize,
		op,
		fmt.Sprintf("total memory must be at least 1 unit, got %d", totalMemory),
		nil,
	)
}

func ErrInvalidBlockSize(op string, blockSize int) *SimError {
	return NewSimError(
		ErrCodeInvalidBlockSize,
		op,
		fmt.Sprintf("block size must be at least 1 unit, got %d", blockSize),
		nil,
	)
}

func ErrNegativeCount(op, name string, value int) *SimError {
	return NewSimError(
		ErrCodeNegativeCount,
		op,
		fmt.Sprintf("%s must be non-negative, got %d", name, value),
		nil,
	)
}

func ErrNilRandSource(op string) *SimError {
	return NewSimError(
		ErrCodeNilRandSource,
		op,
		"random source must not be nil",
		nil,
	)
}

func ErrInvalidSequence(op string, err error) *SimError {
	return NewSimError(
		ErrCodeInvalidSequence,
		op,
		"invalid page reference sequence",
		err,
	)
}

func ErrTraceCorrupted(op, detail string) *SimError {
	return NewSimError(
		ErrCodeTraceCorrupted,
		op,
		detail,
		nil,
	)
}

func ErrUnknownCompression(op, name string) *SimError {
	return NewSimError(
		ErrCodeUnknownCompression,
		op,
		fmt.Sprintf("unknown compression %q (must be none, lz4 or snappy)", name),
		nil,
	)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	if se, ok := err.(*SimError); ok {
		return se.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	if se, ok := err.(*SimError); ok {
		return se.Code
	}
	return ErrCodeUnknown
}
