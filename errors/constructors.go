package errors

import (
	"fmt"
)

// EmptyHistory creates an error for an undo with nothing to undo
func EmptyHistory(key string) *StoreError {
	return New(ErrCodeEmptyHistory, fmt.Sprintf("nothing to undo for '%s'", key)).
		WithDetail("key", key)
}

// EmptyFuture creates an error for a redo with nothing to redo
func EmptyFuture(key string) *StoreError {
	return New(ErrCodeEmptyFuture, fmt.Sprintf("nothing to redo for '%s'", key)).
		WithDetail("key", key)
}

// UnknownKey creates an error for a key that was never created or tracked
func UnknownKey(key string) *StoreError {
	return New(ErrCodeUnknownKey, fmt.Sprintf("key '%s' is not tracked", key)).
		WithDetail("key", key)
}

// HistoryDisabled creates an error for undo/redo on a store without history
func HistoryDisabled(key string) *StoreError {
	return New(ErrCodeHistoryDisabled, "history is disabled for this store").
		WithDetail("key", key)
}

// Reentrant creates an error for an undo/redo issued while another one is replaying
func Reentrant(op, key string) *StoreError {
	return New(ErrCodeReentrant, fmt.Sprintf("%s('%s') called while history is busy", op, key)).
		WithDetail("operation", op).
		WithDetail("key", key)
}

// InvalidChange creates an error for a change event that cannot be reverted
func InvalidChange(reason string) *StoreError {
	return New(ErrCodeInvalidChange, fmt.Sprintf("cannot revert change: %s", reason))
}

// InvalidTopLevelValue creates an error for a non-container value at the top level
func InvalidTopLevelValue(key string, value interface{}) *StoreError {
	return New(ErrCodeInvalidTopLevelValue,
		fmt.Sprintf("value for '%s' must be a list or an object, got %T", key, value)).
		WithDetail("key", key).
		WithDetail("type", fmt.Sprintf("%T", value))
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *StoreError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *StoreError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// StorageWrite wraps a persistence write failure
func StorageWrite(dest string, err error) *StoreError {
	return Wrap(err, ErrCodeStorageWrite, fmt.Sprintf("failed to write '%s'", dest)).
		WithDetail("dest", dest)
}

// StorageRead wraps a persistence read failure
func StorageRead(source string, err error) *StoreError {
	return Wrap(err, ErrCodeStorageRead, fmt.Sprintf("failed to read '%s'", source)).
		WithDetail("source", source)
}
